package database

import (
	"context"
	"fmt"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
)

// DB is the storage interface shared by the theme store and scan history.
// Implementations exist for SQLite (default) and MySQL.
type DB interface {
	// Select executes a query and scans rows into dest (pointer to a slice of structs).
	Select(ctx context.Context, dest any, query string, args ...any) error

	// Get executes a query expected to return a single row and scans it into dest.
	// Returns sql.ErrNoRows when nothing matches.
	Get(ctx context.Context, dest any, query string, args ...any) error

	// Exec executes a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) error

	// Insert inserts a db-tagged record into table and returns the new row ID.
	Insert(ctx context.Context, table string, record any) (int64, error)

	// Upsert inserts record, updating non-key columns when conflictCols collide.
	Upsert(ctx context.Context, table string, record any, conflictCols []string) error

	// Migrate applies pending schema migrations in order.
	Migrate(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error

	// Driver returns the backend name: "sqlite" or "mysql".
	Driver() string
}

// New returns a DB implementation matching cfg.Driver.
// SQLite is the default when driver is empty.
func New(cfg config.DatabaseConfig) (DB, error) {
	switch cfg.Driver {
	case "mysql":
		return NewMySQL(cfg)
	case "sqlite", "sqlite3", "":
		return NewSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (supported: sqlite, mysql)", cfg.Driver)
	}
}
