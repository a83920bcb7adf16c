package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// bundledMigrations returns the embedded migrations rooted at their directory.
func bundledMigrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err) // static embed path
	}
	return sub
}

// migrationNames lists the *.sql files of a migration set in apply order.
func migrationNames(files fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// migrationRunner applies migration files not yet recorded in
// schema_migrations. Statements are executed one at a time so drivers
// without multi-statement support work too.
type migrationRunner struct {
	driver string
	files  fs.FS
	// adapt rewrites a file for the target dialect.
	adapt func(string) string
	// transactional applies each file and its schema_migrations row in one
	// transaction. MySQL commits DDL implicitly, so it runs without one.
	transactional bool
}

func (m migrationRunner) run(ctx context.Context, db *sql.DB) error {
	names, err := migrationNames(m.files)
	if err != nil {
		return err
	}

	for _, name := range names {
		var count int
		row := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE filename = ?`, name)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("checking migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := fs.ReadFile(m.files, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		script := string(data)
		if m.adapt != nil {
			script = m.adapt(script)
		}

		if err := m.apply(ctx, db, name, script); err != nil {
			return err
		}
		slog.Info("Applied migration", "file", name, "driver", m.driver)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (m migrationRunner) apply(ctx context.Context, db *sql.DB, name, script string) error {
	var (
		exec execer = db
		tx   *sql.Tx
	)
	if m.transactional {
		var err error
		if tx, err = db.BeginTx(ctx, nil); err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		defer func() { _ = tx.Rollback() }()
		exec = tx
	}

	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration %s: %w\nSQL: %s", name, err, stmt)
		}
	}

	_, err := exec.ExecContext(ctx,
		`INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording migration %s: %w", name, err)
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}
	return nil
}
