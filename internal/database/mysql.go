package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/go-sql-driver/mysql"
)

// MySQLDB implements DB using MySQL via go-sql-driver/mysql.
type MySQLDB struct {
	db *sql.DB
}

// NewMySQL opens a MySQL connection using cfg.DSN.
func NewMySQL(cfg config.DatabaseConfig) (*MySQLDB, error) {
	dsn, err := mysqlDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	m := &MySQLDB{db: db}
	if err := m.Ping(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging mysql: %w", err)
	}
	return m, nil
}

// mysqlDSN validates raw and forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("mysql DSN is required when driver is mysql")
	}
	parsed, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("parsing mysql DSN: %w", err)
	}
	parsed.ParseTime = true
	return parsed.FormatDSN(), nil
}

func (m *MySQLDB) Driver() string { return "mysql" }

func (m *MySQLDB) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MySQLDB) Close() error {
	return m.db.Close()
}

// Migrate applies the embedded migrations, translated to MySQL syntax.
func (m *MySQLDB) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		id         INT          NOT NULL AUTO_INCREMENT PRIMARY KEY,
		filename   VARCHAR(255) NOT NULL UNIQUE,
		applied_at VARCHAR(64)  NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	return migrationRunner{driver: m.Driver(), files: bundledMigrations(), adapt: mysqlAdapt}.run(ctx, m.db)
}

func (m *MySQLDB) Select(ctx context.Context, dest any, query string, args ...any) error {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return scanAll(rows, dest)
}

func (m *MySQLDB) Get(ctx context.Context, dest any, query string, args ...any) error {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return scanOne(rows, dest)
}

func (m *MySQLDB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := m.db.ExecContext(ctx, query, args...)
	return err
}

func (m *MySQLDB) Insert(ctx context.Context, table string, record any) (int64, error) {
	cols, vals := columns(record)
	// nosemgrep: go.lang.security.audit.database.string-formatted-query.string-formatted-query
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))
	res, err := m.db.ExecContext(ctx, query, vals...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return res.LastInsertId()
}

// Upsert uses INSERT ... ON DUPLICATE KEY UPDATE.
func (m *MySQLDB) Upsert(ctx context.Context, table string, record any, conflictCols []string) error {
	cols, vals := columns(record)
	updates := without(cols, conflictCols)
	pairs := make([]string, len(updates))
	for i, c := range updates {
		pairs[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
	}

	// nosemgrep: go.lang.security.audit.database.string-formatted-query.string-formatted-query
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		table,
		strings.Join(cols, ", "),
		placeholders(len(cols)),
		strings.Join(pairs, ", "),
	)
	if _, err := m.db.ExecContext(ctx, query, vals...); err != nil {
		return fmt.Errorf("upsert into %s: %w", table, err)
	}
	return nil
}

// mysqlAdapt converts SQLite-specific DDL to MySQL equivalents.
func mysqlAdapt(script string) string {
	script = strings.ReplaceAll(script, "INTEGER PRIMARY KEY AUTOINCREMENT",
		"INT NOT NULL AUTO_INCREMENT PRIMARY KEY")
	script = strings.ReplaceAll(script, "AUTOINCREMENT", "AUTO_INCREMENT")
	script = strings.ReplaceAll(script, " REAL ", " DOUBLE ")
	script = strings.ReplaceAll(script, "CREATE INDEX IF NOT EXISTS", "CREATE INDEX")
	return script
}
