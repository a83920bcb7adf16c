package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
)

type prefRow struct {
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLite(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "rekt.db")})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var rows []struct {
		Filename string `db:"filename"`
	}
	if err := db.Select(context.Background(), &rows, `SELECT filename FROM schema_migrations`); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0].Filename != "001_init.sql" {
		t.Fatalf("unexpected migrations %+v", rows)
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := db.Upsert(ctx, "preferences", prefRow{Name: "theme", Value: "dark", UpdatedAt: now}, []string{"name"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := db.Upsert(ctx, "preferences", prefRow{Name: "theme", Value: "matrix", UpdatedAt: now}, []string{"name"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	var got prefRow
	if err := db.Get(ctx, &got, `SELECT name, value, updated_at FROM preferences WHERE name = ?`, "theme"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != "matrix" {
		t.Fatalf("value = %q, want matrix", got.Value)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, now)
	}
}

func TestGetNoRows(t *testing.T) {
	db := newTestDB(t)
	var got prefRow
	err := db.Get(context.Background(), &got, `SELECT name, value, updated_at FROM preferences WHERE name = ?`, "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(config.DatabaseConfig{Driver: "postgres"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMySQLAdaptAndDSN(t *testing.T) {
	got := mysqlAdapt("id INTEGER PRIMARY KEY AUTOINCREMENT,")
	if !strings.Contains(got, "INT NOT NULL AUTO_INCREMENT PRIMARY KEY") {
		t.Fatalf("mysqlAdapt = %q", got)
	}
	if got := mysqlAdapt("CREATE INDEX IF NOT EXISTS idx ON t (c)"); got != "CREATE INDEX idx ON t (c)" {
		t.Fatalf("mysqlAdapt index = %q", got)
	}
	dsn, err := mysqlDSN("user:pw@tcp(localhost:3306)/rekt")
	if err != nil {
		t.Fatalf("mysqlDSN: %v", err)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("dsn = %q, want parseTime", dsn)
	}
	if _, err := mysqlDSN(""); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	files := fstest.MapFS{
		"002_extra.sql": {Data: []byte("CREATE TABLE extra (id INTEGER PRIMARY KEY);\nCREATE TABLE broken (;")},
	}
	runner := migrationRunner{driver: "sqlite", files: files, transactional: true}
	if err := runner.run(ctx, db.db); err == nil {
		t.Fatal("expected the broken migration to fail")
	}

	var tables []struct {
		Name string `db:"name"`
	}
	if err := db.Select(ctx, &tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'extra'`); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(tables) != 0 {
		t.Fatal("table from the failed migration was left behind")
	}

	files["002_extra.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE extra (id INTEGER PRIMARY KEY);\nCREATE INDEX IF NOT EXISTS idx_extra ON extra (id);")}
	if err := runner.run(ctx, db.db); err != nil {
		t.Fatalf("retry after fixing the migration: %v", err)
	}
	var applied []struct {
		Filename string `db:"filename"`
	}
	if err := db.Select(ctx, &applied, `SELECT filename FROM schema_migrations ORDER BY filename`); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(applied) != 2 || applied[1].Filename != "002_extra.sql" {
		t.Fatalf("unexpected migrations %+v", applied)
	}
}
