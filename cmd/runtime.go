package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/database"
)

// openDatabase opens the configured store and applies migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (database.DB, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// loadCatalog returns the bundled catalog plus any articles from the
// configured directory.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	home, _ := os.UserHomeDir()
	cat, err := catalog.Load(userArticlesDir(cfg.Catalog.ArticlesDir, home))
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

// userArticlesDir drops the default articles directory when it was never
// created. A configured directory that is missing is kept so the catalog
// reports it.
func userArticlesDir(dir, home string) string {
	if home == "" || dir != filepath.Join(home, config.DefaultArticlesDir) {
		return dir
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return dir
}
