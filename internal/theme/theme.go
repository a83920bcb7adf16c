// Package theme holds the presentation theme preference and its storage.
package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/database"
)

// Theme is one of the three supported colour schemes.
type Theme string

const (
	Dark   Theme = "dark"
	Light  Theme = "light"
	Matrix Theme = "matrix"
)

// All lists themes in cycle order.
var All = []Theme{Dark, Light, Matrix}

// ErrInvalidTheme is returned by Parse for unknown names.
var ErrInvalidTheme = errors.New("invalid theme")

// Parse normalises name and validates it.
func Parse(name string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range All {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q (want dark, light or matrix)", ErrInvalidTheme, name)
}

// Next returns the theme after t in cycle order, wrapping around.
// Unknown themes cycle to Dark.
func (t Theme) Next() Theme {
	for i, known := range All {
		if t == known {
			return All[(i+1)%len(All)]
		}
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

const prefKey = "theme"

type preference struct {
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store persists the theme in the preferences table.
type Store struct {
	db       database.DB
	fallback Theme
}

// NewStore returns a Store that reports fallback until a theme is saved.
// An invalid fallback is replaced by Dark.
func NewStore(db database.DB, fallback string) *Store {
	t, err := Parse(fallback)
	if err != nil {
		t = Dark
	}
	return &Store{db: db, fallback: t}
}

// Load returns the saved theme. Missing or invalid values yield the fallback.
func (s *Store) Load(ctx context.Context) (Theme, error) {
	var p preference
	err := s.db.Get(ctx, &p, `SELECT name, value, updated_at FROM preferences WHERE name = ?`, prefKey)
	if errors.Is(err, sql.ErrNoRows) {
		return s.fallback, nil
	}
	if err != nil {
		return s.fallback, fmt.Errorf("loading theme: %w", err)
	}
	t, err := Parse(p.Value)
	if err != nil {
		slog.Warn("theme: ignoring stored value", "value", p.Value)
		return s.fallback, nil
	}
	return t, nil
}

// Save writes t, replacing any previous value.
func (s *Store) Save(ctx context.Context, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	p := preference{Name: prefKey, Value: string(t), UpdatedAt: time.Now().UTC()}
	if err := s.db.Upsert(ctx, "preferences", p, []string{"name"}); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}
