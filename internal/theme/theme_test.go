package theme

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/database"
)

func newStore(t *testing.T, fallback string) (*Store, database.DB) {
	t.Helper()
	db, err := database.NewSQLite(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "rekt.db")})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return NewStore(db, fallback), db
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"dark", Dark, false},
		{" Light ", Light, false},
		{"MATRIX", Matrix, false},
		{"solarized", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTheme) {
					t.Fatalf("err = %v, want ErrInvalidTheme", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("Parse(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestNextCycles(t *testing.T) {
	if Dark.Next() != Light || Light.Next() != Matrix || Matrix.Next() != Dark {
		t.Fatal("unexpected cycle order")
	}
	if Theme("bogus").Next() != Dark {
		t.Fatal("unknown theme should cycle to dark")
	}
}

func TestStoreFallbackThenSave(t *testing.T) {
	s, _ := newStore(t, "light")
	ctx := context.Background()

	got, err := s.Load(ctx)
	if err != nil || got != Light {
		t.Fatalf("Load = %q, %v; want light", got, err)
	}
	if err := s.Save(ctx, Matrix); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, Dark); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil || got != Dark {
		t.Fatalf("Load = %q, %v; want dark", got, err)
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	s, _ := newStore(t, "dark")
	if err := s.Save(context.Background(), Theme("neon")); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("err = %v, want ErrInvalidTheme", err)
	}
}

func TestStoreIgnoresCorruptValue(t *testing.T) {
	s, db := newStore(t, "matrix")
	ctx := context.Background()
	bad := preference{Name: prefKey, Value: "neon", UpdatedAt: time.Now().UTC()}
	if err := db.Upsert(ctx, "preferences", bad, []string{"name"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil || got != Matrix {
		t.Fatalf("Load = %q, %v; want matrix fallback", got, err)
	}
}
