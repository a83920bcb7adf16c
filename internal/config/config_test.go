package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.Path != filepath.Join(home, DefaultDBFile) {
		t.Fatalf("db path = %q", cfg.Database.Path)
	}
	if cfg.Gateway.Port != DefaultGatewayPort || cfg.UI.DefaultTheme != "dark" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Scanner.DelayMS != 1500 || !cfg.Scanner.RandomFallback {
		t.Fatalf("unexpected scanner defaults %+v", cfg.Scanner)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "cfg", "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.UI.DefaultTheme = "matrix"
	cfg.Database.Path = "~/custom.db"
	cfg.Gateway.Port = 7000
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.UI.DefaultTheme != "matrix" || loaded.Gateway.Port != 7000 {
		t.Fatalf("values not persisted: %+v", loaded)
	}
	if loaded.Database.Path != filepath.Join(home, "custom.db") {
		t.Fatalf("home not expanded: %q", loaded.Database.Path)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{}
	cfg.Notify.Webhook.Secret = "s3cret"
	cfg.Database.DSN = "user:pass@/db"
	r := cfg.Redacted()
	if r.Notify.Webhook.Secret != "***" || r.Database.DSN != "***" {
		t.Fatalf("secrets not redacted: %+v", r)
	}
	if cfg.Notify.Webhook.Secret != "s3cret" {
		t.Fatal("Redacted mutated the original")
	}
}
