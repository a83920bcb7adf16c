package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultConfigDir   = ".rekt"
	DefaultConfigFile  = "config.json"
	DefaultDBFile      = ".rekt/rekt.db"
	DefaultArticlesDir = ".rekt/articles"
	DefaultGatewayPort = 6090
)

// Load reads the config file (falling back to defaults if absent) and
// returns a populated Config. configPath may override the default location.
func Load(configPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("rekt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(home, DefaultConfigDir))
	}

	setDefaults(v, home)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			// Config file exists but is malformed.
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	expandPaths(&cfg, home)
	return &cfg, nil
}

// Save writes the config to disk as JSON.
func Save(cfg *Config, configPath string) error {
	path, err := ConfigPath(configPath)
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialising config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// ConfigPath returns the effective config file path.
func ConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Dir returns ~/.rekt, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	d := filepath.Join(home, DefaultConfigDir)
	if err := os.MkdirAll(d, 0o700); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", d, err)
	}
	return d, nil
}

// Redacted returns a copy of cfg with secrets masked.
func (c Config) Redacted() Config {
	if c.Notify.Slack.WebhookURL != "" {
		c.Notify.Slack.WebhookURL = "https://hooks.slack.com/***"
	}
	if c.Notify.Webhook.Secret != "" {
		c.Notify.Webhook.Secret = "***"
	}
	if c.Database.DSN != "" {
		c.Database.DSN = "***"
	}
	return c
}

// setDefaults populates viper with sensible out-of-the-box values.
func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", filepath.Join(home, DefaultDBFile))
	v.SetDefault("database.dsn", "")

	v.SetDefault("scanner.delay_ms", 1500)
	v.SetDefault("scanner.random_fallback", true)

	v.SetDefault("assistant.provider", "canned")
	v.SetDefault("assistant.delay_ms", 800)

	v.SetDefault("ui.default_theme", "dark")

	v.SetDefault("gateway.port", DefaultGatewayPort)
	v.SetDefault("gateway.rate_limit_rps", 5.0)
	v.SetDefault("gateway.rate_limit_burst", 10)
	v.SetDefault("gateway.feed_ticker", "@every 30s")

	v.SetDefault("notify.min_severity", "critical")

	v.SetDefault("catalog.articles_dir", filepath.Join(home, DefaultArticlesDir))
}

// expandPaths resolves ~ in configured paths.
func expandPaths(cfg *Config, home string) {
	cfg.Database.Path = expandHome(cfg.Database.Path, home)
	cfg.Catalog.ArticlesDir = expandHome(cfg.Catalog.ArticlesDir, home)
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file")
}
