package config

// Config is the root configuration structure for rekt.
// Serialised to ~/.rekt/config.json.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"  json:"database"`
	Scanner   ScannerConfig   `mapstructure:"scanner"   json:"scanner"`
	Assistant AssistantConfig `mapstructure:"assistant" json:"assistant"`
	UI        UIConfig        `mapstructure:"ui"        json:"ui"`
	Gateway   GatewayConfig   `mapstructure:"gateway"   json:"gateway"`
	Notify    NotifyConfig    `mapstructure:"notify"    json:"notify"`
	Catalog   CatalogConfig   `mapstructure:"catalog"   json:"catalog"`
}

// DatabaseConfig controls the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "mysql".
	Driver string `mapstructure:"driver" json:"driver"`
	// Path is the SQLite file path (expanded at runtime).
	Path string `mapstructure:"path"   json:"path"`
	// DSN is the MySQL data source name (used when Driver == "mysql").
	DSN string `mapstructure:"dsn"    json:"dsn"`
}

// ScannerConfig controls the contract scanner.
type ScannerConfig struct {
	// DelayMS simulates analysis latency before a report is returned.
	DelayMS int `mapstructure:"delay_ms"        json:"delay_ms"`
	// RandomFallback places fallback findings on a random line; when false
	// they are reported on line 1.
	RandomFallback bool `mapstructure:"random_fallback" json:"random_fallback"`
}

// AssistantConfig controls the chat assistant.
type AssistantConfig struct {
	// Provider is "canned" (default) or "none".
	Provider string `mapstructure:"provider" json:"provider"`
	DelayMS  int    `mapstructure:"delay_ms" json:"delay_ms"`
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	// DefaultTheme is used until a preference has been saved.
	DefaultTheme string `mapstructure:"default_theme" json:"default_theme"`
}

// GatewayConfig controls the local HTTP gateway.
type GatewayConfig struct {
	// Port is the localhost HTTP port the gateway listens on (default: 6090).
	Port int `mapstructure:"port" json:"port"`
	// RateLimitRPS and RateLimitBurst bound command and scan requests.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"   json:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" json:"rate_limit_burst"`
	// FeedTicker is the cron expression for feed.tick events ("@every 30s").
	FeedTicker string `mapstructure:"feed_ticker" json:"feed_ticker"`
}

// NotifyConfig controls outbound notifications for risky scans.
type NotifyConfig struct {
	// MinSeverity is the lowest finding severity that triggers a
	// notification ("critical", "high", ...). Empty means critical.
	MinSeverity string              `mapstructure:"min_severity" json:"min_severity"`
	Slack       SlackNotifyConfig   `mapstructure:"slack"        json:"slack"`
	Webhook     WebhookNotifyConfig `mapstructure:"webhook"      json:"webhook"`
}

// SlackNotifyConfig configures the Slack incoming webhook channel.
type SlackNotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url" json:"webhook_url"`
}

// WebhookNotifyConfig configures the generic webhook channel.
type WebhookNotifyConfig struct {
	URL string `mapstructure:"url"    json:"url"`
	// Secret signs payloads with HMAC-SHA256 when set.
	Secret string `mapstructure:"secret" json:"secret"`
}

// CatalogConfig controls extra content.
type CatalogConfig struct {
	// ArticlesDir holds user markdown articles that extend the bundled ones.
	ArticlesDir string `mapstructure:"articles_dir" json:"articles_dir"`
}
