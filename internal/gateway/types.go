package gateway

import "github.com/CosmoTheDev/rekt-terminal/internal/history"

// SSE event types.
const (
	EventConnected     = "connected"
	EventStarted       = "gateway.started"
	EventScanCompleted = "scan.completed"
	EventFeedTick      = "feed.tick"
	EventThemeChanged  = "theme.changed"
)

// SSEEvent is serialised as JSON and pushed over the GET /events SSE stream.
type SSEEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Status is a live snapshot of the gateway.
type Status struct {
	Running        bool           `json:"running"`
	UptimeSeconds  int64          `json:"uptime_seconds"`
	Sessions       int            `json:"sessions"`
	Subscribers    int            `json:"subscribers"`
	Theme          string         `json:"theme"`
	Assistant      string         `json:"assistant"`
	NotifyChannels []string       `json:"notify_channels"`
	Scans          history.Totals `json:"scans"`
}

type commandRequest struct {
	Input string `json:"input"`
}

type scanRequest struct {
	FileName string `json:"file_name"`
	Code     string `json:"code"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}
