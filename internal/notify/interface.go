package notify

import (
	"context"

	"github.com/CosmoTheDev/rekt-terminal/models"
)

// EventRiskyScan is sent when a scan reports a finding at or above the
// configured minimum severity.
const EventRiskyScan = "risky_scan"

// Event is one outbound notification.
type Event struct {
	Type      string
	Title     string
	Body      string
	Severity  models.SeverityLevel
	FileName  string
	ReportID  string
	RiskScore int
}

// Channel is implemented by each notification provider.
type Channel interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, evt Event) error
}
