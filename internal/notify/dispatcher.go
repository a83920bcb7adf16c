package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/models"
)

// Dispatcher fans out events to all configured channels.
type Dispatcher struct {
	channels []Channel
	minSev   models.SeverityLevel
}

// NewDispatcher creates a Dispatcher from cfg. Only channels with
// IsConfigured() == true are active. An empty or unknown min_severity
// means critical.
func NewDispatcher(cfg config.NotifyConfig) *Dispatcher {
	return newDispatcher(cfg.MinSeverity, NewSlack(cfg.Slack), NewWebhook(cfg.Webhook))
}

func newDispatcher(minSeverity string, channels ...Channel) *Dispatcher {
	d := &Dispatcher{minSev: models.MapSeverity(minSeverity)}
	if !d.minSev.Valid() {
		d.minSev = models.SeverityCritical
	}
	for _, ch := range channels {
		if ch.IsConfigured() {
			d.channels = append(d.channels, ch)
		}
	}
	return d
}

// IsAnyConfigured returns true if at least one channel is ready to send.
func (d *Dispatcher) IsAnyConfigured() bool {
	return len(d.channels) > 0
}

// Channels returns the names of the active channels.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

// Notify sends evt to all configured channels. Errors are logged but never returned.
func (d *Dispatcher) Notify(ctx context.Context, evt Event) {
	for _, ch := range d.channels {
		if err := ch.Send(ctx, evt); err != nil {
			slog.Warn("notify: channel send failed", "channel", ch.Name(), "event", evt.Type, "error", err)
		}
	}
}

// ScanCompleted notifies when report contains a finding at or above the
// minimum severity. It reports whether an event was sent.
func (d *Dispatcher) ScanCompleted(ctx context.Context, report *models.SecurityReport) bool {
	if len(d.channels) == 0 {
		return false
	}
	top := report.HighestSeverity()
	if !top.Valid() || !top.IsAtLeast(d.minSev) {
		return false
	}
	counts := report.SeverityCounts()
	body := fmt.Sprintf("Risk score %d/100. %d critical, %d high, %d medium, %d low.",
		report.RiskScore, counts[models.SeverityCritical], counts[models.SeverityHigh],
		counts[models.SeverityMedium], counts[models.SeverityLow])
	d.Notify(ctx, Event{
		Type:      EventRiskyScan,
		Title:     fmt.Sprintf("%s finding in %s", top, report.FileName),
		Body:      body,
		Severity:  top,
		FileName:  report.FileName,
		ReportID:  report.ID,
		RiskScore: report.RiskScore,
	})
	return true
}
