package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/models"
)

type capture struct {
	mu     sync.Mutex
	bodies [][]byte
	sigs   []string
}

func (c *capture) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, b)
		c.sigs = append(c.sigs, r.Header.Get(SignatureHeader))
		c.mu.Unlock()
		w.WriteHeader(status)
	}
}

func report(sev models.SeverityLevel) *models.SecurityReport {
	vulns := []models.Vulnerability{{ID: "x-1", Name: "X", Severity: sev}}
	return &models.SecurityReport{ID: "r-1", FileName: "Vault.sol", Vulnerabilities: vulns, RiskScore: models.RiskScore(vulns)}
}

func TestWebhookSignsPayload(t *testing.T) {
	var c capture
	srv := httptest.NewServer(c.handler(http.StatusOK))
	defer srv.Close()

	d := NewDispatcher(config.NotifyConfig{
		MinSeverity: "high",
		Webhook:     config.WebhookNotifyConfig{URL: srv.URL, Secret: "s3cret"},
	})
	if got := d.Channels(); len(got) != 1 || got[0] != "webhook" {
		t.Fatalf("channels = %v", got)
	}
	if !d.ScanCompleted(context.Background(), report(models.SeverityCritical)) {
		t.Fatal("critical finding should notify at min high")
	}

	if len(c.bodies) != 1 {
		t.Fatalf("got %d requests, want 1", len(c.bodies))
	}
	if c.sigs[0] != "sha256="+Sign("s3cret", c.bodies[0]) {
		t.Fatalf("bad signature %q", c.sigs[0])
	}
	var payload map[string]any
	if err := json.Unmarshal(c.bodies[0], &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["type"] != EventRiskyScan || payload["severity"] != "CRITICAL" || payload["report_id"] != "r-1" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestSeverityThreshold(t *testing.T) {
	var c capture
	srv := httptest.NewServer(c.handler(http.StatusOK))
	defer srv.Close()

	tests := []struct {
		min  string
		sev  models.SeverityLevel
		want bool
	}{
		{"", models.SeverityCritical, true},
		{"", models.SeverityHigh, false},
		{"medium", models.SeverityMedium, true},
		{"medium", models.SeverityLow, false},
		{"low", models.SeverityInfo, false},
		{"bogus", models.SeverityHigh, false},
	}
	for _, tt := range tests {
		d := NewDispatcher(config.NotifyConfig{MinSeverity: tt.min, Slack: config.SlackNotifyConfig{WebhookURL: srv.URL}})
		if got := d.ScanCompleted(context.Background(), report(tt.sev)); got != tt.want {
			t.Errorf("min=%q sev=%s: notified=%v, want %v", tt.min, tt.sev, got, tt.want)
		}
	}
}

func TestSendErrorsAreSwallowed(t *testing.T) {
	var c capture
	srv := httptest.NewServer(c.handler(http.StatusInternalServerError))
	defer srv.Close()

	d := NewDispatcher(config.NotifyConfig{Slack: config.SlackNotifyConfig{WebhookURL: srv.URL}})
	if !d.ScanCompleted(context.Background(), report(models.SeverityCritical)) {
		t.Fatal("expected notify attempt")
	}
	if len(c.bodies) != 1 {
		t.Fatalf("got %d requests", len(c.bodies))
	}
}

func TestNoChannelsConfigured(t *testing.T) {
	d := NewDispatcher(config.NotifyConfig{})
	if d.IsAnyConfigured() || d.ScanCompleted(context.Background(), report(models.SeverityCritical)) {
		t.Fatal("nothing should be sent without channels")
	}
}
