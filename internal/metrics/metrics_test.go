package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/models"
)

func TestCollectorExposesCounters(t *testing.T) {
	c := New()
	c.CommandDispatched("scan")
	c.CommandDispatched("scan")
	c.CommandDispatched("help")
	c.ScanCompleted(&models.SecurityReport{Vulnerabilities: []models.Vulnerability{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityHigh},
	}}, 250*time.Millisecond)
	c.ScanFailed()

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		`rekt_commands_total{command="scan"} 2`,
		`rekt_commands_total{command="help"} 1`,
		`rekt_scans_total{outcome="ok"} 1`,
		`rekt_scans_total{outcome="failed"} 1`,
		`rekt_scan_findings{severity="HIGH"} 2`,
		`rekt_scan_duration_seconds_count 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
