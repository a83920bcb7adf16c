package models

import "testing"

func TestRiskScoreWeightsAndCap(t *testing.T) {
	tests := []struct {
		name       string
		severities []SeverityLevel
		want       int
	}{
		{"none", nil, 0},
		{"one of each", []SeverityLevel{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}, 52},
		{"unknown ignored", []SeverityLevel{SeverityUnknown, SeverityLow}, 3},
		{"capped", []SeverityLevel{SeverityCritical, SeverityCritical, SeverityCritical, SeverityCritical, SeverityInfo}, 100},
		{"exactly 100", []SeverityLevel{SeverityCritical, SeverityCritical, SeverityCritical, SeverityCritical}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vulns := make([]Vulnerability, len(tt.severities))
			for i, s := range tt.severities {
				vulns[i] = Vulnerability{Severity: s}
			}
			if got := RiskScore(vulns); got != tt.want {
				t.Errorf("RiskScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMapSeverity(t *testing.T) {
	for raw, want := range map[string]SeverityLevel{
		"critical": SeverityCritical,
		" High ":   SeverityHigh,
		"warning":  SeverityMedium,
		"low":      SeverityLow,
		"info":     SeverityInfo,
		"bogus":    SeverityUnknown,
	} {
		if got := MapSeverity(raw); got != want {
			t.Errorf("MapSeverity(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestReportHelpers(t *testing.T) {
	r := SecurityReport{Vulnerabilities: []Vulnerability{
		{Severity: SeverityLow}, {Severity: SeverityHigh}, {Severity: SeverityLow},
	}}
	counts := r.SeverityCounts()
	if counts[SeverityLow] != 2 || counts[SeverityHigh] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if r.HighestSeverity() != SeverityHigh {
		t.Fatalf("highest = %s", r.HighestSeverity())
	}
	if (&SecurityReport{}).HighestSeverity() != SeverityUnknown {
		t.Fatal("empty report should have unknown highest severity")
	}
}
