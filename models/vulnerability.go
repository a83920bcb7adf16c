package models

import "time"

// Vulnerability is a single finding produced by a rule match.
type Vulnerability struct {
	ID             string        `json:"id"                       yaml:"id"`
	Name           string        `json:"name"                     yaml:"name"`
	Severity       SeverityLevel `json:"severity"                 yaml:"severity"`
	Description    string        `json:"description"              yaml:"description"`
	Line           int           `json:"line,omitempty"           yaml:"line,omitempty"`
	Column         int           `json:"column,omitempty"         yaml:"column,omitempty"`
	Code           string        `json:"code,omitempty"           yaml:"code,omitempty"`
	Recommendation string        `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	References     []string      `json:"references,omitempty"     yaml:"references,omitempty"`
	DetectedBy     []string      `json:"detected_by"              yaml:"detected_by"`
}

// SecurityPartner is a static registry entry for an auditing partner.
// APIEndpoint is informational; nothing calls it.
type SecurityPartner struct {
	ID          string `json:"id"                     yaml:"id"`
	Name        string `json:"name"                   yaml:"name"`
	Description string `json:"description"            yaml:"description"`
	Specialty   string `json:"specialty"              yaml:"specialty"`
	APIEndpoint string `json:"api_endpoint,omitempty" yaml:"api_endpoint,omitempty"`
}

// SecurityReport is the result of one scan invocation.
type SecurityReport struct {
	ID              string            `json:"id"              yaml:"id"`
	FileName        string            `json:"file_name"       yaml:"file_name"`
	Vulnerabilities []Vulnerability   `json:"vulnerabilities" yaml:"vulnerabilities"`
	RiskScore       int               `json:"risk_score"      yaml:"risk_score"`
	Partners        []SecurityPartner `json:"partners"        yaml:"partners"`
	LineCount       int               `json:"line_count"      yaml:"line_count"`
	ScannedAt       time.Time         `json:"scanned_at"      yaml:"scanned_at"`
}

// SeverityCounts tallies the report's findings per severity.
func (r *SecurityReport) SeverityCounts() map[SeverityLevel]int {
	counts := make(map[SeverityLevel]int, len(Severities))
	for _, v := range r.Vulnerabilities {
		counts[v.Severity]++
	}
	return counts
}

// HighestSeverity returns the most severe level present, or SeverityUnknown
// when the report has no findings.
func (r *SecurityReport) HighestSeverity() SeverityLevel {
	best := SeverityUnknown
	for _, v := range r.Vulnerabilities {
		if v.Severity.Weight() > best.Weight() {
			best = v.Severity
		}
	}
	return best
}

// RiskScore computes min(100, sum of severity risk weights).
func RiskScore(vulns []Vulnerability) int {
	total := 0
	for _, v := range vulns {
		total += v.Severity.RiskWeight()
	}
	if total > MaxRiskScore {
		return MaxRiskScore
	}
	return total
}
