package models

import "strings"

// SeverityLevel represents the severity of a security finding.
type SeverityLevel string

const (
	SeverityCritical SeverityLevel = "CRITICAL"
	SeverityHigh     SeverityLevel = "HIGH"
	SeverityMedium   SeverityLevel = "MEDIUM"
	SeverityLow      SeverityLevel = "LOW"
	SeverityInfo     SeverityLevel = "INFO"
	SeverityUnknown  SeverityLevel = "UNKNOWN"
)

// Severities lists the known levels, most severe first.
var Severities = []SeverityLevel{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// MaxRiskScore caps the aggregate report score.
const MaxRiskScore = 100

// Weight returns a numeric weight for sorting (higher = more severe).
func (s SeverityLevel) Weight() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// RiskWeight is the contribution of one finding of this severity to a
// report's risk score.
func (s SeverityLevel) RiskWeight() int {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 8
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// IsAtLeast reports whether s is as severe as min or more.
func (s SeverityLevel) IsAtLeast(min SeverityLevel) bool {
	return s.Weight() >= min.Weight()
}

// Valid reports whether s is one of the known levels.
func (s SeverityLevel) Valid() bool {
	return s.Weight() > 0
}

func (s SeverityLevel) String() string {
	return string(s)
}

// MapSeverity normalises severity strings to SeverityLevel.
func MapSeverity(raw string) SeverityLevel {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CRITICAL", "CRIT":
		return SeverityCritical
	case "HIGH", "ERROR":
		return SeverityHigh
	case "MEDIUM", "MODERATE", "WARNING":
		return SeverityMedium
	case "LOW":
		return SeverityLow
	case "INFO", "INFORMATIONAL", "NOTE":
		return SeverityInfo
	default:
		return SeverityUnknown
	}
}
