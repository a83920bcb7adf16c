package models

import "time"

// ScanRecord is a persisted summary of a SecurityReport.
type ScanRecord struct {
	ID               int64     `json:"id"                db:"id"`
	ReportID         string    `json:"report_id"         db:"report_id"`
	FileName         string    `json:"file_name"         db:"file_name"`
	Source           string    `json:"source"            db:"source"` // terminal|analyze|audit|gateway
	RiskScore        int       `json:"risk_score"        db:"risk_score"`
	LineCount        int       `json:"line_count"        db:"line_count"`
	FindingsCritical int       `json:"findings_critical" db:"findings_critical"`
	FindingsHigh     int       `json:"findings_high"     db:"findings_high"`
	FindingsMedium   int       `json:"findings_medium"   db:"findings_medium"`
	FindingsLow      int       `json:"findings_low"      db:"findings_low"`
	FindingsInfo     int       `json:"findings_info"     db:"findings_info"`
	Partners         string    `json:"partners"          db:"partners"` // comma-separated partner names
	ScannedAt        time.Time `json:"scanned_at"        db:"scanned_at"`
}

// ScanFinding is a persisted Vulnerability belonging to a ScanRecord.
type ScanFinding struct {
	ID             int64         `json:"id"             db:"id"`
	ScanID         int64         `json:"scan_id"        db:"scan_id"`
	FindingID      string        `json:"finding_id"     db:"finding_id"`
	Name           string        `json:"name"           db:"name"`
	Severity       SeverityLevel `json:"severity"       db:"severity"`
	Description    string        `json:"description"    db:"description"`
	LineNumber     int           `json:"line_number"    db:"line_number"`
	ColumnNumber   int           `json:"column_number"  db:"column_number"`
	Code           string        `json:"code"           db:"code"`
	Recommendation string        `json:"recommendation" db:"recommendation"`
	DetectedBy     string        `json:"detected_by"    db:"detected_by"` // comma-separated
}

// Total returns the number of findings across all severities.
func (s ScanRecord) Total() int {
	return s.FindingsCritical + s.FindingsHigh + s.FindingsMedium + s.FindingsLow + s.FindingsInfo
}
