// Package history persists scan reports so the dashboard and gateway can
// list them after the fact.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/database"
	"github.com/CosmoTheDev/rekt-terminal/models"
)

// Sources recorded alongside each report.
const (
	SourceTerminal = "terminal"
	SourceAnalyze  = "analyze"
	SourceAudit    = "audit"
	SourceGateway  = "gateway"
)

// ErrNotFound is returned by Get when no scan has the requested id.
var ErrNotFound = errors.New("scan not found")

// Recorder reads and writes scan_reports / scan_vulnerabilities.
type Recorder struct {
	db database.DB
}

func NewRecorder(db database.DB) *Recorder {
	return &Recorder{db: db}
}

// Save stores report and its findings, returning the scan row id.
func (r *Recorder) Save(ctx context.Context, report *models.SecurityReport, source string) (int64, error) {
	record := summarize(report, source)
	id, err := r.db.Insert(ctx, "scan_reports", record)
	if err != nil {
		return 0, fmt.Errorf("saving scan %s: %w", report.ID, err)
	}

	for _, v := range report.Vulnerabilities {
		finding := models.ScanFinding{
			ScanID:         id,
			FindingID:      v.ID,
			Name:           v.Name,
			Severity:       v.Severity,
			Description:    v.Description,
			LineNumber:     v.Line,
			ColumnNumber:   v.Column,
			Code:           v.Code,
			Recommendation: v.Recommendation,
			DetectedBy:     strings.Join(v.DetectedBy, ","),
		}
		if _, err := r.db.Insert(ctx, "scan_vulnerabilities", finding); err != nil {
			r.discard(ctx, id)
			return 0, fmt.Errorf("saving finding %s: %w", v.ID, err)
		}
	}

	slog.Debug("history: scan saved", "id", id, "file", report.FileName, "source", source, "findings", len(report.Vulnerabilities))
	return id, nil
}

// discard removes a partially written scan so a failed Save leaves no
// summary row without its findings.
func (r *Recorder) discard(ctx context.Context, id int64) {
	if err := r.db.Exec(ctx, `DELETE FROM scan_vulnerabilities WHERE scan_id = ?`, id); err != nil {
		slog.Warn("history: discarding partial findings", "id", id, "error", err)
	}
	if err := r.db.Exec(ctx, `DELETE FROM scan_reports WHERE id = ?`, id); err != nil {
		slog.Warn("history: discarding partial scan", "id", id, "error", err)
	}
}

// Recent returns up to limit scans, newest first. limit <= 0 means 20.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []models.ScanRecord
	err := r.db.Select(ctx, &out,
		`SELECT * FROM scan_reports ORDER BY scanned_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return out, nil
}

// Get returns one scan summary by row id.
func (r *Recorder) Get(ctx context.Context, id int64) (*models.ScanRecord, error) {
	var rec models.ScanRecord
	err := r.db.Get(ctx, &rec, `SELECT * FROM scan_reports WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading scan %d: %w", id, err)
	}
	return &rec, nil
}

// Findings returns the stored findings of a scan in line order.
func (r *Recorder) Findings(ctx context.Context, scanID int64) ([]models.ScanFinding, error) {
	var out []models.ScanFinding
	err := r.db.Select(ctx, &out,
		`SELECT * FROM scan_vulnerabilities WHERE scan_id = ? ORDER BY line_number, id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("listing findings for scan %d: %w", scanID, err)
	}
	return out, nil
}

// Totals sums findings per severity across every stored scan.
type Totals struct {
	Scans    int `json:"scans"    db:"scans"`
	Critical int `json:"critical" db:"critical"`
	High     int `json:"high"     db:"high"`
	Medium   int `json:"medium"   db:"medium"`
	Low      int `json:"low"      db:"low"`
	Info     int `json:"info"     db:"info"`
}

func (r *Recorder) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.db.Get(ctx, &t, `SELECT
		COUNT(*)                            AS scans,
		COALESCE(SUM(findings_critical), 0) AS critical,
		COALESCE(SUM(findings_high), 0)     AS high,
		COALESCE(SUM(findings_medium), 0)   AS medium,
		COALESCE(SUM(findings_low), 0)      AS low,
		COALESCE(SUM(findings_info), 0)     AS info
	FROM scan_reports`)
	if err != nil {
		return Totals{}, fmt.Errorf("summing scans: %w", err)
	}
	return t, nil
}

func summarize(report *models.SecurityReport, source string) models.ScanRecord {
	counts := report.SeverityCounts()
	names := make([]string, len(report.Partners))
	for i, p := range report.Partners {
		names[i] = p.Name
	}
	scannedAt := report.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}
	return models.ScanRecord{
		ReportID:         report.ID,
		FileName:         report.FileName,
		Source:           source,
		RiskScore:        report.RiskScore,
		LineCount:        report.LineCount,
		FindingsCritical: counts[models.SeverityCritical],
		FindingsHigh:     counts[models.SeverityHigh],
		FindingsMedium:   counts[models.SeverityMedium],
		FindingsLow:      counts[models.SeverityLow],
		FindingsInfo:     counts[models.SeverityInfo],
		Partners:         strings.Join(names, ","),
		ScannedAt:        scannedAt.UTC(),
	}
}
