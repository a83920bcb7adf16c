package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/database"
	"github.com/CosmoTheDev/rekt-terminal/models"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	return NewRecorder(newTestDB(t))
}

func newTestDB(t *testing.T) database.DB {
	t.Helper()
	db, err := database.NewSQLite(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "rekt.db")})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// failingFindingsDB fails every finding insert after the first allowed ones.
type failingFindingsDB struct {
	database.DB
	allowed int
	seen    int
}

func (f *failingFindingsDB) Insert(ctx context.Context, table string, record any) (int64, error) {
	if table == "scan_vulnerabilities" {
		f.seen++
		if f.seen > f.allowed {
			return 0, errors.New("disk I/O error")
		}
	}
	return f.DB.Insert(ctx, table, record)
}

func sampleReport(id string, at time.Time) *models.SecurityReport {
	vulns := []models.Vulnerability{
		{ID: "reentrancy-3", Name: "Reentrancy", Severity: models.SeverityCritical, Line: 3, Column: 9, Code: "msg.sender.call{value: x}(\"\");", DetectedBy: []string{"CertiK", "Trail of Bits"}},
		{ID: "tx-origin-1", Name: "tx.origin Authentication", Severity: models.SeverityHigh, Line: 1, Column: 5, Code: "tx.origin", DetectedBy: []string{"CertiK"}},
	}
	return &models.SecurityReport{
		ID:              id,
		FileName:        "Vault.sol",
		Vulnerabilities: vulns,
		RiskScore:       models.RiskScore(vulns),
		Partners:        []models.SecurityPartner{{ID: "certik", Name: "CertiK"}, {ID: "trailofbits", Name: "Trail of Bits"}},
		LineCount:       12,
		ScannedAt:       at,
	}
}

func TestSaveAndGet(t *testing.T) {
	r := newRecorder(t)
	ctx := context.Background()

	id, err := r.Save(ctx, sampleReport("r-1", time.Now()), SourceAnalyze)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := r.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.ReportID != "r-1" || rec.Source != SourceAnalyze || rec.RiskScore != 40 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.FindingsCritical != 1 || rec.FindingsHigh != 1 || rec.Total() != 2 {
		t.Fatalf("unexpected counts %+v", rec)
	}
	if rec.Partners != "CertiK,Trail of Bits" {
		t.Fatalf("partners = %q", rec.Partners)
	}

	findings, err := r.Findings(ctx, id)
	if err != nil {
		t.Fatalf("Findings: %v", err)
	}
	if len(findings) != 2 || findings[0].LineNumber != 1 || findings[1].DetectedBy != "CertiK,Trail of Bits" {
		t.Fatalf("unexpected findings %+v", findings)
	}
}

func TestGetMissing(t *testing.T) {
	r := newRecorder(t)
	if _, err := r.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRecentNewestFirstAndTotals(t *testing.T) {
	r := newRecorder(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		if _, err := r.Save(ctx, sampleReport(id, base.Add(time.Duration(i)*time.Minute)), SourceTerminal); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	recent, err := r.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ReportID != "new" || recent[1].ReportID != "mid" {
		t.Fatalf("unexpected order %+v", recent)
	}

	totals, err := r.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Scans != 3 || totals.Critical != 3 || totals.High != 3 || totals.Medium != 0 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestSaveDiscardsPartialScan(t *testing.T) {
	db := newTestDB(t)
	r := NewRecorder(&failingFindingsDB{DB: db, allowed: 1})
	ctx := context.Background()

	id, err := r.Save(ctx, sampleReport("partial", time.Now()), SourceAnalyze)
	if err == nil {
		t.Fatal("expected Save to fail")
	}
	if id != 0 {
		t.Fatalf("id = %d, want 0 on failure", id)
	}

	recent, err := r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("scan rows left behind: %+v", recent)
	}
	var rows []models.ScanFinding
	if err := db.Select(ctx, &rows, `SELECT * FROM scan_vulnerabilities`); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("finding rows left behind: %+v", rows)
	}
}
