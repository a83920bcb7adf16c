// Package scanner implements the rule-based contract vulnerability scanner.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/google/uuid"
)

// acceptedExtensions are advisory; content is never validated against them.
var acceptedExtensions = map[string]bool{
	".sol":  true,
	".vy":   true,
	".js":   true,
	".ts":   true,
	".json": true,
}

// contractExtensions are the files ScanTree picks up.
var contractExtensions = map[string]bool{
	".sol": true,
	".vy":  true,
}

// LineChooser picks the 1-based line used for fallback findings.
// lineCount may be zero.
type LineChooser func(lineCount int) int

// RandomLine is the default LineChooser.
func RandomLine(lineCount int) int {
	if lineCount < 1 {
		return 1
	}
	return rand.IntN(lineCount) + 1
}

// FirstLine always reports line 1.
func FirstLine(int) int { return 1 }

// Options configures a Scanner. Zero values select the defaults.
type Options struct {
	// Rules overrides the built-in rule table.
	Rules []Rule
	// Partners overrides the static partner registry.
	Partners []models.SecurityPartner
	// Delay simulates asynchronous analysis before the report is returned.
	Delay time.Duration
	// ChooseLine places fallback findings. Defaults to RandomLine.
	ChooseLine LineChooser
	// OnScanCompleted is invoked after every successful scan.
	OnScanCompleted func(report *models.SecurityReport, elapsed time.Duration)
	// Now overrides the report timestamp clock.
	Now func() time.Time
}

// OptionsFromConfig maps the scanner config section onto Options.
func OptionsFromConfig(cfg config.ScannerConfig) Options {
	opts := Options{Delay: time.Duration(cfg.DelayMS) * time.Millisecond}
	if !cfg.RandomFallback {
		opts.ChooseLine = FirstLine
	}
	return opts
}

// Scanner matches source lines against a fixed rule table.
type Scanner struct {
	rules      []Rule
	partners   []models.SecurityPartner
	delay      time.Duration
	chooseLine LineChooser
	onComplete func(*models.SecurityReport, time.Duration)
	now        func() time.Time
}

// New creates a Scanner from opts.
func New(opts Options) *Scanner {
	s := &Scanner{
		rules:      opts.Rules,
		partners:   opts.Partners,
		delay:      opts.Delay,
		chooseLine: opts.ChooseLine,
		onComplete: opts.OnScanCompleted,
		now:        opts.Now,
	}
	if len(s.rules) == 0 {
		s.rules = DefaultRules()
	}
	if len(s.partners) == 0 {
		s.partners = Partners()
	}
	if s.chooseLine == nil {
		s.chooseLine = RandomLine
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Rules returns the active rule table.
func (s *Scanner) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Scan produces a SecurityReport for code. The configured delay is applied
// before returning; cancelling ctx during it aborts the scan.
func (s *Scanner) Scan(ctx context.Context, code, fileName string) (*models.SecurityReport, error) {
	start := time.Now()
	lines := splitLines(code)

	vulns := make([]models.Vulnerability, 0)
	for i, text := range lines {
		for _, rule := range s.rules {
			loc := rule.Pattern.FindStringIndex(text)
			if loc == nil {
				continue
			}
			vulns = append(vulns, rule.finding(i+1, loc[0]+1, text))
		}
	}

	if len(vulns) == 0 {
		line := s.chooseLine(len(lines))
		if line < 1 || (len(lines) > 0 && line > len(lines)) {
			line = 1
		}
		vulns = fallbackFindings(line)
		slog.Debug("scanner: no rule matched, using fallback findings", "file", fileName, "line", line)
	}

	report := &models.SecurityReport{
		ID:              uuid.NewString(),
		FileName:        fileName,
		Vulnerabilities: vulns,
		RiskScore:       models.RiskScore(vulns),
		Partners:        partnersFor(s.partners, vulns),
		LineCount:       len(lines),
		ScannedAt:       s.now(),
	}

	if err := sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	if s.onComplete != nil {
		s.onComplete(report, time.Since(start))
	}
	slog.Debug("scanner: scan complete",
		"file", fileName,
		"lines", len(lines),
		"findings", len(vulns),
		"risk_score", report.RiskScore,
	)
	return report, nil
}

// ScanFile reads path and scans its contents under its base name.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*models.SecurityReport, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is chosen by the local user
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !AcceptedExtension(path) {
		slog.Debug("scanner: unusual extension, scanning anyway", "file", path)
	}
	return s.Scan(ctx, string(data), filepath.Base(path))
}

// ScanTree scans every contract source under root. Report file names are
// relative to root.
func (s *Scanner) ScanTree(ctx context.Context, root string) ([]*models.SecurityReport, error) {
	var reports []*models.SecurityReport
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "node_modules", "lib":
				if path != root {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !contractExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		data, err := os.ReadFile(path) // #nosec G304 -- walking a user-supplied checkout
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		report, err := s.Scan(ctx, string(data), filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		reports = append(reports, report)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return reports, nil
}

// AcceptedExtension reports whether name carries one of the advertised
// upload extensions.
func AcceptedExtension(name string) bool {
	return acceptedExtensions[strings.ToLower(filepath.Ext(name))]
}

// AcceptedExtensions lists the advertised upload extensions.
func AcceptedExtensions() []string {
	return []string{".sol", ".vy", ".js", ".ts", ".json"}
}

func splitLines(code string) []string {
	if code == "" {
		return nil
	}
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
