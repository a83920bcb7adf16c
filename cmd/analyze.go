package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/notify"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/internal/tui"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/spf13/cobra"
)

var (
	analyzeOutputFmt string
	analyzeNoSave    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file> [file...]",
	Short: "Scan local contract files for vulnerabilities",
	Long: `Runs the line-pattern scanner over each file and prints a report per file.
Reports are stored in the scan history unless --no-save is given.

Examples:
  rekt analyze contracts/Vault.sol
  rekt analyze src/*.sol --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutputFmt, "output", outputTable, "Output format: table|json|yaml")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Do not store reports in the scan history")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := validateOutput(analyzeOutputFmt); err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sc := scanner.New(scanner.OptionsFromConfig(cfg.Scanner))
	reports := make([]*models.SecurityReport, 0, len(args))
	for _, path := range args {
		report, err := sc.ScanFile(ctx, path)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	if !analyzeNoSave {
		if err := recordReports(ctx, cfg, reports, history.SourceAnalyze); err != nil {
			return err
		}
	}
	return printReports(reports, analyzeOutputFmt)
}

// recordReports stores reports in the scan history and notifies when one
// crosses the configured severity threshold.
func recordReports(ctx context.Context, cfg *config.Config, reports []*models.SecurityReport, source string) error {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	rec := history.NewRecorder(db)
	notifier := notify.NewDispatcher(cfg.Notify)
	for _, r := range reports {
		id, err := rec.Save(ctx, r, source)
		if err != nil {
			return err
		}
		slog.Debug("scan recorded", "id", id, "file", r.FileName, "source", source)
		notifier.ScanCompleted(ctx, r)
	}
	return nil
}

func printReports(reports []*models.SecurityReport, format string) error {
	if format != outputTable {
		return writeEncoded(os.Stdout, format, reports)
	}
	total := struct{ critical, high, medium, low int }{}
	for _, r := range reports {
		fmt.Println(tui.RenderResponse(terminal.ScanResponse{Path: r.FileName, Report: r}))
		counts := r.SeverityCounts()
		total.critical += counts[models.SeverityCritical]
		total.high += counts[models.SeverityHigh]
		total.medium += counts[models.SeverityMedium]
		total.low += counts[models.SeverityLow]
	}
	fmt.Printf("Totals — Files: %d  Critical: %d  High: %d  Medium: %d  Low: %d\n",
		len(reports), total.critical, total.high, total.medium, total.low)
	return nil
}
