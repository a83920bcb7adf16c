package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/internal/tui"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/spf13/cobra"
)

var execOutputFmt string

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run one terminal command and print the response",
	Long: `Dispatches a single terminal command without opening the UI.

Examples:
  rekt exec help
  rekt exec search bridge
  rekt exec scan 0x1f98431c8ad98523631ae4a59f267346ea31f984 --output json
  rekt exec visualize the-dao --output yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVar(&execOutputFmt, "output", outputTable, "Output format: table|json|yaml")
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := validateOutput(execOutputFmt); err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	rec := history.NewRecorder(db)

	d := terminal.New(terminal.Options{
		Catalog: cat,
		Scanner: scanner.New(scanner.OptionsFromConfig(cfg.Scanner)),
		Version: Version,
		OnReport: func(ctx context.Context, r *models.SecurityReport) {
			if _, err := rec.Save(ctx, r, history.SourceTerminal); err != nil {
				slog.Warn("exec: saving scan", "report", r.ID, "error", err)
			}
		},
	})

	resp := d.Dispatch(ctx, strings.Join(args, " "))
	e, failed := resp.(terminal.ErrorResponse)
	if execOutputFmt == outputTable {
		if failed {
			return errors.New(e.Message)
		}
		fmt.Print(tui.RenderResponse(resp))
		if v, ok := resp.(terminal.ViewResponse); ok {
			fmt.Printf("Open 'rekt ui' for the %s view.\n", v.View)
		}
		return nil
	}

	raw, err := terminal.MarshalResponse(resp)
	if err != nil {
		return err
	}
	if err := writeEncodedJSON(os.Stdout, execOutputFmt, raw); err != nil {
		return err
	}
	if failed {
		return errors.New(e.Message)
	}
	return nil
}
