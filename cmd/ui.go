package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CosmoTheDev/rekt-terminal/internal/ai"
	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
	"github.com/CosmoTheDev/rekt-terminal/internal/tui"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the terminal UI",
	Long: `Opens the interactive terminal: a command prompt over the news catalog and
contract scanner, a scan dashboard, the rekt leaderboard, a Bloomberg-style
feed board and an AI assistant. Press t (or ctrl+t while typing) to cycle
the theme.`,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	closeLog, err := setupTUIFileLogger()
	if err != nil {
		return fmt.Errorf("initialising tui logger: %w", err)
	}
	defer closeLog()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	rec := history.NewRecorder(db)
	themes := theme.NewStore(db, cfg.UI.DefaultTheme)
	current, err := themes.Load(ctx)
	if err != nil {
		slog.Warn("tui: loading theme preference", "error", err)
	}

	dispatcher := terminal.New(terminal.Options{
		Catalog: cat,
		Scanner: scanner.New(scanner.OptionsFromConfig(cfg.Scanner)),
		Version: Version,
		OnReport: func(ctx context.Context, r *models.SecurityReport) {
			if _, err := rec.Save(ctx, r, history.SourceTerminal); err != nil {
				slog.Warn("tui: saving scan", "report", r.ID, "error", err)
			}
		},
	})

	app := tui.NewApp(tui.Options{
		Dispatcher: dispatcher,
		Catalog:    cat,
		History:    rec,
		Themes:     themes,
		Chat:       ai.NewConversation(ai.New(cfg.Assistant)),
		Theme:      current,
	})
	return app.Run()
}

// setupTUIFileLogger sends slog output to ~/.rekt/tui.log so it does not
// draw over the alt screen.
func setupTUIFileLogger() (func(), error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening tui log: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() { _ = f.Close() }, nil
}
