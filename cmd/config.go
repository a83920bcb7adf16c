package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage rekt configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration (secrets redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Redacted())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.ConfigPath(cfgFile)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.ConfigPath(cfgFile)
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := config.Save(cfg, p); err != nil {
				return fmt.Errorf("writing default config: %w", err)
			}
		}
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "nano"
		}
		fmt.Printf("Opening %s with %s...\n", p, editor)
		c := exec.Command(editor, p) // #nosec G204 -- editor is from $EDITOR env var, intentional user-controlled binary
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

var configThemeCmd = &cobra.Command{
	Use:   "theme [dark|light|matrix]",
	Short: "Show or change the stored theme preference",
	Long: `Without an argument, opens a picker for the theme used by the terminal UI
and the gateway. With an argument, stores that theme directly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigTheme,
}

func runConfigTheme(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store := theme.NewStore(db, cfg.UI.DefaultTheme)
	current, err := store.Load(ctx)
	if err != nil {
		return err
	}

	var chosen theme.Theme
	if len(args) == 1 {
		chosen, err = theme.Parse(args[0])
		if err != nil {
			return err
		}
	} else {
		selected := current.String()
		options := make([]huh.Option[string], 0, len(theme.All))
		for _, t := range theme.All {
			options = append(options, huh.NewOption(t.String(), t.String()))
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Theme").
					Description("Colour scheme for the terminal UI").
					Options(options...).
					Value(&selected),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		chosen, err = theme.Parse(selected)
		if err != nil {
			return err
		}
	}

	if err := store.Save(ctx, chosen); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Theme set to %s (was %s).", chosen, current)))
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configEditCmd, configThemeCmd)
}
