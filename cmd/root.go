package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command. Without a subcommand it opens the TUI.
var rootCmd = &cobra.Command{
	Use:   "rekt",
	Short: "Crypto security news terminal and smart contract scanner",
	Long: `rekt is a terminal for crypto security news, exploit post-mortems and
quick smart contract vulnerability scans.

Get started:
  rekt                Open the terminal UI
  rekt exec help      Run a single terminal command
  rekt analyze X.sol  Scan local contract files
  rekt audit --repo   Clone a repository and scan every contract in it
  rekt gateway        Serve the terminal over a local REST + SSE API
  rekt doctor         Check configuration and storage`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.rekt/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")

	rootCmd.Version = Version
	rootCmd.AddCommand(
		uiCmd,
		execCmd,
		analyzeCmd,
		auditCmd,
		gatewayCmd,
		configCmd,
		doctorCmd,
	)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}
}
