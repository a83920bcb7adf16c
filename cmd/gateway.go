package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/gateway"
	"github.com/spf13/cobra"
)

var gatewayPort int
var gatewayLogDir string

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the rekt gateway daemon",
	Long: `Starts the rekt gateway: a long-running local HTTP server that exposes the
terminal, the contract scanner and the news catalog over REST + SSE
(default: http://127.0.0.1:6090).

  • Each client keeps its own terminal session via the X-Session-ID header
  • Scans are stored in the history and pushed to GET /events subscribers
  • Risky scans notify the configured Slack / webhook channels
  • A cron ticker streams the next feed headline as a feed.tick event

Quick API reference:
  GET  /health                    liveness check
  GET  /api/status                gateway status snapshot
  POST /api/command               run a terminal command (body: {"input":"read 1"})
  POST /api/scan                  scan source (body: {"file_name":"X.sol","code":"..."})
  GET  /api/scans                 list stored scans (?limit=)
  GET  /api/scans/{id}            one stored scan with its findings
  GET  /api/articles              list or search articles (?q=)
  GET  /api/articles/{id}         one article
  GET  /api/partners              security partner registry
  POST /api/chat                  ask the assistant (body: {"message":"..."})
  GET  /api/preferences/theme     current theme
  PUT  /api/preferences/theme     change theme (body: {"theme":"matrix"})
  GET  /events                    SSE stream of live events
  GET  /metrics                   Prometheus metrics`,
	RunE: runGateway,
}

func init() {
	gatewayCmd.Flags().IntVar(&gatewayPort, "port", 0,
		"HTTP port to listen on (default 6090, overrides config)")
	gatewayCmd.Flags().StringVar(&gatewayLogDir, "log-dir", "",
		"directory to write gateway logs (default: ~/.rekt/logs)")
}

func runGateway(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nShutting down gateway gracefully...")
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFilePath, closeLog, err := setupGatewayFileLogger(gatewayLogDir)
	if err != nil {
		return fmt.Errorf("initialising gateway logger: %w", err)
	}
	defer closeLog()

	if gatewayPort > 0 {
		cfg.Gateway.Port = gatewayPort
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = config.DefaultGatewayPort
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("rekt gateway starting\n")
	fmt.Printf("  Database   : %s\n", db.Driver())
	fmt.Printf("  Articles   : %d\n", len(cat.Articles()))
	fmt.Printf("  API        : http://127.0.0.1:%d\n", cfg.Gateway.Port)
	fmt.Printf("  Events     : http://127.0.0.1:%d/events\n", cfg.Gateway.Port)
	fmt.Printf("  Metrics    : http://127.0.0.1:%d/metrics\n\n", cfg.Gateway.Port)
	fmt.Printf("  Logs       : %s\n\n", logFilePath)
	fmt.Println("Press Ctrl+C to stop gracefully.")
	fmt.Println()

	slog.Info("gateway logger initialised", "file", logFilePath)
	gw := gateway.New(cfg, db, cat, Version)
	return gw.Start(ctx)
}

func setupGatewayFileLogger(logDir string) (string, func(), error) {
	if logDir == "" {
		dir, err := config.Dir()
		if err != nil {
			return "", nil, err
		}
		logDir = filepath.Join(dir, "logs")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating log dir %s: %w", logDir, err)
	}

	ts := time.Now().UTC().Format("20060102-150405")
	runLogPath := filepath.Join(logDir, fmt.Sprintf("gateway-%s.log", ts))
	runFile, err := os.OpenFile(runLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("opening run log file: %w", err)
	}

	latestPath := filepath.Join(logDir, "gateway.log")
	latestFile, err := os.OpenFile(latestPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = runFile.Close()
		return "", nil, fmt.Errorf("opening latest log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, runFile, latestFile), &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	slog.SetDefault(slog.New(handler))
	slog.SetLogLoggerLevel(level)

	cleanup := func() {
		_ = latestFile.Close()
		_ = runFile.Close()
	}
	return runLogPath, cleanup, nil
}
