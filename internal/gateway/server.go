// Package gateway serves the terminal, scanner and catalog over a local
// REST + SSE API.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/ai"
	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/database"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/metrics"
	"github.com/CosmoTheDev/rekt-terminal/internal/notify"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"golang.org/x/time/rate"
)

// Gateway is the long-running daemon that combines:
//   - per-client terminal sessions and assistant conversations
//   - the contract scanner with persisted history and notifications
//   - a cron Scheduler (feed ticker, session sweep)
//   - a REST + SSE HTTP server
type Gateway struct {
	cfg         *config.Config
	version     string
	catalog     *catalog.Catalog
	scanner     *scanner.Scanner
	history     *history.Recorder
	themes      *theme.Store
	notifier    *notify.Dispatcher
	metrics     *metrics.Collector
	assistant   ai.Provider
	broadcaster *Broadcaster
	scheduler   *Scheduler
	sessions    *sessionStore
	limiter     *rate.Limiter

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// New creates a Gateway over an already-migrated db. Call Start to serve.
func New(cfg *config.Config, db database.DB, cat *catalog.Catalog, version string) *Gateway {
	gw := &Gateway{
		cfg:         cfg,
		version:     version,
		catalog:     cat,
		history:     history.NewRecorder(db),
		themes:      theme.NewStore(db, cfg.UI.DefaultTheme),
		notifier:    notify.NewDispatcher(cfg.Notify),
		metrics:     metrics.New(),
		assistant:   ai.New(cfg.Assistant),
		broadcaster: newBroadcaster(),
		startedAt:   time.Now(),
	}

	opts := scanner.OptionsFromConfig(cfg.Scanner)
	opts.OnScanCompleted = gw.metrics.ScanCompleted
	gw.scanner = scanner.New(opts)

	limit := rate.Inf
	if cfg.Gateway.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.Gateway.RateLimitRPS)
	}
	burst := cfg.Gateway.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	gw.limiter = rate.NewLimiter(limit, burst)

	gw.sessions = newSessionStore(gw.newClientSession)
	gw.scheduler = newScheduler(cat.Feed(), gw.broadcaster.send, gw.sessions.sweep)
	return gw
}

func (gw *Gateway) newClientSession(id string) *clientSession {
	return &clientSession{
		dispatcher: terminal.New(terminal.Options{
			Catalog:   gw.catalog,
			Scanner:   gw.scanner,
			Session:   &terminal.Session{ID: id},
			Version:   gw.version,
			OnCommand: gw.metrics.CommandDispatched,
			OnReport: func(ctx context.Context, report *models.SecurityReport) {
				gw.recordReport(ctx, report, history.SourceTerminal)
			},
		}),
		chat: ai.NewConversation(gw.assistant),
	}
}

// recordReport persists report, broadcasts scan.completed and notifies.
// Failures are logged; the caller already has the report.
func (gw *Gateway) recordReport(ctx context.Context, report *models.SecurityReport, source string) int64 {
	id, err := gw.history.Save(ctx, report, source)
	if err != nil {
		slog.Warn("gateway: failed to save scan", "report", report.ID, "error", err)
	}
	gw.broadcaster.send(SSEEvent{Type: EventScanCompleted, Payload: map[string]any{
		"scan_id":    id,
		"report_id":  report.ID,
		"file_name":  report.FileName,
		"risk_score": report.RiskScore,
		"findings":   len(report.Vulnerabilities),
		"source":     source,
	}})
	gw.notifier.ScanCompleted(ctx, report)
	return id
}

// Start runs the gateway until ctx is cancelled. It:
//  1. Starts the cron scheduler (feed ticker, session sweep)
//  2. Binds the HTTP server (blocks until shutdown)
func (gw *Gateway) Start(ctx context.Context) error {
	port := gw.cfg.Gateway.Port
	if port == 0 {
		port = config.DefaultGatewayPort
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	if err := gw.scheduler.Start(gw.cfg.Gateway.FeedTicker); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           buildHandler(gw),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		gw.scheduler.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	gw.setRunning(true)
	defer gw.setRunning(false)

	slog.Info("gateway: listening", "addr", "http://"+addr)
	gw.broadcaster.send(SSEEvent{
		Type:    EventStarted,
		Payload: map[string]string{"addr": "http://" + addr},
	})

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (gw *Gateway) setRunning(v bool) {
	gw.mu.Lock()
	gw.running = v
	gw.mu.Unlock()
}

func (gw *Gateway) currentStatus(ctx context.Context) Status {
	totals, err := gw.history.Totals(ctx)
	if err != nil {
		slog.Warn("gateway: failed to load scan totals", "error", err)
	}
	t, err := gw.themes.Load(ctx)
	if err != nil {
		slog.Warn("gateway: failed to load theme", "error", err)
	}

	gw.mu.RLock()
	running := gw.running
	gw.mu.RUnlock()

	return Status{
		Running:        running,
		UptimeSeconds:  int64(time.Since(gw.startedAt).Seconds()),
		Sessions:       gw.sessions.count(),
		Subscribers:    gw.broadcaster.count(),
		Theme:          t.String(),
		Assistant:      gw.assistant.Name(),
		NotifyChannels: gw.notifier.Channels(),
		Scans:          totals,
	}
}
