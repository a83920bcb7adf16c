package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
)

// buildHandler wires all REST and SSE routes onto a new ServeMux.
// Uses Go 1.22+ method-prefixed patterns ("GET /path", "POST /path").
func buildHandler(gw *Gateway) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", gw.handleRoot)
	mux.HandleFunc("GET /health", gw.handleHealth)
	mux.HandleFunc("GET /api/status", gw.handleStatus)

	// Terminal + scanner (rate limited)
	mux.Handle("POST /api/command", gw.limited(gw.handleCommand))
	mux.Handle("POST /api/scan", gw.limited(gw.handleScan))

	// History
	mux.HandleFunc("GET /api/scans", gw.handleListScans)
	mux.HandleFunc("GET /api/scans/{id}", gw.handleGetScan)

	// Catalog
	mux.HandleFunc("GET /api/articles", gw.handleListArticles)
	mux.HandleFunc("GET /api/articles/{id}", gw.handleGetArticle)
	mux.HandleFunc("GET /api/partners", gw.handlePartners)

	// Assistant
	mux.Handle("POST /api/chat", gw.limited(gw.handleChat))

	// Preferences
	mux.HandleFunc("GET /api/preferences/theme", gw.handleGetTheme)
	mux.HandleFunc("PUT /api/preferences/theme", gw.handlePutTheme)

	mux.HandleFunc("GET /events", gw.handleEvents)
	mux.Handle("GET /metrics", gw.metrics.Handler())

	return mux
}

// limited rejects requests with 429 once the shared limiter is exhausted.
func (gw *Gateway) limited(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !gw.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		h(w, r)
	})
}

func (gw *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (gw *Gateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "rekt gateway",
		"version": gw.version,
		"status":  "running",
		"endpoints": []string{
			"GET /health",
			"GET /api/status",
			"POST /api/command",
			"POST /api/scan",
			"GET /api/scans",
			"GET /api/scans/{id}",
			"GET /api/articles",
			"GET /api/articles/{id}",
			"GET /api/partners",
			"POST /api/chat",
			"GET /api/preferences/theme",
			"PUT /api/preferences/theme",
			"GET /events",
			"GET /metrics",
		},
	})
}

func (gw *Gateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gw.currentStatus(r.Context()))
}

// handleCommand dispatches one terminal line and returns the tagged response.
// User-input failures are 200 responses of type "error".
func (gw *Gateway) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cs := gw.sessions.forRequest(w, r)
	resp := cs.dispatcher.Dispatch(r.Context(), req.Input)
	body, err := terminal.MarshalResponse(resp)
	if err != nil {
		slog.Warn("gateway: encoding command response", "type", resp.Type(), "error", err)
		writeError(w, http.StatusInternalServerError, "could not encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (gw *Gateway) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.FileName)
	if name == "" {
		name = "contract.sol"
	}
	if !scanner.AcceptedExtension(name) {
		slog.Debug("gateway: scanning file with unusual extension", "file", name)
	}

	report, err := gw.scanner.Scan(r.Context(), req.Code, name)
	if err != nil {
		gw.metrics.ScanFailed()
		writeError(w, http.StatusServiceUnavailable, "scan aborted")
		return
	}
	id := gw.recordReport(r.Context(), report, history.SourceGateway)
	writeJSON(w, http.StatusOK, map[string]any{"scan_id": id, "report": report})
}

func (gw *Gateway) handleListScans(w http.ResponseWriter, r *http.Request) {
	recs, err := gw.history.Recent(r.Context(), queryInt(r, "limit", 20, 200))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": recs, "count": len(recs)})
}

func (gw *Gateway) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := gw.history.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("scan %d not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	findings, err := gw.history.Findings(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scan": rec, "findings": findings})
}

func (gw *Gateway) handleListArticles(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	articles := gw.catalog.Articles()
	if q != "" {
		articles = gw.catalog.Search(q)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": articles, "count": len(articles)})
}

func (gw *Gateway) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := gw.catalog.Article(int(id))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("article %d not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (gw *Gateway) handlePartners(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": scanner.Partners()})
}

func (gw *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cs := gw.sessions.forRequest(w, r)
	reply, err := cs.chat.Send(r.Context(), req.Message)
	if err != nil {
		status := http.StatusServiceUnavailable
		if strings.TrimSpace(req.Message) == "" {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply, "history": cs.chat.History()})
}

func (gw *Gateway) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	t, err := gw.themes.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, themeRequest{Theme: t.String()})
}

func (gw *Gateway) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := theme.Parse(req.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := gw.themes.Save(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	gw.broadcaster.send(SSEEvent{Type: EventThemeChanged, Payload: themeRequest{Theme: t.String()}})
	writeJSON(w, http.StatusOK, themeRequest{Theme: t.String()})
}

func (gw *Gateway) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := gw.broadcaster.subscribe()
	defer gw.broadcaster.unsubscribe(ch)

	connected, err := frame(SSEEvent{Type: EventConnected, Payload: gw.currentStatus(r.Context())})
	if err == nil {
		// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
		_, _ = w.Write(connected)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case f, ok := <-ch:
			if !ok {
				return
			}
			// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
			_, _ = w.Write(f)
			flusher.Flush()
		}
	}
}
