package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CosmoTheDev/rekt-terminal/internal/ai"
	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/database"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/charmbracelet/bubbletea"
)

type testApp struct {
	*App
	themes  *theme.Store
	history *history.Recorder
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	db, err := database.NewSQLite(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "rekt.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	rec := history.NewRecorder(db)
	store := theme.NewStore(db, "dark")
	d := terminal.New(terminal.Options{
		Catalog: cat,
		Scanner: scanner.New(scanner.Options{ChooseLine: scanner.FirstLine}),
		OnReport: func(ctx context.Context, r *models.SecurityReport) {
			_, _ = rec.Save(ctx, r, history.SourceTerminal)
		},
	})
	app := NewApp(Options{
		Dispatcher: d,
		Catalog:    cat,
		History:    rec,
		Themes:     store,
		Chat:       ai.NewConversation(ai.NewCanned(0)),
		Theme:      theme.Dark,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return testApp{App: app, themes: store, history: rec}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run feeds msg to the app and executes the returned command once.
func (a testApp) run(msg tea.Msg) tea.Msg {
	_, cmd := a.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

// submitConsole types line into the prompt, presses enter and feeds the
// command result back into the app.
func (a testApp) submitConsole(t *testing.T, line string) tea.Msg {
	t.Helper()
	a.console.input.SetValue(line)
	res := a.run(key("enter"))
	if _, ok := res.(commandResultMsg); !ok {
		t.Fatalf("expected commandResultMsg, got %T", res)
	}
	_, cmd := a.Update(res)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestConsoleRendersArticle(t *testing.T) {
	a := newTestApp(t)
	a.submitConsole(t, "read 1")

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	art, err := cat.Article(1)
	if err != nil {
		t.Fatalf("Article(1): %v", err)
	}
	lines := a.console.Lines()
	last := lines[len(lines)-1]
	if !strings.Contains(last, art.Title) {
		t.Fatalf("scrollback does not contain article title %q:\n%s", art.Title, last)
	}
}

func TestConsoleClear(t *testing.T) {
	a := newTestApp(t)
	a.submitConsole(t, "help")
	if len(a.console.Lines()) < 2 {
		t.Fatal("expected scrollback after help")
	}
	a.submitConsole(t, "clear")
	if n := len(a.console.Lines()); n != 0 {
		t.Fatalf("scrollback after clear = %d lines, want 0", n)
	}
}

func TestViewCommandSwitchesTab(t *testing.T) {
	a := newTestApp(t)
	res := a.submitConsole(t, "bloomberg")
	if _, ok := res.(switchViewMsg); !ok {
		t.Fatalf("expected switchViewMsg, got %T", res)
	}
	a.Update(res)
	if a.ActiveTab() != TabBloomberg {
		t.Fatalf("active tab = %d, want Bloomberg", a.ActiveTab())
	}
}

func TestScanCommandIsRecorded(t *testing.T) {
	a := newTestApp(t)
	a.submitConsole(t, "scan 0xABC")

	recs, err := a.history.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("recorded scans = %d, want 1", len(recs))
	}
	lines := a.console.Lines()
	if !strings.Contains(lines[len(lines)-1], "risk score") {
		t.Fatalf("scan output missing risk score:\n%s", lines[len(lines)-1])
	}
}

func TestThemeKeyOnlyCyclesWhenNotTyping(t *testing.T) {
	a := newTestApp(t)

	a.Update(key("t"))
	if a.Theme() != theme.Dark {
		t.Fatalf("t while typing changed theme to %s", a.Theme())
	}
	if a.console.input.Value() != "t" {
		t.Fatalf("input = %q, want %q", a.console.input.Value(), "t")
	}

	a.Update(key("2"))
	a.console.input.SetValue("")
	if a.ActiveTab() != TabTerminal {
		t.Fatal("digit while typing switched tab")
	}
	a.Update(key("tab"))
	if a.ActiveTab() != TabDashboard {
		t.Fatalf("active tab = %d, want Dashboard", a.ActiveTab())
	}

	res := a.run(key("t"))
	saved, ok := res.(themeSavedMsg)
	if !ok || saved.err != nil || saved.theme != theme.Light {
		t.Fatalf("unexpected theme result %#v", res)
	}
	got, err := a.themes.Load(context.Background())
	if err != nil || got != theme.Light {
		t.Fatalf("persisted theme = %s (%v), want light", got, err)
	}
}

func TestCtrlTCyclesFromTerminal(t *testing.T) {
	a := newTestApp(t)
	a.run(key("ctrl+t"))
	a.run(key("ctrl+t"))
	if a.Theme() != theme.Matrix {
		t.Fatalf("theme = %s, want matrix", a.Theme())
	}
	a.run(key("ctrl+t"))
	if a.Theme() != theme.Dark {
		t.Fatalf("theme = %s, want dark after wrap", a.Theme())
	}
}

func TestAppOwnsThemeState(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	newApp := func(th theme.Theme) *App {
		return NewApp(Options{Catalog: cat, Chat: ai.NewConversation(ai.NewCanned(0)), Theme: th})
	}

	if got := newApp("neon").Theme(); got != theme.Dark {
		t.Fatalf("unknown theme resolved to %s, want dark", got)
	}

	matrix := newApp(theme.Matrix)
	light := newApp(theme.Light)
	if saved, ok := matrix.cycleTheme()().(themeSavedMsg); !ok || saved.theme != theme.Dark {
		t.Fatalf("cycle from matrix = %#v, want dark", saved)
	}
	if matrix.Theme() != theme.Dark {
		t.Fatalf("matrix app theme = %s, want dark", matrix.Theme())
	}
	if light.Theme() != theme.Light {
		t.Fatalf("light app theme = %s after another app cycled, want light", light.Theme())
	}
	if !strings.Contains(light.renderHeader(), "light") {
		t.Fatal("header should show the app's own theme")
	}
}

func TestQuitOutsideInput(t *testing.T) {
	a := newTestApp(t)
	a.Update(key("tab"))
	if _, ok := a.run(key("q")).(tea.QuitMsg); !ok {
		t.Fatal("q on dashboard should quit")
	}
}

func TestAssistantChat(t *testing.T) {
	a := newTestApp(t)
	a.setTab(TabAI)
	a.assistant.input.SetValue("what is reentrancy?")
	res := a.run(key("enter"))
	reply, ok := res.(chatReplyMsg)
	if !ok || reply.err != nil {
		t.Fatalf("unexpected chat result %#v", res)
	}
	a.Update(reply)
	if a.assistant.waiting {
		t.Fatal("assistant still waiting after reply")
	}
	if n := len(a.assistant.chat.History()); n != 2 {
		t.Fatalf("history = %d messages, want 2", n)
	}
}

func TestDashboardShowsTotals(t *testing.T) {
	a := newTestApp(t)
	a.submitConsole(t, "scan 0xABC")
	res := a.run(key("tab"))
	if _, ok := res.(dashLoadedMsg); !ok {
		t.Fatalf("expected dashLoadedMsg, got %T", res)
	}
	a.Update(res)
	if a.dashboard.totals.Scans != 1 {
		t.Fatalf("dashboard scans = %d, want 1", a.dashboard.totals.Scans)
	}
	if !strings.Contains(a.View(), "Recent Scans") {
		t.Fatal("dashboard view missing header")
	}
}

func TestBloombergTickerWraps(t *testing.T) {
	a := newTestApp(t)
	n := len(a.bloomberg.feed)
	for i := 0; i < n; i++ {
		a.Update(tickerMsg{})
	}
	if a.bloomberg.cursor != 0 {
		t.Fatalf("cursor = %d after %d ticks, want 0", a.bloomberg.cursor, n)
	}
}

func TestRektLeaderboardOrder(t *testing.T) {
	a := newTestApp(t)
	ex := a.rekt.exploits
	for i := 1; i < len(ex); i++ {
		if ex[i].LossUSD > ex[i-1].LossUSD {
			t.Fatalf("leaderboard not sorted by loss: %v", ex)
		}
	}
}

func TestRenderResponseCoversVariants(t *testing.T) {
	applyTheme(theme.Dark)
	cases := []terminal.Response{
		terminal.StatsResponse{},
		terminal.FeedResponse{Items: []models.FeedItem{{Headline: "bridge drained", Severity: models.SeverityCritical}}},
		terminal.ReferralResponse{Code: "REKT-ABCD1234"},
		terminal.ErrorResponse{Message: "boom"},
		terminal.AnalyzeResponse{Message: "drop a file", Extensions: []string{".sol"}},
	}
	for _, r := range cases {
		t.Run(r.Type(), func(t *testing.T) {
			if strings.TrimSpace(RenderResponse(r)) == "" {
				t.Fatalf("%s rendered empty", r.Type())
			}
		})
	}
}

func TestUSD(t *testing.T) {
	cases := map[int64]string{
		900:           "$900",
		350_000:       "$350K",
		32_000_000:    "$32.0M",
		1_500_000_000: "$1.5B",
	}
	for in, want := range cases {
		if got := usd(in); got != want {
			t.Errorf("usd(%d) = %q, want %q", in, got, want)
		}
	}
}
