package terminal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/models"
)

func newTestDispatcher(t *testing.T, opts Options) *Dispatcher {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	opts.Catalog = cat
	opts.Scanner = scanner.New(scanner.Options{ChooseLine: scanner.FirstLine})
	return New(opts)
}

func TestReadRequiresPriorRead(t *testing.T) {
	d := newTestDispatcher(t, Options{})
	ctx := context.Background()

	if r := d.Dispatch(ctx, "read"); !IsError(r) {
		t.Fatalf("read with no history = %T, want error", r)
	}

	first, ok := d.Dispatch(ctx, "read 1").(ArticleResponse)
	if !ok {
		t.Fatal("read 1 did not return an article")
	}
	again, ok := d.Dispatch(ctx, "read").(ArticleResponse)
	if !ok {
		t.Fatal("read did not re-display the last article")
	}
	if again.Article.ID != first.Article.ID || again.Article.Title != first.Article.Title {
		t.Fatalf("read = %d, want %d", again.Article.ID, first.Article.ID)
	}
}

func TestFailedReadKeepsLastRead(t *testing.T) {
	d := newTestDispatcher(t, Options{})
	ctx := context.Background()

	d.Dispatch(ctx, "read 2")
	if r := d.Dispatch(ctx, "read 999"); !IsError(r) {
		t.Fatalf("read 999 = %T, want error", r)
	}
	if r := d.Dispatch(ctx, "read abc"); !IsError(r) {
		t.Fatalf("read abc = %T, want error", r)
	}
	got, ok := d.Dispatch(ctx, "read").(ArticleResponse)
	if !ok || got.Article.ID != 2 {
		t.Fatalf("read after failures = %+v, want article 2", got)
	}
}

func TestSearch(t *testing.T) {
	d := newTestDispatcher(t, Options{})
	ctx := context.Background()

	if r := d.Dispatch(ctx, "search nonexistentterm123"); !IsError(r) {
		t.Fatalf("search miss = %T, want error", r)
	}
	if r := d.Dispatch(ctx, "search"); !IsError(r) {
		t.Fatalf("search without term = %T, want error", r)
	}

	list, ok := d.Dispatch(ctx, "search EXPLOIT").(ArticleListResponse)
	if !ok || len(list.Articles) == 0 {
		t.Fatalf("search exploit = %+v, want articles", list)
	}
	for _, a := range list.Articles {
		hay := strings.ToLower(a.Title + " " + a.Content + " " + strings.Join(a.Tags, " "))
		if !strings.Contains(hay, "exploit") {
			t.Fatalf("article %d does not mention exploit", a.ID)
		}
	}
}

func TestScanAddress(t *testing.T) {
	var reported int
	d := newTestDispatcher(t, Options{OnReport: func(context.Context, *models.SecurityReport) { reported++ }})

	r := d.Dispatch(context.Background(), "scan 0xABC")
	if r.Type() != "scan" {
		t.Fatalf("type = %q, want scan (%+v)", r.Type(), r)
	}
	scan := r.(ScanResponse)
	if scan.Report.RiskScore < 0 || scan.Report.RiskScore > 100 {
		t.Fatalf("risk score %d out of range", scan.Report.RiskScore)
	}
	if len(scan.Report.Vulnerabilities) == 0 {
		t.Fatal("expected findings")
	}
	for _, v := range scan.Report.Vulnerabilities {
		if !v.Severity.Valid() {
			t.Fatalf("invalid severity %q", v.Severity)
		}
	}
	if reported != 1 {
		t.Fatalf("OnReport called %d times, want 1", reported)
	}
	if r := d.Dispatch(context.Background(), "scan"); !IsError(r) {
		t.Fatalf("scan without address = %T, want error", r)
	}
}

func TestAnalyze(t *testing.T) {
	d := newTestDispatcher(t, Options{})
	ctx := context.Background()

	marker, ok := d.Dispatch(ctx, "analyze").(AnalyzeResponse)
	if !ok || len(marker.Extensions) == 0 {
		t.Fatalf("analyze = %+v, want marker", marker)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "Vault.sol")
	if err := os.WriteFile(path, []byte("require(tx.origin == owner);\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	scan, ok := d.Dispatch(ctx, "analyze "+path).(ScanResponse)
	if !ok {
		t.Fatal("analyze <path> did not return a scan")
	}
	if scan.Report.FileName != "Vault.sol" || scan.Report.Vulnerabilities[0].Name == "" {
		t.Fatalf("unexpected report %+v", scan.Report)
	}

	errResp, ok := d.Dispatch(ctx, "analyze "+filepath.Join(dir, "missing.sol")).(ErrorResponse)
	if !ok || strings.Contains(errResp.Message, dir) {
		t.Fatalf("missing file = %+v, want generic error", errResp)
	}
}

func TestUnknownAndEmpty(t *testing.T) {
	var seen []string
	d := newTestDispatcher(t, Options{OnCommand: func(name string) { seen = append(seen, name) }})
	ctx := context.Background()

	r, ok := d.Dispatch(ctx, "hack the planet").(ErrorResponse)
	if !ok || r.Message != "Command not found: hack. Type 'help' for available commands." {
		t.Fatalf("unknown = %+v", r)
	}
	if e := d.Dispatch(ctx, "   "); !IsError(e) {
		t.Fatalf("blank = %T, want error", e)
	}
	if strings.Join(seen, ",") != "unknown,empty" {
		t.Fatalf("observed = %v", seen)
	}
}

func TestViewsAndCatalogCommands(t *testing.T) {
	d := newTestDispatcher(t, Options{Version: "1.2.3"})
	ctx := context.Background()

	views := map[string]string{
		"dashboard":     "dashboard",
		"rektdashboard": "rekt",
		"bloomberg":     "bloomberg",
		"terminal":      "terminal",
		"ai":            "ai",
	}
	for cmd, want := range views {
		v, ok := d.Dispatch(ctx, cmd).(ViewResponse)
		if !ok || v.View != want {
			t.Fatalf("%s = %+v, want view %s", cmd, v, want)
		}
	}

	types := map[string]string{
		"help":      "help",
		"clear":     "clear",
		"articles":  "articles",
		"stats":     "stats",
		"feed":      "feed",
		"recap":     "recap",
		"parlour":   "parlour",
		"partners":  "partners",
		"bounties":  "bounties",
		"platforms": "platforms",
		"points":    "points",
		"referral":  "referral",
		"subscribe": "subscribe",
		"about":     "about",
		"roadmap":   "roadmap",
	}
	for cmd, want := range types {
		if got := d.Dispatch(ctx, cmd).Type(); got != want {
			t.Fatalf("%s type = %q, want %q", cmd, got, want)
		}
	}

	if got := d.Dispatch(ctx, "visualize The-DAO").Type(); got != "visualize" {
		t.Fatalf("visualize the-dao type = %q", got)
	}
	for _, cmd := range []string{"visualize", "visualize nope"} {
		if r := d.Dispatch(ctx, cmd); !IsError(r) {
			t.Fatalf("%s = %T, want error", cmd, r)
		}
	}

	about := d.Dispatch(ctx, "ABOUT").(AboutResponse)
	if about.Version != "1.2.3" {
		t.Fatalf("about version = %q", about.Version)
	}
	help := d.Dispatch(ctx, "help").(HelpResponse)
	if len(help.Commands) != 25 {
		t.Fatalf("help lists %d commands, want 25", len(help.Commands))
	}
}

func TestSessionHistory(t *testing.T) {
	d := newTestDispatcher(t, Options{})
	ctx := context.Background()
	d.Dispatch(ctx, "help")
	d.Dispatch(ctx, "  read 1 ")
	d.Dispatch(ctx, "")
	if got := strings.Join(d.Session().History(), "|"); got != "help|read 1" {
		t.Fatalf("history = %q", got)
	}
	if code := d.Session().ReferralCode(); !strings.HasPrefix(code, "REKT-") || len(code) != 13 {
		t.Fatalf("referral code = %q", code)
	}
}

func TestMarshalResponseIsFlat(t *testing.T) {
	body, err := MarshalResponse(ErrorResponse{Message: "boom"})
	if err != nil {
		t.Fatalf("MarshalResponse: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["type"] != "error" || got["message"] != "boom" {
		t.Fatalf("got %v", got)
	}

	body, err = MarshalResponse(ClearResponse{})
	if err != nil || string(body) != `{"type":"clear"}` {
		t.Fatalf("clear = %s, %v", body, err)
	}
}
