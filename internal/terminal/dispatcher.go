// Package terminal maps typed commands to tagged responses.
package terminal

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/CosmoTheDev/rekt-terminal/models"
)

// Options configures a Dispatcher. Catalog and Scanner are required.
type Options struct {
	Catalog *catalog.Catalog
	Scanner *scanner.Scanner
	Session *Session
	Version string

	// OnCommand is called once per dispatched input with the resolved
	// command name ("unknown" for unrecognised input).
	OnCommand func(name string)
	// OnReport is called for every report produced by scan or analyze.
	OnReport func(ctx context.Context, report *models.SecurityReport)
}

type handler func(ctx context.Context, d *Dispatcher, in input) Response

type command struct {
	name    string
	usage   string
	summary string
	run     handler
}

// input is one tokenised command line. args are lower-cased; raw keeps the
// original spelling for arguments that name files.
type input struct {
	name string
	args []string
	raw  []string
}

func (in input) arg(i int) string {
	if i < len(in.args) {
		return in.args[i]
	}
	return ""
}

// Dispatcher resolves commands against the catalog and scanner.
type Dispatcher struct {
	opts     Options
	session  *Session
	commands []command
	byName   map[string]command
}

// New returns a Dispatcher. A nil Session gets a fresh one.
func New(opts Options) *Dispatcher {
	if opts.Session == nil {
		opts.Session = NewSession()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	d := &Dispatcher{opts: opts, session: opts.Session}
	d.commands = commandTable()
	d.byName = make(map[string]command, len(d.commands))
	for _, c := range d.commands {
		d.byName[c.name] = c
	}
	return d
}

// Session returns the dispatcher's session state.
func (d *Dispatcher) Session() *Session { return d.session }

// Commands returns the help listing in display order.
func (d *Dispatcher) Commands() []CommandHelp {
	out := make([]CommandHelp, len(d.commands))
	for i, c := range d.commands {
		out[i] = CommandHelp{Name: c.name, Usage: c.usage, Summary: c.summary}
	}
	return out
}

// Dispatch runs one command line. It never returns nil; every failure is
// an ErrorResponse.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) Response {
	in := parse(line)
	if in.name == "" {
		d.observe("empty")
		return errorf("No command entered. Type 'help' for available commands.")
	}
	d.session.record(strings.TrimSpace(line))

	c, ok := d.byName[in.name]
	if !ok {
		d.observe("unknown")
		return errorf("Command not found: %s. Type 'help' for available commands.", in.name)
	}
	d.observe(c.name)
	slog.Debug("terminal: dispatch", "command", c.name, "args", len(in.args), "session", d.session.ID)
	return c.run(ctx, d, in)
}

func (d *Dispatcher) observe(name string) {
	if d.opts.OnCommand != nil {
		d.opts.OnCommand(name)
	}
}

func (d *Dispatcher) report(ctx context.Context, r *models.SecurityReport) {
	if d.opts.OnReport != nil {
		d.opts.OnReport(ctx, r)
	}
}

func parse(line string) input {
	raw := strings.Fields(line)
	if len(raw) == 0 {
		return input{}
	}
	args := make([]string, len(raw)-1)
	for i, a := range raw[1:] {
		args[i] = strings.ToLower(a)
	}
	return input{name: strings.ToLower(raw[0]), args: args, raw: raw[1:]}
}

func commandTable() []command {
	return []command{
		{"help", "help", "List available commands", runHelp},
		{"clear", "clear", "Clear the terminal", runClear},
		{"articles", "articles", "List all articles", runArticles},
		{"read", "read [id]", "Read an article (no id re-reads the last one)", runRead},
		{"search", "search <term>", "Search articles by title, content or tag", runSearch},
		{"scan", "scan <address>", "Scan a contract by address", runScan},
		{"analyze", "analyze [path]", "Analyze a contract file", runAnalyze},
		{"stats", "stats", "Show platform statistics", runStats},
		{"visualize", "visualize <name>", "Walk through a famous exploit", runVisualize},
		{"feed", "feed", "Show the live security feed", runFeed},
		{"recap", "recap", "Show incident recaps", runRecap},
		{"parlour", "parlour", "Browse community discussions", runParlour},
		{"partners", "partners", "List security partners", runPartners},
		{"bounties", "bounties", "List bug bounties", runBounties},
		{"platforms", "platforms", "List bounty platforms", runPlatforms},
		{"points", "points", "Show the points leaderboard", runPoints},
		{"referral", "referral", "Get your referral code", runReferral},
		{"subscribe", "subscribe", "Show subscription tiers", runSubscribe},
		{"about", "about", "About rekt terminal", runAbout},
		{"roadmap", "roadmap", "Show the product roadmap", runRoadmap},
		{"dashboard", "dashboard", "Open the security dashboard", view("dashboard")},
		{"rektdashboard", "rektdashboard", "Open the rekt leaderboard", view("rekt")},
		{"bloomberg", "bloomberg", "Open the feed board", view("bloomberg")},
		{"terminal", "terminal", "Return to the terminal", view("terminal")},
		{"ai", "ai", "Chat with the assistant", view("ai")},
	}
}

func runHelp(_ context.Context, d *Dispatcher, _ input) Response {
	return HelpResponse{Commands: d.Commands()}
}

func runClear(context.Context, *Dispatcher, input) Response { return ClearResponse{} }

func runArticles(_ context.Context, d *Dispatcher, _ input) Response {
	return ArticleListResponse{Articles: d.opts.Catalog.Articles()}
}

func runRead(_ context.Context, d *Dispatcher, in input) Response {
	raw := in.arg(0)
	if raw == "" {
		id, ok := d.session.LastRead()
		if !ok {
			return errorf("No article to re-read. Usage: read <id> (type 'articles' to list them).")
		}
		raw = strconv.Itoa(id)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return errorf("Invalid article id: %s. Usage: read <id>", raw)
	}
	article, err := d.opts.Catalog.Article(id)
	if err != nil {
		return errorf("Article not found: %d. Type 'articles' to list them.", id)
	}
	d.session.setLastRead(id)
	return ArticleResponse{Article: article}
}

func runSearch(_ context.Context, d *Dispatcher, in input) Response {
	if len(in.args) == 0 {
		return errorf("Usage: search <term>")
	}
	term := strings.Join(in.args, " ")
	found := d.opts.Catalog.Search(term)
	if len(found) == 0 {
		return errorf("No articles found matching: %s", term)
	}
	return ArticleListResponse{Query: term, Articles: found}
}

func runScan(ctx context.Context, d *Dispatcher, in input) Response {
	address := in.arg(0)
	if address == "" {
		return errorf("Usage: scan <address> (e.g. scan 0x1f98431c8ad98523631ae4a59f267346ea31f984)")
	}
	contract := d.opts.Catalog.SampleContract(address)
	report, err := d.opts.Scanner.Scan(ctx, contract.Source, contract.Name)
	if err != nil {
		slog.Warn("terminal: scan failed", "address", address, "error", err)
		return errorf("Error scanning contract. Please try again.")
	}
	d.report(ctx, report)
	return ScanResponse{Address: address, Report: report}
}

func runAnalyze(ctx context.Context, d *Dispatcher, in input) Response {
	if len(in.raw) == 0 {
		return AnalyzeResponse{
			Message:    "Select a contract file to analyze.",
			Extensions: scanner.AcceptedExtensions(),
		}
	}
	path := strings.Join(in.raw, " ")
	report, err := d.opts.Scanner.ScanFile(ctx, path)
	if err != nil {
		slog.Warn("terminal: analyze failed", "path", path, "error", err)
		return errorf("Error analyzing contract. Please try again.")
	}
	d.report(ctx, report)
	return ScanResponse{Path: path, Report: report}
}

func runStats(_ context.Context, d *Dispatcher, _ input) Response {
	return StatsResponse{Stats: d.opts.Catalog.Stats()}
}

func runVisualize(_ context.Context, d *Dispatcher, in input) Response {
	available := strings.Join(d.opts.Catalog.VisualizationNames(), ", ")
	if len(in.args) == 0 {
		return errorf("Usage: visualize <name>. Available: %s", available)
	}
	name := strings.Join(in.args, " ")
	v, err := d.opts.Catalog.Visualization(name)
	if errors.Is(err, catalog.ErrNotFound) {
		return errorf("Unknown visualization: %s. Available: %s", name, available)
	}
	if err != nil {
		return errorf("Error loading visualization. Please try again.")
	}
	return VisualizeResponse{Visualization: v}
}

func runFeed(_ context.Context, d *Dispatcher, _ input) Response {
	return FeedResponse{Items: d.opts.Catalog.Feed()}
}

func runRecap(_ context.Context, d *Dispatcher, _ input) Response {
	return RecapResponse{Recaps: d.opts.Catalog.Recaps()}
}

func runParlour(_ context.Context, d *Dispatcher, _ input) Response {
	return ParlourResponse{Topics: d.opts.Catalog.Parlour()}
}

func runPartners(context.Context, *Dispatcher, input) Response {
	return PartnersResponse{Partners: scanner.Partners()}
}

func runBounties(_ context.Context, d *Dispatcher, _ input) Response {
	return BountiesResponse{Bounties: d.opts.Catalog.Bounties()}
}

func runPlatforms(_ context.Context, d *Dispatcher, _ input) Response {
	return PlatformsResponse{Platforms: d.opts.Catalog.Platforms()}
}

func runPoints(_ context.Context, d *Dispatcher, _ input) Response {
	return PointsResponse{Leaderboard: d.opts.Catalog.Points()}
}

func runReferral(_ context.Context, d *Dispatcher, _ input) Response {
	code := d.session.ReferralCode()
	return ReferralResponse{
		Code:   code,
		Link:   "https://rekt.news/join?ref=" + code,
		Reward: "500 points for you and your friend after their first scan",
	}
}

func runSubscribe(_ context.Context, d *Dispatcher, _ input) Response {
	return SubscribeResponse{Tiers: d.opts.Catalog.Tiers()}
}

func runAbout(_ context.Context, d *Dispatcher, _ input) Response {
	return AboutResponse{
		Name:        "rekt terminal",
		Version:     d.opts.Version,
		Description: "Security news, exploit post-mortems and a contract scanner for people who have been rekt and would rather not be again.",
	}
}

func runRoadmap(_ context.Context, d *Dispatcher, _ input) Response {
	return RoadmapResponse{Items: d.opts.Catalog.Roadmap()}
}

func view(name string) handler {
	return func(context.Context, *Dispatcher, input) Response {
		return ViewResponse{View: name}
	}
}
