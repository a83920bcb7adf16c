package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RektModel is the exploit leaderboard: biggest losses first, plus the
// headline stats block.
type RektModel struct {
	stats    models.PlatformStats
	exploits []models.ExploitVisualization
	width    int
	height   int
}

// NewRektModel creates a RektModel from the catalog.
func NewRektModel(cat *catalog.Catalog) RektModel {
	exploits := cat.Visualizations()
	sort.SliceStable(exploits, func(i, j int) bool {
		return exploits[i].LossUSD > exploits[j].LossUSD
	})
	return RektModel{stats: cat.Stats(), exploits: exploits}
}

func (m *RektModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m RektModel) View() string {
	cardW := 18
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		renderTextCounter("Total lost", usd(m.stats.TotalLostUSD), criticalStyle, cardW),
		renderCounter("Incidents", m.stats.IncidentsTracked, highStyle, cardW),
		renderCounter("Bounties", m.stats.ActiveBounties, okStyle, cardW),
		renderCounter("Articles", m.stats.ArticlesWritten, inkStyle, cardW),
	)

	var rows strings.Builder
	for i, e := range m.exploits {
		fmt.Fprintf(&rows, "%s %s %s %s\n",
			promptStyle.Width(4).Render(fmt.Sprintf("%d.", i+1)),
			inkStyle.Width(22).Render(e.Name),
			criticalStyle.Width(10).Render(usd(e.LossUSD)),
			dimStyle.Render(e.Date+" · "+e.Vector))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(0, 1).Render(summary),
		panelStyle.Width(max(20, m.width-2)).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				panelHeaderStyle.Render("Rekt Leaderboard"),
				rows.String(),
				dimStyle.Render("visualize <name> in the terminal walks through an exploit"),
			),
		),
	)
}

func renderTextCounter(label, value string, style lipgloss.Style, width int) string {
	return boxStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			style.Bold(true).Render(value),
			dimStyle.Render(strings.ToUpper(label)),
		),
	) + "  "
}

const tickerInterval = 4 * time.Second

// tickerMsg advances the Bloomberg ticker highlight.
type tickerMsg time.Time

// BloombergModel is the feed board: a rotating ticker over the live feed
// with period recaps underneath.
type BloombergModel struct {
	feed   []models.FeedItem
	recaps []models.Recap
	cursor int
	width  int
	height int
}

// NewBloombergModel creates a BloombergModel from the catalog.
func NewBloombergModel(cat *catalog.Catalog) BloombergModel {
	return BloombergModel{feed: cat.Feed(), recaps: cat.Recaps()}
}

func (m BloombergModel) Init() tea.Cmd { return tickerCmd() }

func tickerCmd() tea.Cmd {
	return tea.Tick(tickerInterval, func(t time.Time) tea.Msg { return tickerMsg(t) })
}

func (m BloombergModel) Update(msg tea.Msg) (BloombergModel, tea.Cmd) {
	if _, ok := msg.(tickerMsg); ok {
		if len(m.feed) > 0 {
			m.cursor = (m.cursor + 1) % len(m.feed)
		}
		return m, tickerCmd()
	}
	return m, nil
}

func (m *BloombergModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m BloombergModel) View() string {
	ticker := dimStyle.Render("no feed items")
	if len(m.feed) > 0 {
		it := m.feed[m.cursor]
		ticker = lipgloss.JoinHorizontal(lipgloss.Left,
			promptStyle.Render("▶ "),
			severityStyle(it.Severity).Render(string(it.Severity)+" "),
			inkStyle.Bold(true).Render(it.Headline),
			dimStyle.Render("  "+it.Source+" "+it.Time),
		)
	}

	var board strings.Builder
	for i, it := range m.feed {
		line := renderFeedItem(it)
		if i == m.cursor {
			line = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(colors.accent).
				Render(line)
		} else {
			line = " " + line
		}
		board.WriteString(line + "\n")
	}

	var recaps strings.Builder
	for _, r := range m.recaps {
		recaps.WriteString(panelHeaderStyle.Render(r.Period) + " " +
			dimStyle.Render(fmt.Sprintf("%d incidents · %s", r.Incidents, usd(r.TotalLost))) + "\n")
		for _, h := range r.Highlights {
			recaps.WriteString("  • " + inkStyle.Render(h) + "\n")
		}
	}

	w := max(20, m.width-2)
	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(w).Render(ticker),
		panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			panelHeaderStyle.Render("Feed"), board.String())),
		panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			panelHeaderStyle.Render("Recaps"), recaps.String())),
	)
}
