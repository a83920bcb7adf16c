package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardModel shows severity counters and the most recent scans.
type DashboardModel struct {
	history  *history.Recorder
	scans    []models.ScanRecord
	totals   history.Totals
	width    int
	height   int
	lastLoad time.Time
	loading  bool
}

// dashLoadedMsg carries loaded scan history.
type dashLoadedMsg struct {
	scans  []models.ScanRecord
	totals history.Totals
}

// NewDashboardModel creates a DashboardModel.
func NewDashboardModel(h *history.Recorder) DashboardModel {
	return DashboardModel{history: h, loading: true}
}

func (d DashboardModel) Init() tea.Cmd {
	return d.loadCmd()
}

func (d DashboardModel) loadCmd() tea.Cmd {
	h := d.history
	return func() tea.Msg {
		if h == nil {
			return dashLoadedMsg{}
		}
		ctx := context.Background()
		scans, err := h.Recent(ctx, 20)
		if err != nil {
			slog.Warn("tui: loading recent scans", "error", err)
		}
		totals, err := h.Totals(ctx)
		if err != nil {
			slog.Warn("tui: loading scan totals", "error", err)
		}
		return dashLoadedMsg{scans: scans, totals: totals}
	}
}

func (d DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashLoadedMsg:
		d.scans = msg.scans
		d.totals = msg.totals
		d.loading = false
		d.lastLoad = time.Now()
	case tea.KeyMsg:
		if msg.String() == "r" {
			d.loading = true
			return d, d.loadCmd()
		}
	}
	return d, nil
}

func (d *DashboardModel) SetSize(w, h int) {
	d.width = w
	d.height = h
}

func (d DashboardModel) View() string {
	if d.loading && len(d.scans) == 0 {
		return panelStyle.Width(max(20, d.width-2)).Render("Loading scan history...")
	}

	cardW := 16
	if d.width >= 100 {
		cardW = 18
	}
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCounter("Scans", d.totals.Scans, inkStyle, cardW),
		renderCounter("Critical", d.totals.Critical, criticalStyle, cardW),
		renderCounter("High", d.totals.High, highStyle, cardW),
		renderCounter("Medium", d.totals.Medium, mediumStyle, cardW),
		renderCounter("Low", d.totals.Low, lowStyle, cardW),
	)

	lineLimit := max(5, d.height-12)
	var rows strings.Builder
	for i, s := range d.scans {
		if i >= lineLimit {
			break
		}
		counts := fmt.Sprintf("C:%d H:%d M:%d L:%d", s.FindingsCritical, s.FindingsHigh, s.FindingsMedium, s.FindingsLow)
		row := lipgloss.JoinHorizontal(lipgloss.Left,
			lipgloss.NewStyle().Width(30).Foreground(colors.ink).Render(truncate(s.FileName, 28)),
			lipgloss.NewStyle().Width(10).Foreground(colors.slate).Render(s.Source),
			riskStyle(s.RiskScore).Width(8).Render(fmt.Sprintf("%d", s.RiskScore)),
			lipgloss.NewStyle().Width(22).Render(dimStyle.Render(counts)),
			dimStyle.Render(s.ScannedAt.Local().Format("Jan 02 15:04")),
		)
		rows.WriteString(row + "\n")
	}
	if len(d.scans) == 0 {
		rows.WriteString(dimStyle.Render("No scans yet. Try: scan 0xABC, or rekt analyze <file.sol>") + "\n")
	}

	updated := "never"
	if !d.lastLoad.IsZero() {
		updated = d.lastLoad.Format("15:04:05")
	}
	refreshInfo := lipgloss.JoinHorizontal(lipgloss.Left,
		keycapStyle.Render("r"),
		" ",
		dimStyle.Render("refresh"),
		"   ",
		dimStyle.Render("updated "+updated),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(0, 1).Render(summary),
		panelStyle.Width(max(20, d.width-2)).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				panelHeaderStyle.Render("Recent Scans"),
				dimStyle.Render("File                          Source    Risk    Findings              Scanned"),
				rows.String(),
				refreshInfo,
			),
		),
	)
}

func renderCounter(label string, count int, style lipgloss.Style, width int) string {
	return boxStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			style.Bold(true).Render(fmt.Sprintf("%d", count)),
			dimStyle.Render(strings.ToUpper(label)),
		),
	) + "  "
}
