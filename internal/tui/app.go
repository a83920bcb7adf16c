package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CosmoTheDev/rekt-terminal/internal/ai"
	"github.com/CosmoTheDev/rekt-terminal/internal/catalog"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a TUI navigation tab.
type Tab int

const (
	TabTerminal Tab = iota
	TabDashboard
	TabRekt
	TabBloomberg
	TabAI
)

var tabNames = []string{"Terminal", "Dashboard", "Rekt", "Bloomberg", "AI"}
var tabCompactNames = []string{"Term", "Dash", "Rekt", "Bbg", "AI"}
var tabTinyNames = []string{"T", "D", "R", "B", "A"}

// viewTabs maps ViewResponse names onto tabs.
var viewTabs = map[string]Tab{
	"terminal":  TabTerminal,
	"dashboard": TabDashboard,
	"rekt":      TabRekt,
	"bloomberg": TabBloomberg,
	"ai":        TabAI,
}

// Options wires the App to its collaborators. History and Themes may be nil
// (no persistence).
type Options struct {
	Dispatcher *terminal.Dispatcher
	Catalog    *catalog.Catalog
	History    *history.Recorder
	Themes     *theme.Store
	Chat       *ai.Conversation
	Theme      theme.Theme
}

// themeSavedMsg reports the result of persisting a theme change.
type themeSavedMsg struct {
	theme theme.Theme
	err   error
}

// App is the root bubbletea model.
type App struct {
	themes    *theme.Store
	theme     theme.Theme
	width     int
	height    int
	activeTab Tab
	console   ConsoleModel
	dashboard DashboardModel
	rekt      RektModel
	bloomberg BloombergModel
	assistant AssistantModel
	statusMsg string
}

// NewApp creates the TUI application.
func NewApp(opts Options) *App {
	a := &App{
		themes:    opts.Themes,
		theme:     applyTheme(opts.Theme),
		console:   NewConsoleModel(opts.Dispatcher),
		dashboard: NewDashboardModel(opts.History),
		rekt:      NewRektModel(opts.Catalog),
		bloomberg: NewBloombergModel(opts.Catalog),
		assistant: NewAssistantModel(opts.Chat),
	}
	a.restyle()
	return a
}

// Run starts the bubbletea program.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.console.Init(),
		a.dashboard.Init(),
		a.bloomberg.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentW := max(20, msg.Width-2)
		contentH := max(8, msg.Height-7)
		a.console.SetSize(contentW, contentH)
		a.dashboard.SetSize(contentW, contentH)
		a.rekt.SetSize(contentW, contentH)
		a.bloomberg.SetSize(contentW, contentH)
		a.assistant.SetSize(contentW, contentH)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+t":
			return a, a.cycleTheme()
		case "tab":
			return a, a.setTab((a.activeTab + 1) % Tab(len(tabNames)))
		case "shift+tab":
			prev := a.activeTab - 1
			if prev < 0 {
				prev = Tab(len(tabNames) - 1)
			}
			return a, a.setTab(prev)
		}
		if !a.typing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "t":
				return a, a.cycleTheme()
			case "1", "2", "3", "4", "5":
				return a, a.setTab(Tab(msg.String()[0] - '1'))
			}
		}
		return a, a.updateActive(msg)

	case commandResultMsg:
		var cmd tea.Cmd
		a.console, cmd = a.console.Update(msg)
		if _, ok := msg.resp.(terminal.ScanResponse); ok {
			cmd = tea.Batch(cmd, a.dashboard.loadCmd())
		}
		return a, cmd

	case switchViewMsg:
		if t, ok := viewTabs[msg.view]; ok {
			return a, a.setTab(t)
		}
		return a, nil

	case chatReplyMsg:
		var cmd tea.Cmd
		a.assistant, cmd = a.assistant.Update(msg)
		return a, cmd

	case dashLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case tickerMsg:
		var cmd tea.Cmd
		a.bloomberg, cmd = a.bloomberg.Update(msg)
		return a, cmd

	case themeSavedMsg:
		if msg.err != nil {
			a.statusMsg = "theme not saved: " + msg.err.Error()
		} else {
			a.statusMsg = "theme: " + msg.theme.String()
		}
		return a, nil
	}

	// Cursor blink and other input-internal messages.
	return a, a.updateActive(msg)
}

func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.activeTab {
	case TabTerminal:
		a.console, cmd = a.console.Update(msg)
	case TabDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case TabAI:
		a.assistant, cmd = a.assistant.Update(msg)
	}
	return cmd
}

// typing reports whether the active tab owns a text input.
func (a *App) typing() bool {
	return a.activeTab == TabTerminal || a.activeTab == TabAI
}

func (a *App) setTab(t Tab) tea.Cmd {
	a.activeTab = t
	a.console.focus(t == TabTerminal)
	a.assistant.focus(t == TabAI)
	if t == TabDashboard {
		return a.dashboard.loadCmd()
	}
	return nil
}

// cycleTheme switches to the next theme immediately and persists it in
// the background.
func (a *App) cycleTheme() tea.Cmd {
	next := applyTheme(a.theme.Next())
	a.theme = next
	a.restyle()
	slog.Debug("tui: theme changed", "theme", next)

	store := a.themes
	if store == nil {
		return func() tea.Msg { return themeSavedMsg{theme: next} }
	}
	return func() tea.Msg {
		return themeSavedMsg{theme: next, err: store.Save(context.Background(), next)}
	}
}

func (a *App) restyle() {
	a.console.restyle()
	a.assistant.restyle()
}

// ActiveTab returns the selected tab.
func (a *App) ActiveTab() Tab { return a.activeTab }

// Theme returns the applied theme.
func (a *App) Theme() theme.Theme { return a.theme }

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	nav := a.renderTabs()

	var content string
	switch a.activeTab {
	case TabTerminal:
		content = a.console.View()
	case TabDashboard:
		content = a.dashboard.View()
	case TabRekt:
		content = a.rekt.View()
	case TabBloomberg:
		content = a.bloomberg.View()
	case TabAI:
		content = a.assistant.View()
	}

	contentBox := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		MaxHeight(max(1, a.height-4)).
		Render(content)

	hint := "tab next  shift+tab prev  1-5 jump  t theme  q quit"
	if a.typing() {
		hint = "tab next  shift+tab prev  enter send  pgup/pgdn scroll  ctrl+t theme  ctrl+c quit"
	}
	if a.statusMsg != "" {
		hint += "   " + a.statusMsg
	}
	status := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(colors.slateDim).
		Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		nav,
		contentBox,
		status,
	)
}

func (a *App) renderHeader() string {
	row := lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("rekt"),
		"  ",
		dimStyle.Render("crypto security terminal"),
		"  ",
		mutedBadgeStyle.Render(" "+tabNames[a.activeTab]+" "),
		" ",
		mutedBadgeStyle.Render(" "+a.theme.String()+" "),
	)
	return lipgloss.NewStyle().
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colors.line).
		Width(a.width).
		Padding(0, 1).
		Render(row)
}

func (a *App) renderTabs() string {
	rendered := a.renderTabLabels(tabNames)
	maxWidth := max(10, a.width-2)
	if lipgloss.Width(rendered) > maxWidth {
		rendered = a.renderTabLabels(tabCompactNames)
	}
	if lipgloss.Width(rendered) > maxWidth {
		rendered = a.renderTabLabels(tabTinyNames)
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(colors.slate).
		Render(rendered)
}

func (a *App) renderTabLabels(labels []string) string {
	parts := make([]string, 0, len(labels))
	for i, name := range labels {
		label := fmt.Sprintf("%d:%s", i+1, name)
		if Tab(i) == a.activeTab {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(colors.accent).Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
		if i < len(labels)-1 {
			parts = append(parts, dimStyle.Render("  ·  "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
