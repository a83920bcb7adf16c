package tui

import (
	"context"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxScrollback = 500

// commandResultMsg carries a dispatched command back to the UI goroutine.
type commandResultMsg struct {
	input string
	resp  terminal.Response
}

// switchViewMsg asks the App to change tab.
type switchViewMsg struct{ view string }

// ConsoleModel is the terminal tab: a prompt over a scrollback viewport.
type ConsoleModel struct {
	dispatcher *terminal.Dispatcher
	input      textinput.Model
	viewport   viewport.Model
	lines      []string
	busy       bool
	width      int
	height     int
}

// NewConsoleModel creates a ConsoleModel with the welcome banner.
func NewConsoleModel(d *terminal.Dispatcher) ConsoleModel {
	ti := textinput.New()
	ti.Prompt = "rekt> "
	ti.Placeholder = "type 'help'"
	ti.CharLimit = 512
	ti.Focus()

	c := ConsoleModel{
		dispatcher: d,
		input:      ti,
		viewport:   viewport.New(80, 20),
	}
	c.lines = append(c.lines, welcomeBanner())
	c.refresh()
	return c
}

func welcomeBanner() string {
	return promptStyle.Render("REKT TERMINAL") + "\n" +
		dimStyle.Render("Security news, exploit post-mortems and a contract scanner. Type 'help' to begin.")
}

func (c ConsoleModel) Init() tea.Cmd { return textinput.Blink }

func (c ConsoleModel) dispatchCmd(line string) tea.Cmd {
	d := c.dispatcher
	return func() tea.Msg {
		return commandResultMsg{input: line, resp: d.Dispatch(context.Background(), line)}
	}
}

func (c ConsoleModel) Update(msg tea.Msg) (ConsoleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case commandResultMsg:
		c.busy = false
		switch r := msg.resp.(type) {
		case terminal.ClearResponse:
			c.lines = nil
			c.refresh()
			return c, nil
		case terminal.ViewResponse:
			c.appendLine(dimStyle.Render("→ switching to " + r.View))
			return c, func() tea.Msg { return switchViewMsg{view: r.View} }
		default:
			c.appendLine(RenderResponse(msg.resp))
		}
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if c.busy {
				return c, nil
			}
			line := c.input.Value()
			c.input.Reset()
			c.appendLine(promptStyle.Render("rekt> ") + inkStyle.Render(line))
			if strings.TrimSpace(line) != "" {
				c.busy = true
			}
			return c, c.dispatchCmd(line)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ConsoleModel) appendLine(s string) {
	c.lines = append(c.lines, strings.TrimRight(s, "\n"))
	if len(c.lines) > maxScrollback {
		c.lines = c.lines[len(c.lines)-maxScrollback:]
	}
	c.refresh()
}

func (c *ConsoleModel) refresh() {
	c.viewport.SetContent(strings.Join(c.lines, "\n"))
	c.viewport.GotoBottom()
}

// Lines returns the current scrollback entries.
func (c ConsoleModel) Lines() []string { return c.lines }

func (c *ConsoleModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.viewport.Width = max(20, w-2)
	c.viewport.Height = max(3, h-3)
	c.input.Width = max(10, w-10)
	c.refresh()
}

// restyle applies the current theme to the prompt.
func (c *ConsoleModel) restyle() {
	c.input.PromptStyle = promptStyle
	c.input.TextStyle = inkStyle
}

func (c *ConsoleModel) focus(on bool) {
	if on {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

func (c ConsoleModel) View() string {
	status := ""
	if c.busy {
		status = highStyle.Render(" working…")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		c.viewport.View(),
		lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colors.line).
			Render(c.input.View()+status),
	)
}
