package tui

import (
	"context"
	"strings"

	"github.com/CosmoTheDev/rekt-terminal/internal/ai"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type chatReplyMsg struct {
	reply ai.Message
	err   error
}

// AssistantModel is the AI tab: a chat transcript over an input line.
type AssistantModel struct {
	chat     *ai.Conversation
	input    textinput.Model
	viewport viewport.Model
	waiting  bool
	lastErr  string
	width    int
	height   int
}

// NewAssistantModel creates an AssistantModel over conv.
func NewAssistantModel(conv *ai.Conversation) AssistantModel {
	ti := textinput.New()
	ti.Prompt = "ask> "
	ti.Placeholder = "ask about reentrancy, oracles, rugs…"
	ti.CharLimit = 1000
	m := AssistantModel{chat: conv, input: ti, viewport: viewport.New(80, 20)}
	m.refresh()
	return m
}

func (m AssistantModel) sendCmd(text string) tea.Cmd {
	conv := m.chat
	return func() tea.Msg {
		reply, err := conv.Send(context.Background(), text)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m AssistantModel) Update(msg tea.Msg) (AssistantModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		m.waiting = false
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.refresh()
			return m, m.sendCmd(text)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AssistantModel) refresh() {
	var b strings.Builder
	msgs := m.chat.History()
	if len(msgs) == 0 {
		b.WriteString(dimStyle.Render("Ask the assistant about exploits, audits or the scanner's findings."))
	}
	for _, msg := range msgs {
		who := promptStyle.Render("you")
		if msg.Role == ai.RoleAssistant {
			who = okStyle.Render("ai ")
		}
		b.WriteString(who + "  " + inkStyle.Render(msg.Content) + "\n\n")
	}
	if m.waiting {
		b.WriteString(dimStyle.Render("thinking…"))
	}
	if m.lastErr != "" {
		b.WriteString(criticalStyle.Render("✗ " + m.lastErr))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *AssistantModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(20, w-2)
	m.viewport.Height = max(3, h-3)
	m.input.Width = max(10, w-10)
	m.refresh()
}

func (m *AssistantModel) restyle() {
	m.input.PromptStyle = okStyle
	m.input.TextStyle = inkStyle
	m.refresh()
}

func (m *AssistantModel) focus(on bool) {
	if on {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m AssistantModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colors.line).
			Render(m.input.View()),
	)
}
