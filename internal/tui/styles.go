package tui

import (
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/charmbracelet/lipgloss"
)

// palette is the colour set for one theme.
type palette struct {
	accent     lipgloss.Color
	accentSoft lipgloss.Color
	green      lipgloss.Color
	yellow     lipgloss.Color
	red        lipgloss.Color
	blue       lipgloss.Color
	slate      lipgloss.Color
	slateDim   lipgloss.Color
	panelBg    lipgloss.Color
	bg         lipgloss.Color
	line       lipgloss.Color
	ink        lipgloss.Color
	keycapBg   lipgloss.Color
}

var palettes = map[theme.Theme]palette{
	theme.Dark: {
		accent:     "#EF4444",
		accentSoft: "#B91C1C",
		green:      "#22C55E",
		yellow:     "#F59E0B",
		red:        "#EF4444",
		blue:       "#38BDF8",
		slate:      "#94A3B8",
		slateDim:   "#64748B",
		panelBg:    "#111827",
		bg:         "#0B1220",
		line:       "#1F2937",
		ink:        "#E5E7EB",
		keycapBg:   "#1E293B",
	},
	theme.Light: {
		accent:     "#DC2626",
		accentSoft: "#FCA5A5",
		green:      "#15803D",
		yellow:     "#B45309",
		red:        "#B91C1C",
		blue:       "#0369A1",
		slate:      "#475569",
		slateDim:   "#64748B",
		panelBg:    "#F8FAFC",
		bg:         "#FFFFFF",
		line:       "#CBD5E1",
		ink:        "#0F172A",
		keycapBg:   "#E2E8F0",
	},
	theme.Matrix: {
		accent:     "#00FF41",
		accentSoft: "#008F11",
		green:      "#00FF41",
		yellow:     "#B3FF00",
		red:        "#FF3B3B",
		blue:       "#39FF14",
		slate:      "#0FBF3A",
		slateDim:   "#008F11",
		panelBg:    "#020A02",
		bg:         "#000000",
		line:       "#003B00",
		ink:        "#C8FFC8",
		keycapBg:   "#002200",
	},
}

var (
	colors palette

	titleStyle       lipgloss.Style
	criticalStyle    lipgloss.Style
	highStyle        lipgloss.Style
	mediumStyle      lipgloss.Style
	lowStyle         lipgloss.Style
	okStyle          lipgloss.Style
	boxStyle         lipgloss.Style
	panelStyle       lipgloss.Style
	panelHeaderStyle lipgloss.Style
	mutedBadgeStyle  lipgloss.Style
	keycapStyle      lipgloss.Style
	promptStyle      lipgloss.Style
	inkStyle         lipgloss.Style
	dimStyle         lipgloss.Style
)

func init() { applyTheme(theme.Dark) }

// applyTheme rebuilds every package style from t's palette and returns the
// theme actually applied. Unknown themes use the dark palette.
func applyTheme(t theme.Theme) theme.Theme {
	p, ok := palettes[t]
	if !ok {
		t, p = theme.Dark, palettes[theme.Dark]
	}
	colors = p

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.ink).
		Background(p.bg).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(p.accent).
		Padding(0, 1)

	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(p.red)
	highStyle = lipgloss.NewStyle().Bold(true).Foreground(p.yellow)
	mediumStyle = lipgloss.NewStyle().Foreground(p.blue)
	lowStyle = lipgloss.NewStyle().Foreground(p.slate)
	okStyle = lipgloss.NewStyle().Foreground(p.green)

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.line).
		Background(p.panelBg).
		Padding(1, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.line).
		Background(p.panelBg).
		Padding(1, 1)

	panelHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.ink)

	mutedBadgeStyle = lipgloss.NewStyle().
		Foreground(p.slate).
		Background(p.bg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.line).
		Padding(0, 1)

	keycapStyle = lipgloss.NewStyle().
		Foreground(p.ink).
		Background(p.keycapBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.line).
		Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	inkStyle = lipgloss.NewStyle().Foreground(p.ink)
	dimStyle = lipgloss.NewStyle().Foreground(p.slateDim)
	return t
}

func severityStyle(severity models.SeverityLevel) lipgloss.Style {
	switch severity {
	case models.SeverityCritical:
		return criticalStyle
	case models.SeverityHigh:
		return highStyle
	case models.SeverityMedium:
		return mediumStyle
	case models.SeverityLow:
		return lowStyle
	default:
		return dimStyle
	}
}
