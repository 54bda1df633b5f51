package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the panel chrome. Particles keep their own hues.
type Theme struct {
	Name   string
	Border lipgloss.Color
	Title  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Status lipgloss.Color
	Paused lipgloss.Color
	Chart  lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "cyberpunk",
		Border: lipgloss.Color("#444466"),
		Title:  lipgloss.Color("#ff00ff"),
		Label:  lipgloss.Color("#888899"),
		Value:  lipgloss.Color("#00ffff"),
		Status: lipgloss.Color("#00ff88"),
		Paused: lipgloss.Color("#ffaa00"),
		Chart:  lipgloss.Color("#ffff00"),
	},
	{
		Name:   "retro",
		Border: lipgloss.Color("#005500"),
		Title:  lipgloss.Color("#00ff00"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#88ff88"),
		Status: lipgloss.Color("#88ff88"),
		Paused: lipgloss.Color("#ffff00"),
		Chart:  lipgloss.Color("#00cc00"),
	},
	{
		Name:   "minimal",
		Border: lipgloss.Color("#444444"),
		Title:  lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#cccccc"),
		Status: lipgloss.Color("#00ff00"),
		Paused: lipgloss.Color("#ffaa00"),
		Chart:  lipgloss.Color("#0088ff"),
	},
	{
		Name:   "ocean",
		Border: lipgloss.Color("#4488aa"),
		Title:  lipgloss.Color("#0077be"),
		Label:  lipgloss.Color("#4488aa"),
		Value:  lipgloss.Color("#e0f0ff"),
		Status: lipgloss.Color("#00ff88"),
		Paused: lipgloss.Color("#ffcc00"),
		Chart:  lipgloss.Color("#00a8cc"),
	},
}

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	panel  lipgloss.Style
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	status lipgloss.Style
	paused lipgloss.Style
	chart  lipgloss.Style
	help   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(1, 2).Width(40),
		title:  lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		status: lipgloss.NewStyle().Foreground(t.Status).Bold(true),
		paused: lipgloss.NewStyle().Foreground(t.Paused).Bold(true),
		chart:  lipgloss.NewStyle().Foreground(t.Chart),
		help:   lipgloss.NewStyle().Foreground(t.Label).Italic(true).MarginTop(1),
	}
}
