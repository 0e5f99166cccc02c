package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme holds the palette for one color scheme.
type Theme struct {
	Name string

	Background string // outermost background
	Surface    string // header and command bar
	Selection  string // active tab background
	Border     string // chart and log boxes

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// PhaseColors maps driver phases to badge colors.
	PhaseColors map[string]string

	// Series colors chart lines in order; terminals only offer the ANSI set.
	Series []asciigraph.AnsiColor
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	phaseColors map[string]string
	background  string
	muted       string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo:     fg(t.Warning).Bold(true),
		Selected: fg(t.Text).Background(lipgloss.Color(t.Selection)),

		phaseColors: t.PhaseColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// PhaseStyle returns a badge style for the given driver phase.
func (s Styles) PhaseStyle(phase string) lipgloss.Style {
	color := s.phaseColors[phase]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy whose text styles paint bgColor explicitly,
// so segments joined on a colored bar leave no transparent gaps.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Header = s.Header.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Nightfox"]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

// phaseColors assigns badge colors: idle phases share one color, failures
// use the danger/warning colors.
func phaseColors(idle, poll, process, render, reset, missing, empty string) map[string]string {
	return map[string]string{
		"init":               idle,
		"wait":               idle,
		"stopped":            idle,
		"poll":               poll,
		"process":            process,
		"render":             render,
		"reset":              reset,
		"retry-missing-file": missing,
		"retry-no-steps":     empty,
	}
}

// https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	return Theme{
		Name:       "Nightfox",
		Background: "#131a24",
		Surface:    "#192330",
		Selection:  "#2b3b51",
		Border:     "#719cd6",
		Text:       "#cdcecf",
		Muted:      "#738091",
		Faint:      "#71839b",
		Accent:     "#719cd6",
		Success:    "#81b29a",
		Warning:    "#dbc074",
		Danger:     "#c94f6d",
		Info:       "#63cdcf",
		PhaseColors: phaseColors("#738091", "#63cdcf", "#719cd6", "#81b29a",
			"#9d79d6", "#c94f6d", "#dbc074"),
		Series: []asciigraph.AnsiColor{
			asciigraph.CornflowerBlue, asciigraph.IndianRed, asciigraph.DarkSeaGreen,
			asciigraph.Khaki, asciigraph.MediumPurple, asciigraph.MediumTurquoise,
		},
	}
}

// https://github.com/rebelot/kanagawa.nvim
func kanagawaTheme() Theme {
	return Theme{
		Name:       "Kanagawa",
		Background: "#16161D",
		Surface:    "#1F1F28",
		Selection:  "#2D4F67",
		Border:     "#7E9CD8",
		Text:       "#DCD7BA",
		Muted:      "#C8C093",
		Faint:      "#727169",
		Accent:     "#7E9CD8",
		Success:    "#98BB6C",
		Warning:    "#E6C384",
		Danger:     "#E46876",
		Info:       "#7FB4CA",
		PhaseColors: phaseColors("#727169", "#7FB4CA", "#7E9CD8", "#98BB6C",
			"#957FB8", "#E46876", "#E6C384"),
		Series: []asciigraph.AnsiColor{
			asciigraph.LightSteelBlue, asciigraph.LightCoral, asciigraph.YellowGreen,
			asciigraph.BurlyWood, asciigraph.Plum, asciigraph.SkyBlue,
		},
	}
}

// Tailwind slate/sky: https://tailwindcss.com/docs/colors
func slateTheme() Theme {
	return Theme{
		Name:       "Slate",
		Background: "#020617",
		Surface:    "#0f172a",
		Selection:  "#0284c7",
		Border:     "#38bdf8",
		Text:       "#f1f5f9",
		Muted:      "#94a3b8",
		Faint:      "#64748b",
		Accent:     "#38bdf8",
		Success:    "#22c55e",
		Warning:    "#f59e0b",
		Danger:     "#ef4444",
		Info:       "#06b6d4",
		PhaseColors: phaseColors("#64748b", "#38bdf8", "#0ea5e9", "#22c55e",
			"#06b6d4", "#dc2626", "#f59e0b"),
		Series: []asciigraph.AnsiColor{
			asciigraph.DeepSkyBlue, asciigraph.Red, asciigraph.LimeGreen,
			asciigraph.Orange, asciigraph.Violet, asciigraph.Aqua,
		},
	}
}
