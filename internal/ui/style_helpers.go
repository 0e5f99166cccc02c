package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints header and footer segments onto one background. Each word
// is styled on its own and joined with painted spaces, since a single styled
// run leaves unpainted gaps after embedded ANSI resets.
type BgStyle struct {
	base lipgloss.Style
}

// NewBgStyle returns a painter for the given background color.
func NewBgStyle(bgColor string) BgStyle {
	return BgStyle{base: lipgloss.NewStyle().Background(lipgloss.Color(bgColor))}
}

// Render draws text with style on the shared background.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	styled := style.Background(b.base.GetBackground())
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	return strings.Join(words, b.Space())
}

// Spaces returns n painted spaces.
func (b BgStyle) Spaces(n int) string {
	return b.base.Render(strings.Repeat(" ", n))
}

// Space returns one painted space.
func (b BgStyle) Space() string {
	return b.Spaces(1)
}

// Sep paints a separator.
func (b BgStyle) Sep(sep string) string {
	return b.base.Render(sep)
}
