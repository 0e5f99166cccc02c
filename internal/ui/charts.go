package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/foamwatch/internal/plot"
)

// renderChart draws the chart for the active tab inside a box.
func (m Model) renderChart() string {
	height := m.contentHeight()
	if !m.snapshot.HasView {
		styles := m.theme.Styles()
		msg := "Waiting for solver output..."
		if m.snapshot.Message != "" {
			msg = m.snapshot.Message
		}
		return m.renderBox(m.tab.String(), styles.MutedText.Render(msg), m.width, height)
	}

	var c plot.Chart
	switch m.tab {
	case TabCourant:
		c = plot.CourantChart(m.snapshot.View)
	case TabTemperature:
		c = plot.TemperatureChart(m.snapshot.View)
	default:
		c = plot.ResidualChart(m.snapshot.View, m.initial)
	}

	// Box borders take two rows, the caption and legend two more.
	term := plot.Terminal{
		Width:  max(m.width-4-ChartLabelWidth, 10),
		Height: max(height-6, ChartMinHeight),
		Color:  true,
		Colors: m.theme.Series,
	}
	return m.renderBox(c.Title, term.Render(c), m.width, height)
}

// renderBox frames content with a rounded border and a title line.
func (m Model) renderBox(title, content string, width, height int) string {
	titleLine := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Render(title)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(titleLine + "\n" + content)
}
