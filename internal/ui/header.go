package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/foamwatch/internal/state"
)

// renderHeader renders the status bar: phase, cycle, progress and latest time.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	snap := m.snapshot

	parts := []string{bg.Render("foamwatch", styles.Logo)}

	phase := snap.Phase
	if phase == "" {
		phase = state.PhaseInit
	}
	parts = append(parts, styles.PhaseStyle(string(phase)).Render(string(phase)))

	parts = append(parts,
		bg.Render("Cycle:", styles.MutedText)+bg.Space()+bg.Render(strconv.Itoa(max(snap.Cycle, 1)), styles.Text),
		bg.Render("Poll:", styles.MutedText)+bg.Space()+bg.Render(strconv.Itoa(snap.Poll), styles.Text),
	)

	if snap.HasView {
		v := snap.View
		parts = append(parts,
			bg.Render("Steps:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", v.Recorded, v.Discovered), styles.Text))
		if latest, ok := v.Latest(); ok {
			parts = append(parts,
				bg.Render("Time:", styles.MutedText)+bg.Space()+
					bg.Render(strconv.FormatFloat(latest, 'g', -1, 64), styles.AccentText))
		}
		if v.Finished {
			parts = append(parts, bg.Render("● Finished", styles.SuccessText))
		}
	}

	switch {
	case snap.Phase == state.PhaseRetryMissing && snap.IsStale():
		parts = append(parts, bg.Render("Log unavailable", styles.DangerText))
	case snap.Phase == state.PhaseRetryNoSteps:
		parts = append(parts, bg.Render("Waiting for time steps", styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar renders the tab strip and the keys for the current tab.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(tabOrder)+4)
	for i, tab := range tabOrder {
		label := bg.Render(strconv.Itoa(i+1), styles.AccentText) + colon
		if tab == m.tab {
			label += bg.Render(tab.String(), styles.Selected.Bold(true))
		} else {
			label += bg.Render(tab.String(), styles.MutedText)
		}
		segments = append(segments, label)
	}

	type cmd struct{ key, desc string }
	var commands []cmd
	switch m.tab {
	case TabLog:
		commands = []cmd{
			{"Space", ternary(m.logState.follow, "Pause", "Follow")},
			{"j/k", "Scroll"},
		}
	case TabResiduals:
		commands = []cmd{{"r", ternary(m.initial, "Final", "Initial")}}
	}
	commands = append(commands, cmd{"?", "More"})

	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderFooter shows the driver message, the monitored path and the last refresh.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var parts []string
	if msg := m.snapshot.Message; msg != "" {
		parts = append(parts, bg.Render(msg, styles.Text))
	}
	if err := m.snapshot.LastError; err != nil {
		parts = append(parts, bg.Render(truncate(err.Error(), 60), styles.DangerText))
	}

	path := m.snapshot.LogPath
	if path == "" {
		path = m.logPath
	}
	if path != "" {
		limit := 50
		if m.width < LayoutCompactWidth {
			limit = 30
		}
		parts = append(parts, bg.Render(truncateMiddle(path, limit), styles.MutedText))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}
