package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/foamwatch/internal/logtail"
)

// logState holds the solver log tab state.
type logState struct {
	lines    []string
	follow   bool
	lastRead time.Time
	info     logtail.Info
	err      error
}

type logLinesMsg struct {
	lines     []string
	info      logtail.Info
	unchanged bool
	err       error
}

// refreshLog reads the tail of the solver log unless a read happened very
// recently.
func (m *Model) refreshLog() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	if time.Since(m.logState.lastRead) < LogRefreshDebounce {
		return nil
	}
	m.logState.lastRead = time.Now()

	path := m.logPath
	prev := m.logState.info
	hasLines := m.logState.lines != nil
	return func() tea.Msg {
		info, err := logtail.Stat(path)
		if err != nil {
			return logLinesMsg{err: err}
		}
		if hasLines && info.Size == prev.Size && info.ModTime.Equal(prev.ModTime) {
			return logLinesMsg{info: info, unchanged: true}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, info: info, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.unchanged {
		return
	}
	if msg.err == nil {
		m.logState.lines = msg.lines
		m.logState.info = msg.info
	}
	m.updateLogViewport()
}

// updateLogViewport sizes the viewport and refreshes its content.
func (m *Model) updateLogViewport() {
	// Box inner height minus the title line.
	width := max(m.width-4, 1)
	height := max(m.contentHeight()-3, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.SetContent(m.renderLogContent())

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logState.err != nil {
		return styles.DangerText.Render(m.logState.err.Error())
	}
	if len(m.logState.lines) == 0 {
		return styles.MutedText.Render("Log is empty or missing")
	}

	width := m.logViewport.Width
	var b strings.Builder
	for i, line := range m.logState.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(colorizeLogLine(truncate(line, width), styles))
	}
	return b.String()
}

// colorizeLogLine highlights the lines the monitor extracts values from.
func colorizeLogLine(line string, styles Styles) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "Time = "):
		return styles.AccentText.Bold(true).Render(line)
	case strings.Contains(line, "Initial residual"):
		return styles.Text.Render(line)
	case strings.HasPrefix(trimmed, "Courant Number"):
		return styles.InfoText.Render(line)
	case strings.HasPrefix(trimmed, "min/max(T)"):
		return styles.WarningText.Render(line)
	case trimmed == "End":
		return styles.SuccessText.Render(line)
	case strings.Contains(line, "FOAM FATAL") || strings.Contains(line, "FOAM Warning"):
		return styles.DangerText.Render(line)
	default:
		return styles.FaintText.Render(line)
	}
}

// renderLog renders the solver log tab.
func (m Model) renderLog() string {
	styles := m.theme.Styles()
	follow := ternary(m.logState.follow, "on", "off")
	status := styles.FaintText.Render(fmt.Sprintf("%d lines  auto-tail %s", len(m.logState.lines), follow))

	content := m.logViewport.View() + "\n" + status
	return m.renderBox("Solver log", content, m.width, m.contentHeight())
}

// handleLogKey processes keyboard input for the log tab.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLog()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true

	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfViewDown()
		m.logState.follow = false

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfViewUp()
		m.logState.follow = false

	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.ViewDown()
		m.logState.follow = false

	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.ViewUp()
		m.logState.follow = false
	}
	return m, nil
}
