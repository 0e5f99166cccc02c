// Package ui provides the Bubble Tea terminal interface for foamwatch.
//
// The model never touches monitor state directly: it reads immutable
// snapshots from the shared store on every tick, and reads the tail of the
// solver log itself for the log tab.
package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/foamwatch/internal/logging"
	"github.com/five82/foamwatch/internal/prefs"
	"github.com/five82/foamwatch/internal/state"
)

// Tab represents the active content tab.
type Tab int

const (
	TabResiduals Tab = iota
	TabCourant
	TabTemperature
	TabLog
)

var tabOrder = []Tab{TabResiduals, TabCourant, TabTemperature, TabLog}

// String returns the tab label.
func (t Tab) String() string {
	switch t {
	case TabCourant:
		return "Courant"
	case TabTemperature:
		return "Temperature"
	case TabLog:
		return "Log"
	default:
		return "Residuals"
	}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	LogPath   string
	Refresh   time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	logPath   string
	prefsPath string
	refresh   time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	tab      Tab
	initial  bool // residual chart shows initial residuals
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Default()
	}

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		refresh:   refresh,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(userPrefs.Theme),
		tab:       TabResiduals,
		initial:   userPrefs.Residual == prefs.ResidualInitial,
		logState:  logState{follow: true},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleResidual):
		m.initial = !m.initial
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.selectTab(m.tab.next(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.selectTab(m.tab.next(-1))

	case key.Matches(msg, m.keys.ViewResiduals):
		return m.selectTab(TabResiduals)

	case key.Matches(msg, m.keys.ViewCourant):
		return m.selectTab(TabCourant)

	case key.Matches(msg, m.keys.ViewTemperature):
		return m.selectTab(TabTemperature)

	case key.Matches(msg, m.keys.ViewLog):
		return m.selectTab(TabLog)
	}

	if m.tab == TabLog {
		return m.handleLogKey(msg)
	}
	return m, nil
}

func (t Tab) next(step int) Tab {
	n := len(tabOrder)
	return tabOrder[((int(t)+step)%n+n)%n]
}

func (m Model) selectTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	if tab == TabLog {
		m.logState.lastRead = time.Time{}
		return m, m.refreshLog()
	}
	return m, nil
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:    m.theme.Name,
		Residual: ternary(m.initial, prefs.ResidualInitial, prefs.ResidualFinal),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		logging.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences")
	}
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.tab == TabLog && m.logState.follow {
		if cmd := m.refreshLog(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.refresh))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the main content area based on the current tab.
func (m Model) renderContent() string {
	switch m.tab {
	case TabLog:
		return m.renderLog()
	default:
		return m.renderChart()
	}
}

// contentHeight is the box height left after header, command bar and footer.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
