// Package state shares the driver's latest published view with renderers.
//
// The driver loop is the single writer; the UI and other sinks read copies
// through Snapshot on their own schedule.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/foamwatch/internal/monitor"
)

// Phase names a step of the driver state machine.
type Phase string

const (
	PhaseInit         Phase = "init"
	PhasePoll         Phase = "poll"
	PhaseRetryMissing Phase = "retry-missing-file"
	PhaseRetryNoSteps Phase = "retry-no-steps"
	PhaseProcess      Phase = "process"
	PhaseRender       Phase = "render"
	PhaseWait         Phase = "wait"
	PhaseReset        Phase = "reset"
	PhaseStopped      Phase = "stopped"
)

// Waiting reports whether the phase is one of the retry states.
func (p Phase) Waiting() bool {
	return p == PhaseRetryMissing || p == PhaseRetryNoSteps
}

// Progress describes where the driver is in its cycle.
type Progress struct {
	Phase   Phase
	Cycle   int // monitoring cycle, starting at 1
	Poll    int // processed polls in the current cycle
	Message string
}

// Snapshot represents the latest data available to renderers.
type Snapshot struct {
	View    monitor.View
	HasView bool

	LogPath string
	Phase   Phase
	Cycle   int
	Poll    int
	Message string

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // consecutive polls that could not read the log
}

// IsStale returns true when the log has been unreadable for several polls.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetLogPath records the monitored log for display.
func (s *Store) SetLogPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LogPath = path
}

// Update records progress and, when view is non-nil, replaces the published
// view. When err is non-nil the previous view is kept and the error recorded.
func (s *Store) Update(view *monitor.View, progress Progress, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Phase = progress.Phase
	s.snapshot.Cycle = progress.Cycle
	s.snapshot.Poll = progress.Poll
	s.snapshot.Message = progress.Message
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if view != nil {
		s.snapshot.View = view.Clone()
		s.snapshot.HasView = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// SetProgress records progress without touching the view or the error state.
func (s *Store) SetProgress(progress Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Phase = progress.Phase
	s.snapshot.Cycle = progress.Cycle
	s.snapshot.Poll = progress.Poll
	s.snapshot.Message = progress.Message
	s.snapshot.LastUpdated = time.Now()
}

// Reset drops the published view, as at the start of a new cycle.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.View = monitor.View{}
	s.snapshot.HasView = false
	s.snapshot.Poll = 0
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.View = s.snapshot.View.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
