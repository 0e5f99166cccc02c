package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/five82/foamwatch/internal/config"
	"github.com/five82/foamwatch/internal/foamlog"
	"github.com/five82/foamwatch/internal/logging"
	"github.com/five82/foamwatch/internal/logtail"
	"github.com/five82/foamwatch/internal/monitor"
	"github.com/five82/foamwatch/internal/state"
)

// Sink receives each rendered snapshot. Reset is called at the start of
// every monitoring cycle to clear whatever the sink has drawn.
type Sink interface {
	Render(snap state.Snapshot) error
	Reset() error
}

// Driver runs the poll/process/render loop over one solver log. It is the
// only writer of its Session.
type Driver struct {
	cfg   config.Config
	store *state.Store
	sinks []Sink

	read func(path string) (string, error)
	wake <-chan struct{}

	session *monitor.Session
	cycle   int
	polls   int

	// carried between phases of one iteration
	text    string
	steps   []foamlog.Step
	readErr error
}

// NewDriver returns a driver publishing to store and the given sinks.
func NewDriver(cfg config.Config, store *state.Store, sinks ...Sink) *Driver {
	if store == nil {
		store = &state.Store{}
	}
	store.SetLogPath(cfg.LogPath)
	return &Driver{
		cfg:   cfg,
		store: store,
		sinks: sinks,
		read:  logtail.ReadAll,
	}
}

// SetWake installs a channel that ends the retry waits early, so a log that
// appears or gains its first time step is picked up without waiting out the
// retry delay. The poll interval itself is never shortened.
func (d *Driver) SetWake(wake <-chan struct{}) {
	d.wake = wake
}

// Run loops until ctx is cancelled. Only a cancelled context ends the loop,
// and that is not an error.
func (d *Driver) Run(ctx context.Context) error {
	phase := state.PhaseInit
	for {
		if ctx.Err() != nil {
			d.progress(state.PhaseStopped, "stopped")
			return nil
		}
		next, ok := d.step(ctx, phase)
		if !ok {
			d.progress(state.PhaseStopped, "stopped")
			return nil
		}
		if next != phase {
			logging.Debug().Str("from", string(phase)).Str("to", string(next)).Msg("phase")
		}
		phase = next
	}
}

// step executes one phase and returns the next. ok is false when a wait was
// interrupted by cancellation.
func (d *Driver) step(ctx context.Context, phase state.Phase) (next state.Phase, ok bool) {
	switch phase {
	case state.PhaseInit:
		d.init()
		return state.PhasePoll, true

	case state.PhasePoll:
		return d.poll(), true

	case state.PhaseRetryMissing:
		msg := fmt.Sprintf("waiting for %s", d.cfg.LogPath)
		d.publish(nil, phase, msg, d.readErr)
		logging.Info().Err(d.readErr).Dur("retry", d.cfg.RetryMissing).Msg("log file unavailable")
		if !d.wait(ctx, d.cfg.RetryMissing, d.wake) {
			return phase, false
		}
		return state.PhasePoll, true

	case state.PhaseRetryNoSteps:
		msg := "no time steps in log yet"
		d.publish(nil, phase, msg, nil)
		logging.Info().Str("path", d.cfg.LogPath).Dur("retry", d.cfg.RetryEmpty).Msg(msg)
		if !d.wait(ctx, d.cfg.RetryEmpty, d.wake) {
			return phase, false
		}
		return state.PhasePoll, true

	case state.PhaseProcess:
		added := d.session.Ingest(d.text, d.steps)
		d.polls++
		logging.Debug().
			Int("markers", len(d.steps)).
			Int("added", added).
			Int("recorded", d.session.Len()).
			Int("poll", d.polls).
			Msg("processed log")
		d.text, d.steps = "", nil
		return state.PhaseRender, true

	case state.PhaseRender:
		d.render()
		return state.PhaseWait, true

	case state.PhaseWait:
		d.progress(phase, fmt.Sprintf("next poll in %s", d.cfg.PollInterval))
		if !d.wait(ctx, d.cfg.PollInterval, nil) {
			return phase, false
		}
		if d.cfg.ResetEvery > 0 && d.polls >= d.cfg.ResetEvery {
			return state.PhaseReset, true
		}
		return state.PhasePoll, true

	case state.PhaseReset:
		logging.Info().Int("cycle", d.cycle).Int("polls", d.polls).Msg("resetting monitor state")
		return state.PhaseInit, true
	}
	return state.PhaseInit, true
}

func (d *Driver) init() {
	if d.session == nil {
		d.session = monitor.NewSession(d.cfg.Fields)
	} else {
		d.session.Reset()
	}
	d.cycle++
	d.polls = 0
	d.text, d.steps, d.readErr = "", nil, nil

	d.store.Reset()
	for _, sink := range d.sinks {
		if err := sink.Reset(); err != nil {
			logging.Warn().Err(err).Msg("sink reset failed")
		}
	}
	d.publish(nil, state.PhaseInit, "starting cycle", nil)
}

func (d *Driver) poll() state.Phase {
	text, err := d.read(d.cfg.LogPath)
	if err != nil {
		d.readErr = err
		return state.PhaseRetryMissing
	}
	d.readErr = nil

	steps := foamlog.Segment(text)
	if len(steps) == 0 {
		return state.PhaseRetryNoSteps
	}
	d.text, d.steps = text, steps
	return state.PhaseProcess
}

func (d *Driver) render() {
	view := d.session.View(d.cfg.Window)
	msg := "updated"
	if view.Finished {
		msg = "solver finished"
	}
	d.publish(&view, state.PhaseRender, msg, nil)

	snap := d.store.Snapshot()
	var errs []error
	for _, sink := range d.sinks {
		if err := sink.Render(snap); err != nil {
			logging.Warn().Err(err).Msg("render failed")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		d.publish(nil, state.PhaseRender, "render failed: "+err.Error(), err)
	}
}

func (d *Driver) publish(view *monitor.View, phase state.Phase, msg string, err error) {
	d.store.Update(view, state.Progress{
		Phase:   phase,
		Cycle:   d.cycle,
		Poll:    d.polls,
		Message: msg,
	}, err)
}

// progress publishes the phase and message, leaving the last error in place.
func (d *Driver) progress(phase state.Phase, msg string) {
	d.store.SetProgress(state.Progress{
		Phase:   phase,
		Cycle:   d.cycle,
		Poll:    d.polls,
		Message: msg,
	})
}

// wait blocks for dur or until wake fires. It returns false if ctx ended first.
func (d *Driver) wait(ctx context.Context, dur time.Duration, wake <-chan struct{}) bool {
	if dur <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-wake:
		return true
	}
}
