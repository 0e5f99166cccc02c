// Package app wires configuration, the monitor driver and its renderers.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/five82/foamwatch/internal/config"
	"github.com/five82/foamwatch/internal/logging"
	"github.com/five82/foamwatch/internal/logtail"
	"github.com/five82/foamwatch/internal/plot"
	"github.com/five82/foamwatch/internal/prefs"
	"github.com/five82/foamwatch/internal/report"
	"github.com/five82/foamwatch/internal/state"
	"github.com/five82/foamwatch/internal/ui"
)

// Options configure a monitoring run.
type Options struct {
	Config    config.Config
	PrefsPath string    // empty uses default ~/.config/foamwatch/prefs.toml
	Headless  bool      // print to Out instead of running the TUI
	Out       io.Writer // headless output; nil means stdout
	Color     bool      // colorize headless output
}

// Run monitors the configured log until ctx is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	closer, err := logging.Init(cfg.LogLevel, cfg.AppLog, opts.Headless)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)
	initial := userPrefs.Residual == prefs.ResidualInitial

	logging.Info().
		Str("log", cfg.LogPath).
		Strs("fields", cfg.Fields).
		Int("window", cfg.Window).
		Int("reset_every", cfg.ResetEvery).
		Dur("poll", cfg.PollInterval).
		Bool("headless", opts.Headless).
		Msg("starting foamwatch")

	store := &state.Store{}
	var sinks []Sink
	if cfg.PNGPath != "" {
		sinks = append(sinks, &plot.PNGSink{Path: cfg.PNGPath, Initial: initial})
	}
	if opts.Headless {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		sinks = append(sinks, report.NewPrinter(out, report.Options{Initial: initial, Color: opts.Color}))
	}

	driver := NewDriver(cfg, store, sinks...)
	if cfg.Watch {
		watcher, err := logtail.NewWatcher(cfg.LogPath)
		if err != nil {
			logging.Warn().Err(err).Msg("file watching disabled")
		} else {
			defer func() { _ = watcher.Close() }()
			driver.SetWake(watcher.Wake())
		}
	}

	if opts.Headless {
		return driver.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	uiErr := ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		LogPath:   cfg.LogPath,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
	cancel()
	return errors.Join(uiErr, <-done)
}
