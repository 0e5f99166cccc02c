package app

import (
	"fmt"
	"io"

	"github.com/five82/foamwatch/internal/config"
	"github.com/five82/foamwatch/internal/foamlog"
	"github.com/five82/foamwatch/internal/logtail"
	"github.com/five82/foamwatch/internal/monitor"
	"github.com/five82/foamwatch/internal/report"
)

// DumpOptions control the one-shot dump.
type DumpOptions struct {
	JSON    bool
	Initial bool
	Rows    int
	Color   bool
}

// Dump reads the log once and prints the windowed steps.
func Dump(w io.Writer, cfg config.Config, opts DumpOptions) error {
	text, err := logtail.ReadAll(cfg.LogPath)
	if err != nil {
		return err
	}

	steps := foamlog.Segment(text)
	session := monitor.NewSession(cfg.Fields)
	session.Ingest(text, steps)
	view := session.View(cfg.Window)

	if opts.JSON {
		return report.WriteJSON(w, view)
	}
	if len(steps) == 0 {
		_, err := fmt.Fprintf(w, "no time steps found in %s\n", cfg.LogPath)
		return err
	}

	rows := opts.Rows
	if rows == 0 {
		rows = -1
	}
	if err := report.WriteTable(w, view, report.Options{Rows: rows, Initial: opts.Initial, Color: opts.Color}); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	status := fmt.Sprintf("%d steps recorded, %d markers, %d shown", view.Recorded, view.Discovered, view.Len())
	if view.Finished {
		status += ", solver finished"
	}
	_, err = fmt.Fprintln(w, status)
	return err
}
