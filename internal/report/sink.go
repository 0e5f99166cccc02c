package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/five82/foamwatch/internal/state"
)

// Printer is the headless sink: a status line and a table per render.
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	opts Options
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts}
}

// Render prints snap.
func (p *Printer) Render(snap state.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintln(p.w, StatusLine(snap, p.opts.Color)); err != nil {
		return err
	}
	if !snap.HasView || snap.View.Len() == 0 {
		return nil
	}
	return WriteTable(p.w, snap.View, p.opts)
}

// Reset marks the start of a new monitoring cycle in the output.
func (p *Printer) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := fmt.Fprintln(p.w, "-- new monitoring cycle --")
	return err
}
