// Package report prints monitor views as text tables, status lines and JSON
// for headless runs and the dump command.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/five82/foamwatch/internal/monitor"
	"github.com/five82/foamwatch/internal/state"
)

const defaultRows = 10

// Options control table output.
type Options struct {
	Rows    int  // latest steps to list; zero uses the default, negative lists all
	Initial bool // show initial instead of final residuals
	Color   bool
}

// WriteTable lists the latest steps of v, one row per step.
func WriteTable(w io.Writer, v monitor.View, opts Options) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	headers := []string{"Time"}
	headers = append(headers, v.Fields...)
	headers = append(headers, "Co mean", "Co max", "max T", "Exec (s)")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	start := 0
	rows := opts.Rows
	if rows == 0 {
		rows = defaultRows
	}
	if rows > 0 && v.Len() > rows {
		start = v.Len() - rows
	}

	var data [][]string
	for i := start; i < v.Len(); i++ {
		row := []string{timeLabel(v, i)}
		for _, field := range v.Fields {
			row = append(row, formatSci(valueAt(v.Residuals(field, opts.Initial), i)))
		}
		row = append(row,
			formatFixed(valueAt(v.CourantMean, i), 4),
			formatFixed(valueAt(v.CourantMax, i), 4),
			formatFixed(valueAt(v.MaxT, i), 2),
			formatFixed(valueAt(v.ExecutionTime, i), 2),
		)
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// StatusLine summarizes a snapshot in one line.
func StatusLine(snap state.Snapshot, useColor bool) string {
	paint := func(attrs ...color.Attribute) func(...any) string {
		if !useColor {
			return fmt.Sprint
		}
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}

	phase := string(snap.Phase)
	switch {
	case snap.LastError != nil:
		phase = paint(color.FgRed, color.Bold)(phase)
	case snap.Phase.Waiting():
		phase = paint(color.FgYellow)(phase)
	default:
		phase = paint(color.FgCyan)(phase)
	}

	parts := []string{
		fmt.Sprintf("[%s]", phase),
		fmt.Sprintf("cycle %d poll %d", snap.Cycle, snap.Poll),
	}
	if snap.HasView {
		v := snap.View
		parts = append(parts, fmt.Sprintf("steps %d/%d", v.Recorded, v.Discovered))
		if latest, ok := v.Latest(); ok {
			parts = append(parts, "t="+strconv.FormatFloat(latest, 'g', -1, 64))
		}
		if v.Finished {
			parts = append(parts, paint(color.FgGreen, color.Bold)("finished"))
		}
	}
	if snap.Message != "" {
		parts = append(parts, snap.Message)
	}
	if snap.LastError != nil {
		parts = append(parts, paint(color.FgRed)(snap.LastError.Error()))
	}
	return strings.Join(parts, " | ")
}

func timeLabel(v monitor.View, i int) string {
	if i < len(v.RawTimes) && v.RawTimes[i] != "" {
		return v.RawTimes[i]
	}
	return strconv.FormatFloat(v.Times[i], 'g', -1, 64)
}

func valueAt(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return math.NaN()
	}
	return series[i]
}

func formatSci(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'e', 3, 64)
}

func formatFixed(v float64, prec int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
