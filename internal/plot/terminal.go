package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Cyan,
}

// Terminal draws charts as text with asciigraph.
type Terminal struct {
	Width  int
	Height int
	Color  bool
	Colors []asciigraph.AnsiColor // series palette; nil uses the default
}

// Render returns the chart as a multi-line string. Steps that did not report
// a value are left as gaps.
func (t Terminal) Render(c Chart) string {
	var data [][]float64
	var names []string
	var colors []asciigraph.AnsiColor
	for i, s := range c.Series {
		values := c.scaled(s)
		if _, _, ok := bounds(values); !ok {
			continue
		}
		data = append(data, values)
		names = append(names, s.Name)
		colors = append(colors, t.color(i))
	}
	if len(data) == 0 {
		return c.Title + "\n  (no data)"
	}

	lo, hi, _ := bounds(data...)
	opts := []asciigraph.Option{
		asciigraph.Height(max(t.Height, 3)),
		asciigraph.Caption(t.caption(c)),
	}
	if t.Width > 0 {
		opts = append(opts, asciigraph.Width(t.Width))
	}
	if hi == lo {
		opts = append(opts, asciigraph.UpperBound(hi+math.Max(math.Abs(hi)*0.1, 1)))
	}
	if c.LogScale {
		opts = append(opts, asciigraph.Precision(0))
	} else {
		opts = append(opts, asciigraph.Precision(precisionFor(hi-lo)))
	}
	if t.Color {
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}
	if len(data) > 1 {
		opts = append(opts, asciigraph.SeriesLegends(names...))
	}
	return asciigraph.PlotMany(data, opts...)
}

func (t Terminal) color(i int) asciigraph.AnsiColor {
	palette := t.Colors
	if len(palette) == 0 {
		palette = seriesColors
	}
	return palette[i%len(palette)]
}

func (t Terminal) caption(c Chart) string {
	var b strings.Builder
	b.WriteString(c.Title)
	if c.LogScale {
		b.WriteString(" (log10)")
	}
	if len(c.X) > 0 {
		fmt.Fprintf(&b, "  t=%g..%g", c.X[0], c.X[len(c.X)-1])
	}
	return b.String()
}

func precisionFor(span float64) uint {
	switch {
	case span >= 100:
		return 0
	case span >= 1:
		return 2
	default:
		return 4
	}
}
