// Package plot turns monitor views into charts for the terminal and for PNG
// files.
package plot

import (
	"math"

	"github.com/five82/foamwatch/internal/monitor"
)

// ResidualFloor replaces non-positive residuals on a log scale.
const ResidualFloor = 1e-20

// Series is one named line aligned with Chart.X.
type Series struct {
	Name   string
	Values []float64
}

// Chart is a renderer-neutral description of one panel.
type Chart struct {
	Title    string
	YLabel   string
	X        []float64
	Series   []Series
	LogScale bool
}

// HasData reports whether any series has at least one finite value.
func (c Chart) HasData() bool {
	for _, s := range c.Series {
		for _, v := range s.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

// ResidualChart plots the initial or final residual of every field.
func ResidualChart(v monitor.View, initial bool) Chart {
	title := "Final residuals"
	if initial {
		title = "Initial residuals"
	}
	c := Chart{Title: title, YLabel: "residual", X: v.Times, LogScale: true}
	for _, field := range v.Fields {
		c.Series = append(c.Series, Series{Name: field, Values: v.Residuals(field, initial)})
	}
	return c
}

// CourantChart plots mean and max Courant numbers.
func CourantChart(v monitor.View) Chart {
	return Chart{
		Title:  "Courant number",
		YLabel: "Co",
		X:      v.Times,
		Series: []Series{
			{Name: "mean", Values: v.CourantMean},
			{Name: "max", Values: v.CourantMax},
		},
	}
}

// TemperatureChart plots the peak temperature.
func TemperatureChart(v monitor.View) Chart {
	return Chart{
		Title:  "Max temperature",
		YLabel: "T",
		X:      v.Times,
		Series: []Series{{Name: "max(T)", Values: v.MaxT}},
	}
}

// Charts returns the residual, Courant and temperature panels in order.
func Charts(v monitor.View, initial bool) []Chart {
	return []Chart{ResidualChart(v, initial), CourantChart(v), TemperatureChart(v)}
}

// Log10 maps values to log10, flooring non-positive ones at ResidualFloor.
// NaN stays NaN.
func Log10(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = math.NaN()
		case v < ResidualFloor:
			out[i] = math.Log10(ResidualFloor)
		default:
			out[i] = math.Log10(v)
		}
	}
	return out
}

// scaled returns the values to draw for s.
func (c Chart) scaled(s Series) []float64 {
	if c.LogScale {
		return Log10(s.Values)
	}
	return s.Values
}

func bounds(series ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, values := range series {
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}
