package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/five82/foamwatch/internal/state"
)

const (
	defaultPNGWidth       = 1200
	defaultPNGPanelHeight = 360
)

var pngColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

// RenderPNG draws charts stacked vertically into one PNG image.
func RenderPNG(w io.Writer, charts []Chart, width, panelHeight int) error {
	if width <= 0 {
		width = defaultPNGWidth
	}
	if panelHeight <= 0 {
		panelHeight = defaultPNGPanelHeight
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, panelHeight*len(charts)))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, c := range charts {
		panel, err := renderPanel(c, width, panelHeight)
		if err != nil {
			return fmt.Errorf("render %s: %w", c.Title, err)
		}
		if panel == nil {
			continue
		}
		offset := image.Pt(0, i*panelHeight)
		draw.Draw(canvas, panel.Bounds().Add(offset), panel, panel.Bounds().Min, draw.Over)
	}
	return png.Encode(w, canvas)
}

// renderPanel returns nil when the chart has nothing drawable.
func renderPanel(c Chart, width, height int) (image.Image, error) {
	var series []chart.Series
	var drawn [][]float64
	for i, s := range c.Series {
		xs, ys := finitePoints(c.X, c.scaled(s))
		if len(xs) < 2 {
			continue
		}
		drawn = append(drawn, ys)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: pngColors[i%len(pngColors)],
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return nil, nil
	}

	yAxis := chart.YAxis{Name: c.YLabel}
	lo, hi, _ := bounds(drawn...)
	if c.LogScale {
		yAxis.Name = c.YLabel + " (log10)"
		yAxis.Range, yAxis.Ticks = decadeAxis(lo, hi)
	} else if hi == lo {
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	graph := chart.Chart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Time"},
		YAxis:      yAxis,
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// decadeAxis spans whole powers of ten and labels them as 1eN.
func decadeAxis(lo, hi float64) (*chart.ContinuousRange, []chart.Tick) {
	minDecade := math.Floor(lo)
	maxDecade := math.Ceil(hi)
	if maxDecade <= minDecade {
		maxDecade = minDecade + 1
	}
	ticks := make([]chart.Tick, 0, int(maxDecade-minDecade)+1)
	for d := minDecade; d <= maxDecade; d++ {
		ticks = append(ticks, chart.Tick{Value: d, Label: fmt.Sprintf("1e%d", int(d))})
	}
	return &chart.ContinuousRange{Min: minDecade, Max: maxDecade}, ticks
}

func finitePoints(xs, ys []float64) ([]float64, []float64) {
	n := min(len(xs), len(ys))
	outX := make([]float64, 0, n)
	outY := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		outX = append(outX, xs[i])
		outY = append(outY, ys[i])
	}
	return outX, outY
}

// PNGSink rewrites a PNG file with the current charts on every render.
type PNGSink struct {
	Path        string
	Width       int
	PanelHeight int
	Initial     bool // plot initial instead of final residuals
}

// Render writes the snapshot's charts. Snapshots without a view are skipped.
func (s *PNGSink) Render(snap state.Snapshot) error {
	if !snap.HasView {
		return nil
	}
	return writeFileAtomic(s.Path, func(w io.Writer) error {
		return RenderPNG(w, Charts(snap.View, s.Initial), s.Width, s.PanelHeight)
	})
}

// Reset removes the previous cycle's image.
func (s *PNGSink) Reset() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove png: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create png dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".foamwatch-*.png")
	if err != nil {
		return fmt.Errorf("create temp png: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp png: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace png: %w", err)
	}
	return nil
}
