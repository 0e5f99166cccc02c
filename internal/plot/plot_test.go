package plot

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guptarohit/asciigraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/foamwatch/internal/monitor"
	"github.com/five82/foamwatch/internal/state"
)

var nan = math.NaN()

func sampleView() monitor.View {
	return monitor.View{
		Times:       []float64{0.1, 0.2, 0.3, 0.4},
		Fields:      []string{"Ux", "p"},
		Initial:     map[string][]float64{"Ux": {1e-2, 5e-3, 1e-3, 5e-4}, "p": {nan, nan, nan, nan}},
		Final:       map[string][]float64{"Ux": {1e-5, 0, 1e-6, 2e-7}, "p": {nan, nan, nan, nan}},
		CourantMean: []float64{0.1, 0.12, nan, 0.15},
		CourantMax:  []float64{0.4, 0.5, nan, 0.6},
		MaxT:        []float64{nan, nan, nan, nan},
	}
}

func TestLog10_FloorsNonPositive(t *testing.T) {
	got := Log10([]float64{1e-3, 0, -5, nan, 1e-30})
	assert.InDelta(t, -3, got[0], 1e-12)
	assert.InDelta(t, -20, got[1], 1e-9)
	assert.InDelta(t, -20, got[2], 1e-9)
	assert.True(t, math.IsNaN(got[3]))
	assert.InDelta(t, -20, got[4], 1e-9)
}

func TestCharts_Builders(t *testing.T) {
	v := sampleView()
	charts := Charts(v, false)
	require.Len(t, charts, 3)

	res := charts[0]
	assert.Equal(t, "Final residuals", res.Title)
	assert.True(t, res.LogScale)
	require.Len(t, res.Series, 2)
	assert.Equal(t, "Ux", res.Series[0].Name)
	assert.Equal(t, v.Final["Ux"], res.Series[0].Values)
	assert.True(t, res.HasData())

	assert.Equal(t, "Initial residuals", ResidualChart(v, true).Title)
	assert.Equal(t, v.Initial["Ux"], ResidualChart(v, true).Series[0].Values)

	assert.Equal(t, "Courant number", charts[1].Title)
	assert.False(t, charts[1].LogScale)
	assert.False(t, charts[2].HasData())
}

func TestTerminal_RenderWithData(t *testing.T) {
	out := Terminal{Width: 40, Height: 6}.Render(CourantChart(sampleView()))
	assert.Contains(t, out, "Courant number")
	assert.Contains(t, out, "t=0.1..0.4")
	assert.Greater(t, strings.Count(out, "\n"), 4)
}

func TestTerminal_RenderResidualsLogScale(t *testing.T) {
	out := Terminal{Width: 30, Height: 5, Color: true}.Render(ResidualChart(sampleView(), false))
	assert.Contains(t, out, "(log10)")
	assert.NotContains(t, out, "no data")
}

func TestTerminal_RenderNoData(t *testing.T) {
	out := Terminal{Height: 5}.Render(TemperatureChart(sampleView()))
	assert.Equal(t, "Max temperature\n  (no data)", out)
}

func TestTerminal_RenderFlatSeries(t *testing.T) {
	c := Chart{Title: "flat", X: []float64{1, 2, 3}, Series: []Series{{Name: "a", Values: []float64{2, 2, 2}}}}
	out := Terminal{Height: 4}.Render(c)
	assert.Contains(t, out, "flat")
}

func TestDecadeAxis(t *testing.T) {
	rng, ticks := decadeAxis(-6.3, -2.1)
	assert.Equal(t, -7.0, rng.Min)
	assert.Equal(t, -2.0, rng.Max)
	require.Len(t, ticks, 6)
	assert.Equal(t, "1e-7", ticks[0].Label)
	assert.Equal(t, "1e-2", ticks[5].Label)

	rng, ticks = decadeAxis(-3, -3)
	assert.Equal(t, -3.0, rng.Min)
	assert.Equal(t, -2.0, rng.Max)
	assert.Len(t, ticks, 2)
}

func TestFinitePoints(t *testing.T) {
	xs, ys := finitePoints([]float64{1, 2, 3, 4}, []float64{nan, 5, math.Inf(1), 7})
	assert.Equal(t, []float64{2, 4}, xs)
	assert.Equal(t, []float64{5, 7}, ys)
}

func TestRenderPNG_StacksPanels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, Charts(sampleView(), false), 640, 240))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())
}

func TestPNGSink_RenderAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "residuals.png")
	sink := &PNGSink{Path: path, Width: 400, PanelHeight: 200}

	require.NoError(t, sink.Render(state.Snapshot{}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "snapshot without view writes nothing")

	require.NoError(t, sink.Render(state.Snapshot{View: sampleView(), HasView: true}))
	f, err := os.Open(path)
	require.NoError(t, err)
	img, err := png.Decode(f)
	_ = f.Close()
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dy())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	require.NoError(t, sink.Reset())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, sink.Reset(), "reset without a file is fine")
}

func TestTerminal_Palette(t *testing.T) {
	assert.Equal(t, seriesColors[1], Terminal{}.color(1))

	custom := Terminal{Colors: []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green}}
	assert.Equal(t, asciigraph.Green, custom.color(3))
}
