package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/foamwatch/internal/monitor"
	"github.com/five82/foamwatch/internal/state"
)

var nan = math.NaN()

func sampleView() monitor.View {
	return monitor.View{
		Times:         []float64{0.000125, 0.000275, 0.000425},
		RawTimes:      []string{"0.000125", "0.000275", "0.000425"},
		Fields:        []string{"Ux", "p_rgh"},
		Initial:       map[string][]float64{"Ux": {0.0047, 0.0031, 0.0022}, "p_rgh": {0.18, nan, 0.05}},
		Final:         map[string][]float64{"Ux": {1.98e-07, 0, 3e-08}, "p_rgh": {0.0061, nan, 0.001}},
		CourantMean:   []float64{0.015, 0.02, nan},
		CourantMax:    []float64{0.025, 0.03, nan},
		MaxT:          []float64{2773.05, nan, nan},
		ExecutionTime: []float64{0.41, 0.8, 1.2},
		Recorded:      3,
		Discovered:    3,
		Finished:      true,
	}
}

func TestWriteTable_FinalResiduals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleView(), Options{}))

	out := buf.String()
	upper := strings.ToUpper(out)
	assert.Contains(t, upper, "TIME")
	assert.Contains(t, upper, "UX")
	assert.Contains(t, out, "0.000125")
	assert.Contains(t, out, "1.980e-07")
	assert.Contains(t, out, "0.000e+00")
	assert.Contains(t, out, "2773.05")
	assert.Contains(t, out, "0.0250")
	assert.Contains(t, out, "-")
}

func TestWriteTable_InitialAndRowLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleView(), Options{Rows: 1, Initial: true}))

	out := buf.String()
	assert.Contains(t, out, "0.000425")
	assert.Contains(t, out, "2.200e-03")
	assert.NotContains(t, out, "0.000125")
	assert.NotContains(t, out, "3.000e-08")
}

func TestStatusLine(t *testing.T) {
	snap := state.Snapshot{
		View:    sampleView(),
		HasView: true,
		Phase:   state.PhaseRender,
		Cycle:   2,
		Poll:    5,
		Message: "solver finished",
	}
	line := StatusLine(snap, false)
	assert.Equal(t, "[render] | cycle 2 poll 5 | steps 3/3 | t=0.000425 | finished | solver finished", line)

	snap = state.Snapshot{Phase: state.PhaseRetryMissing, Cycle: 1, LastError: errors.New("log unavailable")}
	line = StatusLine(snap, false)
	assert.Equal(t, "[retry-missing-file] | cycle 1 poll 0 | log unavailable", line)

	colored := StatusLine(snap, true)
	assert.Contains(t, colored, "\x1b[")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleView()))

	var doc Document
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"Ux", "p_rgh"}, doc.Fields)
	assert.True(t, doc.Finished)
	require.Len(t, doc.Steps, 3)

	first := doc.Steps[0]
	assert.Equal(t, 0.000125, first.Time)
	assert.Equal(t, ResidualPair{Initial: 0.0047, Final: 1.98e-07}, first.Residuals["Ux"])
	require.NotNil(t, first.MaxT)
	assert.Equal(t, 2773.05, *first.MaxT)

	second := doc.Steps[1]
	assert.NotContains(t, second.Residuals, "p_rgh")
	assert.Equal(t, 0.0, second.Residuals["Ux"].Final)
	assert.Nil(t, second.MaxT)

	assert.Nil(t, doc.Steps[2].CourantMax)
	assert.NotContains(t, buf.String(), "NaN")
}

func TestNewDocument_EmptyView(t *testing.T) {
	doc := NewDocument(monitor.View{})
	assert.NotNil(t, doc.Steps)
	assert.Empty(t, doc.Steps)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Options{Rows: 2})

	require.NoError(t, p.Reset())
	require.NoError(t, p.Render(state.Snapshot{Phase: state.PhaseRetryNoSteps, Message: "no time steps in log yet"}))
	require.NoError(t, p.Render(state.Snapshot{View: sampleView(), HasView: true, Phase: state.PhaseRender}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "-- new monitoring cycle --\n"))
	assert.Contains(t, out, "[retry-no-steps] | cycle 0 poll 0 | no time steps in log yet\n")
	assert.Contains(t, out, "0.000425")
	assert.NotContains(t, out, "0.000125")
}
