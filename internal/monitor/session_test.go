package monitor

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/foamwatch/internal/foamlog"
)

func ingest(s *Session, text string) int {
	return s.Ingest(text, foamlog.Segment(text))
}

func stepText(time string, ux float64) string {
	return fmt.Sprintf("Time = %s\nCourant Number mean: 0.1 max: 0.4\nSolving for Ux, Initial residual = %g, Final residual = 1e-06, No Iterations 1\n", time, ux)
}

func TestSession_RecordStepDedup(t *testing.T) {
	s := NewSession([]string{"Ux"})

	first := foamlog.Values{Residuals: map[string]foamlog.Residual{"Ux": {Initial: 1, Final: 0.1}}}
	second := foamlog.Values{Residuals: map[string]foamlog.Residual{"Ux": {Initial: 9, Final: 0.9}}}

	assert.True(t, s.RecordStep(0.5, first))
	assert.False(t, s.RecordStep(0.5, second))

	r, ok := s.Residual("Ux", 0.5)
	require.True(t, ok)
	assert.Equal(t, 1.0, r.Initial)
	assert.Equal(t, 1, s.Len())
}

func TestSession_RecordStepEmptyStillMarksSeen(t *testing.T) {
	s := NewSession([]string{"Ux"})
	assert.True(t, s.RecordStep(1, foamlog.Values{}))
	assert.True(t, s.Seen(1))
	_, ok := s.Residual("Ux", 1)
	assert.False(t, ok)
}

func TestSession_IgnoresUnmonitoredFields(t *testing.T) {
	s := NewSession([]string{"Ux"})
	s.RecordStep(1, foamlog.Values{Residuals: map[string]foamlog.Residual{"p": {Initial: 1, Final: 1}}})
	_, ok := s.Residual("p", 1)
	assert.False(t, ok)
}

func TestSession_IngestDuplicateTimeUsesFirstSlice(t *testing.T) {
	s := NewSession([]string{"Ux"})
	text := stepText("0.5", 0.25) + stepText("0.5", 0.75)

	added := ingest(s, text)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, s.Len())

	r, ok := s.Residual("Ux", 0.5)
	require.True(t, ok)
	assert.Equal(t, 0.25, r.Initial)
	assert.Equal(t, []float64{0.5, 0.5}, s.Discovered())
}

func TestSession_IngestIdempotent(t *testing.T) {
	s := NewSession([]string{"Ux"})
	text := stepText("1", 0.1) + stepText("2", 0.2)

	require.Equal(t, 2, ingest(s, text))
	before := s.View(0)

	assert.Equal(t, 0, ingest(s, text))
	after := s.View(0)
	assert.Equal(t, before.Final, after.Final)
	assert.Equal(t, before.CourantMax, after.CourantMax)
	assert.Equal(t, 2, s.Len())
}

func TestSession_IngestIncremental(t *testing.T) {
	s := NewSession([]string{"Ux"})
	text := stepText("1", 0.1)
	require.Equal(t, 1, ingest(s, text))

	text += stepText("2", 0.2)
	assert.Equal(t, 1, ingest(s, text))
	r, ok := s.Residual("Ux", 2)
	require.True(t, ok)
	assert.Equal(t, 0.2, r.Initial)
}

func TestSession_RecordedNeverExceedsMarkers(t *testing.T) {
	s := NewSession([]string{"Ux"})
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString(stepText(fmt.Sprintf("%d", i%20), float64(i)))
	}
	text := b.String()
	ingest(s, text)
	assert.LessOrEqual(t, s.Len(), len(foamlog.Segment(text)))
	assert.Equal(t, 20, s.Len())
}

func TestSession_MissingCourantLeavesOthersUntouched(t *testing.T) {
	s := NewSession([]string{"Ux"})
	text := stepText("1", 0.1) + "Time = 2\nSolving for Ux, Initial residual = 0.2, Final residual = 1e-6\n"
	ingest(s, text)

	c, ok := s.Courant(1)
	require.True(t, ok)
	assert.Equal(t, 0.4, c.Max)

	_, ok = s.Courant(2)
	assert.False(t, ok)
}

func TestSession_ZeroResidualStoredAsLogged(t *testing.T) {
	s := NewSession([]string{"Ux"})
	ingest(s, "Time = 1\nUx, Initial residual = 0, Final residual = 0\n")
	r, ok := s.Residual("Ux", 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, r.Final)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession([]string{"Ux"})
	ingest(s, stepText("1", 0.1)+"End\n")
	require.True(t, s.Finished())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Seen(1))
	assert.False(t, s.Finished())
	assert.Empty(t, s.Discovered())
	assert.Equal(t, []string{"Ux"}, s.Fields())
}

func TestWindow(t *testing.T) {
	keys := make([]float64, 1000)
	for i := range keys {
		keys[i] = float64(i)
	}

	w := Window(keys, 500)
	require.Len(t, w, 500)
	assert.Equal(t, 500.0, w[0])
	assert.Equal(t, 999.0, w[499])

	w = Window(keys[:10], 500)
	assert.Equal(t, keys[:10], w)

	assert.Len(t, Window(keys, 0), 1000)
	assert.Empty(t, Window(nil, 5))

	// Duplicates count toward the window.
	assert.Equal(t, []float64{2, 2}, Window([]float64{1, 2, 2}, 2))
}

func TestSession_ViewAlignsSeries(t *testing.T) {
	s := NewSession([]string{"Ux", "p"})
	text := stepText("1", 0.1) +
		"Time = 2\nmin/max(T) = 300, 1500.5\nExecutionTime = 4 s  ClockTime = 5 s\n" +
		stepText("3", 0.3)
	ingest(s, text)

	v := s.View(2)
	assert.Equal(t, []float64{2, 3}, v.Times)
	assert.Equal(t, []string{"2", "3"}, v.RawTimes)
	assert.Equal(t, 3, v.Recorded)
	assert.Equal(t, 3, v.Discovered)

	ux := v.Residuals("Ux", true)
	require.Len(t, ux, 2)
	assert.True(t, math.IsNaN(ux[0]))
	assert.Equal(t, 0.3, ux[1])
	assert.True(t, math.IsNaN(v.Final["p"][1]))

	assert.True(t, math.IsNaN(v.CourantMean[0]))
	assert.Equal(t, 1500.5, v.MaxT[0])
	assert.Equal(t, 4.0, v.ExecutionTime[0])

	latest, ok := v.Latest()
	require.True(t, ok)
	assert.Equal(t, 3.0, latest)

	last, ok := LastValue(v.MaxT)
	require.True(t, ok)
	assert.Equal(t, 1500.5, last)
}

func TestView_CloneIsIndependent(t *testing.T) {
	s := NewSession([]string{"Ux"})
	ingest(s, stepText("1", 0.1))
	v := s.View(0)
	c := v.Clone()
	c.Final["Ux"][0] = 42
	c.Times[0] = 42
	assert.Equal(t, 1e-06, v.Final["Ux"][0])
	assert.Equal(t, 1.0, v.Times[0])
}

func TestLastValue_AllNaN(t *testing.T) {
	_, ok := LastValue([]float64{math.NaN(), math.NaN()})
	assert.False(t, ok)
	_, ok = LastValue(nil)
	assert.False(t, ok)
}
