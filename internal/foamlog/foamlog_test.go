package foamlog

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestSegment_Fixture(t *testing.T) {
	text := readFixture(t, "buoyant.log")

	steps := Segment(text)
	require.Len(t, steps, 3)

	assert.Equal(t, 0.000125, steps[0].Time)
	assert.Equal(t, "0.000125", steps[0].Raw)
	assert.Equal(t, 0.000275, steps[1].Time)
	assert.Equal(t, 0.000425, steps[2].Time)

	// Slices are contiguous and the last one runs to the end of the text.
	assert.Equal(t, steps[1].Start, steps[0].End)
	assert.Equal(t, steps[2].Start, steps[1].End)
	assert.Equal(t, len(text), steps[2].End)
	assert.True(t, strings.HasPrefix(steps[1].Slice(text), "Time = 0.000275"))
}

func TestSegment_NoMarkers(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("Create time\nStarting time loop\n"))
}

func TestSegment_IgnoresExecutionTime(t *testing.T) {
	text := "Time = 1\nExecutionTime = 2.5 s  ClockTime = 3 s\nTime = 2\n"
	steps := Segment(text)
	require.Len(t, steps, 2)
	assert.Equal(t, 1.0, steps[0].Time)
	assert.Equal(t, 2.0, steps[1].Time)
}

func TestSegment_DuplicateTimesEmittedTwice(t *testing.T) {
	text := "Time = 0.5\nA\nTime = 0.5\nB\n"
	steps := Segment(text)
	require.Len(t, steps, 2)
	assert.Equal(t, steps[0].Time, steps[1].Time)
	assert.Contains(t, steps[0].Slice(text), "A")
	assert.Contains(t, steps[1].Slice(text), "B")
	assert.NotContains(t, steps[0].Slice(text), "B")
}

func TestSegment_UnparseableMarkerStillBounds(t *testing.T) {
	text := "Time = 1\nfirst\nTime = 1e999\nlost\nTime = 3\n"
	steps := Segment(text)
	require.Len(t, steps, 2)
	assert.Equal(t, 1.0, steps[0].Time)
	assert.NotContains(t, steps[0].Slice(text), "lost")
	assert.Equal(t, 3.0, steps[1].Time)
}

func TestSegment_EqualTextEqualKeys(t *testing.T) {
	a := Segment("Time = 0.1\n")
	b := Segment("Time = 0.1\n")
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, math.Float64bits(a[0].Time), math.Float64bits(b[0].Time))
}

func TestStep_SliceOutOfRange(t *testing.T) {
	assert.Equal(t, "", Step{Start: 4, End: 2}.Slice("abcdef"))
	assert.Equal(t, "", Step{Start: 0, End: 10}.Slice("abc"))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.98e-07", 1.98e-07, true},
		{"0.003", 0.003, true},
		{"2773.05", 2773.05, true},
		{".5", 0.5, true},
		{"-1E+3", -1000, true},
		{"0", 0, true},
		{"1e999", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractResidual_Scenario(t *testing.T) {
	r, ok := ExtractResidual("Ux, Initial residual = 0.00473474, Final residual = 1.98e-07", "Ux")
	require.True(t, ok)
	assert.Equal(t, Residual{Initial: 0.00473474, Final: 1.98e-07}, r)
}

func TestExtractResidual_FirstMatchAndBoundaries(t *testing.T) {
	slice := "Solving for p_rgh, Initial residual = 0.5, Final residual = 0.1\n" +
		"Solving for p, Initial residual = 0.2, Final residual = 0.01\n" +
		"Solving for p, Initial residual = 0.02, Final residual = 0.001\n"

	r, ok := ExtractResidual(slice, "p")
	require.True(t, ok)
	assert.Equal(t, Residual{Initial: 0.2, Final: 0.01}, r)

	_, ok = ExtractResidual(slice, "rgh")
	assert.False(t, ok, "field must not match inside another identifier")

	_, ok = ExtractResidual(slice, "T")
	assert.False(t, ok)
}

func TestExtractCourant_UsesLastMatch(t *testing.T) {
	slice := "Courant Number mean: 0.01 max: 0.02\nstuff\nCourant Number mean: 0.015 max: 0.025\n"
	c, ok := ExtractCourant(slice)
	require.True(t, ok)
	assert.Equal(t, Courant{Mean: 0.015, Max: 0.025}, c)

	_, ok = ExtractCourant("no courant here")
	assert.False(t, ok)
}

func TestExtractMaxTemperature(t *testing.T) {
	v, ok := ExtractMaxTemperature("min/max(T) = 293, 2773.05")
	require.True(t, ok)
	assert.Equal(t, 2773.05, v)

	_, ok = ExtractMaxTemperature("min/max(T) = 293, 1e999")
	assert.False(t, ok, "overflowing value is treated as absent")
}

func TestExtractor_Fixture(t *testing.T) {
	text := readFixture(t, "buoyant.log")
	steps := Segment(text)
	require.Len(t, steps, 3)

	ex := NewExtractor([]string{"Ux", " Uy ", "", "Ux", "p_rgh", "Uz"})
	assert.Equal(t, []string{"Ux", "Uy", "p_rgh", "Uz"}, ex.Fields())

	first := ex.Extract(steps[0].Slice(text))
	assert.Equal(t, Residual{Initial: 0.00473474, Final: 1.98e-07}, first.Residuals["Ux"])
	assert.Equal(t, Residual{Initial: 0.18, Final: 0.0061}, first.Residuals["p_rgh"])
	assert.NotContains(t, first.Residuals, "Uz")
	assert.True(t, first.HasCourant)
	assert.Equal(t, Courant{Mean: 0.015, Max: 0.025}, first.Courant)
	assert.True(t, first.HasMaxT)
	assert.Equal(t, 2773.05, first.MaxT)
	assert.True(t, first.HasExecutionTime)
	assert.Equal(t, 0.41, first.ExecutionTime)
	assert.False(t, first.Finished)

	second := ex.Extract(steps[1].Slice(text))
	assert.Equal(t, Residual{Initial: 0.0031, Final: 0}, second.Residuals["Ux"])
	assert.False(t, second.HasMaxT)

	third := ex.Extract(steps[2].Slice(text))
	assert.False(t, third.HasCourant)
	assert.True(t, third.Finished)
	assert.False(t, third.Empty())

	assert.True(t, ex.Extract("nothing useful").Empty())
}

func TestExtractor_ResidualUnconfiguredField(t *testing.T) {
	ex := NewExtractor([]string{"Ux"})
	r, ok := ex.Residual("h, Initial residual = 1e-3, Final residual = 1e-6", "h")
	require.True(t, ok)
	assert.Equal(t, 1e-6, r.Final)
}
