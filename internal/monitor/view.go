package monitor

import (
	"math"
)

// Window returns the last n keys of the discovery sequence, or all of them
// when fewer exist or n <= 0. Repeated keys count once per occurrence.
func Window(keys []float64, n int) []float64 {
	if n <= 0 || n >= len(keys) {
		out := make([]float64, len(keys))
		copy(out, keys)
		return out
	}
	out := make([]float64, n)
	copy(out, keys[len(keys)-n:])
	return out
}

// View is an immutable, windowed rendering of a Session. Every series is
// aligned with Times; NaN marks a metric the step did not report.
type View struct {
	Times    []float64
	RawTimes []string
	Fields   []string

	Initial map[string][]float64
	Final   map[string][]float64

	CourantMean   []float64
	CourantMax    []float64
	MaxT          []float64
	ExecutionTime []float64

	Recorded   int // distinct time keys processed this cycle
	Discovered int // marker occurrences in the latest read
	Finished   bool
}

// View materializes the last n discovered steps.
func (s *Session) View(n int) View {
	keys := Window(s.order, n)
	fields := s.Fields()

	v := View{
		Times:         keys,
		RawTimes:      make([]string, len(keys)),
		Fields:        fields,
		Initial:       make(map[string][]float64, len(fields)),
		Final:         make(map[string][]float64, len(fields)),
		CourantMean:   make([]float64, len(keys)),
		CourantMax:    make([]float64, len(keys)),
		MaxT:          make([]float64, len(keys)),
		ExecutionTime: make([]float64, len(keys)),
		Recorded:      s.Len(),
		Discovered:    len(s.order),
		Finished:      s.finished,
	}

	for _, field := range fields {
		initial := make([]float64, len(keys))
		final := make([]float64, len(keys))
		series := s.residuals[field]
		for i, key := range keys {
			if r, ok := series[key]; ok {
				initial[i], final[i] = r.Initial, r.Final
			} else {
				initial[i], final[i] = math.NaN(), math.NaN()
			}
		}
		v.Initial[field] = initial
		v.Final[field] = final
	}

	for i, key := range keys {
		v.RawTimes[i] = s.rawTimes[key]
		v.CourantMean[i] = lookup(s.courantMean, key)
		v.CourantMax[i] = lookup(s.courantMax, key)
		v.MaxT[i] = lookup(s.maxT, key)
		v.ExecutionTime[i] = lookup(s.execTime, key)
	}
	return v
}

func lookup(m map[float64]float64, key float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return math.NaN()
}

// Len returns the number of steps in the window.
func (v View) Len() int {
	return len(v.Times)
}

// Latest returns the last time in the window.
func (v View) Latest() (float64, bool) {
	if len(v.Times) == 0 {
		return 0, false
	}
	return v.Times[len(v.Times)-1], true
}

// LastValue returns the most recent non-NaN entry of series.
func LastValue(series []float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) {
			return series[i], true
		}
	}
	return 0, false
}

// Residuals returns the initial or final series for field.
func (v View) Residuals(field string, initial bool) []float64 {
	if initial {
		return v.Initial[field]
	}
	return v.Final[field]
}

// Clone returns a deep copy so the receiver can be shared across goroutines.
func (v View) Clone() View {
	out := v
	out.Times = cloneFloats(v.Times)
	out.RawTimes = append([]string(nil), v.RawTimes...)
	out.Fields = append([]string(nil), v.Fields...)
	out.Initial = cloneSeries(v.Initial)
	out.Final = cloneSeries(v.Final)
	out.CourantMean = cloneFloats(v.CourantMean)
	out.CourantMax = cloneFloats(v.CourantMax)
	out.MaxT = cloneFloats(v.MaxT)
	out.ExecutionTime = cloneFloats(v.ExecutionTime)
	return out
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

func cloneSeries(in map[string][]float64) map[string][]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string][]float64, len(in))
	for k, v := range in {
		out[k] = cloneFloats(v)
	}
	return out
}
