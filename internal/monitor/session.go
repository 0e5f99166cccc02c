// Package monitor holds the per-cycle aggregate state built from a solver log.
//
// A Session owns every time-keyed mapping plus the set of time keys already
// processed. It is not safe for concurrent use; the driver loop is its only
// writer and publishes immutable Views to readers.
package monitor

import (
	"github.com/five82/foamwatch/internal/foamlog"
)

// Session is the mutable aggregation context of one monitoring cycle.
type Session struct {
	extractor *foamlog.Extractor

	residuals   map[string]map[float64]foamlog.Residual
	courantMean map[float64]float64
	courantMax  map[float64]float64
	maxT        map[float64]float64
	execTime    map[float64]float64
	seen        map[float64]struct{}

	// order is the discovery sequence of the latest ingest, duplicates kept.
	order    []float64
	rawTimes map[float64]string
	finished bool
}

// NewSession returns an empty session monitoring the given residual fields.
func NewSession(fields []string) *Session {
	s := &Session{extractor: foamlog.NewExtractor(fields)}
	s.Reset()
	return s
}

// Reset discards every aggregate and the seen-set.
func (s *Session) Reset() {
	fields := s.extractor.Fields()
	s.residuals = make(map[string]map[float64]foamlog.Residual, len(fields))
	for _, f := range fields {
		s.residuals[f] = make(map[float64]foamlog.Residual)
	}
	s.courantMean = make(map[float64]float64)
	s.courantMax = make(map[float64]float64)
	s.maxT = make(map[float64]float64)
	s.execTime = make(map[float64]float64)
	s.seen = make(map[float64]struct{})
	s.rawTimes = make(map[float64]string)
	s.order = nil
	s.finished = false
}

// Fields returns the monitored residual fields.
func (s *Session) Fields() []string {
	return s.extractor.Fields()
}

// Seen reports whether key has already been processed in this cycle.
func (s *Session) Seen(key float64) bool {
	_, ok := s.seen[key]
	return ok
}

// Len returns the number of distinct time keys processed.
func (s *Session) Len() int {
	return len(s.seen)
}

// Finished reports whether the solver's closing line has been observed.
func (s *Session) Finished() bool {
	return s.finished
}

// RecordStep stores values under key unless key was seen before. The key is
// marked seen either way. It reports whether values were stored.
func (s *Session) RecordStep(key float64, values foamlog.Values) bool {
	if s.Seen(key) {
		return false
	}
	s.seen[key] = struct{}{}

	for field, r := range values.Residuals {
		series, ok := s.residuals[field]
		if !ok {
			continue
		}
		series[key] = r
	}
	if values.HasCourant {
		s.courantMean[key] = values.Courant.Mean
		s.courantMax[key] = values.Courant.Max
	}
	if values.HasMaxT {
		s.maxT[key] = values.MaxT
	}
	if values.HasExecutionTime {
		s.execTime[key] = values.ExecutionTime
	}
	if values.Finished {
		s.finished = true
	}
	return true
}

// Ingest processes the steps segmented from text in order, extracting only
// steps whose time key is unseen. It replaces the discovery order used for
// windowing and returns how many new steps were recorded.
func (s *Session) Ingest(text string, steps []foamlog.Step) int {
	order := make([]float64, 0, len(steps))
	added := 0
	for _, step := range steps {
		order = append(order, step.Time)
		if s.Seen(step.Time) {
			continue
		}
		if s.RecordStep(step.Time, s.extractor.Extract(step.Slice(text))) {
			s.rawTimes[step.Time] = step.Raw
			added++
		}
	}
	s.order = order
	return added
}

// Residual returns the stored pair for field at key.
func (s *Session) Residual(field string, key float64) (foamlog.Residual, bool) {
	r, ok := s.residuals[field][key]
	return r, ok
}

// Courant returns the stored Courant numbers at key.
func (s *Session) Courant(key float64) (foamlog.Courant, bool) {
	mean, ok := s.courantMean[key]
	if !ok {
		return foamlog.Courant{}, false
	}
	return foamlog.Courant{Mean: mean, Max: s.courantMax[key]}, true
}

// MaxTemperature returns the stored peak temperature at key.
func (s *Session) MaxTemperature(key float64) (float64, bool) {
	v, ok := s.maxT[key]
	return v, ok
}

// Discovered returns a copy of the latest discovery order.
func (s *Session) Discovered() []float64 {
	out := make([]float64, len(s.order))
	copy(out, s.order)
	return out
}
