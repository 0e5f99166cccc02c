package report

import (
	"fmt"
	"io"
	"math"

	"github.com/bytedance/sonic"

	"github.com/five82/foamwatch/internal/monitor"
)

// Document is the JSON form of a view.
type Document struct {
	Fields     []string `json:"fields"`
	Recorded   int      `json:"recorded"`
	Discovered int      `json:"discovered"`
	Finished   bool     `json:"finished"`
	Steps      []Step   `json:"steps"`
}

// Step is one time step; absent metrics are omitted.
type Step struct {
	Time          float64                 `json:"time"`
	Raw           string                  `json:"raw,omitempty"`
	Residuals     map[string]ResidualPair `json:"residuals,omitempty"`
	CourantMean   *float64                `json:"courant_mean,omitempty"`
	CourantMax    *float64                `json:"courant_max,omitempty"`
	MaxT          *float64                `json:"max_t,omitempty"`
	ExecutionTime *float64                `json:"execution_time,omitempty"`
}

// ResidualPair holds the initial and final residual of a field.
type ResidualPair struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
}

// NewDocument converts v for encoding.
func NewDocument(v monitor.View) Document {
	doc := Document{
		Fields:     append([]string{}, v.Fields...),
		Recorded:   v.Recorded,
		Discovered: v.Discovered,
		Finished:   v.Finished,
		Steps:      make([]Step, 0, v.Len()),
	}
	for i, t := range v.Times {
		step := Step{
			Time:          t,
			CourantMean:   optional(valueAt(v.CourantMean, i)),
			CourantMax:    optional(valueAt(v.CourantMax, i)),
			MaxT:          optional(valueAt(v.MaxT, i)),
			ExecutionTime: optional(valueAt(v.ExecutionTime, i)),
		}
		if i < len(v.RawTimes) {
			step.Raw = v.RawTimes[i]
		}
		for _, field := range v.Fields {
			initial := valueAt(v.Initial[field], i)
			final := valueAt(v.Final[field], i)
			if math.IsNaN(initial) || math.IsNaN(final) {
				continue
			}
			if step.Residuals == nil {
				step.Residuals = make(map[string]ResidualPair)
			}
			step.Residuals[field] = ResidualPair{Initial: initial, Final: final}
		}
		doc.Steps = append(doc.Steps, step)
	}
	return doc
}

// WriteJSON encodes v as an indented JSON document.
func WriteJSON(w io.Writer, v monitor.View) error {
	data, err := sonic.ConfigStd.MarshalIndent(NewDocument(v), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
