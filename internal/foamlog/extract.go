package foamlog

import (
	"regexp"
	"strings"
)

// Residual is the solver convergence pair reported for one field.
type Residual struct {
	Initial float64
	Final   float64
}

// Courant holds the mean and max Courant numbers of a step.
type Courant struct {
	Mean float64
	Max  float64
}

// Values collects everything extracted from a single step slice. The Has*
// flags distinguish a logged zero from an absent metric.
type Values struct {
	Residuals map[string]Residual

	Courant    Courant
	HasCourant bool

	MaxT    float64
	HasMaxT bool

	ExecutionTime    float64
	HasExecutionTime bool

	Finished bool
}

// Empty reports whether no metric at all was found.
func (v Values) Empty() bool {
	return len(v.Residuals) == 0 && !v.HasCourant && !v.HasMaxT && !v.HasExecutionTime
}

var (
	courantPattern     = regexp.MustCompile(`Courant Number mean: (` + numberPattern + `) max: (` + numberPattern + `)`)
	temperaturePattern = regexp.MustCompile(`min/max\(T\) = (` + numberPattern + `), (` + numberPattern + `)`)
	executionPattern   = regexp.MustCompile(`ExecutionTime = (` + numberPattern + `) s`)
	endPattern         = regexp.MustCompile(`(?m)^End\s*$`)
)

// Extractor pulls metrics out of step slices for a fixed set of fields.
type Extractor struct {
	fields   []string
	patterns map[string]*regexp.Regexp
}

// NewExtractor compiles a residual pattern for each non-blank, distinct field.
func NewExtractor(fields []string) *Extractor {
	e := &Extractor{patterns: make(map[string]*regexp.Regexp, len(fields))}
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if _, dup := e.patterns[field]; dup {
			continue
		}
		e.fields = append(e.fields, field)
		e.patterns[field] = residualPattern(field)
	}
	return e
}

// Fields returns the monitored field names in configuration order.
func (e *Extractor) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Extract runs every pattern against slice.
func (e *Extractor) Extract(slice string) Values {
	values := Values{Residuals: make(map[string]Residual, len(e.fields))}
	for _, field := range e.fields {
		if r, ok := matchResidual(e.patterns[field], slice); ok {
			values.Residuals[field] = r
		}
	}
	values.Courant, values.HasCourant = ExtractCourant(slice)
	values.MaxT, values.HasMaxT = ExtractMaxTemperature(slice)
	values.ExecutionTime, values.HasExecutionTime = ExtractExecutionTime(slice)
	values.Finished = IsFinished(slice)
	return values
}

// Residual extracts the first residual pair logged for field.
func (e *Extractor) Residual(slice, field string) (Residual, bool) {
	re, ok := e.patterns[field]
	if !ok {
		re = residualPattern(field)
	}
	return matchResidual(re, slice)
}

// ExtractResidual is Residual for a one-off field without an Extractor.
func ExtractResidual(slice, field string) (Residual, bool) {
	return matchResidual(residualPattern(field), slice)
}

// ExtractCourant returns the last Courant line in slice.
func ExtractCourant(slice string) (Courant, bool) {
	matches := courantPattern.FindAllStringSubmatch(slice, -1)
	if len(matches) == 0 {
		return Courant{}, false
	}
	last := matches[len(matches)-1]
	mean, ok := ParseNumber(last[1])
	if !ok {
		return Courant{}, false
	}
	peak, ok := ParseNumber(last[2])
	if !ok {
		return Courant{}, false
	}
	return Courant{Mean: mean, Max: peak}, true
}

// ExtractMaxTemperature returns the second value of the first min/max(T) line.
func ExtractMaxTemperature(slice string) (float64, bool) {
	m := temperaturePattern.FindStringSubmatch(slice)
	if m == nil {
		return 0, false
	}
	return ParseNumber(m[2])
}

// ExtractExecutionTime returns the last cumulative execution time in slice.
func ExtractExecutionTime(slice string) (float64, bool) {
	matches := executionPattern.FindAllStringSubmatch(slice, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return ParseNumber(matches[len(matches)-1][1])
}

// IsFinished reports whether text contains the solver's closing "End" line.
func IsFinished(text string) bool {
	return endPattern.MatchString(text)
}

func residualPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\W)` + regexp.QuoteMeta(field) +
		`, Initial residual = (` + numberPattern + `), Final residual = (` + numberPattern + `)`)
}

func matchResidual(re *regexp.Regexp, slice string) (Residual, bool) {
	m := re.FindStringSubmatch(slice)
	if m == nil {
		return Residual{}, false
	}
	initial, ok := ParseNumber(m[1])
	if !ok {
		return Residual{}, false
	}
	final, ok := ParseNumber(m[2])
	if !ok {
		return Residual{}, false
	}
	return Residual{Initial: initial, Final: final}, true
}
