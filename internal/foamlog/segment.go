package foamlog

import (
	"regexp"
	"strconv"
)

// numberPattern matches plain decimals and scientific notation such as
// 0.003, 2773.05, .5, -4 and 1.98e-07.
const numberPattern = `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`

// The marker must start a line so that "ExecutionTime = 1.2 s" is not taken
// for a step boundary.
var timeMarker = regexp.MustCompile(`(?m)^[ \t]*Time = (` + numberPattern + `)`)

// Step locates one simulation step inside the raw log text.
type Step struct {
	Time  float64 // parsed time key
	Raw   string  // time value exactly as printed
	Start int     // offset of the marker
	End   int     // offset of the next marker, or len(text) (exclusive)
}

// Slice returns the step's portion of text. Offsets outside text yield "".
func (s Step) Slice(text string) string {
	if s.Start < 0 || s.End > len(text) || s.Start > s.End {
		return ""
	}
	return text[s.Start:s.End]
}

// Segment returns one Step per time marker in text, in the order they
// appear. Repeated time values are returned once per occurrence. A marker
// whose value does not parse still ends the previous step but is not
// returned itself. Text without markers yields nil.
func Segment(text string) []Step {
	locs := timeMarker.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	steps := make([]Step, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		raw := text[loc[2]:loc[3]]
		value, ok := ParseNumber(raw)
		if !ok {
			continue
		}
		steps = append(steps, Step{Time: value, Raw: raw, Start: loc[0], End: end})
	}
	return steps
}

// ParseNumber parses a captured numeric token. Tokens that overflow or are
// otherwise malformed report false.
func ParseNumber(token string) (float64, bool) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
