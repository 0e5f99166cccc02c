// Package foamlog parses OpenFOAM-style solver logs.
//
// # Overview
//
// A solver log is a flat stream of text in which every simulation step
// starts with a marker line:
//
//	Time = 0.005
//
// followed by the diagnostics the solver printed for that step:
//
//	Courant Number mean: 0.0121 max: 0.3315
//	DILUPBiCGStab:  Solving for Ux, Initial residual = 0.00473474, Final residual = 1.98e-07, No Iterations 2
//	min/max(T) = 293, 2773.05
//	ExecutionTime = 12.44 s  ClockTime = 13 s
//
// Segment splits the raw text into per-step slices keyed by the parsed time
// value. An Extractor then pulls individual metrics out of one slice.
//
// # Matching Rules
//
//   - Residuals: first "<field>, Initial residual = a, Final residual = b" in the slice
//   - Courant: last "Courant Number mean: a max: b" in the slice (the converged iterate)
//   - Temperature: first "min/max(T) = a, b", keeping b
//   - Execution time: last "ExecutionTime = a s"
//
// Nothing in this package returns an error for odd input. A pattern that is
// absent, or whose number does not parse, simply yields no value.
package foamlog
