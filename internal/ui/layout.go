package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Chart sizing.
const (
	// ChartLabelWidth is reserved left of the plot for y-axis labels.
	ChartLabelWidth = 14

	// ChartMinHeight is the smallest plot height drawn.
	ChartMinHeight = 4
)

// Log display limits.
const (
	// LogTailLines is the number of solver log lines shown in the log tab.
	LogTailLines = 2000
)

// Timing constants.
const (
	// LogRefreshDebounce is the minimum time between log reads.
	LogRefreshDebounce = 400 * time.Millisecond

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
