package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate fits value into limit terminal cells, ending with "..." when cut.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || ansi.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return ansi.Truncate(value, limit, "")
	}
	return ansi.Truncate(value, limit, "...")
}

// truncateMiddle fits a path into limit cells by cutting its middle, so the
// leading directories and the file name both stay visible.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	width := ansi.StringWidth(value)
	if limit <= 0 || width <= limit {
		return value
	}

	const marker = "…/"
	if limit <= ansi.StringWidth(marker)+1 {
		return ansi.Truncate(value, limit, "")
	}
	keep := limit - ansi.StringWidth(marker)
	head := keep / 2
	tail := keep - head
	return ansi.Truncate(value, head, "") + marker + ansi.TruncateLeft(value, width-tail, "")
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
