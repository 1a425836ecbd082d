package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for metric display: green for
// success-leaning values, red for failure, yellow for warnings, cyan for
// labels.
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	labelColored := scheme.label.Sprint(label)
	valueColored := scheme.value.Sprintf("%v", value)
	return fmt.Sprintf("%s: %s", labelColored, valueColored)
}

// formatColorizedSubtaskMetrics renders a subtask's duration, tokens, and
// cost as a comma-joined "label: value" list. Tokens/cost are omitted
// entirely when nil (unknown), never shown as 0 — matching WorkerOutput's
// nil-means-unknown contract. High cost (> $0.10) is highlighted in yellow.
func formatColorizedSubtaskMetrics(tokens *int64, cost *float64, duration time.Duration, useColor bool) string {
	scheme := newColorScheme()
	var parts []string

	if duration > 0 {
		if useColor {
			parts = append(parts, formatColorizedMetric("duration", duration.Round(10*time.Millisecond), scheme))
		} else {
			parts = append(parts, fmt.Sprintf("duration: %s", duration.Round(10*time.Millisecond)))
		}
	}

	if tokens != nil {
		if useColor {
			parts = append(parts, formatColorizedMetric("tokens", *tokens, scheme))
		} else {
			parts = append(parts, fmt.Sprintf("tokens: %d", *tokens))
		}
	}

	if cost != nil {
		costStr := fmt.Sprintf("$%.4f", *cost)
		if useColor {
			if *cost > 0.10 {
				parts = append(parts, fmt.Sprintf("%s: %s", scheme.warn.Sprint("cost"), scheme.warn.Sprint(costStr)))
			} else {
				parts = append(parts, formatColorizedMetric("cost", costStr, scheme))
			}
		} else {
			parts = append(parts, fmt.Sprintf("cost: %s", costStr))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}
