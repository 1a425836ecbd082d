package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/wavecraft/orchestrator/internal/models"
)

// renderText writes a console-oriented rendering of report, building the
// whole text in a strings.Builder and writing it once, and reusing the
// success/fail/warn/label color roles from logger.newColorScheme. Tokens/cost are omitted wherever nil, never shown
// as 0, matching the nil-means-unknown convention used throughout the
// tracer and logger.
func renderText(report *models.Report, w io.Writer, opts Options) error {
	scheme := newTextColorScheme()
	var b strings.Builder

	title := report.Title
	if title == "" {
		title = "Report"
	}
	writeHeading(&b, title, scheme, opts.Color)

	if report.Cancelled {
		writeLine(&b, scheme.warn, opts.Color, "⚠ execution cancelled before all waves completed")
	}

	if report.Summary != "" {
		b.WriteString(report.Summary)
		b.WriteString("\n\n")
	}

	for _, sec := range report.Sections {
		writeSection(&b, sec, scheme, opts.Color)
	}

	if len(report.Recommendations) > 0 {
		writeHeading(&b, "Recommendations", scheme, opts.Color)
		for i, rec := range report.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	if len(report.ExecutionTrace) > 0 {
		writeHeading(&b, "Execution Trace", scheme, opts.Color)
		for _, entry := range report.ExecutionTrace {
			writeTraceLine(&b, entry, scheme, opts.Color)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type textColorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newTextColorScheme() *textColorScheme {
	return &textColorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan, color.Bold),
	}
}

func writeHeading(b *strings.Builder, title string, scheme *textColorScheme, useColor bool) {
	if useColor {
		b.WriteString(scheme.label.Sprintf("== %s ==", title))
	} else {
		fmt.Fprintf(b, "== %s ==", title)
	}
	b.WriteString("\n")
}

func writeLine(b *strings.Builder, c *color.Color, useColor bool, line string) {
	if useColor {
		b.WriteString(c.Sprint(line))
	} else {
		b.WriteString(line)
	}
	b.WriteString("\n")
}

func writeSection(b *strings.Builder, sec models.ReportSection, scheme *textColorScheme, useColor bool) {
	icon := sec.Icon
	if icon == "" {
		icon = "-"
	}
	heading := fmt.Sprintf("%s %s", icon, sec.Title)
	if sec.Failed {
		heading += " [FAILED]"
		if useColor {
			b.WriteString(scheme.fail.Sprint(heading))
		} else {
			b.WriteString(heading)
		}
	} else {
		if useColor {
			b.WriteString(scheme.success.Sprint(heading))
		} else {
			b.WriteString(heading)
		}
	}
	b.WriteString("\n")
	b.WriteString(sec.Body)
	b.WriteString("\n\n")
}

func writeTraceLine(b *strings.Builder, entry models.TraceEntry, scheme *textColorScheme, useColor bool) {
	parts := []string{
		fmt.Sprintf("wave %d", entry.WaveNum),
		entry.WorkerName,
		entry.SubTaskID,
		string(entry.Status),
	}
	if entry.DurationMS > 0 {
		parts = append(parts, fmt.Sprintf("%dms", entry.DurationMS))
	}
	if entry.Tokens != nil {
		parts = append(parts, fmt.Sprintf("%d tokens", *entry.Tokens))
	}
	if entry.Cost != nil {
		parts = append(parts, fmt.Sprintf("$%.4f", *entry.Cost))
	}
	line := strings.Join(parts, " | ")

	switch entry.Status {
	case models.TraceFailed:
		writeLine(b, scheme.fail, useColor, line)
	case models.TraceCancelled:
		writeLine(b, scheme.warn, useColor, line)
	default:
		writeLine(b, scheme.success, useColor, line)
	}
	if entry.Error != "" {
		fmt.Fprintf(b, "    %s\n", entry.Error)
	}
}
