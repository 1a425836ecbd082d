package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/wavecraft/orchestrator/internal/models"
)

// renderMarkdown builds a Markdown document from report. Section order
// follows Report.Sections verbatim (the order the Synthesizer produced
// them in, which is itself fixed per pattern), so two renders of the same
// Report are byte-identical.
func renderMarkdown(report *models.Report, w io.Writer) error {
	var b strings.Builder

	title := report.Title
	if title == "" {
		title = "Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if report.Cancelled {
		b.WriteString("> **Cancelled:** execution stopped before all waves completed.\n\n")
	}

	if report.Summary != "" {
		b.WriteString(report.Summary)
		b.WriteString("\n\n")
	}

	for _, sec := range report.Sections {
		heading := sec.Title
		if sec.Failed {
			heading += " (failed)"
		}
		fmt.Fprintf(&b, "## %s\n\n", heading)
		b.WriteString(sec.Body)
		b.WriteString("\n\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	if len(report.ExecutionTrace) > 0 {
		b.WriteString("## Execution Trace\n\n")
		b.WriteString("| Wave | Worker | Subtask | Status | Duration (ms) | Tokens | Cost |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, entry := range report.ExecutionTrace {
			tokens := "-"
			if entry.Tokens != nil {
				tokens = fmt.Sprintf("%d", *entry.Tokens)
			}
			cost := "-"
			if entry.Cost != nil {
				cost = fmt.Sprintf("$%.4f", *entry.Cost)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %s | %s |\n",
				entry.WaveNum, entry.WorkerName, entry.SubTaskID, entry.Status, entry.DurationMS, tokens, cost)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
