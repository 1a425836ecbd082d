// Package render turns a finished models.Report into one of four output
// formats. The Report itself is pure data; rendering is a separate step the
// caller invokes explicitly (CLI flag --format), never something the
// Coordinator or Synthesizer produce directly.
package render

import (
	"fmt"
	"io"

	"github.com/wavecraft/orchestrator/internal/models"
)

// Format selects the renderer Render dispatches to.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatMarkdown, FormatJSON, FormatHTML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("render: unknown format %q (want text, markdown, json, or html)", s)
	}
}

// Options controls cosmetic aspects shared across renderers.
type Options struct {
	// Color enables ANSI color in the text renderer. Ignored by the other
	// three formats, which are never colorized.
	Color bool
}

// Render writes report to w in the requested format. Output is
// deterministic: sections render in Report.Sections order and JSON object
// keys follow Report's field declaration order (Go's encoding/json already
// preserves struct field order; only the Metadata map is key-sorted, which
// encoding/json does automatically).
func Render(report *models.Report, format Format, w io.Writer, opts Options) error {
	switch format {
	case FormatText:
		return renderText(report, w, opts)
	case FormatMarkdown:
		return renderMarkdown(report, w)
	case FormatJSON:
		return renderJSON(report, w)
	case FormatHTML:
		return renderHTML(report, w)
	default:
		return fmt.Errorf("render: unknown format %q", format)
	}
}
