package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wavecraft/orchestrator/internal/models"
	"github.com/yuin/goldmark"
)

// renderHTML builds the Markdown rendering of report and converts it to
// HTML with goldmark's top-level Convert API. This is a different goldmark
// usage than the pack's Markdown parser (which walks the AST to extract a
// plan from hand-written task files); here the document being converted is
// one the renderer itself produced, so the simpler Convert entry point is
// the right fit.
func renderHTML(report *models.Report, w io.Writer) error {
	var md bytes.Buffer
	if err := renderMarkdown(report, &md); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("render: markdown to html: %w", err)
	}

	title := report.Title
	if title == "" {
		title = "Report"
	}

	_, err := fmt.Fprintf(w, htmlTemplate, htmlEscapeTitle(title), body.String())
	return err
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

func htmlEscapeTitle(title string) string {
	r := []rune(title)
	out := make([]rune, 0, len(r))
	for _, c := range r {
		switch c {
		case '<':
			out = append(out, []rune("&lt;")...)
		case '>':
			out = append(out, []rune("&gt;")...)
		case '&':
			out = append(out, []rune("&amp;")...)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
