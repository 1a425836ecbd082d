package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLWrapsConvertedMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderHTML(sampleReport(), &buf))

	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Codebase Analysis</title>")
	assert.Contains(t, out, "<h2>Duplicates</h2>")
	assert.Contains(t, out, "<li>remove unused func Foo</li>")
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	report := sampleReport()
	report.Title = "A <script> & B"
	var buf bytes.Buffer
	require.NoError(t, renderHTML(report, &buf))
	assert.Contains(t, buf.String(), "<title>A &lt;script&gt; &amp; B</title>")
}
