package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavecraft/orchestrator/internal/models"
)

func TestRenderJSONRoundTrips(t *testing.T) {
	report := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, renderJSON(report, &buf))

	var got models.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, report.Title, got.Title)
	assert.Equal(t, report.Recommendations, got.Recommendations)
	require.Len(t, got.Sections, 3)
	assert.True(t, got.Sections[2].Failed)
}

func TestRenderJSONNilCostMarshalsAsNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderJSON(sampleReport(), &buf))
	assert.Contains(t, buf.String(), `"Cost": null`)
}

func TestRenderJSONIsDeterministicAcrossCalls(t *testing.T) {
	report := sampleReport()
	var a, b bytes.Buffer
	require.NoError(t, renderJSON(report, &a))
	require.NoError(t, renderJSON(report, &b))
	assert.Equal(t, a.String(), b.String())
}
