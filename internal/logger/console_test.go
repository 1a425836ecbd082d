package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wavecraft/orchestrator/internal/models"
)

func newTestLogger(buf *bytes.Buffer) *ConsoleLogger {
	cl := NewConsoleLogger(buf, "debug")
	cl.colorOutput = false // deterministic assertions regardless of terminal detection
	return cl
}

func TestConsoleLoggerNilWriterDiscardsSafely(t *testing.T) {
	cl := NewConsoleLogger(nil, "info")
	assert.NotPanics(t, func() {
		cl.Infof("hello")
		cl.LogWaveStart(models.Wave{Number: 1}, 2)
	})
}

func TestLogWaveStartAndComplete(t *testing.T) {
	var buf bytes.Buffer
	cl := newTestLogger(&buf)

	cl.LogWaveStart(models.Wave{Number: 1, SubTaskIDs: []string{"a", "b"}}, 2)
	assert.Contains(t, buf.String(), "Starting wave 1: 2 subtasks")

	buf.Reset()
	outputs := []models.WorkerOutput{
		{Success: true}, {Success: false, Error: "timeout"},
	}
	cl.LogWaveComplete(models.Wave{Number: 1}, 2500*time.Millisecond, outputs)
	out := buf.String()
	assert.Contains(t, out, "wave 1 complete")
	assert.Contains(t, out, "1 succeeded, 1 failed")
}

func TestLogSubtaskResultOmitsUnknownMetrics(t *testing.T) {
	var buf bytes.Buffer
	cl := newTestLogger(&buf)

	cl.LogSubtaskResult("duplicate-detect", "duplicate-detector", models.WorkerOutput{Success: true})
	out := buf.String()
	assert.Contains(t, out, "ok duplicate-detect")
	assert.Contains(t, out, "worker: duplicate-detector")
	assert.NotContains(t, out, "tokens")
	assert.NotContains(t, out, "cost")
}

func TestLogSubtaskResultIncludesKnownMetrics(t *testing.T) {
	var buf bytes.Buffer
	cl := newTestLogger(&buf)

	tokens := int64(1200)
	cost := 0.05
	cl.LogSubtaskResult("quiz-generate", "quiz-generator", models.WorkerOutput{
		Success:   true,
		Tokens:    &tokens,
		Cost:      &cost,
		StartedAt: time.Now(),
		EndedAt:   time.Now().Add(3 * time.Second),
	})
	out := buf.String()
	assert.Contains(t, out, "tokens: 1200")
	assert.Contains(t, out, "cost: $0.0500")
}

func TestLogSubtaskResultFailureIncludesError(t *testing.T) {
	var buf bytes.Buffer
	cl := newTestLogger(&buf)

	cl.LogSubtaskResult("duplicate-detect", "duplicate-detector", models.WorkerOutput{Success: false, Error: "timeout"})
	out := buf.String()
	assert.Contains(t, out, "fail duplicate-detect")
	assert.Contains(t, out, "error: timeout")
}

func TestLogSummaryReportsFailuresAndCancellation(t *testing.T) {
	var buf bytes.Buffer
	cl := newTestLogger(&buf)

	report := &models.Report{
		Title:   "Codebase Audit",
		Summary: "3 of 4 subtasks succeeded",
		Sections: []models.ReportSection{
			{Title: "Duplicates"},
			{Title: "Dead Code", Failed: true},
		},
		Cancelled: true,
	}
	cl.LogSummary(report, 18*time.Second)
	out := buf.String()
	assert.Contains(t, out, "Codebase Audit")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "cancelled")
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")
	cl.colorOutput = false

	cl.Infof("should be suppressed")
	assert.Empty(t, buf.String())

	cl.Warnf("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestNormalizeLogLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", normalizeLogLevel(""))
	assert.Equal(t, "info", normalizeLogLevel("bogus"))
	assert.Equal(t, "debug", normalizeLogLevel("DEBUG"))
}
