package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavecraft/orchestrator/internal/models"
)

func TestNewFileLoggerCreatesRunFileAndSymlink(t *testing.T) {
	dir := t.TempDir()
	fl, err := NewFileLogger(dir, "debug")
	require.NoError(t, err)
	defer fl.Close()

	_, err = os.Stat(fl.runFile)
	require.NoError(t, err)

	latest := filepath.Join(dir, "latest.log")
	info, err := os.Lstat(latest)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)
}

func TestFileLoggerWritesWaveAndSubtaskLines(t *testing.T) {
	dir := t.TempDir()
	fl, err := NewFileLogger(dir, "debug")
	require.NoError(t, err)
	defer fl.Close()

	fl.LogWaveStart(models.Wave{Number: 1}, 3)
	fl.LogSubtaskResult("dead-code", "dead-code-analyzer", models.WorkerOutput{Success: true})
	fl.LogWaveComplete(models.Wave{Number: 1}, time.Second, []models.WorkerOutput{{Success: true}})
	fl.Close()

	data, err := os.ReadFile(fl.runFile)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Starting wave 1: 3 subtasks")
	assert.Contains(t, content, "ok dead-code")
	assert.Contains(t, content, "wave 1 complete")
}

func TestFileLoggerRespectsLogLevel(t *testing.T) {
	dir := t.TempDir()
	fl, err := NewFileLogger(dir, "warn")
	require.NoError(t, err)
	defer fl.Close()

	fl.Infof("quiet info")
	fl.Warnf("loud warning")
	fl.Close()

	data, err := os.ReadFile(fl.runFile)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "quiet info")
	assert.Contains(t, content, "loud warning")
}

func TestFileLoggerSummaryReflectsStatus(t *testing.T) {
	dir := t.TempDir()
	fl, err := NewFileLogger(dir, "info")
	require.NoError(t, err)
	defer fl.Close()

	fl.LogSummary(&models.Report{
		Title:    "Quiz",
		Sections: []models.ReportSection{{Title: "a"}, {Title: "b", Failed: true}},
	}, 5*time.Second)
	fl.Close()

	data, err := os.ReadFile(fl.runFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PARTIAL: Quiz")
}
