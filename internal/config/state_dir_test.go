package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStateDirEnvVarTakesPrecedence(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("ORCHESTRATOR_HOME", custom)

	dir, err := GetStateDir()
	require.NoError(t, err)
	assert.Equal(t, custom, dir)
}

func TestFeedbackLogPathRelativeJoinsStateDir(t *testing.T) {
	cfg := &FeedbackConfig{LogPath: "feedback.jsonl"}
	assert.Equal(t, filepath.Join("/state", "feedback.jsonl"), FeedbackLogPath("/state", cfg))
}

func TestFeedbackLogPathAbsoluteIsUntouched(t *testing.T) {
	cfg := &FeedbackConfig{LogPath: "/var/log/feedback.jsonl"}
	assert.Equal(t, "/var/log/feedback.jsonl", FeedbackLogPath("/state", cfg))
}

func TestFeedbackIndexPathRelativeJoinsStateDir(t *testing.T) {
	cfg := &FeedbackConfig{IndexPath: "feedback.db"}
	assert.Equal(t, filepath.Join("/state", "feedback.db"), FeedbackIndexPath("/state", cfg))
}

func TestTraceDirCreatesDirectory(t *testing.T) {
	base := t.TempDir()
	dir, err := TraceDir(base)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(base, "traces"), dir)
}
