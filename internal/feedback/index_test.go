package feedback

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenIndexCatchesUpFromLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "feedback.jsonl")
	indexPath := filepath.Join(dir, "feedback.db")

	store := NewStore(logPath, 0.2, nil)
	require.NoError(t, store.Record("duplicate-detector", 1.0, "code", "s1", time.Now()))
	require.NoError(t, store.Record("duplicate-detector", 0.0, "code", "s2", time.Now()))
	require.NoError(t, store.Close())

	idx, err := OpenIndex(indexPath, logPath)
	require.NoError(t, err)
	defer idx.Close()

	summaries, err := idx.Summaries(time.Time{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "duplicate-detector", summaries[0].WorkerName)
	assert.Equal(t, 1, summaries[0].SuccessCount)
	assert.Equal(t, 1, summaries[0].FailureCount)
	assert.InDelta(t, 0.5, summaries[0].SuccessRate, 1e-9)
}

func TestOpenIndexRebuildsWhenRowCountDriftsFromLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "feedback.jsonl")
	indexPath := filepath.Join(dir, "feedback.db")

	store := NewStore(logPath, 0.2, nil)
	require.NoError(t, store.Record("w", 1.0, "code", "s1", time.Now()))
	require.NoError(t, store.Close())

	idx, err := OpenIndex(indexPath, logPath)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	// More records land in the log after the index was first built.
	store2 := NewStore(logPath, 0.2, nil)
	require.NoError(t, store2.Record("w", 0.0, "code", "s2", time.Now()))
	require.NoError(t, store2.Close())

	idx2, err := OpenIndex(indexPath, logPath)
	require.NoError(t, err)
	defer idx2.Close()

	summaries, err := idx2.Summaries(time.Time{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].SuccessCount)
	assert.Equal(t, 1, summaries[0].FailureCount)
}

func TestOpenIndexOnEmptyLogHasNoSummaries(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "feedback.jsonl")
	indexPath := filepath.Join(dir, "feedback.db")

	idx, err := OpenIndex(indexPath, logPath)
	require.NoError(t, err)
	defer idx.Close()

	summaries, err := idx.Summaries(time.Time{})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
