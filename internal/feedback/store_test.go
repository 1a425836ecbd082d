package feedback

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingWarner struct{ warnings []string }

func (w *capturingWarner) Warnf(format string, args ...interface{}) {
	w.warnings = append(w.warnings, format)
}

func TestRecordAppendsLineAndUpdatesRate(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "feedback.jsonl")
	s := NewStore(logPath, 0.2, nil)
	defer s.Close()

	require.NoError(t, s.Record("duplicate-detector", 1.0, "code", "s1", time.Now()))
	rate, samples := s.RateFor("duplicate-detector")
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, 1, samples)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "duplicate-detector")
}

func TestEMAConverges(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "feedback.jsonl")
	s := NewStore(logPath, 0.2, nil)
	defer s.Close()

	require.NoError(t, s.Record("w", 1.0, "code", "s1", time.Now()))
	require.NoError(t, s.Record("w", 0.0, "code", "s2", time.Now()))

	rate, samples := s.RateFor("w")
	assert.InDelta(t, 0.8, rate, 1e-9) // 0.2*0 + 0.8*1.0
	assert.Equal(t, 2, samples)
}

func TestRateForUnknownWorkerReturnsZeroSamples(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "feedback.jsonl")
	s := NewStore(logPath, 0.2, nil)
	defer s.Close()

	rate, samples := s.RateFor("nobody")
	assert.Equal(t, 0.0, rate)
	assert.Equal(t, 0, samples)
}

func TestNewStoreReplaysExistingLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "feedback.jsonl")

	first := NewStore(logPath, 0.2, nil)
	require.NoError(t, first.Record("w", 1.0, "code", "s1", time.Now()))
	require.NoError(t, first.Record("w", 1.0, "code", "s2", time.Now()))
	require.NoError(t, first.Close())

	second := NewStore(logPath, 0.2, nil)
	defer second.Close()
	rate, samples := second.RateFor("w")
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, 2, samples)
}

func TestNewStoreSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "feedback.jsonl")
	require.NoError(t, os.WriteFile(logPath, []byte("not json\n{\"worker\":\"w\",\"outcome\":1.0}\n"), 0644))

	s := NewStore(logPath, 0.2, nil)
	defer s.Close()
	rate, samples := s.RateFor("w")
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, 1, samples)
}

func TestNewStoreDegradesWhenLogDirUnwritable(t *testing.T) {
	warner := &capturingWarner{}
	// A path under a file (not a directory) can never be created.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewStore(filepath.Join(blocker, "sub", "feedback.jsonl"), 0.2, warner)
	defer s.Close()

	assert.True(t, s.degraded)
	assert.NotEmpty(t, warner.warnings)

	// Session-only: Record still updates the in-memory table even though
	// nothing durable happened.
	require.NoError(t, s.Record("w", 1.0, "code", "s1", time.Now()))
	rate, samples := s.RateFor("w")
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, 1, samples)
}

func TestAllReturnsSortedSnapshot(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "feedback.jsonl")
	s := NewStore(logPath, 0.2, nil)
	defer s.Close()

	require.NoError(t, s.Record("zeta", 1.0, "code", "s1", time.Now()))
	require.NoError(t, s.Record("alpha", 1.0, "code", "s2", time.Now()))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].WorkerName)
	assert.Equal(t, "zeta", all[1].WorkerName)
}

func TestCompactDropsMalformedLinesAndKeepsValidOnes(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "feedback.jsonl")
	require.NoError(t, os.WriteFile(logPath, []byte(
		"not json\n{\"worker\":\"w\",\"outcome\":1.0}\n{\"worker\":\"w\",\"outcome\":0.5}\ntruncated mid-rec",
	), 0644))

	s := NewStore(logPath, 0.2, nil)
	defer s.Close()

	require.NoError(t, s.Compact())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, 2, lines)
	assert.NotContains(t, string(data), "not json")
	assert.NotContains(t, string(data), "truncated mid-rec")

	// Compact must not disturb the already-replayed in-memory rate table.
	rate, samples := s.RateFor("w")
	assert.InDelta(t, 0.9, rate, 1e-9) // 0.2*0.5 + 0.8*1.0
	assert.Equal(t, 2, samples)
}

func TestCompactLeavesStoreWritableAfterwards(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "feedback.jsonl")
	s := NewStore(logPath, 0.2, nil)
	defer s.Close()

	require.NoError(t, s.Record("w", 1.0, "code", "s1", time.Now()))
	require.NoError(t, s.Compact())
	require.NoError(t, s.Record("w", 1.0, "code", "s2", time.Now()))

	_, samples := s.RateFor("w")
	assert.Equal(t, 2, samples)
}

func TestRecordedLineIsValidJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "feedback.jsonl")
	s := NewStore(logPath, 0.2, nil)
	defer s.Close()

	require.NoError(t, s.Record("w", 1.0, "code", "s1", time.Now()))
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(data[:len(data)-1], &rec)) // strip trailing newline
	assert.Equal(t, "w", rec["worker"])
}
