// Package tracer accumulates per-subtask execution trace entries and
// computes cost from token counts against a configured price table.
package tracer

import (
	"sync"
	"time"

	"github.com/wavecraft/orchestrator/internal/models"
)

// Tracer appends TraceEntry records as the Coordinator drives subtasks
// through started → success/failed/cancelled. Safe for concurrent use
// across a wave's goroutines.
type Tracer struct {
	mu         sync.Mutex
	entries    []*models.TraceEntry
	priceTable map[string]float64
	model      string
}

// New builds a Tracer pricing tokens against priceTable[model]. model
// should be config.BudgetConfig.DefaultModel; if it has no entry in
// priceTable, cost is left nil (unknown) rather than assumed zero.
func New(priceTable map[string]float64, model string) *Tracer {
	return &Tracer{priceTable: priceTable, model: model}
}

// Start records the beginning of a subtask invocation and returns a
// handle to pass to Finish. The handle stays valid across concurrent
// Start calls because entries are stored as pointers.
func (t *Tracer) Start(waveNum int, workerName, subtaskID string, startedAt time.Time) *models.TraceEntry {
	entry := &models.TraceEntry{
		WaveNum:    waveNum,
		WorkerName: workerName,
		SubTaskID:  subtaskID,
		Status:     models.TraceStarted,
		StartedAt:  startedAt,
	}
	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
	return entry
}

// Finish completes a started entry with the outcome of its invocation.
// status should be models.TraceSuccess, TraceFailed, or TraceCancelled.
func (t *Tracer) Finish(entry *models.TraceEntry, status models.TraceStatus, output models.WorkerOutput) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry.Status = status
	entry.EndedAt = output.EndedAt
	if entry.EndedAt.IsZero() {
		entry.EndedAt = time.Now()
	}
	if entry.EndedAt.Before(entry.StartedAt) {
		entry.EndedAt = entry.StartedAt
	}
	entry.DurationMS = entry.EndedAt.Sub(entry.StartedAt).Milliseconds()
	entry.Error = output.Error
	entry.Tokens = output.Tokens
	entry.Cost = t.costOf(output.Tokens)
}

// costOf computes tokens × unit_price, where unit_price comes from
// priceTable[model] (per million tokens). Returns nil — not zero — when
// tokens is nil or the model has no price entry, preserving the
// unknown-vs-zero distinction WorkerOutput and TraceEntry both rely on.
func (t *Tracer) costOf(tokens *int64) *float64 {
	if tokens == nil {
		return nil
	}
	price, ok := t.priceTable[t.model]
	if !ok {
		return nil
	}
	cost := float64(*tokens) * price / 1_000_000
	return &cost
}

// Entries returns a snapshot of every recorded entry, in the order Start
// was called.
func (t *Tracer) Entries() []models.TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.TraceEntry, len(t.entries))
	for i, e := range t.entries {
		out[i] = *e
	}
	return out
}
