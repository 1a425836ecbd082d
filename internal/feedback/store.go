// Package feedback is the append-only record of worker outcomes and the
// in-memory exponential-moving-average success-rate table derived from it.
package feedback

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wavecraft/orchestrator/internal/filelock"
	"github.com/wavecraft/orchestrator/internal/models"
)

// Warner receives a warning when the Store degrades to session-only
// operation. Satisfied by logger.Logger's Warnf.
type Warner interface {
	Warnf(format string, args ...interface{})
}

// Store is the feedback log plus its derived EMA table. The log file is
// the single source of truth; the table is rebuilt by replaying it.
type Store struct {
	logPath string
	alpha   float64
	warner  Warner

	mu       sync.Mutex
	rates    map[string]*models.WorkerSuccessRate
	file     *os.File
	degraded bool // true once the log became unwritable; session-only from here
}

// NewStore opens (creating if necessary) the JSONL log at logPath,
// replays it to rebuild the in-memory rate table, and leaves the file
// open for append. If the log cannot be opened or replayed, the Store
// still returns successfully but operates in-memory only for the rest of
// the process, per §4.4's graceful-degradation requirement.
func NewStore(logPath string, alpha float64, warner Warner) *Store {
	s := &Store{
		logPath: logPath,
		alpha:   alpha,
		warner:  warner,
		rates:   make(map[string]*models.WorkerSuccessRate),
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		s.warnDegrade("create feedback log directory: %v", err)
		return s
	}
	if err := s.replay(); err != nil {
		s.warnDegrade("replay feedback log: %v", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		s.warnDegrade("open feedback log for append: %v", err)
		return s
	}
	s.file = file
	return s
}

func (s *Store) warnDegrade(format string, args ...interface{}) {
	s.degraded = true
	if s.warner != nil {
		s.warner.Warnf("feedback store degraded to session-only: "+format, args...)
	}
}

// Close releases the underlying log file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// replay reads every existing line of the log in order and rebuilds the
// EMA table from scratch. Malformed lines are skipped (a partial record
// from a crashed write, at most one per restart).
func (s *Store) replay() error {
	f, err := os.Open(s.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec models.FeedbackRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		s.applyLocked(rec)
	}
	return scanner.Err()
}

// applyLocked updates the EMA table for one record. Caller must hold s.mu
// or be single-threaded during replay.
func (s *Store) applyLocked(rec models.FeedbackRecord) {
	rate, ok := s.rates[rec.WorkerName]
	if !ok {
		rate = &models.WorkerSuccessRate{WorkerName: rec.WorkerName, Rate: rec.Outcome}
		s.rates[rec.WorkerName] = rate
		rate.SampleCount = 1
		return
	}
	rate.Rate = s.alpha*rec.Outcome + (1-s.alpha)*rate.Rate
	rate.SampleCount++
}

// Record appends one outcome to the log (flushed before returning) and
// updates the in-memory EMA table. When the Store is degraded, Record
// only updates the in-memory table.
func (s *Store) Record(workerName string, outcome float64, contentType, subtaskID string, ts time.Time) error {
	rec := models.FeedbackRecord{
		Timestamp:   ts,
		WorkerName:  workerName,
		Outcome:     outcome,
		ContentType: contentType,
		SubTaskID:   subtaskID,
	}

	s.mu.Lock()
	s.applyLocked(rec)
	s.mu.Unlock()

	if s.degraded || s.file == nil {
		return nil
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode feedback record: %w", err)
	}
	line = append(line, '\n')

	lock := filelock.NewFileLock(s.logPath + ".lock")
	if err := lock.Lock(); err != nil {
		s.warnDegrade("acquire feedback log lock: %v", err)
		return nil
	}
	defer lock.Unlock()

	s.mu.Lock()
	_, writeErr := s.file.Write(line)
	if writeErr == nil {
		writeErr = s.file.Sync()
	}
	s.mu.Unlock()

	if writeErr != nil {
		s.warnDegrade("write feedback record: %v", writeErr)
	}
	return nil
}

// Compact rewrites the log keeping only well-formed records, dropping any
// partial line left by a process that crashed mid-write. The in-memory
// rate table already tolerates malformed lines (replay skips them); Compact
// just tidies the file on disk so it stops growing with dead bytes. The
// rewrite goes through filelock.LockAndWrite so a concurrent Record never
// observes a half-written file.
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open feedback log for compaction: %w", err)
	}

	var kept bytes.Buffer
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec models.FeedbackRecord
		line := scanner.Bytes()
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		kept.Write(line)
		kept.WriteByte('\n')
	}
	scanErr := scanner.Err()
	f.Close()
	if scanErr != nil {
		return fmt.Errorf("scan feedback log for compaction: %w", scanErr)
	}

	if s.file != nil {
		s.file.Close()
		s.file = nil
	}

	if err := filelock.LockAndWrite(s.logPath, kept.Bytes()); err != nil {
		return fmt.Errorf("rewrite feedback log: %w", err)
	}

	file, err := os.OpenFile(s.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		s.warnDegrade("reopen feedback log after compaction: %v", err)
		return nil
	}
	s.file = file
	return nil
}

// RateFor implements router.SuccessRates: returns the learned EMA rate and
// sample count for a worker, or (0, 0) if nothing has been recorded yet.
func (s *Store) RateFor(workerName string) (rate float64, sampleCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rates[workerName]
	if !ok {
		return 0, 0
	}
	return r.Rate, r.SampleCount
}

// All returns a snapshot of every worker's success rate, sorted by name
// for deterministic display.
func (s *Store) All() []models.WorkerSuccessRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WorkerSuccessRate, 0, len(s.rates))
	for _, r := range s.rates {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkerName < out[j].WorkerName })
	return out
}
