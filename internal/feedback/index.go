package feedback

import (
	"bufio"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wavecraft/orchestrator/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Index is a derived, rebuildable SQLite view over the feedback log, used
// only to answer `orchestrate feedback show`'s historical queries without
// re-parsing the whole JSONL file on every invocation. It is never the
// source of truth: the log at logPath always is.
type Index struct {
	db *sql.DB
}

// WorkerSummary is one row of `orchestrate feedback show`'s output.
type WorkerSummary struct {
	WorkerName   string
	SuccessCount int
	FailureCount int
	SuccessRate  float64
}

// OpenIndex opens (creating if necessary) the SQLite database at
// indexPath and catches it up from the JSONL log at logPath: if the
// table's row count doesn't match the log's line count, the table is
// rebuilt from the log in full. Rebuilding rather than diffing is safe
// here because the log is small, append-only, and the canonical source.
func OpenIndex(indexPath, logPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", indexPath)
	if err != nil {
		return nil, fmt.Errorf("open feedback index: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init feedback index schema: %w", err)
	}

	idx := &Index{db: db}
	if err := idx.catchUp(logPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("catch up feedback index: %w", err)
	}
	return idx, nil
}

// Close closes the underlying database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

func (idx *Index) catchUp(logPath string) error {
	logLines, records, err := readLog(logPath)
	if err != nil {
		return err
	}

	var rowCount int
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM worker_outcomes`).Scan(&rowCount); err != nil {
		return fmt.Errorf("count existing rows: %w", err)
	}
	if rowCount == logLines {
		return nil
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM worker_outcomes`); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO worker_outcomes (worker_name, outcome, content_type, subtask_id, ts) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, rec := range records {
		if _, err := stmt.Exec(rec.WorkerName, rec.Outcome, rec.ContentType, rec.SubTaskID, rec.Timestamp); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func readLog(logPath string) (lineCount int, records []models.FeedbackRecord, err error) {
	f, err := os.Open(logPath)
	if os.IsNotExist(err) {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineCount++
		var rec models.FeedbackRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return lineCount, records, scanner.Err()
}

// Summaries returns per-worker aggregate counts, optionally restricted to
// records at or after since (zero value means no restriction).
func (idx *Index) Summaries(since time.Time) ([]WorkerSummary, error) {
	rows, err := idx.db.Query(`
		SELECT worker_name,
		       SUM(CASE WHEN outcome >= 0.5 THEN 1 ELSE 0 END) AS successes,
		       SUM(CASE WHEN outcome < 0.5 THEN 1 ELSE 0 END) AS failures
		FROM worker_outcomes
		WHERE ts >= ?
		GROUP BY worker_name
		ORDER BY worker_name`, since)
	if err != nil {
		return nil, fmt.Errorf("query worker summaries: %w", err)
	}
	defer rows.Close()

	var out []WorkerSummary
	for rows.Next() {
		var s WorkerSummary
		if err := rows.Scan(&s.WorkerName, &s.SuccessCount, &s.FailureCount); err != nil {
			return nil, err
		}
		total := s.SuccessCount + s.FailureCount
		if total > 0 {
			s.SuccessRate = float64(s.SuccessCount) / float64(total)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
