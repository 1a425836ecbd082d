package models

import "time"

// FeedbackRecord is one append-only outcome record written after a
// subtask completes. outcome is 0.0 (failure) or 1.0 (success).
type FeedbackRecord struct {
	Timestamp   time.Time `json:"ts"`
	WorkerName  string    `json:"worker"`
	Outcome     float64   `json:"outcome"`
	ContentType string    `json:"content_type"`
	SubTaskID   string    `json:"subtask"`
}

// WorkerSuccessRate is the derived, in-memory view over the feedback log
// for a single worker: an exponential moving average of outcomes.
type WorkerSuccessRate struct {
	WorkerName  string
	Rate        float64 // EMA in [0,1]
	SampleCount int
}
