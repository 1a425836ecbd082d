// Package models defines the core data types shared across the orchestrator:
// requests, subtasks, plans, worker outputs, traces, feedback records, and
// reports.
package models

import "github.com/google/uuid"

// Request is the free-text input to a single orchestration run.
type Request struct {
	ID      string                 // synthetic id, generated if not supplied
	Text    string                 // the user's natural-language request
	Context map[string]interface{} // optional caller-supplied context, never mutated
}

// NewRequest builds a Request with a generated ID.
func NewRequest(text string, context map[string]interface{}) Request {
	return Request{
		ID:      uuid.NewString(),
		Text:    text,
		Context: context,
	}
}
