package bridge

import (
	"fmt"
	"time"

	"github.com/wavecraft/orchestrator/internal/models"
)

// cannedResults gives every default simulated worker a deterministic,
// plausible payload so the system runs end-to-end with no external worker
// binaries installed. Keyed by worker name; falls through to a generic
// echo payload for anything not listed here (e.g. a user-added simulated
// worker with no canned entry yet).
var cannedResults = map[string]func(models.SubTask) interface{}{
	"duplicate-detector": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"duplicate_groups": []interface{}{},
			"files_scanned":    42,
			"findings": []interface{}{
				map[string]interface{}{"description": "no duplicate blocks found above the similarity threshold", "priority": 1},
			},
		}
	},
	"dead-code-analyzer": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"dead_symbols":  []interface{}{},
			"files_scanned": 42,
			"findings":      []interface{}{},
		}
	},
	"code-organizer": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"groups":   []interface{}{"core", "tests", "cmd"},
			"findings": []interface{}{},
		}
	},
	"refactor-planner": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"plan":     "no refactors required",
			"findings": []interface{}{},
		}
	},
	"search-worker": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"results": []interface{}{
				map[string]interface{}{"title": fmt.Sprintf("overview: %s", s.Description), "url": "https://example.invalid/1", "snippet": "a simulated search hit"},
			},
			"query": s.Description,
		}
	},
	"quality-assessor": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"score":  0.8,
			"issues": []interface{}{},
			"ranking": []interface{}{
				map[string]interface{}{"title": fmt.Sprintf("overview: %s", s.Description), "score": 0.8},
			},
		}
	},
	"content-fetcher": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"content": fmt.Sprintf("fetched content for: %s", s.Description),
		}
	},
	"context-builder": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"context":      fmt.Sprintf("context built for: %s", s.Description),
			"next_actions": []interface{}{"review recent changes", "confirm open tasks with the team"},
		}
	},
	"quiz-generator": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"questions": []interface{}{
				map[string]interface{}{"id": 1, "question": fmt.Sprintf("What is the main idea behind: %s?", s.Description), "answer": "see source material"},
			},
			"suggestions": []interface{}{"add a diagram for the hardest question"},
		}
	},
	"learning-material-builder": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"material": fmt.Sprintf("study material for: %s", s.Description),
		}
	},
	"documentation-writer": func(s models.SubTask) interface{} {
		return map[string]interface{}{
			"document": fmt.Sprintf("draft documentation for: %s", s.Description),
		}
	},
	"echo-worker": func(s models.SubTask) interface{} {
		return map[string]interface{}{"echo": s.Description}
	},
}

// simulate produces the canned response for a simulated worker. Simulated
// workers always succeed; that is the point of using one.
func (b *Bridge) simulate(workerName string, subtask models.SubTask, started time.Time) models.WorkerOutput {
	builder, ok := cannedResults[workerName]
	if !ok {
		builder = func(s models.SubTask) interface{} {
			return map[string]interface{}{"simulated": true, "echo": s.Description}
		}
	}
	return models.WorkerOutput{
		WorkerName: workerName,
		SubTaskID:  subtask.ID,
		Success:    true,
		Result:     builder(subtask),
		StartedAt:  started,
		EndedAt:    time.Now(),
	}
}
