// Package decomposer turns a free-text Request into a TaskPlan: a pattern
// classification, a declarative expansion into SubTasks, and a wave
// partitioning of the resulting dependency DAG.
package decomposer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wavecraft/orchestrator/internal/models"
)

// Decomposer classifies requests and expands them into TaskPlans. It is
// stateless and safe for concurrent use.
type Decomposer struct{}

// New constructs a Decomposer.
func New() *Decomposer {
	return &Decomposer{}
}

// Decompose never fails on well-formed text: unrecognized or empty requests
// fall back to PatternUnknown with a single subtask. The only error path is
// a template bug (a cycle in a pattern's declared dependencies), which is a
// fatal invariant violation per §4.1.
func (d *Decomposer) Decompose(req models.Request) (*models.TaskPlan, error) {
	pattern := ClassifyPattern(req.Text)

	var subtasks []models.SubTask
	if pattern == models.PatternUnknown {
		subtasks = []models.SubTask{unknownSubTask(req)}
	} else {
		subtasks = instantiate(templates[string(pattern)], req)
	}

	waves, err := calculateWaves(subtasks)
	if err != nil {
		return nil, fmt.Errorf("decompose: invariant violation: %w", err)
	}

	return &models.TaskPlan{
		Pattern:         pattern,
		SubTasks:        subtasks,
		Waves:           waves,
		EstTotalSeconds: estimateTotalSeconds(subtasks, waves),
	}, nil
}

func unknownSubTask(req models.Request) models.SubTask {
	return models.SubTask{
		ID:             "raw-request-" + uuid.NewString()[:8],
		Description:    req.Text,
		Parallelizable: false,
		EstSeconds:     10,
	}
}

// instantiate builds plan-local SubTasks from a pattern template. Template
// ids are unique within one template, and a plan is built from exactly one
// template, so they're used directly as SubTask ids rather than re-minted.
func instantiate(tmpl patternTemplate, req models.Request) []models.SubTask {
	subtasks := make([]models.SubTask, 0, len(tmpl))
	for _, t := range tmpl {
		subtasks = append(subtasks, models.SubTask{
			ID:             t.id,
			Description:    t.description,
			Priority:       t.priority,
			WorkerHint:     t.workerHint,
			DependsOn:      append([]string(nil), t.dependsOn...),
			Parallelizable: t.parallelizable && len(t.dependsOn) == 0,
			EstSeconds:     t.estSeconds,
		})
	}
	return subtasks
}
