package models

import (
	"errors"
	"fmt"
)

// SubTask is one invocation unit within a TaskPlan, bound at run time to
// exactly one worker.
type SubTask struct {
	ID             string   // unique within the owning plan
	Description    string   // natural-language description passed to the worker
	Priority       int      // copied from the pattern template; scheduling and the synthesizer do not read it
	WorkerHint     string   // optional: worker name the decomposer believes fits best
	DependsOn      []string // SubTask ids this one depends on; must form a DAG
	Parallelizable bool     // false whenever DependsOn is non-empty (enforced by Validate)
	EstSeconds     int      // display-only estimate, not authoritative for scheduling
}

// Validate checks that the SubTask has a non-empty id, that a SubTask with
// dependencies does not also claim to be parallelizable, and that it
// neither depends on itself nor lists a dependency twice. An empty
// description is accepted.
func (s *SubTask) Validate() error {
	if s.ID == "" {
		return errors.New("subtask id is required")
	}
	if len(s.DependsOn) > 0 && s.Parallelizable {
		return fmt.Errorf("subtask %s: parallelizable must be false when depends_on is non-empty", s.ID)
	}
	seen := make(map[string]bool, len(s.DependsOn))
	for _, dep := range s.DependsOn {
		if dep == s.ID {
			return fmt.Errorf("subtask %s: depends on itself", s.ID)
		}
		if seen[dep] {
			return fmt.Errorf("subtask %s: duplicate dependency %q", s.ID, dep)
		}
		seen[dep] = true
	}
	return nil
}
