package decomposer

import (
	"fmt"
	"sort"

	"github.com/wavecraft/orchestrator/internal/models"
)

// dependencyGraph mirrors the teacher's DependencyGraph: an adjacency list
// from prerequisite to dependents plus an in-degree count, used by Kahn's
// algorithm to compute waves.
type dependencyGraph struct {
	subtasks map[string]*models.SubTask
	edges    map[string][]string // prerequisite -> dependents
	inDegree map[string]int
}

// validateSubTasks checks that every subtask id is unique, non-empty, and
// that every dependency refers to a subtask that exists in the same plan.
// Duplicate dependency ids within one subtask are rejected by
// SubTask.Validate, which this calls for every subtask.
func validateSubTasks(subtasks []models.SubTask) error {
	seen := make(map[string]bool, len(subtasks))
	for _, s := range subtasks {
		if s.ID == "" {
			return fmt.Errorf("subtask has empty id")
		}
		if seen[s.ID] {
			return fmt.Errorf("subtask %s: duplicate subtask id", s.ID)
		}
		seen[s.ID] = true
	}
	for _, s := range subtasks {
		if err := s.Validate(); err != nil {
			return err
		}
		for _, dep := range s.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("subtask %s: depends on non-existent subtask %s", s.ID, dep)
			}
		}
	}
	return nil
}

func buildDependencyGraph(subtasks []models.SubTask) *dependencyGraph {
	g := &dependencyGraph{
		subtasks: make(map[string]*models.SubTask, len(subtasks)),
		edges:    make(map[string][]string),
		inDegree: make(map[string]int, len(subtasks)),
	}
	for i := range subtasks {
		g.subtasks[subtasks[i].ID] = &subtasks[i]
		g.inDegree[subtasks[i].ID] = 0
	}
	for _, s := range subtasks {
		for _, dep := range s.DependsOn {
			if _, exists := g.subtasks[dep]; !exists {
				continue
			}
			g.edges[dep] = append(g.edges[dep], s.ID)
			g.inDegree[s.ID]++
		}
	}
	return g
}

// hasCycle detects a circular dependency using DFS with colour marking.
func (g *dependencyGraph) hasCycle() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	colors := make(map[string]int, len(g.subtasks))
	for id := range g.subtasks {
		colors[id] = white
	}

	var dfs func(string) bool
	dfs = func(node string) bool {
		colors[node] = gray
		for _, neighbor := range g.edges[node] {
			if colors[neighbor] == gray {
				return true
			}
			if colors[neighbor] == white && dfs(neighbor) {
				return true
			}
		}
		colors[node] = black
		return false
	}

	for id := range g.subtasks {
		if colors[id] == white {
			if dfs(id) {
				return true
			}
		}
	}
	return false
}

// calculateWaves computes execution waves using Kahn's algorithm: subtasks
// with no dependencies go in wave 1, subtasks depending only on wave 1 go
// in wave 2, and so on. A cycle in depends_on is a fatal programmer error
// (template bug), returned as an error rather than panicking so the caller
// can decide how to surface it.
func calculateWaves(subtasks []models.SubTask) ([]models.Wave, error) {
	if err := validateSubTasks(subtasks); err != nil {
		return nil, err
	}
	if len(subtasks) == 0 {
		return nil, fmt.Errorf("plan has no subtasks")
	}

	graph := buildDependencyGraph(subtasks)
	if graph.hasCycle() {
		return nil, fmt.Errorf("circular dependency detected in subtask template")
	}

	inDegree := make(map[string]int, len(graph.inDegree))
	for k, v := range graph.inDegree {
		inDegree[k] = v
	}

	var waves []models.Wave
	for len(inDegree) > 0 {
		var current []string
		for id, degree := range inDegree {
			if degree == 0 {
				current = append(current, id)
			}
		}
		if len(current) == 0 {
			return nil, fmt.Errorf("circular dependency detected in subtask template")
		}
		sort.Strings(current)

		waves = append(waves, models.Wave{
			Number:     len(waves) + 1,
			SubTaskIDs: current,
		})

		for _, id := range current {
			delete(inDegree, id)
			for _, dependent := range graph.edges[id] {
				if _, exists := inDegree[dependent]; exists {
					inDegree[dependent]--
				}
			}
		}
	}

	return waves, nil
}

// estimateTotalSeconds sums, per wave, the slowest subtask's estimate — the
// wave barrier means a wave's wall-clock floor is its slowest member.
func estimateTotalSeconds(subtasks []models.SubTask, waves []models.Wave) int {
	byID := make(map[string]models.SubTask, len(subtasks))
	for _, s := range subtasks {
		byID[s.ID] = s
	}

	total := 0
	for _, wave := range waves {
		maxSeconds := 0
		for _, id := range wave.SubTaskIDs {
			if s, ok := byID[id]; ok && s.EstSeconds > maxSeconds {
				maxSeconds = s.EstSeconds
			}
		}
		total += maxSeconds
	}
	return total
}
