package decomposer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavecraft/orchestrator/internal/models"
)

func TestDecomposeCodebaseAnalysis(t *testing.T) {
	d := New()
	plan, err := d.Decompose(models.NewRequest("Audit the codebase", nil))
	require.NoError(t, err)

	assert.Equal(t, models.PatternCodebaseAnalysis, plan.Pattern)
	assert.Len(t, plan.SubTasks, 4)
	assert.Len(t, plan.Waves, 2)
	assert.Equal(t, 18, plan.EstTotalSeconds) // max(5,5,8) + 10

	ids := make(map[string]bool)
	for _, s := range plan.SubTasks {
		ids[s.ID] = true
	}
	for _, want := range []string{"duplicate-detect", "dead-code", "code-group", "refactor-plan"} {
		assert.True(t, ids[want], "missing subtask %s", want)
	}

	assert.ElementsMatch(t, []string{"duplicate-detect", "dead-code", "code-group"}, plan.Waves[0].SubTaskIDs)
	assert.Equal(t, []string{"refactor-plan"}, plan.Waves[1].SubTaskIDs)
}

func TestDecomposeQuizGeneration(t *testing.T) {
	d := New()
	plan, err := d.Decompose(models.NewRequest("Create a quiz about photosynthesis for 6th grade", nil))
	require.NoError(t, err)

	assert.Equal(t, models.PatternQuizGeneration, plan.Pattern)
	assert.Len(t, plan.SubTasks, 4)
	assert.Len(t, plan.Waves, 2)
	assert.Equal(t, []string{"quiz-generate"}, plan.Waves[1].SubTaskIDs)
}

func TestDecomposeProjectStatus(t *testing.T) {
	d := New()
	plan, err := d.Decompose(models.NewRequest("What was I working on?", nil))
	require.NoError(t, err)

	assert.Equal(t, models.PatternProjectStatus, plan.Pattern)
	require.Len(t, plan.SubTasks, 1)
	assert.Len(t, plan.Waves, 1)
	assert.Equal(t, 1, plan.EstTotalSeconds)
}

func TestDecomposeUnknownFallback(t *testing.T) {
	d := New()
	plan, err := d.Decompose(models.NewRequest("purple elephants dance sideways", nil))
	require.NoError(t, err)

	assert.Equal(t, models.PatternUnknown, plan.Pattern)
	require.Len(t, plan.SubTasks, 1)
	assert.Equal(t, "purple elephants dance sideways", plan.SubTasks[0].Description)
	assert.False(t, plan.SubTasks[0].Parallelizable)
}

func TestDecomposeEmptyRequest(t *testing.T) {
	d := New()
	plan, err := d.Decompose(models.NewRequest("", nil))
	require.NoError(t, err)

	assert.Equal(t, models.PatternUnknown, plan.Pattern)
	require.Len(t, plan.SubTasks, 1)
	assert.Equal(t, "", plan.SubTasks[0].Description)
}

func TestDecomposeIsDeterministic(t *testing.T) {
	d := New()
	planA, err := d.Decompose(models.NewRequest("Refactor the payments module", nil))
	require.NoError(t, err)
	planB, err := d.Decompose(models.NewRequest("Refactor the payments module", nil))
	require.NoError(t, err)

	assert.Equal(t, planA.Pattern, planB.Pattern)
	assert.Equal(t, len(planA.SubTasks), len(planB.SubTasks))
	assert.Equal(t, planA.Waves, planB.Waves)
}

func TestWavesCoverAllSubTasksExactlyOnce(t *testing.T) {
	d := New()
	for _, text := range []string{"Audit the codebase", "Research quantum computing", "Create a quiz", ""} {
		plan, err := d.Decompose(models.NewRequest(text, nil))
		require.NoError(t, err)

		seen := make(map[string]int)
		for _, wave := range plan.Waves {
			for _, id := range wave.SubTaskIDs {
				seen[id]++
			}
		}
		assert.Len(t, seen, len(plan.SubTasks))
		for _, count := range seen {
			assert.Equal(t, 1, count)
		}
	}
}

func TestWaveDependenciesResolveEarlier(t *testing.T) {
	d := New()
	plan, err := d.Decompose(models.NewRequest("Audit the codebase", nil))
	require.NoError(t, err)

	waveOf := make(map[string]int)
	for _, wave := range plan.Waves {
		for _, id := range wave.SubTaskIDs {
			waveOf[id] = wave.Number
		}
	}

	for _, s := range plan.SubTasks {
		for _, dep := range s.DependsOn {
			assert.Less(t, waveOf[dep], waveOf[s.ID])
		}
	}
}

func TestCalculateWavesRejectsCycle(t *testing.T) {
	subtasks := []models.SubTask{
		{ID: "a", Description: "a", DependsOn: []string{"b"}},
		{ID: "b", Description: "b", DependsOn: []string{"a"}},
	}
	_, err := calculateWaves(subtasks)
	require.Error(t, err)
}

func TestCalculateWavesRejectsMissingDependency(t *testing.T) {
	subtasks := []models.SubTask{
		{ID: "a", Description: "a", DependsOn: []string{"missing"}},
	}
	_, err := calculateWaves(subtasks)
	require.Error(t, err)
}

func TestClassifyPatternRefactorWithoutCodebaseKeywords(t *testing.T) {
	// "refactor" alone should classify as refactoring, not codebase-analysis,
	// since codebase-analysis keywords don't match.
	assert.Equal(t, models.PatternRefactoring, ClassifyPattern("Please refactor this module"))
}
