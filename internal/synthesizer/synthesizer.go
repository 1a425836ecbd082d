// Package synthesizer folds an ordered set of WorkerOutputs produced by one
// TaskPlan into a single Report, using a per-pattern strategy selected from
// a dispatch table.
package synthesizer

import (
	"github.com/wavecraft/orchestrator/internal/models"
)

// Synthesizer folds WorkerOutputs into a Report. It holds no state of its
// own beyond configuration, so one instance is safe to share across
// concurrent Coordinators.
type Synthesizer struct {
	// RecommendationLimit bounds how many items Fold surfaces in
	// Report.Recommendations for patterns that aggregate findings by
	// priority. Zero means "use the package default" (5).
	RecommendationLimit int
}

// New builds a Synthesizer with the default recommendation limit.
func New() *Synthesizer {
	return &Synthesizer{RecommendationLimit: defaultRecommendationLimit}
}

const defaultRecommendationLimit = 5

// strategy is a pure function from a plan and its outputs to a Report. Pure
// means it must not mutate plan or outputs.
type strategy func(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report

// strategies dispatches by pattern. Patterns not present here fall through
// to foldUnknown in Fold.
var strategies = map[models.Pattern]strategy{
	models.PatternCodebaseAnalysis:   foldCodeAnalysis,
	models.PatternRefactoring:        foldCodeAnalysis,
	models.PatternCodeCleanup:        foldCodeAnalysis,
	models.PatternContentResearch:    foldContentResearch,
	models.PatternQuizGeneration:     foldQuizGeneration,
	models.PatternProjectStatus:      foldProjectStatus,
	models.PatternLearningMaterials:  foldLearningMaterials,
	models.PatternDocumentation:      foldDocumentation,
	models.PatternDuplicateDetection: foldSingleFinding("Duplicate Code", "duplicate-detect"),
	models.PatternDeadCodeAnalysis:   foldSingleFinding("Dead Code", "dead-code"),
	models.PatternCodeOrganization:   foldSingleFinding("Code Organization", "code-group"),
	models.PatternQualityAssessment:  foldQualityAssessment,
	models.PatternContentExtraction: foldContentExtraction,
}

// Fold implements the Synthesizer's fold(pattern, outputs) → Report
// contract. outputs must be in completion order; Fold does not reorder or
// mutate them. The returned Report's RawOutputs holds a copy of outputs so
// callers can attach renderers without holding onto Coordinator-owned
// state; ExecutionTrace and Cancelled are left zero-valued for the
// Coordinator to fill in.
func (s *Synthesizer) Fold(plan *models.TaskPlan, outputs []models.WorkerOutput) *models.Report {
	limit := s.RecommendationLimit
	if limit == 0 {
		limit = defaultRecommendationLimit
	}
	scoped := &Synthesizer{RecommendationLimit: limit}

	byID := make(map[string]models.WorkerOutput, len(outputs))
	for _, o := range outputs {
		byID[o.SubTaskID] = o
	}

	strat, ok := strategies[plan.Pattern]
	if !ok {
		strat = foldUnknown
	}

	report := strat(scoped, plan, byID)
	report.RawOutputs = append([]models.WorkerOutput(nil), outputs...)
	return report
}
