package decomposer

import (
	"strings"

	"github.com/wavecraft/orchestrator/internal/models"
)

// patternKeywords lists the phrases that score a request toward each
// pattern. The tie-break priority (earlier wins) comes from
// models.PatternPriorityOrder, which this table's key set must match.
var patternKeywords = map[models.Pattern][]string{
	models.PatternCodebaseAnalysis:   {"audit the codebase", "audit codebase", "analyze the codebase", "codebase analysis", "audit my code"},
	models.PatternContentResearch:    {"research", "find sources", "look up", "investigate"},
	models.PatternProjectStatus:      {"what was i working on", "project status", "what's the status", "status update", "where did i leave off"},
	models.PatternCodeCleanup:        {"clean up", "cleanup", "tidy up"},
	models.PatternLearningMaterials:  {"learning material", "study guide", "lesson plan", "teach me"},
	models.PatternQualityAssessment:  {"quality assessment", "assess the quality", "review the quality", "rate the quality"},
	models.PatternRefactoring:        {"refactor"},
	models.PatternDocumentation:      {"document", "write docs", "documentation for"},
	models.PatternDuplicateDetection: {"duplicate code", "find duplicates", "duplicate detection"},
	models.PatternDeadCodeAnalysis:   {"dead code", "unused code", "unreachable code"},
	models.PatternCodeOrganization:   {"organize the code", "code organization", "restructure the files"},
	models.PatternContentExtraction:  {"extract", "pull out the", "scrape"},
	models.PatternQuizGeneration:     {"quiz", "create a test", "exam questions"},
}

// ClassifyPattern scores the lowercased request text against each pattern's
// keyword list and returns the highest-scoring pattern. Ties are broken by
// models.PatternPriorityOrder (earlier wins). A best score of 0 yields
// PatternUnknown.
func ClassifyPattern(text string) models.Pattern {
	lower := strings.ToLower(text)

	best := models.PatternUnknown
	bestScore := 0

	for _, pattern := range models.PatternPriorityOrder() {
		score := 0
		for _, phrase := range patternKeywords[pattern] {
			if strings.Contains(lower, phrase) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = pattern
		}
	}

	return best
}

// intentKeywords drives ClassifyIntent; evaluated in this fixed order so
// ties resolve deterministically the same way ClassifyPattern's do.
var intentKeywords = []struct {
	intent   models.Intent
	keywords []string
}{
	{models.IntentExtract, []string{"extract", "pull out", "scrape"}},
	{models.IntentGenerate, []string{"generate", "create", "write", "build"}},
	{models.IntentFix, []string{"fix", "repair", "resolve"}},
	{models.IntentRefactor, []string{"refactor", "restructure", "reorganize"}},
	{models.IntentSearch, []string{"search", "find", "look up", "research"}},
	{models.IntentStatus, []string{"status", "what was i working on", "where did i leave off"}},
	{models.IntentAnalyze, []string{"analyze", "audit", "review", "assess", "detect"}},
}

// ClassifyIntent derives the verb implied by a piece of text. Returns
// models.IntentNone when no keyword matches.
func ClassifyIntent(text string) models.Intent {
	lower := strings.ToLower(text)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.intent
			}
		}
	}
	return models.IntentNone
}

// contentTypeKeywords maps a free-form content-type label to the phrases
// that imply it. content_type is intentionally not a closed enum (§9).
var contentTypeKeywords = map[string][]string{
	"code":     {"codebase", "code", "function", "refactor", "duplicate", "dead code"},
	"document": {"document", "docs", "documentation"},
	"quiz":     {"quiz", "question", "exam"},
	"research": {"research", "source", "article"},
	"project":  {"project", "status", "working on"},
}

// ClassifyContentType derives a free-form content-type label from text,
// using the same keyword-matching approach as ClassifyPattern over a
// smaller table. Returns "" when nothing matches.
func ClassifyContentType(text string) string {
	lower := strings.ToLower(text)
	for _, ct := range []string{"code", "document", "quiz", "research", "project"} {
		for _, kw := range contentTypeKeywords[ct] {
			if strings.Contains(lower, kw) {
				return ct
			}
		}
	}
	return ""
}
