package synthesizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wavecraft/orchestrator/internal/models"
)

// finding is the convention workers use to tag a result item with a
// priority so the Synthesizer can aggregate top-N recommendations across
// sections without understanding each worker's domain.
type finding struct {
	description string
	priority    int
}

// section builds a ReportSection for one subtask's output. Missing or
// failed outputs become a section with Failed set and the worker's error
// (or a short placeholder) as the body rather than being silently dropped, per the fold-coverage requirement that
// every non-failed output appear in at least one section.
func section(title, icon, subtaskID string, byID map[string]models.WorkerOutput) models.ReportSection {
	out, ok := byID[subtaskID]
	if !ok || !out.Success {
		msg := "worker did not run"
		if ok {
			msg = out.Error
			if msg == "" {
				msg = "worker reported failure"
			}
		}
		return models.ReportSection{Title: title, Icon: icon, Failed: true, Body: msg}
	}
	return models.ReportSection{Title: title, Icon: icon, Body: formatResult(out.Result)}
}

// formatResult renders an arbitrary worker result as readable text. Map
// keys are sorted for deterministic output; the internal "findings"
// bookkeeping key is suppressed since it's folded into Recommendations
// instead, not the section body.
func formatResult(result interface{}) string {
	m, ok := result.(map[string]interface{})
	if !ok {
		return fmt.Sprintf("%v", result)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == "findings" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, m[k]))
	}
	return strings.Join(lines, "\n")
}

// findingsOf extracts the "findings" convention from a worker's result:
// a list of {description, priority} items. Items that are not objects or
// have no description are skipped rather than erroring, and an absent or
// non-numeric priority counts as 0, since the convention is advisory, not
// a contract the Bridge enforces on workers.
func findingsOf(out models.WorkerOutput) []finding {
	if !out.Success {
		return nil
	}
	m, ok := out.Result.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := m["findings"].([]interface{})
	if !ok {
		return nil
	}
	var findings []finding
	for _, item := range raw {
		fm, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		desc, _ := fm["description"].(string)
		if desc == "" {
			continue
		}
		findings = append(findings, finding{description: desc, priority: intOf(fm["priority"])})
	}
	return findings
}

// intOf coerces a JSON-decoded numeric value (float64 over the wire,
// possibly int when built in-process by a simulated worker) to int.
func intOf(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// stringsOf extracts a []string convention (e.g. "suggestions",
// "next_actions") from a worker's result, tolerating absence.
func stringsOf(out models.WorkerOutput, key string) []string {
	if !out.Success {
		return nil
	}
	m, ok := out.Result.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	var out2 []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out2 = append(out2, s)
		}
	}
	return out2
}

// topFindings sorts findings by descending priority (stable, so equal
// priorities keep the order sections were aggregated in) and returns the
// descriptions of the first limit.
func topFindings(findings []finding, limit int) []string {
	sort.SliceStable(findings, func(i, j int) bool { return findings[i].priority > findings[j].priority })
	if len(findings) > limit {
		findings = findings[:limit]
	}
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.description
	}
	return out
}

// foldUnknown handles models.PatternUnknown and any pattern absent from
// the dispatch table: a single section over the plan's one subtask, no
// recommendations.
func foldUnknown(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	var sec models.ReportSection
	if len(plan.SubTasks) > 0 {
		sec = section("Result", "", plan.SubTasks[0].ID, byID)
	} else {
		sec = models.ReportSection{Title: "Result", Body: "no subtasks were generated for this request"}
	}
	return &models.Report{
		Title:    "Request Result",
		Summary:  "Unrecognized request pattern; executed as a single pass-through task.",
		Sections: []models.ReportSection{sec},
	}
}

// foldCodeAnalysis handles codebase-analysis, refactoring, and
// code-cleanup: identical shape per the spec's per-pattern strategy table.
func foldCodeAnalysis(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sections := []models.ReportSection{
		section("Duplicate Code", "🔁", "duplicate-detect", byID),
		section("Dead Code", "💀", "dead-code", byID),
		section("Code Organization", "🗂", "code-group", byID),
		section("Refactor Plan", "🛠", "refactor-plan", byID),
	}

	var findings []finding
	for _, id := range []string{"duplicate-detect", "dead-code", "code-group", "refactor-plan"} {
		if out, ok := byID[id]; ok {
			findings = append(findings, findingsOf(out)...)
		}
	}

	return &models.Report{
		Title:           "Codebase Analysis",
		Summary:         summarizeSections(sections),
		Sections:        sections,
		Recommendations: topFindings(findings, s.RecommendationLimit),
	}
}

// foldContentResearch handles content-research: a search summary followed
// by a quality-scored ranking of the same hits.
func foldContentResearch(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sections := []models.ReportSection{
		section("Search Results", "🔎", "search", byID),
		rankingSection(byID),
	}
	return &models.Report{
		Title:    "Content Research",
		Summary:  summarizeSections(sections),
		Sections: sections,
	}
}

func rankingSection(byID map[string]models.WorkerOutput) models.ReportSection {
	out, ok := byID["quality-assess"]
	if !ok || !out.Success {
		return section("Quality Ranking", "⭐", "quality-assess", byID)
	}
	m, ok := out.Result.(map[string]interface{})
	if !ok {
		return models.ReportSection{Title: "Quality Ranking", Icon: "⭐", Body: formatResult(out.Result)}
	}
	raw, ok := m["ranking"].([]interface{})
	if !ok {
		return models.ReportSection{Title: "Quality Ranking", Icon: "⭐", Body: formatResult(out.Result)}
	}
	lines := make([]string, 0, len(raw))
	for _, item := range raw {
		rm, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%v (score %v)", rm["title"], rm["score"]))
	}
	return models.ReportSection{Title: "Quality Ranking", Icon: "⭐", Body: strings.Join(lines, "\n")}
}

// foldQuizGeneration handles quiz-generation: Source, Context, Quality,
// and Questions sections, the last rendered verbatim in id order.
func foldQuizGeneration(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sections := []models.ReportSection{
		section("Source", "📚", "content-fetch", byID),
		section("Context", "🧩", "context-build", byID),
		section("Quality", "⭐", "quality-assess", byID),
		questionsSection(byID),
	}
	var recs []string
	if out, ok := byID["quiz-generate"]; ok {
		recs = stringsOf(out, "suggestions")
	}
	return &models.Report{
		Title:           "Quiz",
		Summary:         summarizeSections(sections),
		Sections:        sections,
		Recommendations: recs,
	}
}

func questionsSection(byID map[string]models.WorkerOutput) models.ReportSection {
	out, ok := byID["quiz-generate"]
	if !ok || !out.Success {
		return section("Questions", "❓", "quiz-generate", byID)
	}
	m, ok := out.Result.(map[string]interface{})
	if !ok {
		return models.ReportSection{Title: "Questions", Icon: "❓", Body: formatResult(out.Result)}
	}
	raw, ok := m["questions"].([]interface{})
	if !ok {
		return models.ReportSection{Title: "Questions", Icon: "❓", Body: formatResult(out.Result)}
	}
	type question struct {
		id   int
		text string
	}
	questions := make([]question, 0, len(raw))
	for _, item := range raw {
		qm, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		q, _ := qm["question"].(string)
		questions = append(questions, question{id: intOf(qm["id"]), text: q})
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].id < questions[j].id })
	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = fmt.Sprintf("%d. %s", q.id, q.text)
	}
	return models.ReportSection{Title: "Questions", Icon: "❓", Body: strings.Join(lines, "\n")}
}

// foldProjectStatus handles project-status: a single context section;
// recommendations are the context worker's suggested next actions.
func foldProjectStatus(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sec := section("Context", "📋", "context-build", byID)
	var recs []string
	if out, ok := byID["context-build"]; ok {
		recs = stringsOf(out, "next_actions")
	}
	return &models.Report{
		Title:           "Project Status",
		Summary:         summarizeSections([]models.ReportSection{sec}),
		Sections:        []models.ReportSection{sec},
		Recommendations: recs,
	}
}

// foldLearningMaterials is a supplemented pattern (not named in the
// authoritative spec table): source + context feeding a material-builder,
// same shape as quiz-generation's first two sections plus a single
// assembled-material section.
func foldLearningMaterials(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sections := []models.ReportSection{
		section("Source", "📚", "content-fetch", byID),
		section("Context", "🧩", "context-build", byID),
		section("Material", "🎓", "material-build", byID),
	}
	return &models.Report{
		Title:    "Learning Materials",
		Summary:  summarizeSections(sections),
		Sections: sections,
	}
}

// foldDocumentation is a supplemented pattern: gathered context feeding a
// documentation draft.
func foldDocumentation(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sections := []models.ReportSection{
		section("Context", "🧩", "context-build", byID),
		section("Document", "📝", "doc-write", byID),
	}
	return &models.Report{
		Title:    "Documentation",
		Summary:  summarizeSections(sections),
		Sections: sections,
	}
}

// foldQualityAssessment is a supplemented single-subtask pattern:
// recommendations are the issues the quality assessor flagged.
func foldQualityAssessment(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sec := section("Quality", "⭐", "quality-assess", byID)
	var recs []string
	if out, ok := byID["quality-assess"]; ok {
		recs = stringsOf(out, "issues")
	}
	return &models.Report{
		Title:           "Quality Assessment",
		Summary:         summarizeSections([]models.ReportSection{sec}),
		Sections:        []models.ReportSection{sec},
		Recommendations: recs,
	}
}

// foldContentExtraction is a supplemented single-subtask pattern: the
// fetched content rendered as-is, no recommendations.
func foldContentExtraction(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
	sec := section("Extracted Content", "📄", "content-fetch", byID)
	return &models.Report{
		Title:    "Content Extraction",
		Summary:  summarizeSections([]models.ReportSection{sec}),
		Sections: []models.ReportSection{sec},
	}
}

// foldSingleFinding builds a strategy for single-subtask supplemented
// patterns (duplicate-detection, dead-code-analysis, code-organization)
// that share codebase-analysis's findings convention but run standalone.
func foldSingleFinding(title, subtaskID string) strategy {
	return func(s *Synthesizer, plan *models.TaskPlan, byID map[string]models.WorkerOutput) *models.Report {
		sec := section(title, "", subtaskID, byID)
		var findings []finding
		if out, ok := byID[subtaskID]; ok {
			findings = findingsOf(out)
		}
		return &models.Report{
			Title:           title,
			Summary:         summarizeSections([]models.ReportSection{sec}),
			Sections:        []models.ReportSection{sec},
			Recommendations: topFindings(findings, s.RecommendationLimit),
		}
	}
}

// summarizeSections builds the Report's one-line Summary: how many
// sections failed out of how many ran.
func summarizeSections(sections []models.ReportSection) string {
	failed := 0
	for _, sec := range sections {
		if sec.Failed {
			failed++
		}
	}
	if failed == 0 {
		return fmt.Sprintf("%d section(s) completed successfully.", len(sections))
	}
	return fmt.Sprintf("%d of %d section(s) failed.", failed, len(sections))
}
