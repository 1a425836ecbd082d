package models

// Intent is the verb implied by a request or subtask description, kept
// separate from content-type (see DESIGN.md, "intent vs content-type").
type Intent string

const (
	IntentExtract Intent = "extract"
	IntentAnalyze Intent = "analyze"
	IntentGenerate Intent = "generate"
	IntentFix     Intent = "fix"
	IntentRefactor Intent = "refactor"
	IntentSearch  Intent = "search"
	IntentStatus  Intent = "status"
	IntentNone    Intent = ""
)
