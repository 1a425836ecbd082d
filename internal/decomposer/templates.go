package decomposer

// subtaskTemplate is the declarative shape of one subtask within a pattern's
// expansion. ids are unique within one template (the same id may appear in
// several patterns' templates) and are used unchanged as the plan's SubTask
// ids when instantiated.
type subtaskTemplate struct {
	id             string
	description    string
	workerHint     string
	priority       int
	dependsOn      []string
	parallelizable bool
	estSeconds     int
}

// patternTemplate is the ordered subtask list for one pattern.
type patternTemplate []subtaskTemplate

// templates maps each known pattern to its declarative subtask expansion.
// Representative expansions for codebase-analysis, content-research,
// quiz-generation, and project-status are authoritative per spec; the rest
// follow the same shape and may be extended without touching the
// decomposer's interface.
var templates = map[string]patternTemplate{
	"codebase-analysis": {
		{id: "duplicate-detect", description: "Detect duplicate code across the codebase", workerHint: "duplicate-detector", priority: 1, parallelizable: true, estSeconds: 5},
		{id: "dead-code", description: "Identify dead/unreachable code", workerHint: "dead-code-analyzer", priority: 1, parallelizable: true, estSeconds: 5},
		{id: "code-group", description: "Analyze code organization and grouping", workerHint: "code-organizer", priority: 1, parallelizable: true, estSeconds: 8},
		{id: "refactor-plan", description: "Build a refactor plan from the findings above", workerHint: "refactor-planner", priority: 2, dependsOn: []string{"duplicate-detect", "dead-code", "code-group"}, estSeconds: 10},
	},
	"refactoring": {
		{id: "duplicate-detect", description: "Detect duplicate code across the codebase", workerHint: "duplicate-detector", priority: 1, parallelizable: true, estSeconds: 5},
		{id: "dead-code", description: "Identify dead/unreachable code", workerHint: "dead-code-analyzer", priority: 1, parallelizable: true, estSeconds: 5},
		{id: "code-group", description: "Analyze code organization and grouping", workerHint: "code-organizer", priority: 1, parallelizable: true, estSeconds: 8},
		{id: "refactor-plan", description: "Build a refactor plan from the findings above", workerHint: "refactor-planner", priority: 2, dependsOn: []string{"duplicate-detect", "dead-code", "code-group"}, estSeconds: 10},
	},
	"code-cleanup": {
		{id: "duplicate-detect", description: "Detect duplicate code across the codebase", workerHint: "duplicate-detector", priority: 1, parallelizable: true, estSeconds: 5},
		{id: "dead-code", description: "Identify dead/unreachable code", workerHint: "dead-code-analyzer", priority: 1, parallelizable: true, estSeconds: 5},
		{id: "code-group", description: "Analyze code organization and grouping", workerHint: "code-organizer", priority: 1, parallelizable: true, estSeconds: 8},
		{id: "refactor-plan", description: "Build a refactor plan from the findings above", workerHint: "refactor-planner", priority: 2, dependsOn: []string{"duplicate-detect", "dead-code", "code-group"}, estSeconds: 10},
	},
	"content-research": {
		{id: "search", description: "Search for sources relevant to the request", workerHint: "search-worker", priority: 1, parallelizable: true, estSeconds: 6},
		{id: "quality-assess", description: "Score and rank search results by quality", workerHint: "quality-assessor", priority: 2, dependsOn: []string{"search"}, estSeconds: 4},
	},
	"quiz-generation": {
		{id: "content-fetch", description: "Fetch source material for the quiz topic", workerHint: "content-fetcher", priority: 1, parallelizable: true, estSeconds: 6},
		{id: "context-build", description: "Build background context for question generation", workerHint: "context-builder", priority: 1, parallelizable: true, estSeconds: 4},
		{id: "quality-assess", description: "Assess the fetched content for quiz suitability", workerHint: "quality-assessor", priority: 1, parallelizable: true, estSeconds: 4},
		{id: "quiz-generate", description: "Generate quiz questions from the gathered material", workerHint: "quiz-generator", priority: 2, dependsOn: []string{"content-fetch", "context-build", "quality-assess"}, estSeconds: 10},
	},
	"project-status": {
		{id: "context-build", description: "Summarize current project context and recent activity", workerHint: "context-builder", priority: 1, estSeconds: 1},
	},
	"learning-materials": {
		{id: "content-fetch", description: "Fetch source material for the learning topic", workerHint: "content-fetcher", priority: 1, parallelizable: true, estSeconds: 6},
		{id: "context-build", description: "Build background context for the topic", workerHint: "context-builder", priority: 1, parallelizable: true, estSeconds: 4},
		{id: "material-build", description: "Assemble learning materials from the gathered content", workerHint: "learning-material-builder", priority: 2, dependsOn: []string{"content-fetch", "context-build"}, estSeconds: 10},
	},
	"quality-assessment": {
		{id: "quality-assess", description: "Assess quality against the request's criteria", workerHint: "quality-assessor", priority: 1, estSeconds: 6},
	},
	"documentation": {
		{id: "context-build", description: "Gather context needed to document the subject", workerHint: "context-builder", priority: 1, parallelizable: true, estSeconds: 4},
		{id: "doc-write", description: "Write documentation from the gathered context", workerHint: "documentation-writer", priority: 2, dependsOn: []string{"context-build"}, estSeconds: 8},
	},
	"duplicate-detection": {
		{id: "duplicate-detect", description: "Detect duplicate code across the codebase", workerHint: "duplicate-detector", priority: 1, estSeconds: 5},
	},
	"dead-code-analysis": {
		{id: "dead-code", description: "Identify dead/unreachable code", workerHint: "dead-code-analyzer", priority: 1, estSeconds: 5},
	},
	"code-organization": {
		{id: "code-group", description: "Analyze code organization and grouping", workerHint: "code-organizer", priority: 1, estSeconds: 8},
	},
	"content-extraction": {
		{id: "content-fetch", description: "Extract the requested content", workerHint: "content-fetcher", priority: 1, estSeconds: 6},
	},
}
