package render

import (
	"time"

	"github.com/wavecraft/orchestrator/internal/models"
)

func sampleReport() *models.Report {
	tokens := int64(1200)
	cost := 0.0108
	return &models.Report{
		Title:   "Codebase Analysis",
		Summary: "Found 2 duplicate blocks and 1 unused function across 40 files.",
		Sections: []models.ReportSection{
			{Title: "Duplicates", Icon: "🔁", Body: "1 group of duplicate blocks found."},
			{Title: "Dead Code", Icon: "🪦", Body: "unused func Foo in pkg/a", Failed: false},
			{Title: "Organization", Icon: "📦", Body: "", Failed: true},
		},
		Recommendations: []string{"remove unused func Foo", "merge duplicate blocks in pkg/a and pkg/b"},
		Metadata:        map[string]interface{}{"pattern": "codebase-analysis"},
		ExecutionTrace: []models.TraceEntry{
			{
				WaveNum:    1,
				WorkerName: "duplicate-detector",
				SubTaskID:  "duplicate-detect",
				Status:     models.TraceSuccess,
				StartedAt:  time.Unix(0, 0),
				EndedAt:    time.Unix(1, 0),
				DurationMS: 1000,
				Tokens:     &tokens,
				Cost:       &cost,
			},
			{
				WaveNum:    1,
				WorkerName: "code-organizer",
				SubTaskID:  "code-group",
				Status:     models.TraceFailed,
				StartedAt:  time.Unix(0, 0),
				EndedAt:    time.Unix(2, 0),
				DurationMS: 2000,
				Error:      "timeout after 120s",
			},
		},
	}
}
