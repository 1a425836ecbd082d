package render

import (
	"encoding/json"
	"io"

	"github.com/wavecraft/orchestrator/internal/models"
)

// renderJSON marshals report with indentation. Key order is deterministic:
// struct fields follow their declaration order in models.Report (which
// encoding/json preserves) and the Metadata map's keys are sorted
// alphabetically by encoding/json itself.
func renderJSON(report *models.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
