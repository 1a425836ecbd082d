// Package logger provides logging implementations for orchestrator
// execution: structured wave progress at info level, per-subtask results at
// debug level, warnings, and a final summary. Implementations are thread-safe and support console, file,
// and no-op output destinations.
package logger

import (
	"time"

	"github.com/wavecraft/orchestrator/internal/models"
)

// Logger is implemented by every logging backend the Coordinator can write
// progress to. All methods must be safe for concurrent use — the Coordinator
// calls LogSubtaskResult from one goroutine per in-flight subtask.
type Logger interface {
	LogWaveStart(wave models.Wave, subtaskCount int)
	LogWaveComplete(wave models.Wave, duration time.Duration, outputs []models.WorkerOutput)
	LogSubtaskResult(subtaskID, workerName string, output models.WorkerOutput)
	LogProgress(completed, total int)
	LogSummary(report *models.Report, duration time.Duration)
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// timestamp returns the current time formatted as HH:MM:SS for log lines.
func timestamp() string {
	return time.Now().Format("15:04:05")
}
