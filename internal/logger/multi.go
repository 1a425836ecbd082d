package logger

import (
	"time"

	"github.com/wavecraft/orchestrator/internal/models"
)

// MultiLogger fans every call out to each of its Loggers in order, so a run
// can narrate to the console and write a plain-text companion log at once.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a Logger that forwards to every non-nil logger
// given.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	filtered := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			filtered = append(filtered, l)
		}
	}
	return &MultiLogger{loggers: filtered}
}

func (m *MultiLogger) LogWaveStart(wave models.Wave, subtaskCount int) {
	for _, l := range m.loggers {
		l.LogWaveStart(wave, subtaskCount)
	}
}

func (m *MultiLogger) LogWaveComplete(wave models.Wave, duration time.Duration, outputs []models.WorkerOutput) {
	for _, l := range m.loggers {
		l.LogWaveComplete(wave, duration, outputs)
	}
}

func (m *MultiLogger) LogSubtaskResult(subtaskID, workerName string, output models.WorkerOutput) {
	for _, l := range m.loggers {
		l.LogSubtaskResult(subtaskID, workerName, output)
	}
}

func (m *MultiLogger) LogProgress(completed, total int) {
	for _, l := range m.loggers {
		l.LogProgress(completed, total)
	}
}

func (m *MultiLogger) LogSummary(report *models.Report, duration time.Duration) {
	for _, l := range m.loggers {
		l.LogSummary(report, duration)
	}
}

func (m *MultiLogger) Infof(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Infof(format, args...)
	}
}

func (m *MultiLogger) Warnf(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Warnf(format, args...)
	}
}
