package logger

import (
	"time"

	"github.com/wavecraft/orchestrator/internal/models"
)

// NoopLogger discards every call. Used for --quiet, where the Coordinator
// must still call a Logger but nothing should reach the terminal.
type NoopLogger struct{}

func (NoopLogger) LogWaveStart(models.Wave, int)                                  {}
func (NoopLogger) LogWaveComplete(models.Wave, time.Duration, []models.WorkerOutput) {}
func (NoopLogger) LogSubtaskResult(string, string, models.WorkerOutput)           {}
func (NoopLogger) LogProgress(int, int)                                          {}
func (NoopLogger) LogSummary(*models.Report, time.Duration)                      {}
func (NoopLogger) Infof(string, ...interface{})                                  {}
func (NoopLogger) Warnf(string, ...interface{})                                  {}
