package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/wavecraft/orchestrator/internal/models"
)

// FileLogger writes plain-text run logs to <log-dir>/run-<timestamp>.log and
// maintains a latest.log symlink to the most recent run. It implements
// Logger without any color output.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing under logDir, creating it if
// necessary. logLevel is normalized the same way ConsoleLogger does.
func NewFileLogger(logDir, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		os.Remove(symlinkPath)
	}
	os.Symlink(filepath.Base(runFile), symlinkPath) // best-effort; unsupported on some filesystems

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}
	fl.writeRunLog(fmt.Sprintf("=== orchestrator run %s ===\n", time.Now().Format(time.RFC3339)))
	return fl, nil
}

// Close closes the underlying run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	return fl.runLog.Close()
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return levelRank(messageLevel) >= levelRank(fl.logLevel)
}

func (fl *FileLogger) writeRunLog(s string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog != nil {
		fl.runLog.WriteString(s)
	}
}

// Infof logs a formatted info-level message.
func (fl *FileLogger) Infof(format string, args ...interface{}) {
	fl.logWithLevel("INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning-level message.
func (fl *FileLogger) Warnf(format string, args ...interface{}) {
	fl.logWithLevel("WARN", fmt.Sprintf(format, args...))
}

func (fl *FileLogger) logWithLevel(level, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogWaveStart logs the start of a wave.
func (fl *FileLogger) LogWaveStart(wave models.Wave, subtaskCount int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Starting wave %d: %d subtasks\n", timestamp(), wave.Number, subtaskCount))
}

// LogWaveComplete logs wave completion with a success/failure breakdown.
func (fl *FileLogger) LogWaveComplete(wave models.Wave, duration time.Duration, outputs []models.WorkerOutput) {
	if !fl.shouldLog("info") {
		return
	}
	succeeded := 0
	for _, o := range outputs {
		if o.Success {
			succeeded++
		}
	}
	fl.writeRunLog(fmt.Sprintf("[%s] wave %d complete (%s) - %d succeeded, %d failed\n",
		timestamp(), wave.Number, duration.Round(10*time.Millisecond), succeeded, len(outputs)-succeeded))
}

// LogSubtaskResult logs one subtask's completion.
func (fl *FileLogger) LogSubtaskResult(subtaskID, workerName string, output models.WorkerOutput) {
	if !fl.shouldLog("debug") {
		return
	}
	status := "ok"
	if !output.Success {
		status = "fail"
	}
	line := fmt.Sprintf("[%s] %s %s (worker: %s, duration: %s)", timestamp(), status, subtaskID, workerName, output.Duration().Round(10*time.Millisecond))
	if !output.Success && output.Error != "" {
		line += fmt.Sprintf(", error: %s", output.Error)
	}
	fl.writeRunLog(line + "\n")
}

// LogProgress logs a plain-text progress line (no carriage-return redraw,
// since files aren't interactive).
func (fl *FileLogger) LogProgress(completed, total int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] progress: %d/%d\n", timestamp(), completed, total))
}

// LogSummary logs the final report summary and duration.
func (fl *FileLogger) LogSummary(report *models.Report, duration time.Duration) {
	if !fl.shouldLog("info") {
		return
	}
	failed := 0
	for _, s := range report.Sections {
		if s.Failed {
			failed++
		}
	}
	status := "SUCCESS"
	if failed > 0 {
		status = "PARTIAL"
	}
	if report.Cancelled {
		status = "CANCELLED"
	}
	fl.writeRunLog(fmt.Sprintf("[%s] %s: %s - %d sections, %d failed, took %s\n",
		timestamp(), status, report.Title, len(report.Sections), failed, duration.Round(10*time.Millisecond)))
}
