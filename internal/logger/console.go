package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/wavecraft/orchestrator/internal/models"
	"golang.org/x/term"
)

// Log level constants for filtering.
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs execution progress to a writer with timestamps and
// thread safety. Color output is automatically enabled for TTY writers.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to the given writer. If
// writer is nil, messages are silently discarded. logLevel is normalized;
// empty or invalid defaults to "info". Color is enabled automatically when
// writer is a TTY (os.Stdout/os.Stderr).
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY-backed os.Stdout/os.Stderr.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout {
		return isatty.IsTerminal(os.Stdout.Fd())
	}
	if w == os.Stderr {
		return isatty.IsTerminal(os.Stderr.Fd())
	}
	return false
}

func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[normalized] {
		return "info"
	}
	return normalized
}

func levelRank(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return levelRank(messageLevel) >= levelRank(cl.logLevel)
}

// Infof logs a formatted info-level message.
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.logWithLevel("INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning-level message.
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.logWithLevel("WARN", fmt.Sprintf(format, args...))
}

func (cl *ConsoleLogger) logWithLevel(level, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}
	cl.writer.Write([]byte(formatted))
}

func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string
	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}
	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogWaveStart logs the start of a wave at info level.
// Format: "[HH:MM:SS] Starting wave <n>: <count> subtasks"
func (cl *ConsoleLogger) LogWaveStart(wave models.Wave, subtaskCount int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var message string
	if cl.colorOutput {
		waveLabel := color.New(color.Bold).Sprintf("wave %d", wave.Number)
		message = fmt.Sprintf("[%s] Starting %s: %d subtasks\n", ts, waveLabel, subtaskCount)
	} else {
		message = fmt.Sprintf("[%s] Starting wave %d: %d subtasks\n", ts, wave.Number, subtaskCount)
	}
	cl.writer.Write([]byte(message))
}

// LogWaveComplete logs wave completion with a success/failure breakdown.
// Format: "[HH:MM:SS] wave <n> complete (<duration>) - <X> succeeded[, <Y> failed]"
func (cl *ConsoleLogger) LogWaveComplete(wave models.Wave, duration time.Duration, outputs []models.WorkerOutput) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	durationStr := duration.Round(10 * time.Millisecond).String()

	succeeded := 0
	for _, o := range outputs {
		if o.Success {
			succeeded++
		}
	}
	failed := len(outputs) - succeeded

	var breakdown string
	if cl.colorOutput {
		succeededText := color.New(color.FgGreen).Sprintf("%d succeeded", succeeded)
		if failed > 0 {
			failedText := color.New(color.FgRed).Sprintf("%d failed", failed)
			breakdown = fmt.Sprintf(" - %s, %s", succeededText, failedText)
		} else {
			breakdown = fmt.Sprintf(" - %s", succeededText)
		}
	} else {
		if failed > 0 {
			breakdown = fmt.Sprintf(" - %d succeeded, %d failed", succeeded, failed)
		} else {
			breakdown = fmt.Sprintf(" - %d succeeded", succeeded)
		}
	}

	var message string
	if cl.colorOutput {
		waveLabel := color.New(color.Bold).Sprintf("wave %d", wave.Number)
		completeText := color.New(color.FgGreen).Sprint("complete")
		message = fmt.Sprintf("[%s] %s %s (%s)%s\n", ts, waveLabel, completeText, durationStr, breakdown)
	} else {
		message = fmt.Sprintf("[%s] wave %d complete (%s)%s\n", ts, wave.Number, durationStr, breakdown)
	}
	cl.writer.Write([]byte(message))
}

// LogSubtaskResult logs one subtask's completion at debug level.
// Format: "[HH:MM:SS] ok/fail <subtask> (worker: <name>[, <metrics>][, error: <error>])"
func (cl *ConsoleLogger) LogSubtaskResult(subtaskID, workerName string, output models.WorkerOutput) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	metrics := formatColorizedSubtaskMetrics(output.Tokens, output.Cost, output.Duration(), cl.colorOutput)

	var statusMark string
	if cl.colorOutput {
		if output.Success {
			statusMark = color.New(color.FgGreen).Sprint("ok")
		} else {
			statusMark = color.New(color.FgRed).Sprint("fail")
		}
	} else {
		if output.Success {
			statusMark = "ok"
		} else {
			statusMark = "fail"
		}
	}

	suffix := fmt.Sprintf("worker: %s", workerName)
	if metrics != "" {
		suffix += ", " + metrics
	}
	if !output.Success && output.Error != "" {
		suffix += fmt.Sprintf(", error: %s", output.Error)
	}

	message := fmt.Sprintf("[%s] %s %s (%s)\n", ts, statusMark, subtaskID, suffix)
	cl.writer.Write([]byte(message))
}

// LogProgress renders an inline progress bar reflecting completed/total
// subtasks across the whole plan.
func (cl *ConsoleLogger) LogProgress(completed, total int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	bar := NewProgressBar(total, 20, cl.colorOutput)
	bar.Update(completed)
	cl.writer.Write([]byte("\r" + bar.Render()))
	if completed >= total {
		cl.writer.Write([]byte("\n"))
	}
}

// LogSummary prints a boxed final summary: title, section count, failures,
// and total duration.
func (cl *ConsoleLogger) LogSummary(report *models.Report, duration time.Duration) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	width := getTerminalWidth()
	var lines []string
	lines = append(lines, drawBoxTop(width))
	lines = append(lines, drawBoxLine(report.Title, width))
	lines = append(lines, drawBoxDivider(width))
	lines = append(lines, drawBoxLine(report.Summary, width))

	failed := 0
	for _, s := range report.Sections {
		if s.Failed {
			failed++
		}
	}
	statusLine := fmt.Sprintf("%d sections, %d failed, took %s", len(report.Sections), failed, duration.Round(10*time.Millisecond))
	if report.Cancelled {
		statusLine += " (cancelled)"
	}
	lines = append(lines, drawBoxLine(statusLine, width))
	lines = append(lines, drawBoxBottom(width))

	cl.writer.Write([]byte(strings.Join(lines, "\n") + "\n"))
}

// Box drawing characters for the summary box.
const (
	boxTopLeft     = "┌"
	boxTopRight    = "┐"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxHorizontal  = "─"
	boxVertical    = "│"
	boxTeeLeft     = "├"
	boxTeeRight    = "┤"
)

const (
	cyanColor  = "\033[36m"
	resetColor = "\033[0m"
)

// getTerminalWidth returns the terminal width capped at 120, falling back
// to 80 when detection fails or the width is under 60.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 60 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

func drawBoxTop(width int) string {
	return cyanColor + boxTopLeft + strings.Repeat(boxHorizontal, width-2) + boxTopRight + resetColor
}

func drawBoxBottom(width int) string {
	return cyanColor + boxBottomLeft + strings.Repeat(boxHorizontal, width-2) + boxBottomRight + resetColor
}

func drawBoxDivider(width int) string {
	return cyanColor + boxTeeLeft + strings.Repeat(boxHorizontal, width-2) + boxTeeRight + resetColor
}

func drawBoxLine(content string, width int) string {
	visibleLen := visibleLength(content)
	padding := width - 4 - visibleLen
	if padding < 0 {
		padding = 0
		content = truncateToVisibleWidth(content, width-4)
	}
	return cyanColor + boxVertical + resetColor + " " + content + strings.Repeat(" ", padding) + " " + cyanColor + boxVertical + resetColor
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleLength returns the terminal column width of s, excluding ANSI
// escape codes, using runewidth so wide glyphs count correctly.
func visibleLength(s string) int {
	return runewidth.StringWidth(ansiRegex.ReplaceAllString(s, ""))
}

func truncateToVisibleWidth(s string, maxWidth int) string {
	if visibleLength(s) <= maxWidth {
		return s
	}
	clean := ansiRegex.ReplaceAllString(s, "")
	return runewidth.Truncate(clean, maxWidth-3, "...")
}
