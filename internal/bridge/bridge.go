// Package bridge invokes external worker subprocesses and translates their
// output into a typed models.WorkerOutput.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/wavecraft/orchestrator/internal/config"
	"github.com/wavecraft/orchestrator/internal/models"
)

// killGrace is how long the Bridge waits after SIGTERM before escalating
// to SIGKILL on a timed-out worker.
const killGrace = 2 * time.Second

// ErrorKind identifies why a worker invocation did not produce a usable
// result. Callers errors.As against *BridgeError to inspect it.
type ErrorKind string

const (
	ErrWorkerNotFound ErrorKind = "worker-not-found"
	ErrSpawnFailed    ErrorKind = "spawn-failed"
	ErrNonZeroExit    ErrorKind = "nonzero-exit"
	ErrInvalidOutput  ErrorKind = "invalid-output"
	ErrTimeout        ErrorKind = "timeout"
	ErrCancelled      ErrorKind = "cancelled"
)

// BridgeError is the typed error attached to a failed WorkerOutput.
type BridgeError struct {
	Kind    ErrorKind
	Worker  string
	Message string
	Cause   error
}

func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BridgeError) Unwrap() error { return e.Cause }

// payload is what the Bridge sends to a worker, either on stdin or as the
// value of --input.
type payload struct {
	TaskDescription string                       `json:"task_description"`
	PriorResults    map[string]models.WorkerOutput `json:"prior_results"`
	Options         map[string]interface{}       `json:"options,omitempty"`
}

// envelope is the JSON shape a worker is expected to print on stdout.
type envelope struct {
	Success bool            `json:"success"`
	Result  interface{}     `json:"result"`
	Metrics *envelopeMetrics `json:"metrics,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type envelopeMetrics struct {
	ExecutionTimeMS int64    `json:"execution_time_ms"`
	Tokens          *int64   `json:"tokens,omitempty"`
	Cost            *float64 `json:"cost,omitempty"`
}

// execCommandContext is overridden in tests to fake subprocess spawning
// without invoking a real executable.
var execCommandContext = exec.CommandContext

// Bridge spawns worker subprocesses and parses their envelopes.
type Bridge struct {
	Workers map[string]config.WorkerConfig
}

// New returns a Bridge backed by the given worker registry.
func New(workers map[string]config.WorkerConfig) *Bridge {
	return &Bridge{Workers: workers}
}

// Invoke executes the named worker for subtask, returning a WorkerOutput.
// It never returns a Go error for a worker-side failure: every failure
// mode is represented in the returned WorkerOutput's Success/Error fields,
// matching the teacher's Invoke-returns-a-result-not-an-error convention.
func (b *Bridge) Invoke(ctx context.Context, workerName string, subtask models.SubTask, priorResults map[string]models.WorkerOutput, timeout time.Duration) models.WorkerOutput {
	started := time.Now()

	wc, ok := b.Workers[workerName]
	if !ok {
		return b.fail(workerName, subtask.ID, started, &BridgeError{
			Kind: ErrWorkerNotFound, Worker: workerName,
			Message: fmt.Sprintf("worker %q is not registered", workerName),
		})
	}

	if wc.Simulated {
		return b.simulate(workerName, subtask, started)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	in := payload{TaskDescription: subtask.Description, PriorResults: priorResults}
	inBytes, err := json.Marshal(in)
	if err != nil {
		return b.fail(workerName, subtask.ID, started, &BridgeError{
			Kind: ErrSpawnFailed, Worker: workerName,
			Message: "failed to encode worker payload", Cause: err,
		})
	}

	args := append([]string{}, wc.Args...)
	var stdinBytes []byte
	switch wc.Style {
	case "flag":
		args = append(args, "--input", string(inBytes))
	default: // "stdin"
		stdinBytes = inBytes
	}

	cmd := execCommandContext(callCtx, wc.Command, args...)
	if stdinBytes != nil {
		cmd.Stdin = bytes.NewReader(stdinBytes)
	}

	// Override the default hard-kill cancel hook so a timed-out or
	// cancelled context sends SIGTERM first; WaitDelay gives the process
	// killGrace to exit before Go escalates to SIGKILL itself.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if callCtx.Err() == context.DeadlineExceeded {
		return b.fail(workerName, subtask.ID, started, &BridgeError{
			Kind: ErrTimeout, Worker: workerName,
			Message: fmt.Sprintf("timeout after %s", timeout),
		})
	}
	if ctx.Err() == context.Canceled {
		return b.fail(workerName, subtask.ID, started, &BridgeError{
			Kind: ErrCancelled, Worker: workerName,
			Message: "execution cancelled",
		})
	}

	if runErr != nil {
		if exitErr, isExit := runErr.(*exec.ExitError); isExit {
			return b.fail(workerName, subtask.ID, started, &BridgeError{
				Kind: ErrNonZeroExit, Worker: workerName,
				Message: fmt.Sprintf("exit code %d: %s", exitErr.ExitCode(), headOf(stderr.String())),
			})
		}
		return b.fail(workerName, subtask.ID, started, &BridgeError{
			Kind: ErrSpawnFailed, Worker: workerName,
			Message: "failed to spawn worker", Cause: runErr,
		})
	}

	var env envelope
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &env); err != nil {
		return b.fail(workerName, subtask.ID, started, &BridgeError{
			Kind: ErrInvalidOutput, Worker: workerName,
			Message: fmt.Sprintf("invalid worker output: %v", err),
		})
	}

	out := models.WorkerOutput{
		WorkerName: workerName,
		SubTaskID:  subtask.ID,
		Success:    env.Success,
		Result:     env.Result,
		Error:      env.Error,
		StartedAt:  started,
		EndedAt:    time.Now(),
	}
	if env.Metrics != nil {
		out.Tokens = env.Metrics.Tokens
		out.Cost = env.Metrics.Cost
	}
	if !out.Success && out.Error == "" {
		out.Error = "worker reported failure with no message"
	}
	return out
}

func (b *Bridge) fail(workerName, subtaskID string, started time.Time, err *BridgeError) models.WorkerOutput {
	return models.WorkerOutput{
		WorkerName: workerName,
		SubTaskID:  subtaskID,
		Success:    false,
		Error:      err.Error(),
		StartedAt:  started,
		EndedAt:    time.Now(),
	}
}

func headOf(s string) string {
	s = strings.TrimSpace(s)
	const maxLen = 200
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
