// Package coordinator drives a TaskPlan's wave DAG to completion: it
// schedules each wave's subtasks concurrently, bridges to external worker
// processes through the Router and Bridge, feeds outcomes back to the
// FeedbackStore, and folds the results into a Report via the Synthesizer.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wavecraft/orchestrator/internal/bridge"
	"github.com/wavecraft/orchestrator/internal/decomposer"
	"github.com/wavecraft/orchestrator/internal/logger"
	"github.com/wavecraft/orchestrator/internal/models"
	"github.com/wavecraft/orchestrator/internal/router"
	"github.com/wavecraft/orchestrator/internal/synthesizer"
	"github.com/wavecraft/orchestrator/internal/tracer"
)

// FeedbackRecorder is the subset of feedback.Store the Coordinator needs.
// Kept as an interface so tests can substitute a fake without touching a
// real log file, and because the spec explicitly calls out FeedbackStore
// as the one piece of state shared across concurrent Coordinator instances.
type FeedbackRecorder interface {
	Record(workerName string, outcome float64, contentType, subtaskID string, ts time.Time) error
}

// Options mirrors the opts recognized by execute(request, opts): trace
// attaches the execution trace to the returned Report, and quiet suppresses
// narrative output. Verbose is not read by Execute: every subtask result is
// passed to Logger.LogSubtaskResult, and the console and file loggers print
// those lines only at debug log level, whether or not Verbose is set. Timeout overrides the per-subtask ceiling; TimeoutSet
// distinguishes "not provided" (falls back to the Coordinator's configured
// default) from an explicit zero, which times out every subtask immediately.
type Options struct {
	Verbose    bool
	Trace      bool
	Timeout    time.Duration
	TimeoutSet bool
	Quiet      bool
}

// Coordinator ties the Decomposer, Router, Bridge, Tracer, FeedbackStore,
// and Synthesizer together. One Coordinator may be reused across many
// Execute calls — only the per-request Tracer is request-scoped; Router's
// breaker/EMA state and FeedbackStore's log are intentionally shared so
// learning accumulates across requests.
type Coordinator struct {
	decomposer     *decomposer.Decomposer
	router         *router.Router
	bridge         *bridge.Bridge
	synthesizer    *synthesizer.Synthesizer
	feedback       FeedbackRecorder
	logger         logger.Logger
	defaultTimeout time.Duration
	priceTable     map[string]float64
	model          string
}

// New constructs a Coordinator. priceTable/model configure the per-request
// Tracer's cost model (see config.BudgetConfig).
func New(
	d *decomposer.Decomposer,
	r *router.Router,
	b *bridge.Bridge,
	s *synthesizer.Synthesizer,
	f FeedbackRecorder,
	log logger.Logger,
	defaultTimeout time.Duration,
	priceTable map[string]float64,
	model string,
) *Coordinator {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Coordinator{
		decomposer:     d,
		router:         r,
		bridge:         b,
		synthesizer:    s,
		feedback:       f,
		logger:         log,
		defaultTimeout: defaultTimeout,
		priceTable:     priceTable,
		model:          model,
	}
}

// subtaskResult is what one subtask's goroutine sends back to the wave
// barrier.
type subtaskResult struct {
	subtaskID string
	output    models.WorkerOutput
}

// Execute decomposes request into a TaskPlan and drives it to completion,
// returning a Report. The only error return is a fatal invariant violation
// (malformed plan, cycle in the subtask DAG) — every other failure mode,
// including a cancelled or partially-failed run, is represented inside the
// returned Report, never as a Go error.
func (c *Coordinator) Execute(ctx context.Context, request models.Request, opts Options) (*models.Report, error) {
	start := time.Now()

	plan, err := c.decomposer.Decompose(request)
	if err != nil {
		return nil, fmt.Errorf("coordinator: %w", err)
	}

	log := c.logger
	if opts.Quiet {
		log = logger.NoopLogger{}
	}

	timeout := c.defaultTimeout
	if opts.TimeoutSet {
		timeout = opts.Timeout
	}

	trc := tracer.New(c.priceTable, c.model)
	outputs := make(map[string]models.WorkerOutput, len(plan.SubTasks))
	cancelled := false

	for _, wave := range plan.Waves {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		waveOutputs := c.executeWave(ctx, plan, wave, outputs, trc, timeout, log)
		for id, out := range waveOutputs {
			outputs[id] = out
		}

		if ctx.Err() != nil {
			cancelled = true
			break
		}
	}

	ordered := make([]models.WorkerOutput, 0, len(plan.SubTasks))
	for _, st := range plan.SubTasks {
		if out, ok := outputs[st.ID]; ok {
			ordered = append(ordered, out)
		}
	}

	report := c.synthesizer.Fold(plan, ordered)
	if opts.Trace {
		report.ExecutionTrace = trc.Entries()
	}
	if cancelled {
		report.Cancelled = true
		report.Summary = "Execution cancelled before all waves completed. " + report.Summary
	}

	log.LogSummary(report, time.Since(start))
	return report, nil
}

// executeWave runs every subtask in wave concurrently (bounded only by the
// wave's own size, per the scheduling model), waits for all of them at the
// barrier, and returns their outputs keyed by subtask id.
func (c *Coordinator) executeWave(
	ctx context.Context,
	plan *models.TaskPlan,
	wave models.Wave,
	priorResults map[string]models.WorkerOutput,
	trc *tracer.Tracer,
	timeout time.Duration,
	log logger.Logger,
) map[string]models.WorkerOutput {
	if len(wave.SubTaskIDs) == 0 {
		return nil
	}

	log.LogWaveStart(wave, len(wave.SubTaskIDs))
	waveStart := time.Now()

	results := make(chan subtaskResult, len(wave.SubTaskIDs))
	var wg sync.WaitGroup

	for _, id := range wave.SubTaskIDs {
		subtask := plan.SubTaskByID(id)
		if subtask == nil {
			results <- subtaskResult{subtaskID: id, output: models.WorkerOutput{
				SubTaskID: id, Success: false, Error: "invariant violation: subtask not found in plan",
			}}
			continue
		}

		wg.Add(1)
		go func(st models.SubTask) {
			defer wg.Done()
			results <- subtaskResult{subtaskID: st.ID, output: c.runSubtask(ctx, plan, st, priorResults, trc, wave.Number, timeout, log)}
		}(*subtask)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]models.WorkerOutput, len(wave.SubTaskIDs))
	waveOutputs := make([]models.WorkerOutput, 0, len(wave.SubTaskIDs))
	for r := range results {
		out[r.subtaskID] = r.output
		waveOutputs = append(waveOutputs, r.output)
	}

	log.LogWaveComplete(wave, time.Since(waveStart), waveOutputs)
	return out
}

// runSubtask performs the per-subtask sequence the algorithm specifies:
// choose a worker, invoke it, trace the attempt, and record the outcome to
// the FeedbackStore.
func (c *Coordinator) runSubtask(
	ctx context.Context,
	plan *models.TaskPlan,
	subtask models.SubTask,
	priorResults map[string]models.WorkerOutput,
	trc *tracer.Tracer,
	waveNum int,
	timeout time.Duration,
	log logger.Logger,
) models.WorkerOutput {
	workerName := c.router.Choose(subtask, plan.Pattern)

	startedAt := time.Now()
	entry := trc.Start(waveNum, workerName, subtask.ID, startedAt)

	output := c.bridge.Invoke(ctx, workerName, subtask, priorResults, timeout)

	status := models.TraceSuccess
	switch {
	case ctx.Err() != nil:
		status = models.TraceCancelled
	case !output.Success:
		status = models.TraceFailed
	}
	trc.Finish(entry, status, output)

	c.router.Record(workerName, output.Success)

	outcome := 0.0
	if output.Success {
		outcome = 1.0
	}
	if c.feedback != nil {
		if err := c.feedback.Record(workerName, outcome, string(plan.Pattern), subtask.ID, time.Now()); err != nil {
			log.Warnf("feedback record failed for %s: %v", workerName, err)
		}
	}

	log.LogSubtaskResult(subtask.ID, workerName, output)
	return output
}
