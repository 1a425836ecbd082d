// Package router chooses which worker handles a subtask and tracks each
// worker's learned success rate and circuit-breaker state.
package router

import (
	"github.com/wavecraft/orchestrator/internal/config"
	"github.com/wavecraft/orchestrator/internal/decomposer"
	"github.com/wavecraft/orchestrator/internal/models"
)

// EchoWorker is the generic fallback used when no registered candidate
// exists for a subtask's content type.
const EchoWorker = "echo-worker"

// SuccessRates is the read side of the feedback-derived EMA table the
// Router consults to break ties among otherwise-equal candidates.
type SuccessRates interface {
	RateFor(workerName string) (rate float64, sampleCount int)
}

// Router maps a SubTask to a worker name using the configured candidate
// lists, worker hints, and learned success rates.
type Router struct {
	cfg      config.RouterConfig
	workers  map[string]config.WorkerConfig
	rates    SuccessRates
	breakers map[string]*Breaker
}

// New builds a Router over the given candidate/registry configuration and
// success-rate source. rates may be nil, in which case every candidate is
// treated as having the neutral prior.
func New(cfg config.RouterConfig, workers map[string]config.WorkerConfig, rates SuccessRates) *Router {
	return &Router{
		cfg:      cfg,
		workers:  workers,
		rates:    rates,
		breakers: make(map[string]*Breaker),
	}
}

// Choose returns the worker name that should handle subtask, given the
// pattern its plan was classified as.
//
// 1. A worker-hint that is registered always wins.
// 2. Otherwise classify (content_type, intent) from the description and
//    look up the ordered candidate list for content_type.
// 3. Among registered, non-open-breaker candidates, pick the highest
//    learned success rate (neutral prior below min_samples); ties break by
//    list position.
// 4. If nothing is eligible, fall back to the registered fallback worker,
//    then to EchoWorker.
func (r *Router) Choose(subtask models.SubTask, pattern models.Pattern) string {
	if subtask.WorkerHint != "" && r.registered(subtask.WorkerHint) {
		return subtask.WorkerHint
	}

	contentType := decomposer.ClassifyContentType(subtask.Description)
	candidates := r.cfg.Candidates[contentType]

	best := ""
	bestRate := -1.0
	for _, candidate := range candidates {
		if !r.registered(candidate) {
			continue
		}
		if b := r.breakerFor(candidate); !b.Allow() {
			continue
		}
		rate := r.rateOf(candidate)
		if rate > bestRate {
			bestRate = rate
			best = candidate
		}
	}
	if best != "" {
		return best
	}

	if r.cfg.FallbackWorker != "" && r.registered(r.cfg.FallbackWorker) {
		return r.cfg.FallbackWorker
	}
	return EchoWorker
}

// Record reports the outcome of a worker invocation to that worker's
// circuit breaker. The Coordinator calls this alongside FeedbackStore's
// own recording.
func (r *Router) Record(workerName string, success bool) {
	r.breakerFor(workerName).RecordResult(success)
}

func (r *Router) registered(name string) bool {
	_, ok := r.workers[name]
	return ok
}

func (r *Router) rateOf(workerName string) float64 {
	if r.rates == nil {
		return r.cfg.NeutralPrior
	}
	rate, samples := r.rates.RateFor(workerName)
	if samples < r.cfg.MinSamples {
		return r.cfg.NeutralPrior
	}
	return rate
}

func (r *Router) breakerFor(workerName string) *Breaker {
	b, ok := r.breakers[workerName]
	if !ok {
		b = NewBreaker(r.cfg.BreakerFailureThreshold, r.cfg.BreakerCooldown)
		r.breakers[workerName] = b
	}
	return b
}
