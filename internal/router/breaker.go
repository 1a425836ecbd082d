package router

import (
	"sync"
	"time"
)

// breakerState is the lifecycle of a single worker's circuit breaker.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// Breaker is a consecutive-failure circuit breaker: it opens after
// failureThreshold consecutive failures, stays open for cooldown, then
// moves to half-open. While half-open every Allow call returns true; the
// next recorded result closes the breaker (success) or re-opens it
// (failure).
//
// Adapted from the SWARM pack's adaptive sliding-window breaker
// (resilience/circuit_breaker.go), simplified to consecutive-failure
// counting because Router's config exposes a failure *count* threshold
// rather than a windowed failure *rate*, and dropped its otel metric
// emission since a single-process orchestrator has no second process to
// export spans to.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	cooldown         time.Duration

	state           breakerState
	consecutiveFail int
	openedAt        time.Time
}

// NewBreaker builds a closed breaker. A zero failureThreshold disables
// tripping entirely (Allow always returns true).
func NewBreaker(failureThreshold int, cooldown time.Duration) *Breaker {
	return &Breaker{failureThreshold: failureThreshold, cooldown: cooldown}
}

// Allow reports whether an invocation should be attempted right now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failureThreshold <= 0 {
		return true
	}

	switch b.state {
	case stateOpen:
		if time.Since(b.openedAt) >= b.cooldown {
			b.state = stateHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

// RecordResult updates the breaker with the outcome of an allowed
// invocation.
func (b *Breaker) RecordResult(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.consecutiveFail = 0
		b.state = stateClosed
		return
	}

	b.consecutiveFail++
	if b.state == stateHalfOpen || (b.failureThreshold > 0 && b.consecutiveFail >= b.failureThreshold) {
		b.state = stateOpen
		b.openedAt = time.Now()
	}
}
