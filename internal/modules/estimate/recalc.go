// README: Debounced recalculation controller for quote drafts.
package estimate

import (
	"strings"
	"sync"
	"time"

	"guincho/internal/clock"
)

// Recalculator debounces address edits: at most one estimate computation runs
// per quiescent window. A newer edit supersedes both a pending window and an
// in-flight computation; superseded results are discarded, never applied.
type Recalculator struct {
	clock    clock.Clock
	est      *Estimator
	debounce time.Duration
	latency  time.Duration

	mu        sync.Mutex
	gen       uint64
	pending   clock.Timer
	computing bool
}

func NewRecalculator(c clock.Clock, est *Estimator, debounce, latency time.Duration) *Recalculator {
	return &Recalculator{clock: c, est: est, debounce: debounce, latency: latency}
}

// AddressChanged restarts the debounce window with the latest draft text.
// When the window elapses with both fields non-empty, the estimator runs
// after the simulated latency and apply receives the result, unless another
// edit arrived in the meantime.
func (r *Recalculator) AddressChanged(origin, destination string, apply func(km float64)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	gen := r.gen
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	r.computing = false

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return
	}
	r.pending = r.clock.AfterFunc(r.debounce, func() {
		r.beginCompute(gen, origin, destination, apply)
	})
}

func (r *Recalculator) beginCompute(gen uint64, origin, destination string, apply func(float64)) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.computing = true
	r.mu.Unlock()

	r.clock.AfterFunc(r.latency, func() {
		km, err := r.est.Estimate(origin, destination)

		r.mu.Lock()
		if gen != r.gen {
			// Superseded while in flight; drop the result.
			r.mu.Unlock()
			return
		}
		r.computing = false
		r.mu.Unlock()

		if err == nil {
			// apply runs outside r.mu so callers may take their own locks.
			apply(km)
		}
	})
}

// IsComputing reports whether a computation is currently in flight.
func (r *Recalculator) IsComputing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.computing
}

// Cancel drops any pending window and invalidates any in-flight computation.
func (r *Recalculator) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	r.computing = false
}
