package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/borderless/internal/borderless"
)

// ReconcileFunc runs one reconcile pass.
type ReconcileFunc func() (borderless.ReconcileResult, error)

// Reconciler periodically drives the match rules toward their desired state.
type Reconciler struct {
	reconcile ReconcileFunc
	logger    *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	reset    chan time.Duration
}

// NewReconciler creates a reconciler. An interval of zero disables the
// periodic pass.
func NewReconciler(interval time.Duration, reconcile ReconcileFunc, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval:  interval,
		reconcile: reconcile,
		logger:    logger,
		reset:     make(chan time.Duration, 1),
	}
}

func (r *Reconciler) String() string {
	return "reconciler"
}

// Interval returns the current period.
func (r *Reconciler) Interval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// SetInterval changes the period of a running loop. Zero pauses it.
func (r *Reconciler) SetInterval(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if interval == r.interval {
		return
	}
	r.interval = interval
	select {
	case <-r.reset:
	default:
	}
	r.reset <- interval
}

// Serve runs the loop until ctx is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(time.Hour)
	ticker.Stop()
	defer ticker.Stop()

	var tick <-chan time.Time
	schedule := func(interval time.Duration) {
		if interval <= 0 {
			ticker.Stop()
			tick = nil
			r.logger.Info("periodic reconcile disabled")
			return
		}
		ticker.Reset(interval)
		tick = ticker.C
		r.logger.Info("reconciler scheduled", "interval", interval)
	}
	schedule(r.Interval())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case interval := <-r.reset:
			schedule(interval)
		case <-tick:
			r.ReconcileNow()
		}
	}
}

// ReconcileNow performs a single pass, logging instead of returning failures.
func (r *Reconciler) ReconcileNow() {
	res, err := r.safeReconcile()
	if err != nil {
		r.logger.Error("reconcile failed", "error", err)
		return
	}
	if len(res.Applied) > 0 || res.Reset > 0 {
		r.logger.Info("reconciled", "applied", len(res.Applied), "matched", res.Matched, "reset", res.Reset)
	}
}

func (r *Reconciler) safeReconcile() (res borderless.ReconcileResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reconciler panic recovered: %v", p)
		}
	}()
	return r.reconcile()
}
