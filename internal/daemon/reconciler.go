package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/garydev10/railwin/internal/rail"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically compares the locally observed window geometry
// against the authoritative remote geometry and reports drift upstream.
// This is how window-manager initiated moves, which never pass through
// the move/size handshake, reach the session host.
type Reconciler struct {
	interval time.Duration
	mover    *rail.MoveCoordinator
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, mover *rail.MoveCoordinator) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		mover:    mover,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single drift pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	r.mover.AdjustAll()
}

// ReconcileNow triggers an immediate drift pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
