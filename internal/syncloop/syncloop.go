// Package syncloop drives the reconciler: a single one-shot run, or a
// server-mode loop that scans at an interval until a termination
// signal arrives (initial scan, then clock.After(interval) in a
// select against ctx.Done()), with per-cycle error containment so one
// failed cycle never stops the loop.
package syncloop

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/barchart/dockerup/internal/clock"
	"github.com/barchart/dockerup/internal/logging"
)

// Syncer is the subset of *reconcile.Reconciler the loop needs.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Loop runs Syncer.Sync either once or on an interval.
type Loop struct {
	sync     Syncer
	log      *logging.Logger
	clock    clock.Clock
	interval func() time.Duration
}

// New builds a Loop. interval is called fresh before each wait, so a
// confdir/cloud override applied mid-run (config.Settings.Interval,
// after ApplyOverrides) takes effect on the very next cycle rather
// than requiring a restart.
func New(sync Syncer, log *logging.Logger, c clock.Clock, interval func() time.Duration) *Loop {
	if c == nil {
		c = clock.Real{}
	}
	return &Loop{sync: sync, log: log, clock: c, interval: interval}
}

// RunOnce performs a single sync cycle and returns its error.
func (l *Loop) RunOnce(ctx context.Context) error {
	return l.sync.Sync(ctx)
}

// RunServer loops: an immediate sync, then one every interval, until
// ctx is cancelled (by a termination signal). A per-cycle error never
// stops the loop — it's logged with a stack trace and the loop
// continues.
func (l *Loop) RunServer(ctx context.Context) error {
	l.runCycle(ctx)

	for {
		select {
		case <-l.clock.After(l.interval()):
			l.runCycle(ctx)
		case <-ctx.Done():
			l.log.Info("sync loop stopped")
			return nil
		}
	}
}

func (l *Loop) runCycle(ctx context.Context) {
	if err := l.sync.Sync(ctx); err != nil {
		l.log.Error("sync cycle failed", "error", err, "stack", string(debug.Stack()))
	}
}
