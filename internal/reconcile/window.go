package reconcile

import (
	"context"

	"github.com/barchart/dockerup/internal/deps"
	"github.com/barchart/dockerup/internal/metrics"
	"github.com/barchart/dockerup/internal/specdata"
)

// updateNextWindow replaces a currently-running container: stop-first
// tears down dependents and the old container before launching the
// new one; launch-first starts the new container first and only then
// stops the old one, shrinking the downtime window for specs that can
// tolerate a brief overlap.
func (r *Reconciler) updateNextWindow(ctx context.Context, spec specdata.ContainerSpec, current specdata.Status, graph *deps.Graph) specdata.Status {
	if spec.Update != nil && spec.Update.Rolling {
		// TODO(rolling): staged multi-instance replacement isn't
		// implemented; fall through to the ordinary single-instance
		// strategy until a rolling deployment target exists.
		r.log.Debug("rolling update requested, no staged rollout available", "name", spec.Name)
	}

	strategy := decideStrategy(spec)
	reason := "stop_first"
	if strategy == StrategyLaunchFirst {
		reason = "launch_first"
	}
	metrics.ContainersReplaced.WithLabelValues(reason).Inc()

	if strategy == StrategyLaunchFirst {
		next := r.launch(ctx, spec)
		r.stopContainer(ctx, current.ID, "replaced")
		return next
	}

	r.stopDependents(ctx, spec, graph)
	r.stopContainer(ctx, current.ID, "replaced")
	return r.launch(ctx, spec)
}

// stopDependents stops every container downstream of spec in the
// dependency graph: a linked/volumes-from dependent must not be left
// pointing at a container about to vanish.
func (r *Reconciler) stopDependents(ctx context.Context, spec specdata.ContainerSpec, graph *deps.Graph) {
	if spec.Name == "" || graph == nil {
		return
	}
	for _, dependent := range graph.Downstream(spec.Name) {
		status := r.currentStatus(ctx, dependent)
		if status.ID == "" {
			continue
		}
		r.stopContainer(ctx, status.ID, "dependency_replaced")
	}
}

// stopContainer retires id: stop, then remove so its name reservation
// is freed for the next CreateAndStart and it doesn't linger forever.
// Reports whether the stop succeeded.
func (r *Reconciler) stopContainer(ctx context.Context, id, reason string) bool {
	if id == "" {
		return false
	}
	if err := r.driver.Stop(ctx, id); err != nil {
		r.log.Warn("stop failed", "id", id, "error", err)
		return false
	}
	metrics.ContainersStopped.WithLabelValues(reason).Inc()

	if err := r.driver.Remove(ctx, id); err != nil {
		r.log.Warn("remove failed", "id", id, "error", err)
	}
	return true
}
