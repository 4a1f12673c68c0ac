package reconcile

import (
	"context"

	"github.com/barchart/dockerup/internal/metrics"
	"github.com/barchart/dockerup/internal/specdata"
)

// launch creates and starts a fresh container for spec, returning the
// post-launch status. An image that's still absent after the pull
// attempts in update is a terminal error for this cycle, not for the
// process. An unknown container type is a no-op here rather than in
// update: status/drift/pull still run and the spec still gets a cache
// entry, only the actual create+start is skipped.
func (r *Reconciler) launch(ctx context.Context, spec specdata.ContainerSpec) specdata.Status {
	if spec.Type != "" && spec.Type != "docker" {
		r.log.Debug("unknown container type, no-op at launch time", "name", spec.Name, "type", spec.Type)
		return specdata.Status{}
	}

	current := r.currentStatus(ctx, spec)
	if current.Image == "" {
		r.log.Error("cannot launch, image not present", "name", spec.Name, "image", spec.Image)
		return specdata.Status{}
	}

	id, err := r.driver.CreateAndStart(ctx, spec)
	if err != nil {
		r.log.Error("launch failed", "name", spec.Name, "image", spec.Image, "error", err)
		return current
	}
	metrics.ContainersLaunched.Inc()
	r.log.Info("launched container", "name", spec.Name, "image", spec.Image, "id", id)

	return r.currentStatus(ctx, spec)
}
