package reconcile

import (
	"context"
	"time"

	"github.com/barchart/dockerup/internal/config"
	"github.com/barchart/dockerup/internal/deps"
	"github.com/barchart/dockerup/internal/metrics"
	"github.com/barchart/dockerup/internal/specdata"
)

// linkSettleDelay gives a freshly-started dependency time to come up
// before its dependent is evaluated.
const linkSettleDelay = 5 * time.Second

// update computes status, computes drift against the cache store
// (writing immediately on drift so a crash mid-cycle still records
// intent), conditionally pulls, and dispatches to the launch or
// replace path.
func (r *Reconciler) update(ctx context.Context, spec specdata.ContainerSpec, graph *deps.Graph) specdata.Status {
	if spec.Image == "" {
		r.log.Warn("no image defined for container, skipping", "name", spec.Name)
		return specdata.Status{}
	}

	fp := specdata.Fingerprint(spec)
	current := r.currentStatus(ctx, spec)

	drifted, err := r.cache.Drifted(fp, spec)
	if err != nil {
		r.log.Warn("cache read failed, assuming drift", "fingerprint", fp, "error", err)
		drifted = true
	}
	if drifted {
		if err := r.cache.Write(fp, spec); err != nil {
			r.log.Error("failed to write cache entry", "fingerprint", fp, "error", err)
		}
	}

	if current.Image == "" || pullAllowed(spec, r.settings) {
		updated, err := r.driver.Pull(ctx, spec.Image)
		if err != nil {
			r.log.Warn("pull failed", "image", spec.Image, "error", err)
			metrics.PullsTotal.WithLabelValues("failed").Inc()
		} else if updated {
			metrics.PullsTotal.WithLabelValues("updated").Inc()
		} else {
			metrics.PullsTotal.WithLabelValues("not_modified").Inc()
		}
		drifted = drifted || updated
	}

	if !drifted && current.Running {
		return current
	}

	if len(spec.Links) > 0 {
		<-r.clock.After(linkSettleDelay)
	}

	if current.Running {
		return r.updateNextWindow(ctx, spec, current, graph)
	}
	return r.launch(ctx, spec)
}

// pullAllowed is false if the global pull toggle is off, overriding
// any per-spec opt-in; otherwise the spec's own policy decides.
func pullAllowed(spec specdata.ContainerSpec, settings *config.Settings) bool {
	if !settings.Pull() {
		return false
	}
	return spec.Update.PullEnabled(settings.Pull())
}

// currentStatus computes the status projection against a fresh
// runtime listing.
func (r *Reconciler) currentStatus(ctx context.Context, spec specdata.ContainerSpec) specdata.Status {
	images, err := r.driver.ListImages(ctx)
	if err != nil {
		r.log.Warn("failed to list images", "error", err)
	}
	containers, err := r.driver.ListContainers(ctx)
	if err != nil {
		r.log.Warn("failed to list containers", "error", err)
	}
	return status(spec, images, containers)
}
