package reconcile

import (
	"context"

	"github.com/barchart/dockerup/internal/cachestore"
	"github.com/barchart/dockerup/internal/clock"
	"github.com/barchart/dockerup/internal/config"
	"github.com/barchart/dockerup/internal/deps"
	"github.com/barchart/dockerup/internal/driver"
	"github.com/barchart/dockerup/internal/inventory"
	"github.com/barchart/dockerup/internal/logging"
	"github.com/barchart/dockerup/internal/metrics"
	"github.com/barchart/dockerup/internal/specdata"
)

// Reconciler runs one sync cycle at a time. It holds no per-cycle
// state between calls to Sync; everything needed is rebuilt from the
// runtime and the inventory sources each cycle.
type Reconciler struct {
	driver   driver.API
	cache    *cachestore.Store
	settings *config.Settings
	log      *logging.Logger
	clock    clock.Clock
}

// New builds a Reconciler from its collaborators.
func New(api driver.API, cache *cachestore.Store, settings *config.Settings, log *logging.Logger, c clock.Clock) *Reconciler {
	if c == nil {
		c = clock.Real{}
	}
	return &Reconciler{driver: api, cache: cache, settings: settings, log: log, clock: c}
}

// Sync performs one full reconciliation cycle.
func (r *Reconciler) Sync(ctx context.Context) error {
	start := r.clock.Now()
	metrics.ScansTotal.Inc()
	defer func() {
		metrics.ScanDuration.Observe(r.clock.Since(start).Seconds())
	}()

	r.driver.Refresh()

	loaded := inventory.Load(ctx, r.settings, r.log)
	r.settings.ApplyOverrides(loaded.Overrides)

	graph := deps.Build(loaded.Specs)
	ordered, err := graph.Resolve()
	if err != nil {
		metrics.DependencyCycles.Inc()
		r.log.Error("dependency cycle detected, aborting this cycle", "error", err)
		return err
	}

	r.shutdownUnknown(ctx, ordered)

	applied := make(map[string]bool, len(ordered))
	for _, spec := range ordered {
		status := r.update(ctx, spec, graph)
		if status.ID != "" {
			applied[status.ID] = true
		}
	}

	r.cleanupCache(ctx, ordered, applied)

	removed, err := r.driver.RemoveDanglingImages(ctx)
	if err != nil {
		r.log.Warn("failed to remove dangling images", "error", err)
	} else if removed > 0 {
		metrics.DanglingImagesRemoved.Add(float64(removed))
		r.log.Info("removed dangling images", "count", removed)
	}

	metrics.CacheEntries.Set(float64(len(ordered)))
	return nil
}

// cleanupCache forgets any cached fingerprint that is not in the
// current inventory, first stopping its container if one is present
// and was not applied this cycle.
func (r *Reconciler) cleanupCache(ctx context.Context, ordered []specdata.ContainerSpec, applied map[string]bool) {
	fingerprints, err := r.cache.List()
	if err != nil {
		r.log.Warn("failed to list cache store", "error", err)
		return
	}

	wanted := make(map[string]bool, len(ordered))
	for _, spec := range ordered {
		wanted[specdata.Fingerprint(spec)] = true
	}

	for _, fp := range fingerprints {
		if wanted[fp] {
			continue
		}
		spec, ok, err := r.cache.Read(fp)
		if err != nil || !ok {
			continue
		}
		status := r.currentStatus(ctx, spec)
		if status.ID != "" && !applied[status.ID] {
			r.stopContainer(ctx, status.ID, "removed_from_inventory")
		}
		if err := r.cache.Delete(fp); err != nil {
			r.log.Warn("failed to delete stale cache entry", "fingerprint", fp, "error", err)
		}
	}
}
