package reconcile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/barchart/dockerup/internal/metrics"
	"github.com/barchart/dockerup/internal/specdata"
)

// logExportRoot mirrors driver's log-export mount root; kept as a
// separate constant since reconcile must not import driver's
// container-translation internals just to reap a directory.
const logExportRoot = "/var/log/ext"

// shutdownUnknown is the orphan pre-pass: the catalog is the desired
// inventory plus whatever the cache store still remembers (a spec
// removed from the inventory but not yet cleaned up is still "known"
// until the cache-cleanup step runs). Every running container whose
// id isn't derived from a catalog spec is stopped.
func (r *Reconciler) shutdownUnknown(ctx context.Context, inventory []specdata.ContainerSpec) {
	catalog := r.catalog(inventory)

	known := make(map[string]bool, len(catalog))
	fingerprints := make(map[string]bool, len(catalog))
	for _, spec := range catalog {
		status := r.currentStatus(ctx, spec)
		if status.ID != "" {
			known[status.ID] = true
		}
		// Only a spec with a currently running container keeps its
		// export directory; a cataloged-but-stopped spec (e.g. after a
		// failed launch) is reaped like any other stale fingerprint.
		if status.Running {
			fingerprints[specdata.Fingerprint(spec)] = true
		}
	}

	containers, err := r.driver.ListContainers(ctx)
	if err != nil {
		r.log.Warn("failed to list containers for orphan pre-pass", "error", err)
		return
	}
	for _, c := range containers {
		if !c.Running || known[c.ID] {
			continue
		}
		r.log.Info("stopping orphaned container", "id", c.ID, "image", c.Image)
		if !r.stopContainer(ctx, c.ID, "orphan") {
			continue
		}
		metrics.OrphansReaped.Inc()
	}

	r.reapLogExportDirs(fingerprints)
}

// catalog unions the desired inventory with every spec the cache store
// still remembers.
func (r *Reconciler) catalog(inventory []specdata.ContainerSpec) []specdata.ContainerSpec {
	seen := make(map[string]bool, len(inventory))
	catalog := make([]specdata.ContainerSpec, 0, len(inventory))
	for _, spec := range inventory {
		fp := specdata.Fingerprint(spec)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		catalog = append(catalog, spec)
	}

	fingerprints, err := r.cache.List()
	if err != nil {
		r.log.Warn("failed to list cache store for orphan pre-pass", "error", err)
		return catalog
	}
	for _, fp := range fingerprints {
		if seen[fp] {
			continue
		}
		spec, ok, err := r.cache.Read(fp)
		if err != nil || !ok {
			continue
		}
		seen[fp] = true
		catalog = append(catalog, spec)
	}
	return catalog
}

// reapLogExportDirs removes every log-export directory whose name is
// not in keep (the fingerprints of cataloged specs whose container is
// running). The directory is keyed by fingerprint rather than
// container id (see driver/translate.go).
func (r *Reconciler) reapLogExportDirs(keep map[string]bool) {
	entries, err := os.ReadDir(logExportRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("failed to list log-export root", "error", err)
		}
		return
	}
	for _, e := range entries {
		if !e.IsDir() || keep[e.Name()] {
			continue
		}
		path := filepath.Join(logExportRoot, e.Name())
		if err := os.RemoveAll(path); err != nil {
			r.log.Warn("failed to reap log-export directory", "path", path, "error", err)
			continue
		}
		r.log.Debug("reaped log-export directory", "path", path)
	}
}
