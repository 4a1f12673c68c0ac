// Package reconcile is the engine: it diffs desired vs actual state,
// decides pull/replace/leave-alone, drives the update-strategy state
// machine, and orchestrates orphan and image garbage collection.
package reconcile

import (
	"strings"

	"github.com/barchart/dockerup/internal/driver"
	"github.com/barchart/dockerup/internal/specdata"
)

// status computes the actual-state projection for spec: look up the
// image by spec.Image, then any container whose resolved image id
// matches it.
func status(spec specdata.ContainerSpec, images []driver.ImageInfo, containers []driver.ContainerInfo) specdata.Status {
	imageID, ok := resolveImageID(spec.Image, images)
	if !ok {
		return specdata.Status{}
	}

	for _, c := range containers {
		resolved, ok := rawTagToImageID(c.Image, images)
		if !ok || resolved != imageID {
			continue
		}
		return specdata.Status{
			Image:   imageID,
			ID:      c.ID,
			Tag:     c.Image,
			Running: c.Running,
		}
	}

	return specdata.Status{Image: imageID}
}

// resolveImageID looks up the local image id for a repo[:tag]
// reference, defaulting a missing tag to "latest".
func resolveImageID(ref string, images []driver.ImageInfo) (string, bool) {
	return rawTagToImageID(ref, images)
}

// rawTagToImageID translates a raw repo:tag string to the current
// image id: a miss yields absent.
func rawTagToImageID(ref string, images []driver.ImageInfo) (string, bool) {
	normalized := normalizeRef(ref)
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if normalizeRef(tag) == normalized {
				return img.ID, true
			}
		}
	}
	return "", false
}

// normalizeRef appends ":latest" to a bare repository reference, so
// "ex/a" and "ex/a:latest" compare equal. A ':' after the last '/'
// (a registry port has none after it) marks an explicit tag.
func normalizeRef(ref string) string {
	repo := ref
	if slash := strings.LastIndexByte(ref, '/'); slash >= 0 {
		repo = ref[slash+1:]
	}
	if strings.Contains(repo, ":") {
		return ref
	}
	return ref + ":latest"
}
