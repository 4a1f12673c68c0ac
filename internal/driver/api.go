// Package driver abstracts the container runtime: image/container
// listing, pull, create+start, stop, remove. Client implements it
// against the Docker Engine API; tests use a fake.
package driver

import (
	"context"

	"github.com/barchart/dockerup/internal/specdata"
)

// ImageInfo is one entry from the image listing.
type ImageInfo struct {
	ID       string
	RepoTags []string
}

// ContainerInfo is one entry from the container listing. Image is the
// raw reference the container was created with (a tag, not an id).
type ContainerInfo struct {
	ID      string
	Image   string
	Running bool
}

// API is the runtime driver contract. Every mutation flushes the
// affected cache; Refresh forces a reload of both.
type API interface {
	ListImages(ctx context.Context) ([]ImageInfo, error)
	ListContainers(ctx context.Context) ([]ContainerInfo, error)

	// Pull reports whether the local image id for ref changed. A
	// failure is reported via err and treated by the caller as a
	// non-update.
	Pull(ctx context.Context, ref string) (updated bool, err error)

	CreateAndStart(ctx context.Context, spec specdata.ContainerSpec) (id string, err error)

	Stop(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	RemoveImage(ctx context.Context, id string) error

	// RemoveDanglingImages removes every image with no repo tag.
	RemoveDanglingImages(ctx context.Context) (removed int, err error)

	// Refresh forces the next ListImages/ListContainers call to
	// reload from the runtime instead of serving a cached listing.
	Refresh()
}

var _ API = (*Client)(nil)
