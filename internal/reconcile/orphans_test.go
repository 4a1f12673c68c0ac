package reconcile

import (
	"context"
	"testing"

	"github.com/barchart/dockerup/internal/driver"
	"github.com/barchart/dockerup/internal/specdata"
)

func TestShutdownUnknownStopsUncatalogedRunningContainer(t *testing.T) {
	fd := newFakeDriver()
	fd.images = []driver.ImageInfo{{ID: "sha256:abc", RepoTags: []string{"redis:latest"}}}
	fd.containers = []driver.ContainerInfo{
		{ID: "c1", Image: "redis:latest", Running: true},
		{ID: "orphan1", Image: "stray:latest", Running: true},
	}

	r := testReconciler(t, fd, nil)
	spec := specdata.ContainerSpec{Image: "redis", Name: "cache"}

	r.shutdownUnknown(context.Background(), []specdata.ContainerSpec{spec})

	found := false
	for _, id := range fd.stopCalls {
		if id == "orphan1" {
			found = true
		}
		if id == "c1" {
			t.Fatal("cataloged container should not be stopped")
		}
	}
	if !found {
		t.Fatalf("stopCalls = %v, want orphan1 stopped", fd.stopCalls)
	}
}

func TestShutdownUnknownLeavesStoppedContainersAlone(t *testing.T) {
	fd := newFakeDriver()
	fd.containers = []driver.ContainerInfo{{ID: "c1", Image: "stray:latest", Running: false}}

	r := testReconciler(t, fd, nil)
	r.shutdownUnknown(context.Background(), nil)

	if len(fd.stopCalls) != 0 {
		t.Fatalf("stopCalls = %v, want none (container already stopped)", fd.stopCalls)
	}
}

func TestCatalogIncludesCachedSpecsNoLongerInInventory(t *testing.T) {
	fd := newFakeDriver()
	r := testReconciler(t, fd, nil)

	removed := specdata.ContainerSpec{Image: "legacy", Name: "legacy"}
	if err := r.cache.Write(specdata.Fingerprint(removed), removed); err != nil {
		t.Fatalf("cache.Write: %v", err)
	}

	catalog := r.catalog(nil)
	if len(catalog) != 1 || catalog[0].Image != "legacy" {
		t.Fatalf("catalog = %+v, want [legacy]", catalog)
	}
}
