package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/barchart/dockerup/internal/driver"
	"github.com/barchart/dockerup/internal/specdata"
)

// fakeDriver implements driver.API for reconciler tests: recorded
// call lists plus per-key error overrides.
type fakeDriver struct {
	mu sync.Mutex

	images     []driver.ImageInfo
	containers []driver.ContainerInfo

	pullErr     map[string]error
	pullUpdated map[string]bool
	pullCalls   []string

	createErr   map[string]error
	createCalls []specdata.ContainerSpec
	nextID      int

	stopErr   map[string]error
	stopCalls []string

	removeCalls []string

	danglingRemoved int
	refreshCalls    int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		pullErr:     make(map[string]error),
		pullUpdated: make(map[string]bool),
		createErr:   make(map[string]error),
		stopErr:     make(map[string]error),
	}
}

func (f *fakeDriver) ListImages(_ context.Context) ([]driver.ImageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driver.ImageInfo(nil), f.images...), nil
}

func (f *fakeDriver) ListContainers(_ context.Context) ([]driver.ContainerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driver.ContainerInfo(nil), f.containers...), nil
}

func (f *fakeDriver) Pull(_ context.Context, ref string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pullCalls = append(f.pullCalls, ref)
	if err, ok := f.pullErr[ref]; ok {
		return false, err
	}
	return f.pullUpdated[ref], nil
}

func (f *fakeDriver) CreateAndStart(_ context.Context, spec specdata.ContainerSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, spec)
	if err, ok := f.createErr[spec.Name]; ok {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("c%d", f.nextID)
	f.containers = append(f.containers, driver.ContainerInfo{ID: id, Image: spec.Image, Running: true})
	return id, nil
}

func (f *fakeDriver) Stop(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls = append(f.stopCalls, id)
	if err, ok := f.stopErr[id]; ok {
		return err
	}
	for i := range f.containers {
		if f.containers[i].ID == id {
			f.containers[i].Running = false
		}
	}
	return nil
}

func (f *fakeDriver) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls = append(f.removeCalls, id)
	kept := f.containers[:0]
	for _, c := range f.containers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.containers = kept
	return nil
}

func (f *fakeDriver) RemoveImage(_ context.Context, _ string) error {
	return nil
}

func (f *fakeDriver) RemoveDanglingImages(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.danglingRemoved, nil
}

func (f *fakeDriver) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
}

var _ driver.API = (*fakeDriver)(nil)
