// Package cachestore persists the last-applied ContainerSpec for each
// fingerprint as one JSON file per fingerprint on local disk. Writing
// a spec marks it "applied"; deletion is the caller's signal that a
// fingerprint has left the desired inventory.
package cachestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barchart/dockerup/internal/specdata"
)

// DefaultDir is the cache directory used when no override is configured.
const DefaultDir = "/var/cache/dockerup"

// Store is a directory of one JSON file per fingerprint.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating dir if it doesn't exist.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cachestore: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

// Exists reports whether fingerprint has a cache entry.
func (s *Store) Exists(fingerprint string) bool {
	_, err := os.Stat(s.path(fingerprint))
	return err == nil
}

// Read returns the cached spec for fingerprint. The returned bool is
// false if no entry exists.
func (s *Store) Read(fingerprint string) (specdata.ContainerSpec, bool, error) {
	data, err := os.ReadFile(s.path(fingerprint))
	if os.IsNotExist(err) {
		return specdata.ContainerSpec{}, false, nil
	}
	if err != nil {
		return specdata.ContainerSpec{}, false, fmt.Errorf("cachestore: read %s: %w", fingerprint, err)
	}
	var spec specdata.ContainerSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return specdata.ContainerSpec{}, false, fmt.Errorf("cachestore: decode %s: %w", fingerprint, err)
	}
	return spec, true, nil
}

// Write stores spec's canonical serialization under fingerprint,
// marking it applied.
func (s *Store) Write(fingerprint string, spec specdata.ContainerSpec) error {
	data, err := specdata.Canonical(spec)
	if err != nil {
		return fmt.Errorf("cachestore: canonicalize %s: %w", fingerprint, err)
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+fingerprint+"-*")
	if err != nil {
		return fmt.Errorf("cachestore: write %s: %w", fingerprint, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cachestore: write %s: %w", fingerprint, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cachestore: write %s: %w", fingerprint, err)
	}
	if err := os.Rename(tmp.Name(), s.path(fingerprint)); err != nil {
		return fmt.Errorf("cachestore: write %s: %w", fingerprint, err)
	}
	return nil
}

// Delete removes fingerprint's cache entry. Deleting an absent entry
// is not an error.
func (s *Store) Delete(fingerprint string) error {
	if err := os.Remove(s.path(fingerprint)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cachestore: delete %s: %w", fingerprint, err)
	}
	return nil
}

// List returns every fingerprint currently cached.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("cachestore: list: %w", err)
	}
	var fingerprints []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".tmp-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		fingerprints = append(fingerprints, strings.TrimSuffix(name, ".json"))
	}
	return fingerprints, nil
}

// Drifted reports whether spec's canonical serialization differs from
// the cached entry for fingerprint (true if no entry exists).
func (s *Store) Drifted(fingerprint string, spec specdata.ContainerSpec) (bool, error) {
	cached, ok, err := s.Read(fingerprint)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	want, err := specdata.Canonical(spec)
	if err != nil {
		return false, err
	}
	got, err := specdata.Canonical(cached)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(want, got), nil
}
