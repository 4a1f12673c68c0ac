package cachestore

import (
	"sort"
	"testing"

	"github.com/barchart/dockerup/internal/specdata"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spec := specdata.ContainerSpec{Image: "ex/a:1", Name: "a"}
	if err := s.Write("ex_a_1-a", spec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, ok, err := s.Read("ex_a_1-a")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatal("Read: expected entry to exist")
	}
	if got.Image != spec.Image || got.Name != spec.Name {
		t.Errorf("Read() = %+v, want %+v", got, spec)
	}
}

func TestReadMissing(t *testing.T) {
	s, _ := New(t.TempDir())
	_, ok, err := s.Read("missing")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Error("Read: expected no entry")
	}
}

func TestExists(t *testing.T) {
	s, _ := New(t.TempDir())
	if s.Exists("fp") {
		t.Error("Exists: expected false before Write")
	}
	s.Write("fp", specdata.ContainerSpec{Image: "x"})
	if !s.Exists("fp") {
		t.Error("Exists: expected true after Write")
	}
}

func TestDelete(t *testing.T) {
	s, _ := New(t.TempDir())
	s.Write("fp", specdata.ContainerSpec{Image: "x"})
	if err := s.Delete("fp"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("fp") {
		t.Error("Exists: expected false after Delete")
	}
	if err := s.Delete("fp"); err != nil {
		t.Errorf("Delete of absent entry should not error: %v", err)
	}
}

func TestList(t *testing.T) {
	s, _ := New(t.TempDir())
	s.Write("a", specdata.ContainerSpec{Image: "a"})
	s.Write("b", specdata.ContainerSpec{Image: "b"})
	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List() = %v, want [a b]", got)
	}
}

func TestDrifted(t *testing.T) {
	s, _ := New(t.TempDir())
	spec := specdata.ContainerSpec{Image: "x", Env: map[string]string{"A": "1"}}

	drifted, err := s.Drifted("fp", spec)
	if err != nil {
		t.Fatalf("Drifted: %v", err)
	}
	if !drifted {
		t.Error("Drifted: expected true for absent entry")
	}

	s.Write("fp", spec)
	drifted, err = s.Drifted("fp", spec)
	if err != nil {
		t.Fatalf("Drifted: %v", err)
	}
	if drifted {
		t.Error("Drifted: expected false for identical spec")
	}

	changed := spec
	changed.Env = map[string]string{"A": "2"}
	drifted, err = s.Drifted("fp", changed)
	if err != nil {
		t.Fatalf("Drifted: %v", err)
	}
	if !drifted {
		t.Error("Drifted: expected true after spec changed")
	}
}
