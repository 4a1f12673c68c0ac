package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/barchart/dockerup/internal/config"
	"github.com/barchart/dockerup/internal/logging"
)

func testLogger() *logging.Logger { return logging.New(false) }

func writeJSON(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMergesConfDirLexicographically(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "b.json", `{"containers":[{"image":"second"}]}`)
	writeJSON(t, dir, "a.json", `{"containers":[{"image":"first"}]}`)

	s := config.Defaults()
	s.ConfDir = dir
	result := Load(context.Background(), s, testLogger())

	if len(result.Specs) != 2 {
		t.Fatalf("len(Specs) = %d, want 2", len(result.Specs))
	}
	if result.Specs[0].Image != "first" || result.Specs[1].Image != "second" {
		t.Errorf("Specs = %v, want [first second] in lexicographic file order", result.Specs)
	}
}

func TestLoadSkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "a.json", `not json`)
	writeJSON(t, dir, "b.json", `{"containers":[{"image":"ok"}]}`)

	s := config.Defaults()
	s.ConfDir = dir
	result := Load(context.Background(), s, testLogger())

	if len(result.Specs) != 1 || result.Specs[0].Image != "ok" {
		t.Errorf("Specs = %v, want only the well-formed file's containers", result.Specs)
	}
}

func TestLoadMissingConfDirYieldsEmptyInventory(t *testing.T) {
	s := config.Defaults()
	s.ConfDir = filepath.Join(t.TempDir(), "does-not-exist")
	result := Load(context.Background(), s, testLogger())

	if len(result.Specs) != 0 {
		t.Errorf("Specs = %v, want empty", result.Specs)
	}
}

func TestLoadCollectsScalarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "a.json", `{"pull": false, "containers":[{"image":"x"}]}`)

	s := config.Defaults()
	s.ConfDir = dir
	result := Load(context.Background(), s, testLogger())

	if got, ok := result.Overrides["pull"].(bool); !ok || got != false {
		t.Errorf("Overrides[pull] = %v, want false", result.Overrides["pull"])
	}
}

func TestLoadDoesNotFetchCloudDataWhenAWSDisabled(t *testing.T) {
	dir := t.TempDir()
	s := config.Defaults()
	s.ConfDir = dir
	s.SetAWS(false)
	old := CloudUserDataCommand
	defer func() { CloudUserDataCommand = old }()
	// Were the cloud command run, its one spec would show up in Specs.
	CloudUserDataCommand = []string{"echo", `{"containers":[{"image":"cloud-app"}]}`}
	result := Load(context.Background(), s, testLogger())
	if len(result.Specs) != 0 {
		t.Errorf("Specs = %v, want empty", result.Specs)
	}
}
