package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.ConfDir != DefaultConfDir {
		t.Errorf("ConfDir = %q, want %q", s.ConfDir, DefaultConfDir)
	}
	if s.Remote != DefaultRemote {
		t.Errorf("Remote = %q, want %q", s.Remote, DefaultRemote)
	}
	if !s.Pull() {
		t.Error("Pull() = false, want true")
	}
	if s.AWS() {
		t.Error("AWS() = true, want false")
	}
	if s.Interval() != 60*time.Second {
		t.Errorf("Interval() = %s, want 60s", s.Interval())
	}
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dockerup.conf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ConfDir != DefaultConfDir {
		t.Errorf("ConfDir = %q, want default", s.ConfDir)
	}
}

func TestLoadParsesProperties(t *testing.T) {
	path := writeFile(t, "# a comment\nconfdir=/srv/containers.d\naws=yes\npull=no\nremote=tcp://host:2375\nusername=bob\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ConfDir != "/srv/containers.d" {
		t.Errorf("ConfDir = %q, want /srv/containers.d", s.ConfDir)
	}
	if !s.AWS() {
		t.Error("AWS() = false, want true (from yes)")
	}
	if s.Pull() {
		t.Error("Pull() = true, want false (from no)")
	}
	if s.Remote != "tcp://host:2375" {
		t.Errorf("Remote = %q, want tcp://host:2375", s.Remote)
	}
	if s.Username != "bob" {
		t.Errorf("Username = %q, want bob", s.Username)
	}
}

func TestApplyCLIOverridesOnlyNonNil(t *testing.T) {
	s := Defaults()
	s.SetAWS(true)
	confdir := "/custom"
	s.ApplyCLI(CLIOverrides{ConfDir: &confdir})
	if s.ConfDir != "/custom" {
		t.Errorf("ConfDir = %q, want /custom", s.ConfDir)
	}
	if !s.AWS() {
		t.Error("AWS() changed by an unset override")
	}
}

func TestApplyOverridesLastWriterWins(t *testing.T) {
	s := Defaults()
	s.SetPull(true)
	s.ApplyOverrides(map[string]any{"pull": false, "interval": int64(120)})
	if s.Pull() {
		t.Error("Pull() = true, want false after override")
	}
	if s.Interval() != 120*time.Second {
		t.Errorf("Interval() = %s, want 120s", s.Interval())
	}
}

func TestParsePropertiesCoercion(t *testing.T) {
	path := writeFile(t, "a=true\nb=False\nc=1\nd=0\ne=plain\n")
	props, err := ParseProperties(path)
	if err != nil {
		t.Fatalf("ParseProperties: %v", err)
	}
	cases := map[string]any{"a": true, "b": false, "c": true, "d": false, "e": "plain"}
	for k, want := range cases {
		if got := props[k]; got != want {
			t.Errorf("props[%q] = %v, want %v", k, got, want)
		}
	}
}
