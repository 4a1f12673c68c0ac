// Package config loads dockerup's settings from the properties file and
// CLI flags: runtime endpoint, registry credentials, the confdir path,
// and the toggles that govern one sync cycle (aws, pull, server,
// interval). The toggles and interval are protected by an RWMutex, since
// ApplyOverrides rewrites them on every sync cycle.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultConfDir is where spec JSON files live absent an override.
const DefaultConfDir = "/etc/dockerup/containers.d"

// DefaultPropertiesFile is the properties file read at startup.
const DefaultPropertiesFile = "/etc/dockerup/dockerup.conf"

// DefaultRemote is the runtime endpoint used absent an override.
const DefaultRemote = "unix://var/run/docker.sock"

// Settings holds dockerup's configuration.
type Settings struct {
	ConfDir  string
	Remote   string
	Username string
	Password string
	Email    string

	// mu protects the fields below, which ApplyOverrides rewrites on
	// every sync cycle.
	mu       sync.RWMutex
	aws      bool
	pull     bool
	server   bool
	interval time.Duration
}

// Defaults returns the baseline settings before any properties file or
// CLI flags are applied.
func Defaults() *Settings {
	return &Settings{
		ConfDir:  DefaultConfDir,
		Remote:   DefaultRemote,
		pull:     true,
		interval: 60 * time.Second,
	}
}

// Load reads the properties file at path, if present, over the
// defaults. A missing file is not an error: an absent configuration
// file is valid.
func Load(path string) (*Settings, error) {
	s := Defaults()
	if path == "" {
		path = DefaultPropertiesFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	props, err := ParseProperties(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	s.apply(props)
	return s, nil
}

// apply overlays parsed properties onto s, last-writer-wins.
func (s *Settings) apply(props map[string]any) {
	if v, ok := props["confdir"].(string); ok {
		s.ConfDir = v
	}
	if v, ok := props["remote"].(string); ok {
		s.Remote = v
	}
	if v, ok := props["username"].(string); ok {
		s.Username = v
	}
	if v, ok := props["password"].(string); ok {
		s.Password = v
	}
	if v, ok := props["email"].(string); ok {
		s.Email = v
	}
	if v, ok := props["aws"].(bool); ok {
		s.SetAWS(v)
	}
	if v, ok := props["pull"].(bool); ok {
		s.SetPull(v)
	}
	if v, ok := props["server"].(bool); ok {
		s.SetServer(v)
	}
	if v, ok := props["interval"]; ok {
		if secs, ok := toSeconds(v); ok {
			s.SetInterval(time.Duration(secs) * time.Second)
		}
	}
}

func toSeconds(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		t = strings.TrimSpace(t)
		var n int64
		if _, err := fmt.Sscanf(t, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

// CLIOverrides carries the subset of settings the CLI may override.
// A nil pointer field means "flag not passed, don't override."
type CLIOverrides struct {
	ConfDir *string
	AWS     *bool
	Pull    *bool
	Server  *bool
}

// ApplyCLI overlays non-nil CLI flags onto s.
func (s *Settings) ApplyCLI(o CLIOverrides) {
	if o.ConfDir != nil {
		s.ConfDir = *o.ConfDir
	}
	if o.AWS != nil {
		s.SetAWS(*o.AWS)
	}
	if o.Pull != nil {
		s.SetPull(*o.Pull)
	}
	if o.Server != nil {
		s.SetServer(*o.Server)
	}
}

// ApplyOverrides overlays scalar settings produced by a confdir/cloud
// user-data merge, last-writer-wins.
func (s *Settings) ApplyOverrides(overrides map[string]any) {
	s.apply(overrides)
}

func (s *Settings) AWS() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aws
}

func (s *Settings) SetAWS(b bool) {
	s.mu.Lock()
	s.aws = b
	s.mu.Unlock()
}

func (s *Settings) Pull() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pull
}

func (s *Settings) SetPull(b bool) {
	s.mu.Lock()
	s.pull = b
	s.mu.Unlock()
}

func (s *Settings) Server() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.server
}

func (s *Settings) SetServer(b bool) {
	s.mu.Lock()
	s.server = b
	s.mu.Unlock()
}

func (s *Settings) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

func (s *Settings) SetInterval(d time.Duration) {
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// ParseProperties parses a line-based properties file: '#' starts a
// comment, lines are "key=value", whitespace around both is trimmed,
// and "true|yes|1"/"false|no|0" (case-insensitive) coerce to bool.
func ParseProperties(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	props := make(map[string]any)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		props[key] = coerce(value)
	}
	return props, nil
}

func coerce(value string) any {
	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	}
	return value
}
