// Package specdata defines the desired-state and actual-state data model
// shared by the inventory loader, cache store, dependency resolver, and
// reconciler: ContainerSpec, Status, and the fingerprint/canonicalization
// rules that tie them together.
package specdata

import (
	"encoding/json"
	"strings"
)

// ContainerSpec is one desired-state record: a single container the host
// should be running.
type ContainerSpec struct {
	Image        string            `json:"image"`
	Name         string            `json:"name,omitempty"`
	Type         string            `json:"type,omitempty"`
	PortMappings []PortMapping     `json:"portMappings,omitempty"`
	Volumes      []Volume          `json:"volumes,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
	Links        map[string]string `json:"links,omitempty"`
	Network      string            `json:"network,omitempty"`
	Privileged   bool              `json:"privileged,omitempty"`
	CPU          int64             `json:"cpu,omitempty"`
	Memory       int64             `json:"memory,omitempty"`
	Entrypoint   []string          `json:"entrypoint,omitempty"`
	Command      []string          `json:"command,omitempty"`
	Restart      string            `json:"restart,omitempty"`
	Update       *UpdatePolicy     `json:"update,omitempty"`
}

// PortMapping binds a container port to an optional static host port.
// An absent HostPort means the engine picks an ephemeral host port.
type PortMapping struct {
	ContainerPort string `json:"containerPort"`
	HostPort      string `json:"hostPort,omitempty"`
}

// Volume is one of three shapes, disambiguated by which fields are set:
//   - bind mount:    HostPath + ContainerPath (+ optional Mode)
//   - local volume:  ContainerPath only
//   - volumes-from:  From only
type Volume struct {
	ContainerPath string `json:"containerPath,omitempty"`
	HostPath      string `json:"hostPath,omitempty"`
	Mode          string `json:"mode,omitempty"`
	From          string `json:"from,omitempty"`
}

// IsVolumesFrom reports whether v references another container's volumes.
func (v Volume) IsVolumesFrom() bool { return v.From != "" }

// UpdatePolicy controls pull/replacement behaviour for one spec.
type UpdatePolicy struct {
	// Pull is tri-state: nil means "use the global default".
	Pull    *bool `json:"pull,omitempty"`
	Eager   bool  `json:"eager,omitempty"`
	Rolling bool  `json:"rolling,omitempty"`
}

// PullEnabled reports whether this spec's update policy allows a pull,
// given the global default. A spec with no policy, or a policy that
// doesn't mention pull, defers to the global default.
func (u *UpdatePolicy) PullEnabled(globalDefault bool) bool {
	if u == nil || u.Pull == nil {
		return globalDefault
	}
	return *u.Pull
}

// ReservedNamePrefix marks names reserved for internal use; specs using
// one are refused at the driver boundary (§9 Open Question (c)).
const ReservedNamePrefix = "local-"

// HasReservedName reports whether the spec's name is reserved.
func (c ContainerSpec) HasReservedName() bool {
	return strings.HasPrefix(c.Name, ReservedNamePrefix)
}

// Status is the actual-state projection for one ContainerSpec.
type Status struct {
	Image   string // runtime image id matching spec.Image, or "" if absent
	ID      string // id of a container currently derived from that image, or ""
	Tag     string // the (raw) image reference the container was created with
	Running bool
}

// Fingerprint is the stable per-spec cache key: image with ':' and '/'
// replaced by '_', plus "-name" when a name is set.
func Fingerprint(spec ContainerSpec) string {
	cleaned := strings.NewReplacer(":", "_", "/", "_").Replace(spec.Image)
	if spec.Name != "" {
		return cleaned + "-" + spec.Name
	}
	return cleaned
}

// Canonical returns the stable JSON serialization used for cache
// byte-equality comparisons. encoding/json fixes struct field order by
// declaration order and sorts map[string]string keys, so two specs that
// are semantically identical always serialize identically.
func Canonical(spec ContainerSpec) ([]byte, error) {
	return json.Marshal(spec)
}
