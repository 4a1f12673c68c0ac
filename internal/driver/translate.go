package driver

import (
	"fmt"

	"github.com/barchart/dockerup/internal/specdata"
	"github.com/docker/go-connections/nat"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/network"
)

// logExportRoot is the host directory holding one subdirectory per
// managed container's exported logs.
const logExportRoot = "/var/log/ext"

// logExportMountPoint is the in-container mount point for the
// log-export bind.
const logExportMountPoint = "/var/log/ext"

// translate builds the Docker create-time configuration for spec. The
// modern Engine API collapses create+start into a single call that
// needs the full HostConfig upfront, so the log-export bind can't be
// keyed by the container's own (not-yet-known) id; it's keyed by the
// spec's fingerprint instead — deterministic and available before the
// container exists, while still giving every managed container its
// own stable export directory that the orphan pre-pass can reap by
// name.
func translate(spec specdata.ContainerSpec, fingerprint string) (*container.Config, *container.HostConfig, *network.NetworkingConfig) {
	env := make([]string, 0, len(spec.Env)+1)
	env = append(env, "DOCKER_IMAGE="+spec.Image)
	for k, v := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	cfg := &container.Config{
		Image: spec.Image,
		Env:   env,
	}
	if len(spec.Entrypoint) > 0 {
		cfg.Entrypoint = spec.Entrypoint
	}
	if len(spec.Command) > 0 {
		cfg.Cmd = spec.Command
	}

	hostCfg := &container.HostConfig{
		Privileged: spec.Privileged,
		Resources: container.Resources{
			CPUShares: spec.CPU,
			Memory:    spec.Memory,
		},
	}

	restartName := spec.Restart
	if restartName == "" {
		restartName = "on-failure"
	}
	hostCfg.RestartPolicy = container.RestartPolicy{Name: container.RestartPolicyMode(restartName), MaximumRetryCount: 0}

	if spec.Network != "" {
		hostCfg.NetworkMode = container.NetworkMode(spec.Network)
	}

	if len(spec.Links) > 0 {
		links := make([]string, 0, len(spec.Links))
		for target, alias := range spec.Links {
			links = append(links, fmt.Sprintf("%s:%s", target, alias))
		}
		hostCfg.Links = links
	}

	binds, volumesFrom, logsBound := translateVolumes(spec.Volumes)
	if !logsBound {
		binds = append(binds, fmt.Sprintf("%s/%s:%s", logExportRoot, fingerprint, logExportMountPoint))
	}
	hostCfg.Binds = binds
	if len(volumesFrom) > 0 {
		hostCfg.VolumesFrom = volumesFrom
	}

	if len(spec.PortMappings) > 0 {
		exposed := make(nat.PortSet, len(spec.PortMappings))
		bindings := make(nat.PortMap, len(spec.PortMappings))
		for _, pm := range spec.PortMappings {
			port := nat.Port(pm.ContainerPort + "/tcp")
			exposed[port] = struct{}{}
			binding := nat.PortBinding{}
			if pm.HostPort != "" {
				binding.HostPort = pm.HostPort
			}
			bindings[port] = append(bindings[port], binding)
		}
		cfg.ExposedPorts = exposed
		hostCfg.PortBindings = bindings
	}

	return cfg, hostCfg, &network.NetworkingConfig{}
}

// translateVolumes splits spec volumes into bind-mount strings and
// volumes-from container references, per §9 Open Question (a): a
// bind with no hostPath is a local volume (no host binding); a bind
// missing containerPath is skipped silently.
func translateVolumes(volumes []specdata.Volume) (binds []string, volumesFrom []string, logsBound bool) {
	for _, vol := range volumes {
		if vol.IsVolumesFrom() {
			volumesFrom = append(volumesFrom, vol.From)
			continue
		}
		if vol.ContainerPath == "" {
			continue
		}
		if vol.HostPath == "" {
			continue
		}
		mode := "rw"
		if vol.Mode != "" {
			mode = vol.Mode
		}
		binds = append(binds, fmt.Sprintf("%s:%s:%s", vol.HostPath, vol.ContainerPath, mode))
		if vol.ContainerPath == logExportMountPoint {
			logsBound = true
		}
	}
	return binds, volumesFrom, logsBound
}
