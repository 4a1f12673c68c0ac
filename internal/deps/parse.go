package deps

import (
	"strings"

	"github.com/barchart/dockerup/internal/specdata"
)

// targetNames returns the names of every other spec that s depends on:
// link targets, volumes-from targets, and a shared network namespace
// target. Order follows the fields themselves (links map iteration
// order is not meaningful, so callers sort by index).
func targetNames(s specdata.ContainerSpec) []string {
	var names []string

	for target := range s.Links {
		names = append(names, target)
	}

	for _, vol := range s.Volumes {
		if vol.IsVolumesFrom() {
			names = append(names, vol.From)
		}
	}

	if target := networkTarget(s.Network); target != "" {
		names = append(names, target)
	}

	return names
}

// networkTarget extracts the container name from a "container:NAME"
// network mode, or "" if network isn't a namespace-sharing mode.
func networkTarget(network string) string {
	if strings.HasPrefix(network, "container:") {
		return strings.TrimPrefix(network, "container:")
	}
	return ""
}
