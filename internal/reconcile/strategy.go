package reconcile

import "github.com/barchart/dockerup/internal/specdata"

// UpdateStrategy is the two-state replacement order: a plain value
// consumed by a linear dispatch.
type UpdateStrategy int

const (
	// StrategyStopFirst stops dependents, then the old container,
	// then launches the new one.
	StrategyStopFirst UpdateStrategy = iota
	// StrategyLaunchFirst launches the new container before
	// stopping the old one.
	StrategyLaunchFirst
)

// decideStrategy picks the replacement order: eager (launch-first)
// replacement is permitted only when the spec has no name, no static
// host port, and explicitly opts in via update.eager. Anything else
// is stop-first.
func decideStrategy(spec specdata.ContainerSpec) UpdateStrategy {
	if spec.Update == nil || !spec.Update.Eager {
		return StrategyStopFirst
	}
	if spec.Name != "" {
		return StrategyStopFirst
	}
	for _, pm := range spec.PortMappings {
		if pm.HostPort != "" {
			return StrategyStopFirst
		}
	}
	return StrategyLaunchFirst
}
