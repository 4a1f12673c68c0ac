package driver

import (
	"context"
	"fmt"

	"github.com/barchart/dockerup/internal/specdata"
	"github.com/moby/moby/client"
)

// CreateAndStart creates and starts a container for spec. A reserved
// name (`local-`) is refused at this boundary.
func (c *Client) CreateAndStart(ctx context.Context, spec specdata.ContainerSpec) (string, error) {
	if spec.HasReservedName() {
		return "", fmt.Errorf("driver: refusing reserved container name %q", spec.Name)
	}

	fingerprint := specdata.Fingerprint(spec)
	cfg, hostCfg, netCfg := translate(spec, fingerprint)

	resp, err := c.api.ContainerCreate(ctx, client.ContainerCreateOptions{
		Name:             spec.Name,
		Config:           cfg,
		HostConfig:       hostCfg,
		NetworkingConfig: netCfg,
	})
	if err != nil {
		return "", fmt.Errorf("driver: create %s: %w", spec.Image, err)
	}
	c.flushContainers()

	if _, err := c.api.ContainerStart(ctx, resp.ID, client.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("driver: start %s: %w", resp.ID, err)
	}
	c.flushContainers()

	return resp.ID, nil
}
