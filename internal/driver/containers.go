package driver

import (
	"context"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/client"
)

// ListContainers returns every container (all=true), cached until the
// next mutation or explicit Refresh.
func (c *Client) ListContainers(ctx context.Context) ([]ContainerInfo, error) {
	c.mu.Lock()
	if c.containersOK {
		cached := c.containers
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	result, err := c.api.ContainerList(ctx, client.ContainerListOptions{All: true})
	if err != nil {
		return nil, err
	}

	infos := make([]ContainerInfo, 0, len(result.Items))
	for _, item := range result.Items {
		infos = append(infos, ContainerInfo{
			ID:      item.ID,
			Image:   item.Image,
			Running: isRunning(item),
		})
	}

	c.mu.Lock()
	c.containers = infos
	c.containersOK = true
	c.mu.Unlock()

	return infos, nil
}

// isRunning reports whether a listed container is running: its status
// string begins with "Up " or "Restarting ".
func isRunning(item container.Summary) bool {
	return strings.HasPrefix(item.Status, "Up ") || strings.HasPrefix(item.Status, "Restarting ")
}

// Stop stops id with a 10-second grace period. A missing target is
// not an error.
func (c *Client) Stop(ctx context.Context, id string) error {
	timeout := 10
	_, err := c.api.ContainerStop(ctx, id, client.ContainerStopOptions{Timeout: &timeout})
	if err != nil && errdefs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	c.flushContainers()
	return nil
}

// Remove force-removes id. A missing target is not an error.
func (c *Client) Remove(ctx context.Context, id string) error {
	_, err := c.api.ContainerRemove(ctx, id, client.ContainerRemoveOptions{Force: true})
	if err != nil && errdefs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	c.flushContainers()
	return nil
}
