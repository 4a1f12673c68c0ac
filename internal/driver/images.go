package driver

import (
	"context"

	"github.com/containerd/errdefs"
	"github.com/moby/moby/client"
)

// ListImages returns every local image, cached until the next
// mutation or explicit Refresh.
func (c *Client) ListImages(ctx context.Context) ([]ImageInfo, error) {
	c.mu.Lock()
	if c.imagesOK {
		cached := c.images
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	result, err := c.api.ImageList(ctx, client.ImageListOptions{All: false})
	if err != nil {
		return nil, err
	}

	infos := make([]ImageInfo, 0, len(result.Items))
	for _, img := range result.Items {
		infos = append(infos, ImageInfo{ID: img.ID, RepoTags: img.RepoTags})
	}

	c.mu.Lock()
	c.images = infos
	c.imagesOK = true
	c.mu.Unlock()

	return infos, nil
}

// Pull pulls ref and reports whether the local image id changed.
// Failures are returned as err and treated by the caller as a
// non-update; the driver distinguishes registry-unavailable from
// not-modified only via the error it returns.
func (c *Client) Pull(ctx context.Context, ref string) (bool, error) {
	before, beforeErr := c.imageID(ctx, ref)

	resp, err := c.api.ImagePull(ctx, ref, client.ImagePullOptions{})
	if err != nil {
		return false, err
	}
	if err := resp.Wait(ctx); err != nil {
		return false, err
	}
	c.flushImages()

	after, err := c.imageID(ctx, ref)
	if err != nil {
		return false, err
	}
	return beforeErr != nil || before != after, nil
}

func (c *Client) imageID(ctx context.Context, ref string) (string, error) {
	resp, err := c.api.ImageInspect(ctx, ref)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// RemoveImage removes an image by id, pruning untagged children. A
// missing target is not an error.
func (c *Client) RemoveImage(ctx context.Context, id string) error {
	_, err := c.api.ImageRemove(ctx, id, client.ImageRemoveOptions{PruneChildren: true})
	if err != nil && errdefs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	c.flushImages()
	return nil
}

// RemoveDanglingImages removes every image with no repo tag. Callers
// must Refresh beforehand so this scan observes the cycle's final
// state.
func (c *Client) RemoveDanglingImages(ctx context.Context) (int, error) {
	images, err := c.ListImages(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, img := range images {
		if !isDangling(img) {
			continue
		}
		if err := c.RemoveImage(ctx, img.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// isDangling reports whether an image carries no usable repo tag.
func isDangling(img ImageInfo) bool {
	if len(img.RepoTags) == 0 {
		return true
	}
	for _, tag := range img.RepoTags {
		if tag != "<none>:<none>" {
			return false
		}
	}
	return true
}
