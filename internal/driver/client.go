package driver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/moby/moby/client"
)

// Client wraps the Docker Engine API client with listing caches that
// persist until a mutation or an explicit Refresh.
type Client struct {
	api *client.Client

	mu           sync.Mutex
	images       []ImageInfo
	imagesOK     bool
	containers   []ContainerInfo
	containersOK bool
}

// NewClient connects to remote, a URL like "unix://var/run/docker.sock"
// or "tcp://host:2375".
func NewClient(remote string) (*Client, error) {
	var opts []client.Opt

	switch {
	case strings.HasPrefix(remote, "tcp://"), strings.HasPrefix(remote, "tcps://"):
		opts = append(opts, client.WithHost(remote))
	case strings.HasPrefix(remote, "unix://"):
		sockPath := strings.TrimPrefix(remote, "unix://")
		opts = append(opts,
			client.WithHost(remote),
			client.WithHTTPClient(&http.Client{
				Transport: &http.Transport{
					DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
						return net.DialTimeout("unix", sockPath, 30*time.Second)
					},
				},
			}),
		)
	default:
		opts = append(opts, client.WithHost(remote))
	}

	api, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Refresh invalidates both listing caches.
func (c *Client) Refresh() {
	c.mu.Lock()
	c.imagesOK = false
	c.containersOK = false
	c.mu.Unlock()
}

func (c *Client) flushImages() {
	c.mu.Lock()
	c.imagesOK = false
	c.mu.Unlock()
}

func (c *Client) flushContainers() {
	c.mu.Lock()
	c.containersOK = false
	c.mu.Unlock()
}

// Close releases the underlying HTTP client's resources.
func (c *Client) Close() error {
	return c.api.Close()
}
