package dockerhub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// ImageInfo holds metadata for a Docker Hub repository.
type ImageInfo struct {
	Name         string    `json:"name"`
	Namespace    string    `json:"namespace"`
	Description  string    `json:"description"`
	Stars        int       `json:"stars"`
	Pulls        int       `json:"pulls"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Client provides access to the Docker Hub v2 API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Docker Hub client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "dockerhub:", cacheTTL, nil),
		baseURL: "https://hub.docker.com/v2",
	}
}

// RepositoryPath returns the API path of an image id. Official images
// without a namespace live under "library/".
func RepositoryPath(id string) string {
	if strings.Contains(id, "/") {
		return id
	}
	return "library/" + id
}

// FetchImage retrieves a repository. A response without a name is treated
// as missing.
//
// Returns [integrations.ErrNotFound] if the image doesn't exist.
func (c *Client) FetchImage(ctx context.Context, id string, refresh bool) (*ImageInfo, error) {
	id = strings.TrimSpace(id)

	var info ImageInfo
	err := c.Cached(ctx, id, refresh, &info, func() error {
		var data repositoryResponse
		if err := c.Get(ctx, fmt.Sprintf("%s/repositories/%s", c.baseURL, RepositoryPath(id)), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: docker image %s", err, id)
			}
			return err
		}
		if data.Name == "" {
			return fmt.Errorf("%w: docker image %s", integrations.ErrNotFound, id)
		}
		info = ImageInfo{
			Name:         data.Name,
			Namespace:    data.Namespace,
			Description:  data.Description,
			Stars:        data.StarCount,
			Pulls:        data.PullCount,
			RegisteredAt: integrations.ParseTime(data.DateRegistered),
			UpdatedAt:    integrations.ParseTime(data.LastUpdated),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

type repositoryResponse struct {
	Name           string `json:"name"`
	Namespace      string `json:"namespace"`
	Description    string `json:"description"`
	StarCount      int    `json:"star_count"`
	PullCount      int    `json:"pull_count"`
	LastUpdated    string `json:"last_updated"`
	DateRegistered string `json:"date_registered"`
}
