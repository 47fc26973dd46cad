package crates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// CrateInfo holds metadata for a Rust crate from crates.io.
//
// Zero values mean the field was not reported. A Downloads value of 0 is
// valid for newly published crates.
type CrateInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Repository  string `json:"repository"`
	HomePage    string `json:"homepage"`
	Description string `json:"description"`
	License     string `json:"license"`
	// Downloads is the all-time download count.
	Downloads int `json:"downloads"`
	// RecentDownloads counts the downloads of the last 90 days.
	RecentDownloads int       `json:"recent_downloads"`
	VersionCount    int       `json:"version_count"`
	Dependents      int       `json:"dependents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	// ReleasedAt is the publish time of Version.
	ReleasedAt time.Time `json:"released_at"`
}

// Client provides access to the crates.io package registry API.
//
// All methods are safe for concurrent use by multiple goroutines. crates.io
// rejects requests without a User-Agent; the shared client always sets one.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, nil),
		baseURL: "https://crates.io/api/v1",
	}
}

// FetchCrate retrieves metadata for a Rust crate from crates.io.
//
// The crate parameter must match the published crate name exactly. The
// reverse dependency count is fetched with a second request whose failure
// leaves Dependents at zero.
//
// Returns [integrations.ErrNotFound] if the crate doesn't exist.
func (c *Client) FetchCrate(ctx context.Context, crate string, refresh bool) (*CrateInfo, error) {
	var info CrateInfo
	err := c.Cached(ctx, crate, refresh, &info, func() error {
		return c.fetch(ctx, crate, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, crate string, info *CrateInfo) error {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, crate), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}

	version := data.Crate.MaxStableVersion
	if version == "" {
		version = data.Crate.MaxVersion
	}
	var released time.Time
	for _, v := range data.Versions {
		if v.Num == version {
			released = integrations.ParseTime(v.CreatedAt)
			if v.License != "" && data.Crate.License == "" {
				data.Crate.License = v.License
			}
			break
		}
	}

	dependents, _ := c.fetchDependents(ctx, crate)

	*info = CrateInfo{
		Name:            data.Crate.Name,
		Version:         version,
		Repository:      data.Crate.Repository,
		HomePage:        data.Crate.HomePage,
		Description:     data.Crate.Description,
		License:         data.Crate.License,
		Downloads:       data.Crate.Downloads,
		RecentDownloads: data.Crate.RecentDownloads,
		VersionCount:    len(data.Versions),
		Dependents:      dependents,
		CreatedAt:       integrations.ParseTime(data.Crate.CreatedAt),
		UpdatedAt:       integrations.ParseTime(data.Crate.UpdatedAt),
		ReleasedAt:      released,
	}
	return nil
}

func (c *Client) fetchDependents(ctx context.Context, crate string) (int, error) {
	var data struct {
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	url := fmt.Sprintf("%s/crates/%s/reverse_dependencies?per_page=1", c.baseURL, crate)
	if err := c.Get(ctx, url, &data); err != nil {
		return 0, err
	}
	return data.Meta.Total, nil
}

type crateResponse struct {
	Crate struct {
		Name             string `json:"name"`
		MaxVersion       string `json:"max_version"`
		MaxStableVersion string `json:"max_stable_version"`
		Description      string `json:"description"`
		License          string `json:"license"`
		Repository       string `json:"repository"`
		HomePage         string `json:"homepage"`
		Downloads        int    `json:"downloads"`
		RecentDownloads  int    `json:"recent_downloads"`
		CreatedAt        string `json:"created_at"`
		UpdatedAt        string `json:"updated_at"`
	} `json:"crate"`
	Versions []struct {
		Num       string `json:"num"`
		CreatedAt string `json:"created_at"`
		License   string `json:"license"`
	} `json:"versions"`
}
