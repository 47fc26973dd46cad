package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// PackageInfo holds metadata for an npm package.
type PackageInfo struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Repository   string    `json:"repository"`
	HomePage     string    `json:"homepage"`
	Description  string    `json:"description"`
	License      string    `json:"license"`
	ReleaseCount int       `json:"release_count"`
	CreatedAt    time.Time `json:"created_at"`
	ReleasedAt   time.Time `json:"released_at"`
}

// Client provides access to the npm registry and download count APIs.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL      string
	downloadsURL string
}

// NewClient creates an npm client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:       integrations.NewClient(backend, "npm:", cacheTTL, nil),
		baseURL:      "https://registry.npmjs.org",
		downloadsURL: "https://api.npmjs.org/downloads",
	}
}

// FetchPackage retrieves the registry document of pkg. Scoped names such as
// "@babel/core" are supported.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+escapeName(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	latest := data.DistTags.Latest
	v, ok := data.Versions[latest]
	if !ok {
		return fmt.Errorf("npm package %s: version %s not found", pkg, latest)
	}

	*info = PackageInfo{
		Name:         data.Name,
		Version:      latest,
		Description:  v.Description,
		License:      extractField(v.License, "type"),
		Repository:   integrations.NormalizeRepoURL(extractField(v.Repository, "url")),
		HomePage:     v.HomePage,
		ReleaseCount: len(data.Versions),
		CreatedAt:    integrations.ParseTime(data.Time["created"]),
		ReleasedAt:   integrations.ParseTime(data.Time[latest]),
	}
	return nil
}

// FetchMonthlyDownloads returns the downloads of pkg in the last month.
func (c *Client) FetchMonthlyDownloads(ctx context.Context, pkg string, refresh bool) (int, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))

	var data struct {
		Downloads int `json:"downloads"`
	}
	err := c.Cached(ctx, "downloads:"+pkg, refresh, &data, func() error {
		err := c.Get(ctx, c.downloadsURL+"/point/last-month/"+pkg, &data)
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm downloads %s", err, pkg)
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return data.Downloads, nil
}

// escapeName keeps the scope separator of scoped packages encoded, as the
// registry expects "@scope%2Fname".
func escapeName(pkg string) string {
	return strings.Replace(pkg, "/", "%2F", 1)
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

type registryResponse struct {
	Name     string                    `json:"name"`
	DistTags distTags                  `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
	Time     map[string]string         `json:"time"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Description string `json:"description"`
	License     any    `json:"license"`
	Repository  any    `json:"repository"`
	HomePage    string `json:"homepage"`
}
