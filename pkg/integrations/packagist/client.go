package packagist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// PackageInfo holds metadata for a PHP package from Packagist.
//
// Package names use the "vendor/package" format and are normalized to
// lowercase. Zero values mean the field was not reported.
type PackageInfo struct {
	Name             string    `json:"name"`
	Version          string    `json:"version"`
	Repository       string    `json:"repository"`
	HomePage         string    `json:"homepage"`
	Description      string    `json:"description"`
	License          string    `json:"license"`
	TotalDownloads   int       `json:"total_downloads"`
	MonthlyDownloads int       `json:"monthly_downloads"`
	Dependents       int       `json:"dependents"`
	Favers           int       `json:"favers"`
	VersionCount     int       `json:"version_count"`
	CreatedAt        time.Time `json:"created_at"`
	ReleasedAt       time.Time `json:"released_at"`
}

// Client provides access to the Packagist API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Packagist client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "packagist:", cacheTTL, nil),
		baseURL: "https://packagist.org",
	}
}

// FetchPackage retrieves metadata for a PHP package.
//
// Returns [integrations.ErrNotFound] if the package doesn't exist.
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
	var data packageResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/packages/%s.json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: packagist package %s", err, pkg)
		}
		return err
	}

	d := data.Package
	*info = PackageInfo{
		Name:             d.Name,
		Description:      d.Description,
		Repository:       integrations.NormalizeRepoURL(d.Repository),
		TotalDownloads:   d.Downloads.Total,
		MonthlyDownloads: d.Downloads.Monthly,
		Dependents:       d.Dependents,
		Favers:           d.Favers,
		VersionCount:     len(d.Versions),
		CreatedAt:        integrations.ParseTime(d.Time),
	}
	if v, ok := latestStable(d.Versions); ok {
		info.Version = strings.TrimPrefix(v.Version, "v")
		info.HomePage = v.Homepage
		info.ReleasedAt = integrations.ParseTime(v.Time)
		if len(v.License) > 0 {
			info.License = v.License[0]
		}
	}
	return nil
}

// latestStable returns the most recently published version that is not a
// development branch.
func latestStable(versions map[string]version) (version, bool) {
	var (
		best   version
		bestAt time.Time
		found  bool
	)
	for key, v := range versions {
		lk := strings.ToLower(key)
		if strings.HasPrefix(lk, "dev-") || strings.HasSuffix(lk, "-dev") {
			continue
		}
		at := integrations.ParseTime(v.Time)
		if !found || at.After(bestAt) {
			best, bestAt, found = v, at, true
		}
	}
	return best, found
}

type packageResponse struct {
	Package struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Time        string `json:"time"`
		Repository  string `json:"repository"`
		Downloads   struct {
			Total   int `json:"total"`
			Monthly int `json:"monthly"`
		} `json:"downloads"`
		Favers     int                `json:"favers"`
		Dependents int                `json:"dependents"`
		Versions   map[string]version `json:"versions"`
	} `json:"package"`
}

type version struct {
	Version  string
	Homepage string
	Time     string
	License  []string
}

// UnmarshalJSON accepts the license as either a list or a single string.
func (v *version) UnmarshalJSON(b []byte) error {
	var raw struct {
		Version  string          `json:"version"`
		Homepage string          `json:"homepage"`
		Time     string          `json:"time"`
		License  json.RawMessage `json:"license"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v.Version = raw.Version
	v.Homepage = raw.Homepage
	v.Time = raw.Time
	v.License = nil

	if len(raw.License) > 0 && string(raw.License) != "null" {
		if err := json.Unmarshal(raw.License, &v.License); err != nil {
			var single string
			if json.Unmarshal(raw.License, &single) == nil && single != "" {
				v.License = []string{single}
			}
		}
	}
	return nil
}
