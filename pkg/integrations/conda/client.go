package conda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// DefaultChannel is used for ids without a "channel/" prefix.
const DefaultChannel = "anaconda"

// PackageInfo holds metadata for a conda package on anaconda.org.
type PackageInfo struct {
	Name           string    `json:"name"`
	Summary        string    `json:"summary"`
	License        string    `json:"license"`
	Home           string    `json:"home"`
	DevURL         string    `json:"dev_url"`
	LatestVersion  string    `json:"latest_version"`
	VersionCount   int       `json:"version_count"`
	TotalDownloads int       `json:"total_downloads"`
	ReleasedAt     time.Time `json:"released_at"`
}

// Client provides access to the anaconda.org API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an anaconda.org client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "conda:", cacheTTL, nil),
		baseURL: "https://api.anaconda.org",
	}
}

// SplitID splits "channel/package" ids; bare ids use [DefaultChannel].
func SplitID(id string) (channel, pkg string) {
	if c, p, ok := strings.Cut(id, "/"); ok {
		return c, p
	}
	return DefaultChannel, id
}

// FetchPackage retrieves a package given as "channel/name" or "name".
func (c *Client) FetchPackage(ctx context.Context, id string, refresh bool) (*PackageInfo, error) {
	channel, pkg := SplitID(id)

	var info PackageInfo
	err := c.Cached(ctx, channel+"/"+pkg, refresh, &info, func() error {
		var data packageResponse
		if err := c.Get(ctx, fmt.Sprintf("%s/package/%s/%s", c.baseURL, channel, pkg), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: conda package %s/%s", err, channel, pkg)
			}
			return err
		}
		info = data.toInfo()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

type packageResponse struct {
	Name          string   `json:"name"`
	Summary       string   `json:"summary"`
	License       string   `json:"license"`
	Home          string   `json:"home"`
	DevURL        string   `json:"dev_url"`
	LatestVersion string   `json:"latest_version"`
	Versions      []string `json:"versions"`
	Files         []struct {
		Version    string `json:"version"`
		UploadTime string `json:"upload_time"`
		Downloads  int    `json:"ndownloads"`
	} `json:"files"`
}

func (r packageResponse) toInfo() PackageInfo {
	info := PackageInfo{
		Name:          r.Name,
		Summary:       r.Summary,
		License:       r.License,
		Home:          r.Home,
		DevURL:        r.DevURL,
		LatestVersion: r.LatestVersion,
		VersionCount:  len(r.Versions),
	}
	for _, f := range r.Files {
		info.TotalDownloads += f.Downloads
		if t := integrations.ParseTime(strings.TrimSuffix(f.UploadTime, "+00:00")); t.After(info.ReleasedAt) {
			info.ReleasedAt = t
		}
	}
	return info
}
