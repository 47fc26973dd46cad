package goproxy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// ModuleInfo holds the latest version of a Go module as reported by the
// module proxy.
type ModuleInfo struct {
	Path    string    `json:"path"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
	// VersionCount is the number of tagged versions in the proxy list.
	VersionCount int `json:"version_count"`
}

// Client provides access to the Go module proxy API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Go module proxy client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "goproxy:", cacheTTL, nil),
		baseURL: "https://proxy.golang.org",
	}
}

// FetchModule retrieves the latest version of a module.
//
// Module paths with uppercase letters are escaped per the module proxy
// protocol. A failing version list leaves VersionCount at zero.
//
// Returns [integrations.ErrNotFound] if the module doesn't exist.
func (c *Client) FetchModule(ctx context.Context, mod string, refresh bool) (*ModuleInfo, error) {
	mod = strings.TrimSpace(mod)

	var info ModuleInfo
	err := c.Cached(ctx, mod, refresh, &info, func() error {
		return c.fetch(ctx, mod, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, mod string, info *ModuleInfo) error {
	var data latestResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/@latest", c.baseURL, escapePath(mod)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: go module %s", err, mod)
		}
		return err
	}

	count := 0
	if list, err := c.GetText(ctx, fmt.Sprintf("%s/%s/@v/list", c.baseURL, escapePath(mod))); err == nil {
		count = len(strings.Fields(list))
	}

	*info = ModuleInfo{
		Path:         mod,
		Version:      data.Version,
		Time:         integrations.ParseTime(data.Time),
		VersionCount: count,
	}
	return nil
}

// escapePath applies the module proxy case encoding: every uppercase
// letter becomes "!" followed by its lowercase form.
func escapePath(path string) string {
	var b strings.Builder
	for _, r := range path {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('!')
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type latestResponse struct {
	Version string `json:"Version"`
	Time    string `json:"Time"`
}
