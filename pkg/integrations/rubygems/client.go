package rubygems

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// GemInfo holds metadata for a Ruby gem from RubyGems.org.
//
// Gem names are case-insensitive and normalized to lowercase. Zero values
// mean the field was not reported.
type GemInfo struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	SourceCodeURI string    `json:"source_code_uri"`
	HomepageURI   string    `json:"homepage_uri"`
	Description   string    `json:"description"`
	Licenses      []string  `json:"licenses"`
	Downloads     int       `json:"downloads"`
	ReleasedAt    time.Time `json:"released_at"`
	// Dependents is the number of gems depending on this gem.
	Dependents int `json:"dependents"`
}

// Client provides access to the RubyGems.org API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a RubyGems client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "rubygems:", cacheTTL, nil),
		baseURL: "https://rubygems.org/api/v1",
	}
}

// FetchGem retrieves metadata for a Ruby gem. The reverse dependency list
// is fetched with a second request whose failure leaves Dependents at zero.
//
// Returns [integrations.ErrNotFound] if the gem doesn't exist.
func (c *Client) FetchGem(ctx context.Context, gem string, refresh bool) (*GemInfo, error) {
	gem = strings.ToLower(strings.TrimSpace(gem))

	var info GemInfo
	err := c.Cached(ctx, gem, refresh, &info, func() error {
		return c.fetch(ctx, gem, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, gem string, info *GemInfo) error {
	var data gemResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/gems/%s.json", c.baseURL, gem), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gem %s", err, gem)
		}
		return err
	}

	var dependents []string
	if err := c.Get(ctx, fmt.Sprintf("%s/gems/%s/reverse_dependencies.json", c.baseURL, gem), &dependents); err != nil {
		dependents = nil
	}

	*info = GemInfo{
		Name:          data.Name,
		Version:       data.Version,
		Description:   data.Info,
		Licenses:      data.Licenses,
		SourceCodeURI: data.SourceCodeURI,
		HomepageURI:   data.HomepageURI,
		Downloads:     data.Downloads,
		ReleasedAt:    integrations.ParseTime(data.VersionCreatedAt),
		Dependents:    len(dependents),
	}
	return nil
}

type gemResponse struct {
	Name             string   `json:"name"`
	Version          string   `json:"version"`
	VersionCreatedAt string   `json:"version_created_at"`
	Info             string   `json:"info"`
	Licenses         []string `json:"licenses"`
	SourceCodeURI    string   `json:"source_code_uri"`
	HomepageURI      string   `json:"homepage_uri"`
	Downloads        int      `json:"downloads"`
}
