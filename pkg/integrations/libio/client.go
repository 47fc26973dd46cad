package libio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// Requests per minute allowed by the libraries.io API.
const requestsPerMinute = 60

// PackageInfo is a libraries.io project record for one package registry.
type PackageInfo struct {
	Name                           string    `json:"name"`
	Description                    string    `json:"description"`
	Homepage                       string    `json:"homepage"`
	RepositoryURL                  string    `json:"repository_url"`
	PackageManagerURL              string    `json:"package_manager_url"`
	NormalizedLicenses             []string  `json:"normalized_licenses"`
	LatestReleasePublishedAt       string    `json:"latest_release_published_at"`
	LatestStableReleasePublishedAt string    `json:"latest_stable_release_published_at"`
	LatestStableReleaseNumber      string    `json:"latest_stable_release_number"`
	Versions                       []Version `json:"versions"`
	Stars                          int       `json:"stars"`
	Forks                          int       `json:"forks"`
	Rank                           int       `json:"rank"`
	DependentReposCount            int       `json:"dependent_repos_count"`
	DependentsCount                int       `json:"dependents_count"`
}

// Version is one published version of a package.
type Version struct {
	Number      string `json:"number"`
	PublishedAt string `json:"published_at"`
}

// RepoInfo is a libraries.io repository record.
type RepoInfo struct {
	FullName           string `json:"full_name"`
	Description        string `json:"description"`
	License            string `json:"license"`
	CreatedAt          string `json:"created_at"`
	PushedAt           string `json:"pushed_at"`
	ForksCount         int    `json:"forks_count"`
	ContributionsCount int    `json:"contributions_count"`
	OpenIssuesCount    int    `json:"open_issues_count"`
	StargazersCount    int    `json:"stargazers_count"`
	Rank               int    `json:"rank"`
}

// Client provides access to the libraries.io API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// NewClient creates a libraries.io client authenticated with apiKey.
func NewClient(backend cache.Cache, cacheTTL time.Duration, apiKey string) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "libio:", cacheTTL, nil),
		baseURL: "https://libraries.io/api",
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), 1),
	}
}

// FetchPackage looks up a package on a libraries.io platform such as
// "pypi", "npm" or "maven".
func (c *Client) FetchPackage(ctx context.Context, platform, name string, refresh bool) (*PackageInfo, error) {
	var info PackageInfo
	err := c.Cached(ctx, platform+":"+name, refresh, &info, func() error {
		url := fmt.Sprintf("%s/%s/%s?api_key=%s", c.baseURL, platform, integrations.PathEscape(name), integrations.URLEncode(c.apiKey))
		return c.get(ctx, url, &info, platform+" package "+name)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchRepo looks up a GitHub repository given as "owner/repo".
func (c *Client) FetchRepo(ctx context.Context, repoID string, refresh bool) (*RepoInfo, error) {
	owner, repo, ok := strings.Cut(repoID, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository id %q", repoID)
	}

	var info RepoInfo
	err := c.Cached(ctx, "github:"+repoID, refresh, &info, func() error {
		url := fmt.Sprintf("%s/github/%s/%s?api_key=%s", c.baseURL, owner, repo, integrations.URLEncode(c.apiKey))
		return c.get(ctx, url, &info, "repository "+repoID)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, url string, v any, what string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.Get(ctx, url, v); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: libraries.io %s", err, what)
		}
		return err
	}
	return nil
}
