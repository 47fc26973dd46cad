package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	gh "github.com/google/go-github/v75/github"
	"golang.org/x/time/rate"

	"github.com/matzehuels/bestof/pkg/cache"
	bferrors "github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/integrations"
)

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// maxReleases bounds the releases read per repository.
const maxReleases = 100

// RepoInfo holds what the GitHub API and web pages report about a
// repository. Zero values mean the value was not reported.
type RepoInfo struct {
	FullName         string    `json:"full_name"`
	Name             string    `json:"name"`
	URL              string    `json:"url"`
	Homepage         string    `json:"homepage"`
	Description      string    `json:"description"`
	License          string    `json:"license"`
	CreatedAt        time.Time `json:"created_at"`
	PushedAt         time.Time `json:"pushed_at"`
	LastCommitAt     time.Time `json:"last_commit_at"`
	Stars            int       `json:"stars"`
	Forks            int       `json:"forks"`
	OpenIssues       int       `json:"open_issues"`
	ClosedIssues     int       `json:"closed_issues"`
	Contributors     int       `json:"contributors"`
	Commits          int       `json:"commits"`
	Releases         []Release `json:"releases"`
	DependentRepos   int       `json:"dependent_repos"`
	DependentPackage int       `json:"dependent_packages"`
}

// Release is one GitHub release.
type Release struct {
	Tag         string    `json:"tag"`
	PublishedAt time.Time `json:"published_at"`
	Stable      bool      `json:"stable"`
	Downloads   int       `json:"downloads"`
}

// Client provides access to the GitHub REST API through go-github and to
// the dependents page of github.com.
//
// API calls wait on a shared rate limiter. Complete [RepoInfo] values are
// cached. All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	api     *gh.Client
	limiter *rate.Limiter
	webURL  string
}

// NewLimiter returns a limiter for the GitHub REST API quota:
// 5000 requests per hour authenticated, 60 otherwise.
func NewLimiter(authenticated bool) *rate.Limiter {
	if authenticated {
		return rate.NewLimiter(rate.Every(time.Hour/5000), 10)
	}
	return rate.NewLimiter(rate.Every(time.Hour/60), 1)
}

// NewClient creates a GitHub client. Pass an empty token for
// unauthenticated requests.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	base := integrations.NewClient(backend, "github:", cacheTTL, nil)
	api := gh.NewClient(base.HTTPClient())
	if token != "" {
		api = api.WithAuthToken(token)
	}
	return &Client{
		Client:  base,
		api:     api,
		limiter: NewLimiter(token != ""),
		webURL:  "https://github.com",
	}
}

// Fetch retrieves the repository owner/repo. Secondary lookups (issues,
// contributors, commits, releases, dependents) are best effort: their
// failures leave the values at zero.
//
// Returns [integrations.ErrNotFound] if the repository doesn't exist and a
// [bferrors.RateLimitedError] when the API quota is exhausted.
func (c *Client) Fetch(ctx context.Context, owner, repo string, refresh bool) (*RepoInfo, error) {
	if err := (RepoID{Owner: owner, Name: repo}).Validate(); err != nil {
		return nil, err
	}

	var info RepoInfo
	err := c.Cached(ctx, owner+"/"+repo, refresh, &info, func() error {
		return c.fetch(ctx, owner, repo, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, owner, repo string, info *RepoInfo) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r, _, err := c.api.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return apiError(err, owner+"/"+repo)
	}

	*info = RepoInfo{
		FullName:    r.GetFullName(),
		Name:        r.GetName(),
		URL:         r.GetHTMLURL(),
		Homepage:    r.GetHomepage(),
		Description: r.GetDescription(),
		CreatedAt:   r.GetCreatedAt().Time.UTC(),
		PushedAt:    r.GetPushedAt().Time.UTC(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
	}
	if spdx := r.GetLicense().GetSPDXID(); !strings.EqualFold(spdx, "noassertion") {
		info.License = spdx
	}

	info.OpenIssues, _ = c.countIssues(ctx, owner, repo, "open")
	info.ClosedIssues, _ = c.countIssues(ctx, owner, repo, "closed")
	info.Contributors, _ = c.countContributors(ctx, owner, repo)
	info.Commits, info.LastCommitAt, _ = c.countCommits(ctx, owner, repo)
	info.Releases, _ = c.listReleases(ctx, owner, repo)
	info.DependentRepos, info.DependentPackage, _ = c.FetchDependents(ctx, owner+"/"+repo)
	return nil
}

func (c *Client) countIssues(ctx context.Context, owner, repo, state string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	q := fmt.Sprintf("repo:%s/%s is:issue is:%s", owner, repo, state)
	res, _, err := c.api.Search.Issues(ctx, q, &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: 1}})
	if err != nil {
		return 0, err
	}
	return res.GetTotal(), nil
}

// countContributors reads the last page number of a one-per-page listing.
func (c *Client) countContributors(ctx context.Context, owner, repo string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	list, resp, err := c.api.Repositories.ListContributors(ctx, owner, repo, &gh.ListContributorsOptions{
		Anon:        "true",
		ListOptions: gh.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, err
	}
	return pageCount(resp, len(list)), nil
}

func (c *Client) countCommits(ctx context.Context, owner, repo string) (int, time.Time, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, time.Time{}, err
	}
	list, resp, err := c.api.Repositories.ListCommits(ctx, owner, repo, &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	var last time.Time
	if len(list) > 0 {
		last = list[0].GetCommit().GetCommitter().GetDate().Time.UTC()
	}
	return pageCount(resp, len(list)), last, nil
}

func (c *Client) listReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	list, _, err := c.api.Repositories.ListReleases(ctx, owner, repo, &gh.ListOptions{PerPage: maxReleases})
	if err != nil {
		return nil, err
	}
	out := make([]Release, 0, len(list))
	for _, r := range list {
		rel := Release{
			Tag:         r.GetTagName(),
			PublishedAt: r.GetPublishedAt().Time.UTC(),
			Stable:      !r.GetDraft() && !r.GetPrerelease() && r.GetTagName() != "",
		}
		for _, a := range r.Assets {
			rel.Downloads += a.GetDownloadCount()
		}
		out = append(out, rel)
	}
	return out, nil
}

func pageCount(resp *gh.Response, n int) int {
	if resp != nil && resp.LastPage > 0 {
		return resp.LastPage
	}
	return n
}

// apiError maps go-github errors onto the integration error classes.
func apiError(err error, id string) error {
	var rl *gh.RateLimitError
	if errors.As(err, &rl) {
		return &bferrors.RateLimitedError{Service: "github", RetryAfter: int(time.Until(rl.Rate.Reset.Time).Seconds())}
	}
	var abuse *gh.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return &bferrors.RateLimitedError{Service: "github", RetryAfter: int(abuse.GetRetryAfter().Seconds())}
	}
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: github repo %s", integrations.ErrNotFound, id)
	}
	return fmt.Errorf("%w: github repo %s: %v", integrations.ErrNetwork, id, err)
}

// ExtractURL extracts a GitHub owner and repository from package URLs.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}
