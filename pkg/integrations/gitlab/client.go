package gitlab

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

var repoURLPattern = regexp.MustCompile(`https?://gitlab\.com/([^/\s]+)/([^/\s#?]+)`)

// ProjectInfo holds the repository metrics of a GitLab project.
type ProjectInfo struct {
	PathWithNamespace string    `json:"path_with_namespace"`
	Description       string    `json:"description"`
	WebURL            string    `json:"web_url"`
	RepoURL           string    `json:"repo_url"`
	License           string    `json:"license"`
	Stars             int       `json:"stars"`
	Forks             int       `json:"forks"`
	OpenIssues        int       `json:"open_issues"`
	ClosedIssues      int       `json:"closed_issues"`
	Contributors      int       `json:"contributors"`
	CreatedAt         time.Time `json:"created_at"`
	LastActivityAt    time.Time `json:"last_activity_at"`
}

// Client provides access to the GitLab REST API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitLab API client with optional authentication.
// An empty token accesses public projects only.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}
	return &Client{
		Client:  integrations.NewClient(backend, "gitlab:", cacheTTL, headers),
		baseURL: "https://gitlab.com/api/v4",
	}
}

// FetchProject retrieves a project by its "group/name" path. Issue counts
// and the contributor count come from secondary requests whose failures
// leave the values at zero.
//
// Returns [integrations.ErrNotFound] if the project doesn't exist.
func (c *Client) FetchProject(ctx context.Context, id string, refresh bool) (*ProjectInfo, error) {
	var info ProjectInfo
	err := c.Cached(ctx, id, refresh, &info, func() error {
		return c.fetch(ctx, id, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, id string, info *ProjectInfo) error {
	base := fmt.Sprintf("%s/projects/%s", c.baseURL, integrations.PathEscape(id))

	var data projectResponse
	if err := c.Get(ctx, base+"?license=true", &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gitlab project %s", err, id)
		}
		return err
	}

	*info = ProjectInfo{
		PathWithNamespace: data.PathWithNamespace,
		Description:       data.Description,
		WebURL:            data.WebURL,
		RepoURL:           integrations.NormalizeRepoURL(data.HTTPURLToRepo),
		Stars:             data.StarCount,
		Forks:             data.ForksCount,
		CreatedAt:         integrations.ParseTime(data.CreatedAt),
		LastActivityAt:    integrations.ParseTime(data.LastActivityAt),
	}
	if data.License != nil {
		info.License = data.License.Key
	}

	var stats issueStatistics
	if err := c.Get(ctx, base+"/issues_statistics", &stats); err == nil {
		info.OpenIssues = stats.Statistics.Counts.Opened
		info.ClosedIssues = stats.Statistics.Counts.Closed
	}
	if h, err := c.GetHeader(ctx, base+"/repository/contributors?per_page=1", nil); err == nil {
		info.Contributors, _ = strconv.Atoi(h.Get("X-Total"))
	}
	return nil
}

// ExtractURL extracts a GitLab repository owner and name from package URLs.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}

type projectResponse struct {
	PathWithNamespace string `json:"path_with_namespace"`
	Description       string `json:"description"`
	WebURL            string `json:"web_url"`
	HTTPURLToRepo     string `json:"http_url_to_repo"`
	StarCount         int    `json:"star_count"`
	ForksCount        int    `json:"forks_count"`
	CreatedAt         string `json:"created_at"`
	LastActivityAt    string `json:"last_activity_at"`
	License           *struct {
		Key string `json:"key"`
	} `json:"license"`
}

type issueStatistics struct {
	Statistics struct {
		Counts struct {
			Opened int `json:"opened"`
			Closed int `json:"closed"`
		} `json:"counts"`
	} `json:"statistics"`
}
