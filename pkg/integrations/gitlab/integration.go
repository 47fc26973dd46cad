package gitlab

import (
	"context"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
)

// Name identifies the integration.
const Name = "gitlab"

// Integration enriches projects hosted on gitlab.com.
type Integration struct {
	client *Client
	opts   integrations.Options
}

// New creates the GitLab integration. token may be empty.
func New(token string, opts integrations.Options) *Integration {
	return &Integration{client: NewClient(opts.Cache, token, opts.TTL()), opts: opts}
}

func (i *Integration) Name() string { return Name }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the repository metrics of the project's gitlab_id.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	if p.GitLabID == "" {
		return nil
	}
	info, err := i.client.FetchProject(ctx, p.GitLabID, i.opts.Refresh)
	if err != nil {
		return err
	}

	project.MergeString(&p.GitLabURL, info.RepoURL)
	project.MergeString(&p.GitLabURL, "https://gitlab.com/"+p.GitLabID)
	project.MergeString(&p.Homepage, info.WebURL)
	if p.License == "" {
		if l, ok := license.Get(info.License); ok {
			p.License = l.SPDXID
		}
	}
	project.MergeOldest(&p.CreatedAt, info.CreatedAt)
	project.MergeNewest(&p.UpdatedAt, info.LastActivityAt)
	project.MergeMax(&p.StarCount, info.Stars)
	project.MergeMax(&p.ForkCount, info.Forks)
	project.MergeMax(&p.OpenIssueCount, info.OpenIssues)
	project.MergeMax(&p.ClosedIssueCount, info.ClosedIssues)
	project.MergeMax(&p.ContributorCount, info.Contributors)
	project.MergeDescription(&p.Description, info.Description, i.opts.MinDescriptionLength)
	return nil
}

// RenderDetail renders the GitLab line with a git clone hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	if p.GitLabID == "" || p.GitLabURL == "" {
		return ""
	}
	return integrations.Detail{
		Title: "GitLab",
		URL:   p.GitLabURL,
		Metrics: integrations.Metrics(
			integrations.Contributors(p.ContributorCount),
			integrations.Forks(p.ForkCount),
			integrations.Issues(p.OpenIssueCount, p.ClosedIssueCount),
			integrations.Updated(p.UpdatedAt),
		),
		Hint: "git clone https://gitlab.com/" + p.GitLabID,
	}.Render(cfg)
}
