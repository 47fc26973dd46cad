package github

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/project"
	"github.com/matzehuels/bestof/pkg/textutil"
)

// Name identifies the integration.
const Name = "github"

// Integration enriches projects with a github_id.
type Integration struct {
	client *Client
	token  string
	opts   integrations.Options
}

// New creates the GitHub integration. Without a token the API lookup is
// skipped and only the detail line is rendered.
func New(token string, opts integrations.Options) *Integration {
	return &Integration{client: NewClient(opts.Cache, token, opts.TTL()), token: token, opts: opts}
}

func (i *Integration) Name() string { return Name }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the repository record of p.GitHubID.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	if p.GitHubID == "" {
		return nil
	}
	log := i.opts.Log()
	if i.token == "" {
		log.Debug("no GitHub token, skipping API lookup", "github_id", p.GitHubID)
		return nil
	}
	id, err := ParseRepoID(p.GitHubID)
	if err != nil {
		log.Info("invalid github id", "project", p.Name, "github_id", p.GitHubID, "err", err)
		return nil
	}

	info, err := i.client.Fetch(ctx, id.Owner, id.Name, i.opts.Refresh)
	if err != nil {
		return err
	}
	if info.FullName != "" && textutil.SimplifyStr(info.FullName) != textutil.SimplifyStr(id.String()) {
		log.Info("GitHub repository was renamed", "from", p.GitHubID, "to", info.FullName)
	}
	merge(p, info, i.opts)
	return nil
}

func merge(p *project.Project, info *RepoInfo, opts integrations.Options) {
	project.MergeString(&p.GitHubURL, info.URL)
	project.MergeString(&p.Homepage, p.GitHubURL)
	project.MergeString(&p.Name, info.Name)
	project.MergeString(&p.License, info.License)

	project.MergeOldest(&p.CreatedAt, info.CreatedAt)
	project.MergeNewest(&p.UpdatedAt, info.PushedAt)
	project.MergeNewest(&p.LastCommitAt, info.LastCommitAt)

	project.MergeMax(&p.StarCount, info.Stars)
	project.MergeMax(&p.ForkCount, info.Forks)
	project.MergeMax(&p.OpenIssueCount, info.OpenIssues)
	project.MergeMax(&p.ClosedIssueCount, info.ClosedIssues)
	project.MergeMax(&p.ContributorCount, info.Contributors)
	if info.Commits > 0 {
		p.CommitCount = info.Commits
	}

	var (
		downloads int
		first     time.Time
	)
	for _, r := range info.Releases {
		if !r.PublishedAt.IsZero() && (first.IsZero() || r.PublishedAt.Before(first)) {
			first = r.PublishedAt
		}
		if r.Stable && !r.PublishedAt.IsZero() {
			project.MergeRelease(p, r.PublishedAt, strings.TrimSpace(strings.TrimPrefix(r.Tag, "v")))
		}
		downloads += r.Downloads
	}
	project.MergeMax(&p.ReleaseCount, len(info.Releases))
	if downloads > 0 {
		p.ReleaseDownloads = downloads
		if !first.IsZero() {
			project.AddTo(&p.MonthlyDownloads, downloads/max(1, project.DiffMonths(opts.Clock(), first)))
		}
	}

	project.MergeDescription(&p.Description, info.Description, opts.MinDescriptionLength)

	if deps := info.DependentRepos + info.DependentPackage; deps > 0 {
		project.AddTo(&p.DependentCount, deps)
		p.GitHubDependents = deps
	}
}

// RenderDetail renders the GitHub line with a git clone hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	if p.GitHubID == "" {
		return ""
	}
	return integrations.Detail{
		Title: "GitHub",
		URL:   p.GitHubURL,
		Metrics: integrations.Metrics(
			integrations.Contributors(p.ContributorCount),
			integrations.Forks(p.ForkCount),
			integrations.Downloads(p.ReleaseDownloads),
			integrations.Dependents(p.GitHubDependents),
			integrations.Issues(p.OpenIssueCount, p.ClosedIssueCount),
			integrations.Updated(p.LastCommitAt),
		),
		Hint: "git clone https://github.com/" + p.GitHubID,
	}.Render(cfg)
}
