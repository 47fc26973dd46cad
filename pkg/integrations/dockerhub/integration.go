package dockerhub

import (
	"context"
	"strings"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/project"
)

// Integration enriches projects that publish images on Docker Hub.
type Integration struct {
	client *Client
	opts   integrations.Options
}

// New creates the Docker Hub integration.
func New(opts integrations.Options) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), opts: opts}
}

func (i *Integration) Name() string { return project.DockerHub }

func (i *Integration) Enabled() bool { return true }

// ImageURL returns the Docker Hub page of an image id.
func ImageURL(id string) string {
	if strings.Contains(id, "/") {
		return "https://hub.docker.com/r/" + id
	}
	return "https://hub.docker.com/r/_/" + id
}

// Enrich merges the repository record. Stars count toward the project's
// stars. Monthly pulls are averaged over the months since the project was
// created, if that is known.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.DockerHub)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, ImageURL(pkg.ID))

	info, err := i.client.FetchImage(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		return err
	}
	project.MergeNewest(&p.UpdatedAt, info.UpdatedAt)
	project.MergeNewest(&pkg.LatestReleaseAt, info.UpdatedAt)
	project.MergeOldest(&p.CreatedAt, info.RegisteredAt)

	pkg.Stars = info.Stars
	project.AddTo(&p.StarCount, info.Stars)
	pkg.TotalDownloads = info.Pulls

	if months := project.MonthsSince(i.opts.Clock(), p.CreatedAt); months >= 0 && info.Pulls > 0 {
		monthly := info.Pulls / max(1, months)
		pkg.MonthlyDownloads = monthly
		project.AddTo(&p.MonthlyDownloads, monthly)
	}
	project.MergeDescription(&p.Description, info.Description, i.opts.MinDescriptionLength)
	return nil
}

// RenderDetail renders the Docker Hub line with a docker pull hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.DockerHub)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	return integrations.Detail{
		Title:   "Docker Hub",
		URL:     pkg.URL,
		Metrics: integrations.Metrics(integrations.Downloads(pkg.TotalDownloads), integrations.Stars(pkg.Stars), integrations.Updated(pkg.LatestReleaseAt)),
		Hint:    "docker pull " + pkg.ID,
	}.Render(cfg)
}
