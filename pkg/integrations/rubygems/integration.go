package rubygems

import (
	"context"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
)

// Integration enriches gems published on RubyGems.org.
type Integration struct {
	client *Client
	opts   integrations.Options
}

// New creates the rubygems integration.
func New(opts integrations.Options) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), opts: opts}
}

func (i *Integration) Name() string { return project.RubyGems }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the gem record. Monthly downloads are averaged over the
// months since the project was created, if that is known.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.RubyGems)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, "https://rubygems.org/gems/"+pkg.ID)

	info, err := i.client.FetchGem(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		return err
	}
	if p.License == "" {
		for _, name := range info.Licenses {
			if l, ok := license.Get(name); ok {
				p.License = l.SPDXID
				break
			}
		}
	}
	if p.GitHubID == "" {
		p.GitHubID = integrations.GitHubIDFromURL(info.SourceCodeURI)
	}
	if p.GitHubID == "" {
		p.GitHubID = integrations.GitHubIDFromURL(info.HomepageURI)
	}
	project.MergeString(&p.Homepage, info.HomepageURI)
	project.MergeNewest(&p.UpdatedAt, info.ReleasedAt)
	project.MergeNewest(&pkg.LatestReleaseAt, info.ReleasedAt)
	project.MergeRelease(p, info.ReleasedAt, info.Version)
	project.MergeMax(&pkg.TotalDownloads, info.Downloads)
	project.MergeMax(&pkg.Dependents, info.Dependents)
	project.AddTo(&p.DependentCount, info.Dependents)

	if months := project.MonthsSince(i.opts.Clock(), p.CreatedAt); months >= 0 && info.Downloads > 0 {
		monthly := info.Downloads / max(1, months)
		pkg.MonthlyDownloads = monthly
		project.AddTo(&p.MonthlyDownloads, monthly)
	}
	project.MergeDescription(&p.Description, info.Description, i.opts.MinDescriptionLength)
	return nil
}

// RenderDetail renders the RubyGems line with a gem install hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.RubyGems)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	return integrations.Detail{
		Title:   "RubyGems",
		URL:     pkg.URL,
		Metrics: integrations.Metrics(integrations.Downloads(pkg.TotalDownloads), integrations.Dependents(pkg.Dependents), integrations.Updated(pkg.LatestReleaseAt)),
		Hint:    "gem install " + pkg.ID,
	}.Render(cfg)
}
