package packagist

import (
	"context"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
)

// Integration enriches PHP packages published on Packagist.
type Integration struct {
	client *Client
	opts   integrations.Options
}

// New creates the packagist integration.
func New(opts integrations.Options) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), opts: opts}
}

func (i *Integration) Name() string { return project.Packagist }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the Packagist package record.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.Packagist)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, "https://packagist.org/packages/"+pkg.ID)

	info, err := i.client.FetchPackage(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		return err
	}
	if p.License == "" {
		if l, ok := license.Get(info.License); ok {
			p.License = l.SPDXID
		}
	}
	if p.GitHubID == "" {
		p.GitHubID = integrations.GitHubIDFromURL(info.Repository)
	}
	project.MergeString(&p.Homepage, info.HomePage)
	project.MergeOldest(&p.CreatedAt, info.CreatedAt)
	project.MergeNewest(&p.UpdatedAt, info.ReleasedAt)
	project.MergeNewest(&pkg.LatestReleaseAt, info.ReleasedAt)
	project.MergeRelease(p, info.ReleasedAt, info.Version)
	project.MergeMax(&p.ReleaseCount, info.VersionCount)
	project.MergeMax(&pkg.TotalDownloads, info.TotalDownloads)
	project.MergeMax(&pkg.Dependents, info.Dependents)
	project.AddTo(&p.DependentCount, info.Dependents)
	if info.MonthlyDownloads > 0 {
		pkg.MonthlyDownloads = info.MonthlyDownloads
		project.AddTo(&p.MonthlyDownloads, info.MonthlyDownloads)
	}
	project.MergeDescription(&p.Description, info.Description, i.opts.MinDescriptionLength)
	return nil
}

// RenderDetail renders the Packagist line with a composer require hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.Packagist)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	return integrations.Detail{
		Title:   "Packagist",
		URL:     pkg.URL,
		Metrics: integrations.PackageMetrics(pkg),
		Hint:    "composer require " + pkg.ID,
	}.Render(cfg)
}
