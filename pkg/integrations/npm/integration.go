package npm

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/integrations/libio"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
)

// Integration enriches projects published on npm.
type Integration struct {
	client *Client
	libio  *libio.Integration
	opts   integrations.Options
}

// New creates the npm integration. lib may be nil.
func New(opts integrations.Options, lib *libio.Integration) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), libio: lib, opts: opts}
}

func (i *Integration) Name() string { return project.NPM }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the libraries.io record, the registry document and the
// downloads of the last month.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.NPM)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, "https://www.npmjs.com/package/"+pkg.ID)

	var errs []error
	if err := i.libio.EnrichPackage(ctx, p, project.NPM); err != nil {
		errs = append(errs, err)
	}

	if info, err := i.client.FetchPackage(ctx, pkg.ID, i.opts.Refresh); err != nil {
		errs = append(errs, err)
	} else {
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
		project.MergeMax(&p.ReleaseCount, info.ReleaseCount)
		project.MergeDescription(&p.Description, info.Description, i.opts.MinDescriptionLength)
	}

	n, err := i.client.FetchMonthlyDownloads(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		errs = append(errs, fmt.Errorf("monthly downloads: %w", err))
	} else if n > 0 {
		pkg.MonthlyDownloads = n
		project.AddTo(&p.MonthlyDownloads, n)
	}
	return errors.Join(errs...)
}

// RenderDetail renders the npm line with an npm install hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.NPM)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	return integrations.Detail{
		Title:   "NPM",
		URL:     pkg.URL,
		Metrics: integrations.PackageMetrics(pkg),
		Hint:    "npm install " + pkg.ID,
	}.Render(cfg)
}
