package pypi

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

// Integration enriches projects published on PyPI.
type Integration struct {
	client *Client
	libio  *libio.Integration
	opts   integrations.Options
}

// New creates the PyPI integration. lib may be nil.
func New(opts integrations.Options, lib *libio.Integration) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), libio: lib, opts: opts}
}

func (i *Integration) Name() string { return project.PyPI }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the libraries.io record, the PyPI metadata and the monthly
// downloads from pypistats.org. Each lookup fails independently.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.PyPI)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, "https://pypi.org/project/"+pkg.ID)

	var errs []error
	if err := i.libio.EnrichPackage(ctx, p, project.PyPI); err != nil {
		errs = append(errs, err)
	}

	if info, err := i.client.FetchPackage(ctx, pkg.ID, i.opts.Refresh); err != nil {
		errs = append(errs, err)
	} else {
		i.merge(p, pkg, info)
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

func (i *Integration) merge(p *project.Project, pkg *project.Package, info *PackageInfo) {
	if p.License == "" {
		if l, ok := license.Get(info.License); ok {
			p.License = l.SPDXID
		}
	}
	if p.GitHubID == "" {
		if owner, repo, ok := integrations.ExtractRepoURL(integrations.GitHubRepoRE, info.ProjectURLs, info.HomePage); ok {
			p.GitHubID = owner + "/" + repo
		}
	}
	project.MergeString(&p.Homepage, info.HomePage)
	project.MergeNewest(&p.UpdatedAt, info.ReleasedAt)
	project.MergeNewest(&pkg.LatestReleaseAt, info.ReleasedAt)
	project.MergeRelease(p, info.ReleasedAt, info.Version)
	project.MergeMax(&p.ReleaseCount, info.ReleaseCount)
	project.MergeDescription(&p.Description, info.Summary, i.opts.MinDescriptionLength)
}

// RenderDetail renders the PyPI line with a pip install hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.PyPI)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	return integrations.Detail{
		Title:   "PyPi",
		URL:     pkg.URL,
		Metrics: integrations.PackageMetrics(pkg),
		Hint:    "pip install " + pkg.ID,
	}.Render(cfg)
}
