package crates

import (
	"context"
	"errors"
	"strings"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/integrations/libio"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
)

// recentWindowMonths is the span crates.io counts recent downloads over.
const recentWindowMonths = 3

// Integration enriches projects published on crates.io.
type Integration struct {
	client *Client
	libio  *libio.Integration
	opts   integrations.Options
}

// New creates the cargo integration. lib may be nil.
func New(opts integrations.Options, lib *libio.Integration) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), libio: lib, opts: opts}
}

func (i *Integration) Name() string { return project.Cargo }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the libraries.io record and the crates.io crate.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.Cargo)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, "https://crates.io/crates/"+pkg.ID)

	var errs []error
	if err := i.libio.EnrichPackage(ctx, p, project.Cargo); err != nil {
		errs = append(errs, err)
	}

	info, err := i.client.FetchCrate(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	if p.License == "" {
		p.License = spdxFromExpression(info.License)
	}
	if p.GitHubID == "" {
		p.GitHubID = integrations.GitHubIDFromURL(info.Repository)
	}
	project.MergeString(&p.Homepage, info.HomePage)
	project.MergeOldest(&p.CreatedAt, info.CreatedAt)
	project.MergeNewest(&p.UpdatedAt, info.UpdatedAt)
	project.MergeNewest(&pkg.LatestReleaseAt, info.ReleasedAt)
	project.MergeRelease(p, info.ReleasedAt, info.Version)
	project.MergeMax(&p.ReleaseCount, info.VersionCount)
	project.MergeMax(&pkg.Dependents, info.Dependents)
	project.MergeMax(&pkg.TotalDownloads, info.Downloads)

	if monthly := info.RecentDownloads / recentWindowMonths; monthly > 0 {
		pkg.MonthlyDownloads = monthly
		project.AddTo(&p.MonthlyDownloads, monthly)
	}
	project.MergeDescription(&p.Description, info.Description, i.opts.MinDescriptionLength)
	return errors.Join(errs...)
}

// RenderDetail renders the cargo line with a cargo install hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.Cargo)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	return integrations.Detail{
		Title:   "Cargo",
		URL:     pkg.URL,
		Metrics: integrations.PackageMetrics(pkg),
		Hint:    "cargo install " + pkg.ID,
	}.Render(cfg)
}

// spdxFromExpression resolves the first known license of an expression such
// as "MIT OR Apache-2.0" or "MIT/Apache-2.0".
func spdxFromExpression(expr string) string {
	for _, part := range strings.FieldsFunc(expr, func(r rune) bool { return r == '/' || r == '(' || r == ')' }) {
		for _, id := range strings.Split(part, " OR ") {
			if l, ok := license.Get(strings.TrimSpace(id)); ok {
				return l.SPDXID
			}
		}
	}
	return ""
}
