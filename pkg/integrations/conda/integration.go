package conda

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

// Integration enriches projects published on conda channels.
type Integration struct {
	client *Client
	libio  *libio.Integration
	opts   integrations.Options
}

// New creates the conda integration. lib may be nil.
func New(opts integrations.Options, lib *libio.Integration) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), libio: lib, opts: opts}
}

func (i *Integration) Name() string { return project.Conda }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the anaconda.org package record. libraries.io only indexes
// the default channel, so channel-qualified ids skip it.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.Conda)
	if pkg == nil || pkg.ID == "" {
		return nil
	}

	var errs []error
	if strings.Contains(pkg.ID, "/") {
		project.MergeString(&pkg.URL, "https://anaconda.org/"+pkg.ID)
	} else {
		project.MergeString(&pkg.URL, "https://anaconda.org/"+DefaultChannel+"/"+pkg.ID)
		if err := i.libio.EnrichPackage(ctx, p, project.Conda); err != nil {
			errs = append(errs, err)
		}
	}

	info, err := i.client.FetchPackage(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	if p.License == "" {
		if l, ok := license.Get(info.License); ok {
			p.License = l.SPDXID
		}
	}
	if p.GitHubID == "" {
		p.GitHubID = integrations.GitHubIDFromURL(info.DevURL)
	}
	project.MergeString(&p.Homepage, info.Home)
	project.MergeNewest(&p.UpdatedAt, info.ReleasedAt)
	project.MergeNewest(&pkg.LatestReleaseAt, info.ReleasedAt)
	project.MergeRelease(p, info.ReleasedAt, info.LatestVersion)
	project.MergeMax(&p.ReleaseCount, info.VersionCount)
	project.MergeMax(&pkg.TotalDownloads, info.TotalDownloads)
	project.MergeDescription(&p.Description, info.Summary, i.opts.MinDescriptionLength)
	return errors.Join(errs...)
}

// RenderDetail renders the conda line with a conda install hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.Conda)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	channel, name := SplitID(pkg.ID)
	return integrations.Detail{
		Title:   "Conda",
		URL:     pkg.URL,
		Metrics: integrations.Metrics(integrations.Downloads(pkg.TotalDownloads), integrations.Dependents(pkg.Dependents), integrations.Updated(pkg.LatestReleaseAt)),
		Hint:    "conda install -c " + channel + " " + name,
	}.Render(cfg)
}
