package goproxy

import (
	"context"
	"errors"
	"strings"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/integrations/libio"
	"github.com/matzehuels/bestof/pkg/project"
)

// Integration enriches Go modules.
type Integration struct {
	client *Client
	libio  *libio.Integration
	opts   integrations.Options
}

// New creates the Go integration. lib may be nil.
func New(opts integrations.Options, lib *libio.Integration) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), libio: lib, opts: opts}
}

func (i *Integration) Name() string { return project.Go }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the libraries.io record and the latest proxy version.
// Modules hosted on github.com also name their repository.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.Go)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, "https://pkg.go.dev/"+pkg.ID)
	if p.GitHubID == "" && strings.HasPrefix(pkg.ID, "github.com/") {
		p.GitHubID = integrations.GitHubIDFromURL("https://" + pkg.ID)
	}

	var errs []error
	if err := i.libio.EnrichPackage(ctx, p, project.Go); err != nil {
		errs = append(errs, err)
	}

	info, err := i.client.FetchModule(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	project.MergeNewest(&p.UpdatedAt, info.Time)
	project.MergeNewest(&pkg.LatestReleaseAt, info.Time)
	project.MergeRelease(p, info.Time, strings.TrimPrefix(info.Version, "v"))
	project.MergeMax(&p.ReleaseCount, info.VersionCount)
	return errors.Join(errs...)
}

// RenderDetail renders the Go line with a go install hint.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.Go)
	if pkg == nil || pkg.ID == "" {
		return ""
	}
	return integrations.Detail{
		Title:   "Go",
		URL:     pkg.URL,
		Metrics: integrations.PackageMetrics(pkg),
		Hint:    "go install " + pkg.ID,
	}.Render(cfg)
}
