package maven

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

// Integration enriches artifacts published on Maven Central.
type Integration struct {
	client *Client
	libio  *libio.Integration
	opts   integrations.Options
}

// New creates the maven integration. lib may be nil.
func New(opts integrations.Options, lib *libio.Integration) *Integration {
	return &Integration{client: NewClient(opts.Cache, opts.TTL()), libio: lib, opts: opts}
}

func (i *Integration) Name() string { return project.Maven }

func (i *Integration) Enabled() bool { return true }

// Enrich merges the libraries.io record and the Maven Central artifact.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	pkg := p.Package(project.Maven)
	if pkg == nil || pkg.ID == "" {
		return nil
	}
	project.MergeString(&pkg.URL, "https://search.maven.org/artifact/"+strings.ReplaceAll(pkg.ID, ":", "/"))

	var errs []error
	if err := i.libio.EnrichPackage(ctx, p, project.Maven); err != nil {
		errs = append(errs, err)
	}

	info, err := i.client.FetchArtifact(ctx, pkg.ID, i.opts.Refresh)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	if p.License == "" {
		if l, ok := license.Get(info.License); ok {
			p.License = l.SPDXID
		}
	}
	if p.GitHubID == "" {
		p.GitHubID = integrations.GitHubIDFromURL(info.SCMURL)
	}
	project.MergeString(&p.Homepage, info.URL)
	project.MergeNewest(&p.UpdatedAt, info.UpdatedAt)
	project.MergeNewest(&pkg.LatestReleaseAt, info.UpdatedAt)
	project.MergeRelease(p, info.UpdatedAt, info.Version)
	project.MergeMax(&p.ReleaseCount, info.VersionCount)
	project.MergeDescription(&p.Description, info.Description, i.opts.MinDescriptionLength)
	return errors.Join(errs...)
}

// RenderDetail renders the maven line with a dependency snippet. Ids that
// are not full coordinates get no line.
func (i *Integration) RenderDetail(p *project.Project, cfg *config.Configuration) string {
	pkg := p.Package(project.Maven)
	if pkg == nil || !strings.Contains(pkg.ID, ":") {
		return ""
	}
	group, artifact, _ := strings.Cut(pkg.ID, ":")
	artifact, _, _ = strings.Cut(artifact, ":")
	return integrations.Detail{
		Title:   "Maven",
		URL:     pkg.URL,
		Metrics: integrations.PackageMetrics(pkg),
		Hint: "<dependency>\n\t\t<groupId>" + group + "</groupId>\n\t\t<artifactId>" + artifact +
			"</artifactId>\n\t\t<version>[VERSION]</version>\n\t</dependency>",
	}.Render(cfg)
}
