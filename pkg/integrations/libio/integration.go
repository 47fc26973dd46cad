package libio

import (
	"context"
	"fmt"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/project"
)

// Name identifies the integration.
const Name = "libio"

// Small repositories are rarely indexed by libraries.io; the repository
// lookup is skipped for GitHub projects at or below this star count.
const minRepoStars = 20

// Platforms maps registry names to libraries.io platform names. Registries
// missing here are not indexed.
var Platforms = map[string]string{
	project.PyPI:  "pypi",
	project.NPM:   "npm",
	project.Conda: "conda",
	project.Maven: "maven",
	project.Cargo: "cargo",
	project.Go:    "go",
}

// Integration looks up repositories on libraries.io and serves the package
// lookups of the registry integrations. A nil *Integration is disabled.
type Integration struct {
	client *Client
	opts   integrations.Options
}

// New creates the integration. An empty apiKey disables it.
func New(apiKey string, opts integrations.Options) *Integration {
	if apiKey == "" {
		return &Integration{opts: opts}
	}
	return &Integration{client: NewClient(opts.Cache, opts.TTL(), apiKey), opts: opts}
}

func (i *Integration) Name() string { return Name }

func (i *Integration) Enabled() bool { return i != nil && i.client != nil }

// Enrich merges the libraries.io record of the project's GitHub repository.
func (i *Integration) Enrich(ctx context.Context, p *project.Project) error {
	if !i.Enabled() || p.GitHubID == "" {
		return nil
	}
	if p.HasGitHub() && p.StarCount <= minRepoStars {
		return nil
	}
	info, err := i.client.FetchRepo(ctx, p.GitHubID, i.opts.Refresh)
	if err != nil {
		return err
	}
	MergeRepo(p, info, i.opts.MinDescriptionLength)
	return nil
}

// RenderDetail returns "": repository metrics are shown on the GitHub line.
func (i *Integration) RenderDetail(*project.Project, *config.Configuration) string { return "" }

// EnrichPackage merges the libraries.io record of the project's package on
// registry. It is a no-op when the integration is disabled or the registry
// is not indexed.
func (i *Integration) EnrichPackage(ctx context.Context, p *project.Project, registry string) error {
	if !i.Enabled() {
		return nil
	}
	platform, ok := Platforms[registry]
	pkg := p.Package(registry)
	if !ok || pkg == nil || pkg.ID == "" {
		return nil
	}
	info, err := i.client.FetchPackage(ctx, platform, pkg.ID, i.opts.Refresh)
	if err != nil {
		return fmt.Errorf("%s: %w", registry, err)
	}
	MergePackage(p, registry, info, i.opts.MinDescriptionLength)
	return nil
}
