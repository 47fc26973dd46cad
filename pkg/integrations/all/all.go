// Package all assembles every integration in enrichment order.
package all

import (
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/integrations/conda"
	"github.com/matzehuels/bestof/pkg/integrations/crates"
	"github.com/matzehuels/bestof/pkg/integrations/dockerhub"
	"github.com/matzehuels/bestof/pkg/integrations/github"
	"github.com/matzehuels/bestof/pkg/integrations/gitlab"
	"github.com/matzehuels/bestof/pkg/integrations/goproxy"
	"github.com/matzehuels/bestof/pkg/integrations/libio"
	"github.com/matzehuels/bestof/pkg/integrations/maven"
	"github.com/matzehuels/bestof/pkg/integrations/npm"
	"github.com/matzehuels/bestof/pkg/integrations/packagist"
	"github.com/matzehuels/bestof/pkg/integrations/pypi"
	"github.com/matzehuels/bestof/pkg/integrations/rubygems"
)

// Options configures the integration set.
type Options struct {
	integrations.Options
	GitHubToken     string
	GitLabToken     string
	LibrariesAPIKey string
}

// New returns the integrations in enrichment order. Repository hosts come
// first so registry integrations see stars and creation dates; the
// libraries.io repository lookup runs after GitHub because it depends on
// the star count.
func New(opts Options) []integrations.Integration {
	lib := libio.New(opts.LibrariesAPIKey, opts.Options)
	return []integrations.Integration{
		github.New(opts.GitHubToken, opts.Options),
		gitlab.New(opts.GitLabToken, opts.Options),
		lib,
		pypi.New(opts.Options, lib),
		conda.New(opts.Options, lib),
		npm.New(opts.Options, lib),
		maven.New(opts.Options, lib),
		dockerhub.New(opts.Options),
		crates.New(opts.Options, lib),
		goproxy.New(opts.Options, lib),
		rubygems.New(opts.Options),
		packagist.New(opts.Options),
	}
}

// Names returns the integration names in enrichment order.
func Names(list []integrations.Integration) []string {
	names := make([]string, len(list))
	for i, in := range list {
		names[i] = in.Name()
	}
	return names
}
