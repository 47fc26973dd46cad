// Package integrations provides the enrichment sources of a best-of list.
//
// # Overview
//
// Every external source implements [Integration] in its own subpackage:
//
//   - [github]: GitHub REST API, dependents page and contributor count
//   - [gitlab]: GitLab REST API
//   - [libio]: libraries.io repository and package aggregation
//   - [pypi], [npm], [conda], [maven], [dockerhub], [crates], [goproxy],
//     [rubygems], [packagist]: package registries
//
// The [all] subpackage builds the ordered list the pipeline runs.
//
// # Client Pattern
//
// Registry clients embed [Client], which provides JSON requests with retry,
// rate-limit detection and response caching via [cache.Cache]:
//
//	type Client struct {
//		*integrations.Client
//		baseURL string
//	}
//
//	err := c.Cached(ctx, id, refresh, &info, func() error {
//		return c.Get(ctx, c.baseURL+"/"+id, &info)
//	})
//
// # Merging
//
// Enrich implementations never assign fetched values directly; they go
// through the merge functions of package project so that values reported by
// several sources combine the same way everywhere.
//
// # Rendering
//
// RenderDetail returns one [Detail] line per source, e.g.
//
//	- [PyPi](https://pypi.org/project/flask) (📥 12M / month · 📦 80K · ⏱️ 30.09.2024):
//
// [github]: github.com/matzehuels/bestof/pkg/integrations/github
// [gitlab]: github.com/matzehuels/bestof/pkg/integrations/gitlab
// [libio]: github.com/matzehuels/bestof/pkg/integrations/libio
// [pypi]: github.com/matzehuels/bestof/pkg/integrations/pypi
// [npm]: github.com/matzehuels/bestof/pkg/integrations/npm
// [conda]: github.com/matzehuels/bestof/pkg/integrations/conda
// [maven]: github.com/matzehuels/bestof/pkg/integrations/maven
// [dockerhub]: github.com/matzehuels/bestof/pkg/integrations/dockerhub
// [crates]: github.com/matzehuels/bestof/pkg/integrations/crates
// [goproxy]: github.com/matzehuels/bestof/pkg/integrations/goproxy
// [rubygems]: github.com/matzehuels/bestof/pkg/integrations/rubygems
// [packagist]: github.com/matzehuels/bestof/pkg/integrations/packagist
// [all]: github.com/matzehuels/bestof/pkg/integrations/all
// [cache.Cache]: github.com/matzehuels/bestof/pkg/cache.Cache
package integrations
