package integrations

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/project"
)

// Integration enriches project records from one external source and renders
// the source's line in a project's detail body.
//
// Enrich merges what the source reports into p using the project merge
// functions and returns an error when the lookup failed; the pipeline
// isolates that error to this integration and record. RenderDetail is pure
// and returns "" when the project is not present in the source.
type Integration interface {
	Name() string
	Enabled() bool
	Enrich(ctx context.Context, p *project.Project) error
	RenderDetail(p *project.Project, cfg *config.Configuration) string
}

// Options carries the settings shared by every integration.
type Options struct {
	// Cache stores raw responses; nil disables caching.
	Cache cache.Cache
	// CacheTTL bounds the age of cached responses.
	CacheTTL time.Duration
	// Refresh bypasses cached responses.
	Refresh bool
	// MinDescriptionLength is the length below which a fetched description
	// replaces the current one.
	MinDescriptionLength int
	// Logger receives debug output; nil discards it.
	Logger *log.Logger
	// Now returns the reference time for month arithmetic.
	Now func() time.Time
}

// Clock returns the reference time.
func (o Options) Clock() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Log returns the configured logger or a discarding one.
func (o Options) Log() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// TTL returns the cache TTL, defaulting to [cache.DefaultTTL].
func (o Options) TTL() time.Duration {
	if o.CacheTTL > 0 {
		return o.CacheTTL
	}
	return cache.DefaultTTL
}
