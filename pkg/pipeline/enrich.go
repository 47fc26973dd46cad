package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/observability"
	"github.com/matzehuels/bestof/pkg/project"
	"github.com/matzehuels/bestof/pkg/textutil"
)

// Dedup keeps the first declaration of every case-insensitive name and
// reports how many later ones were dropped. Declarations without a name are
// kept; they are dropped at categorization.
func Dedup(specs []project.Spec, logger *log.Logger) ([]project.Spec, int) {
	seen := make(map[string]bool, len(specs))
	out := make([]project.Spec, 0, len(specs))
	dropped := 0
	for _, s := range specs {
		if s.Name != "" {
			key := project.Key(s.Name)
			if seen[key] {
				dropped++
				orDiscard(logger).Info("duplicate project ignored", "project", s.Name)
				continue
			}
			seen[key] = true
		}
		out = append(out, s)
	}
	return out, dropped
}

// Outcome is the result of one integration call.
type Outcome struct {
	Integration string
	Err         error
}

// EnrichResult lists the integration calls made for one project.
type EnrichResult struct {
	Project  string
	Outcomes []Outcome
	Duration time.Duration
}

// Failures returns the outcomes that carry an error.
func (r EnrichResult) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// EnrichProject runs every enabled integration against p in list order.
// Errors and panics are isolated to the call that raised them. Afterwards
// updated_at defaults to created_at.
func EnrichProject(ctx context.Context, p *project.Project, list []integrations.Integration, logger *log.Logger) EnrichResult {
	logger = orDiscard(logger)
	start := time.Now()
	observability.Pipeline().OnEnrichStart(ctx, p.Name)

	res := EnrichResult{Project: p.Name}
	for _, in := range list {
		if !in.Enabled() {
			continue
		}
		err := safeEnrich(ctx, in, p)
		res.Outcomes = append(res.Outcomes, Outcome{Integration: in.Name(), Err: err})
		if err != nil {
			logger.Debug("enrichment failed", "project", p.Name, "integration", in.Name(), "err", err)
		}
	}

	if p.UpdatedAt.IsZero() && !p.CreatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	res.Duration = time.Since(start)
	observability.Pipeline().OnEnrichComplete(ctx, p.Name, len(res.Failures()), res.Duration)
	return res
}

func safeEnrich(ctx context.Context, in integrations.Integration, p *project.Project) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v\n%s", in.Name(), r, debug.Stack())
		}
	}()
	return in.Enrich(ctx, p)
}

// Enrich builds and enriches one record per declaration. Up to workers
// projects are enriched at once; results keep the input order. Only a
// cancelled context returns an error.
func Enrich(ctx context.Context, specs []project.Spec, list []integrations.Integration, workers int, logger *log.Logger) ([]*project.Project, []EnrichResult, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger = orDiscard(logger)
	projects := make([]*project.Project, len(specs))
	results := make([]EnrichResult, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := project.New(s)
			results[i] = EnrichProject(gctx, p, list, logger)
			projects[i] = p
			logger.Debug("enriched project", "project", p.Name, "failures", len(results[i].Failures()), "duration", results[i].Duration)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("enrich: %w", err)
	}
	return projects, results, nil
}

// Finalize scores and filters an enriched record, then re-applies the
// declaration so declared values win over fetched ones and processes the
// description.
func Finalize(p *project.Project, cfg *config.Configuration, now time.Time) {
	p.ProjectRank = CalcProjectRank(p, cfg.ProjectRankWeights, now)
	ApplyFilters(p, cfg, now)
	p.ApplySpec()
	if p.Description != "" {
		p.Description = textutil.ProcessDescription(p.Description, DescriptionMaxLength)
	}
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
