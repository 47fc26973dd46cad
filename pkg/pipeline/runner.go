package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/history"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/observability"
	"github.com/matzehuels/bestof/pkg/project"
	"github.com/matzehuels/bestof/pkg/render"
)

// Runner executes the pipeline with a fixed set of integrations and an
// optional history store.
//
// The Runner holds no per-run state. It does not own the store; callers
// close it.
type Runner struct {
	Integrations []integrations.Integration
	History      history.Store
	Logger       *log.Logger
}

// NewRunner creates a runner. A nil store disables trend detection and
// snapshots; a nil logger uses the default logger.
func NewRunner(list []integrations.Integration, store history.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Integrations: list, History: store, Logger: logger}
}

func (r *Runner) options(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	return opts
}

// Collect runs every stage before trend detection: dedup, enrichment,
// scoring and filtering, sorting, placing and categorization.
func (r *Runner) Collect(ctx context.Context, doc *config.Document, opts Options) (*Result, error) {
	opts = r.options(opts)
	logger := opts.Logger
	cfg := &doc.Configuration
	now := opts.Now()

	result := &Result{Trending: map[string]int{}}
	result.Stats.Declared = len(doc.Projects)

	specs, dups := Dedup(doc.Projects, logger)
	result.Stats.Duplicates = dups

	enrichStart := time.Now()
	projects, outcomes, err := Enrich(ctx, specs, r.Integrations, opts.Workers, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.EnrichTime = time.Since(enrichStart)
	result.Enrichment = outcomes
	for _, o := range outcomes {
		result.Stats.Failures += len(o.Failures())
	}
	logger.Info("enriched projects",
		"projects", len(projects),
		"failures", result.Stats.Failures,
		"duration", result.Stats.EnrichTime)

	categories := PrepareCategories(doc.Categories)
	for _, p := range projects {
		Finalize(p, cfg, now)
		AssignCategory(p, categories, logger)
	}
	Sort(projects, cfg.SortBy)
	CalcPlacing(projects)

	result.Stats.Dropped = Categorize(projects, categories, logger)
	for _, c := range categories {
		result.Stats.Visible += len(c.Projects)
		result.Stats.Hidden += len(c.HiddenProjects)
	}
	result.Projects = projects
	result.Categories = categories
	return result, nil
}

// Trend compares the collected projects with the latest snapshot and marks
// trending and added projects. A missing or unreadable history yields no
// changes.
func (r *Runner) Trend(ctx context.Context, result *Result, cfg *config.Configuration, logger *log.Logger) {
	if r.History == nil {
		return
	}
	snap, err := r.History.Latest(ctx)
	if err != nil {
		logger.Warn("history unavailable, skipping trends", "err", err)
		return
	}
	if snap == nil {
		logger.Info("no previous snapshot, skipping trends")
		return
	}
	added, trending := Changes(result.Projects, snap)
	up, down := ApplyChanges(result.Projects, added, trending, cfg.MaxTrendingProjects)
	result.Added, result.Trending = added, trending
	result.Stats.Added = len(added)
	result.Stats.TrendingUp, result.Stats.TrendingDown = up, down
	logger.Info("compared with previous snapshot",
		"date", snap.Key(),
		"added", len(added),
		"up", up,
		"down", down)
}

// Execute runs the whole pipeline: collect, trend, render and, unless
// DryRun is set, save the snapshot and write the report files.
func (r *Runner) Execute(ctx context.Context, doc *config.Document, opts Options) (*Result, error) {
	opts = r.options(opts)
	logger := opts.Logger
	cfg := &doc.Configuration
	now := opts.Now()

	result, err := r.Collect(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	r.Trend(ctx, result, cfg, logger)

	output := resolve(opts.BaseDir, cfg.MarkdownOutputFile)
	ropts := render.Options{
		Config:       cfg,
		Labels:       doc.Labels,
		Integrations: r.Integrations,
		Header:       readTemplate(resolve(opts.BaseDir, cfg.MarkdownHeaderFile), logger),
		Footer:       readTemplate(resolve(opts.BaseDir, cfg.MarkdownFooterFile), logger),
		Now:          now,
	}

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, output)
	result.Markdown = render.Markdown(result.Categories, ropts)
	result.Changes = render.Changes(result.Projects, ropts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, output, len(result.Markdown), result.Stats.RenderTime, nil)

	if cfg.GenerateTOC {
		if missing := render.VerifyTOC([]byte(result.Markdown)); len(missing) > 0 {
			logger.Warn("table of contents links without heading", "links", missing)
		}
	}

	if opts.DryRun {
		logger.Info("dry run, nothing written", "output", output)
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputUnwritable, err, "create output directory")
	}

	if r.History != nil {
		snap := history.NewSnapshot(now, named(result.Projects))
		if err := r.History.Save(ctx, snap); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOutputUnwritable, err, "save history snapshot")
		}
		if err := r.History.SaveChanges(ctx, snap.Date, result.Changes); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOutputUnwritable, err, "save change digest")
		}
		result.Snapshot = snap
		logger.Info("saved history snapshot", "date", snap.Key(), "run", snap.RunID, "records", len(snap.Records))
	}

	changesPath := filepath.Join(filepath.Dir(output), LatestChangesFile)
	for _, f := range []struct {
		path    string
		content string
	}{
		{changesPath, result.Changes},
		{output, result.Markdown},
	} {
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOutputUnwritable, err, "write %s", f.path)
		}
		result.Files = append(result.Files, f.path)
	}

	logger.Info("wrote report",
		"output", output,
		"visible", result.Stats.Visible,
		"hidden", result.Stats.Hidden,
		"bytes", len(result.Markdown))
	return result, nil
}

// Summary is a one-line description of a run for CLI output.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d projects (%d shown, %d hidden), %d duplicates, %d failed lookups",
		r.Stats.Declared, r.Stats.Visible, r.Stats.Hidden, r.Stats.Duplicates, r.Stats.Failures)
}

func named(projects []*project.Project) []*project.Project {
	out := make([]*project.Project, 0, len(projects))
	for _, p := range projects {
		if p.Name != "" {
			out = append(out, p)
		}
	}
	return out
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

func readTemplate(path string, logger *log.Logger) string {
	text, err := render.ReadTemplate(path)
	if err != nil {
		logger.Warn("template not found, skipping", "path", path)
		return ""
	}
	return text
}
