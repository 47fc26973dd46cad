// Package pipeline turns a best-of document into a rendered report.
//
// The stages run in a fixed order:
//
//  1. Dedup: drop later declarations of a case-insensitive name
//  2. Enrich: run every enabled integration against every project
//  3. Score: compute the projectrank and apply the visibility filters
//  4. Sort: order by the configured metric, resources first
//  5. Place: assign percentile medals per category
//  6. Trend: compare with the latest history snapshot
//  7. Categorize: fill the visible and hidden buckets of each category
//  8. Render: write the report, the change digest and a new snapshot
//
// Each stage is exported so it can be run and tested on its own. A [Runner]
// executes the whole sequence:
//
//	runner := pipeline.NewRunner(all.New(opts), history.NewFileStore("history"), logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{BaseDir: "."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Visible, "projects shown")
//
// Enrichment failures never abort a run: they are recorded per project as
// an [Outcome] and counted in [Stats]. Only an unreadable document, an
// unwritable output location or a cancelled context end a run with an error.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bestof/pkg/history"
	"github.com/matzehuels/bestof/pkg/project"
)

// DescriptionMaxLength bounds the processed description of every project.
const DescriptionMaxLength = 120

// LatestChangesFile is written next to the report on every run.
const LatestChangesFile = "latest-changes.md"

// DefaultWorkers enriches one project at a time.
const DefaultWorkers = 1

// Options controls one pipeline run.
type Options struct {
	// Workers bounds the number of projects enriched concurrently.
	Workers int
	// BaseDir resolves relative output, header and footer paths. Empty
	// means the working directory.
	BaseDir string
	// DryRun renders without writing files or saving a snapshot.
	DryRun bool
	// Now is the reference time of the run.
	Now func() time.Time
	// Logger receives progress output; nil uses the runner's logger.
	Logger *log.Logger
}

// SetDefaults fills unset options. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Projects holds every enriched record in sort order, including hidden
	// and dropped ones.
	Projects []*project.Project

	// Categories holds the categorized records in document order.
	Categories []*project.Category

	// Enrichment has one entry per project in input order.
	Enrichment []EnrichResult

	// Markdown is the rendered report.
	Markdown string

	// Changes is the rendered change digest.
	Changes string

	// Added and Trending are the trend results against the previous
	// snapshot; both are empty on a first run.
	Added    []string
	Trending map[string]int

	// Snapshot is the projection saved to the history store, nil on a dry
	// run or without a store.
	Snapshot *history.Snapshot

	// Files lists the files written, in write order.
	Files []string

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Declared     int
	Duplicates   int
	Failures     int
	Visible      int
	Hidden       int
	Dropped      int
	Added        int
	TrendingUp   int
	TrendingDown int

	EnrichTime time.Duration
	RenderTime time.Duration
}
