package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/history"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/integrations/all"
	"github.com/matzehuels/bestof/pkg/pipeline"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	workers int
	history string
	envFile string
	dryRun  bool
	noCache bool
	refresh bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{workers: pipeline.DefaultWorkers, history: history.BackendFile}

	cmd := &cobra.Command{
		Use:   "generate [projects.yaml]",
		Short: "Generate the best-of markdown list",
		Long: `Generate reads a projects document, enriches every project from GitHub,
GitLab and the package registries, and writes the markdown report, the
latest-changes digest and a history snapshot.

Relative paths in the document's configuration are resolved against the
document's directory.`,
		Example: `  # Generate README.md from projects.yaml
  bestof generate

  # Enrich four projects at a time and keep history in SQLite
  bestof generate projects.yaml --workers 4 --history sqlite

  # Render without writing anything
  bestof generate --dry-run`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, documentPath(args), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "number of projects enriched concurrently")
	cmd.Flags().StringVar(&opts.history, "history", opts.history, "history store: "+strings.Join(history.Backends(), ", "))
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "file with API keys loaded into the environment")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "render without writing files or saving a snapshot")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the registry response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached responses and fetch again")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, path string, opts generateOpts) error {
	ctx := cmd.Context()
	logger := c.Logger

	settings, err := loadSettings(resolve(path, opts.envFile))
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	doc, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg := &doc.Configuration

	backend, err := c.newCache(ctx, settings, opts.noCache)
	if err != nil {
		return err
	}
	defer backend.Close()

	if settings.GitHubToken == "" {
		printWarning("No GitHub token found; GitHub metadata will be missing")
		printDetail("Set GITHUB_TOKEN in the environment or in %s", opts.envFile)
	}

	list := all.New(all.Options{
		Options: integrations.Options{
			Cache:                backend,
			CacheTTL:             settings.CacheTTL,
			Refresh:              opts.refresh,
			MinDescriptionLength: cfg.MinDescriptionLength,
			Logger:               logger,
		},
		GitHubToken:     settings.GitHubToken,
		GitLabToken:     settings.GitLabToken,
		LibrariesAPIKey: settings.LibrariesAPIKey,
	})

	store, err := openHistory(ctx, opts.history, resolve(path, cfg.ProjectsHistoryFolder), settings.MongoURI)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	} else {
		logger.Info("no projects_history_folder, trend tracking disabled")
	}

	logger.Info("generating best-of list",
		"document", path,
		"projects", len(doc.Projects),
		"integrations", strings.Join(all.Names(list), ","),
		"workers", opts.workers,
		"history", opts.history)

	sw := startStopwatch(logger)
	runner := pipeline.NewRunner(list, store, logger)
	result, err := runner.Execute(ctx, doc, pipeline.Options{
		Workers: opts.workers,
		BaseDir: filepath.Dir(path),
		DryRun:  opts.dryRun,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	sw.stop("generated best-of list", "visible", result.Stats.Visible, "hidden", result.Stats.Hidden)

	printSuccess("%s", result.Summary())
	printStats(result.Stats)
	for _, f := range result.Files {
		printFile(f)
	}
	if opts.dryRun {
		printInfo("Dry run: no files written")
		return nil
	}
	printNextStep("Preview", appName+" serve "+path)
	return nil
}
