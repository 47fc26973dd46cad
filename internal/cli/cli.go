// Package cli implements the bestof command-line interface.
//
// # Commands
//
//   - generate: enrich the projects of a document and write the best-of report
//   - history: list stored snapshots or show the records of one run
//   - serve: preview the generated report as HTML
//   - cache: manage the registry response cache
//   - completion: generate shell completion scripts
//
// # Settings
//
// API keys and backend locations are read from the environment, with a
// .env file next to the document loaded first (see [Settings]).
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes pipeline, cache and HTTP events to the logger.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bestof/pkg/buildinfo"
	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/history"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bestof"

	// defaultDocument is the document read when no path is given.
	defaultDocument = "projects.yaml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bestof generates ranked best-of lists of open-source projects",
		Long: `bestof reads a document of categorized projects, enriches every project with
metadata from GitHub, GitLab and package registries, ranks them and writes a
markdown best-of list together with a history of earlier runs.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backends
// =============================================================================

// newCache picks the response cache: none with noCache, Redis when
// BESTOF_REDIS_URL is set, else the file cache. An unusable cache directory
// disables caching.
func (c *CLI) newCache(ctx context.Context, s Settings, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if s.RedisURL != "" {
		return cache.NewRedisCache(ctx, s.RedisURL, appName+":")
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openHistory opens the history store of a run. Without a history folder
// the file and sqlite backends are off: the store is nil and trends are
// skipped.
func openHistory(ctx context.Context, backend, folder, mongoURI string) (history.Store, error) {
	if folder == "" && backend != history.BackendMongo {
		return nil, nil
	}
	return history.Open(ctx, backend, folder, mongoURI)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bestof/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// documentPath returns the document argument or the default document.
func documentPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return defaultDocument
}

// resolve joins a document-relative path onto the document's directory.
func resolve(doc, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(doc), path)
}
