package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/bestof/pkg/history"
	"github.com/matzehuels/bestof/pkg/pipeline"
)

func TestCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", home)
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestDocumentPath(t *testing.T) {
	if got := documentPath(nil); got != defaultDocument {
		t.Errorf("documentPath(nil) = %q, want %q", got, defaultDocument)
	}
	if got := documentPath([]string{"lists/ml.yaml"}); got != "lists/ml.yaml" {
		t.Errorf("documentPath = %q", got)
	}
}

func TestResolve(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "README.md")
	tests := []struct {
		doc, path, want string
	}{
		{"lists/projects.yaml", "README.md", filepath.Join("lists", "README.md")},
		{"projects.yaml", "history", "history"},
		{"lists/projects.yaml", abs, abs},
		{"lists/projects.yaml", "", ""},
	}
	for _, tt := range tests {
		if got := resolve(tt.doc, tt.path); got != tt.want {
			t.Errorf("resolve(%q, %q) = %q, want %q", tt.doc, tt.path, got, tt.want)
		}
	}
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	for _, name := range []string{"generate", "history", "serve", "cache", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.Flags().Lookup("verbose") != nil {
		t.Error("--verbose belongs to command(), not RootCommand")
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(pipeline.Stats{
		Added:        2,
		TrendingUp:   1,
		TrendingDown: 4,
		Dropped:      3,
		EnrichTime:   1500 * time.Millisecond,
	})
	for _, want := range []string{"2 added", "▲1", "▼4", "3 dropped", "enrich 1.5s"} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine missing %q: %s", want, line)
		}
	}
	if strings.Contains(statsLine(pipeline.Stats{}), "dropped") {
		t.Error("dropped shown without dropped projects")
	}
}

func TestOpenHistoryWithoutFolder(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{history.BackendFile, history.BackendSQLite} {
		store, err := openHistory(ctx, backend, "", "")
		if err != nil || store != nil {
			t.Errorf("openHistory(%s, \"\") = %v, %v; want nil store", backend, store, err)
		}
	}

	store, err := openHistory(ctx, history.BackendFile, t.TempDir(), "")
	if err != nil {
		t.Fatalf("openHistory: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*history.FileStore); !ok {
		t.Errorf("store = %T, want *history.FileStore", store)
	}
}

const noHistoryDocument = `
configuration:
  projects_history_folder: ""
  min_projectrank: 0
  min_stars: 0
  require_license: false
categories:
  - category: docs
    title: Documentation
projects:
  - name: Handbook
    homepage: https://handbook.example.com
    description: A handbook about running open-source projects.
    category: docs
`

func TestGenerateWithoutHistoryFolder(t *testing.T) {
	unsetEnv(t, "LIBRARIES_API_KEY")
	unsetEnv(t, "BESTOF_REDIS_URL")
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.yaml")
	if err := os.WriteFile(path, []byte(noHistoryDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	root := command(New(&bytes.Buffer{}, LogInfo))
	root.SetArgs([]string{"generate", path, "--no-cache", "--env-file", filepath.Join(dir, "missing.env")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatalf("README.md not written: %v", err)
	}
	if !strings.Contains(string(readme), "Handbook") {
		t.Errorf("README.md misses the project:\n%s", readme)
	}
	if _, err := os.Stat(filepath.Join(dir, "latest-changes.md")); err != nil {
		t.Errorf("latest-changes.md not written: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".csv") || strings.HasSuffix(e.Name(), ".db") {
			t.Errorf("unexpected history artifact %s", e.Name())
		}
	}
}
