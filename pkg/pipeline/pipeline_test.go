package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bestof/pkg/config"
	bterrors "github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/history"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/project"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func quiet() *log.Logger { return log.New(io.Discard) }

type fakeIntegration struct {
	name   string
	enrich func(p *project.Project) error
	calls  atomic.Int32
}

func (f *fakeIntegration) Name() string  { return f.name }
func (f *fakeIntegration) Enabled() bool { return true }

func (f *fakeIntegration) Enrich(_ context.Context, p *project.Project) error {
	f.calls.Add(1)
	if f.enrich == nil {
		return nil
	}
	return f.enrich(p)
}

func (f *fakeIntegration) RenderDetail(p *project.Project, _ *config.Configuration) string {
	if p.GitHubURL == "" {
		return ""
	}
	return "- [GitHub](" + p.GitHubURL + ")\n"
}

func TestDedup(t *testing.T) {
	specs := []project.Spec{{Name: "Flask"}, {Name: "django"}, {Name: "flask"}, {}, {}}
	got, dups := Dedup(specs, quiet())
	if dups != 1 {
		t.Errorf("duplicates = %d, want 1", dups)
	}
	if len(got) != 4 || got[0].Name != "Flask" || got[1].Name != "django" {
		t.Errorf("Dedup() = %+v", got)
	}
}

func TestCalcProjectRank(t *testing.T) {
	w := config.DefaultWeights()
	tests := []struct {
		name string
		p    project.Project
		want int
	}{
		{"homepage description and permissive license", project.Project{Homepage: "https://x.io", Description: "A long enough text", License: "MIT"}, 3},
		{"risky license counts once", project.Project{License: "GPL-3.0"}, 1},
		{"zero metrics are skipped", project.Project{ContributorCount: 0, CommitCount: 0, MonthlyDownloads: 0}, 0},
		{"single contributor applies offset", project.Project{ContributorCount: 1}, -1},
		{"stars", project.Project{StarCount: 100}, 2},
		{"resource", project.Project{Resource: true, StarCount: 100000, License: "MIT"}, 0},
		{"recent semver release", project.Project{ReleaseCount: 2, LatestReleaseNumber: "1.2.3", LatestReleaseAt: testNow.AddDate(0, -1, 0)}, 3},
		{"mature and updated", project.Project{CreatedAt: testNow.AddDate(-2, 0, 0), UpdatedAt: testNow}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcProjectRank(&tt.p, w, testNow); got != tt.want {
				t.Errorf("CalcProjectRank() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyFilters(t *testing.T) {
	cfg := &config.Configuration{MinDescriptionLength: 10}
	base := project.Project{Name: "x", Homepage: "https://x.io"}

	tests := []struct {
		name   string
		mutate func(p *project.Project)
		cfg    func(c *config.Configuration)
		want   bool
	}{
		{"description of ten runes", func(p *project.Project) { p.Description = "0123456789" }, nil, true},
		{"description of nine runes", func(p *project.Project) { p.Description = "012345678" }, nil, false},
		{"multibyte runes count once", func(p *project.Project) { p.Description = "ééééééééééé" }, nil, true},
		{"no homepage", func(p *project.Project) { p.Description = "0123456789"; p.Homepage = "" }, nil, false},
		{"resource ignores filters", func(p *project.Project) { p.Resource = true }, nil, true},
		{"unknown stars pass", func(p *project.Project) { p.Description = "0123456789" }, func(c *config.Configuration) { c.MinStars = 100 }, true},
		{"few stars", func(p *project.Project) { p.Description = "0123456789"; p.StarCount = 5 }, func(c *config.Configuration) { c.MinStars = 100 }, false},
		{"license required", func(p *project.Project) { p.Description = "0123456789" }, func(c *config.Configuration) { c.RequireLicense = true }, false},
		{"license not allowed", func(p *project.Project) { p.Description = "0123456789"; p.License = "GPL-3.0" }, func(c *config.Configuration) { c.AllowedLicenses = []string{"MIT"} }, false},
		{"license alias allowed", func(p *project.Project) { p.Description = "0123456789"; p.License = "Apache License 2.0" }, func(c *config.Configuration) { c.AllowedLicenses = []string{"Apache-2.0"} }, true},
		{"dead", func(p *project.Project) { p.Description = "0123456789"; p.LastCommitAt = testNow.AddDate(-2, 0, 0) }, func(c *config.Configuration) { c.ProjectDeadMonths = 12 }, false},
		{"declared show wins", func(p *project.Project) { b := true; p.Spec.Show = &b }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			c := *cfg
			tt.mutate(&p)
			if tt.cfg != nil {
				tt.cfg(&c)
			}
			ApplyFilters(&p, &c, testNow)
			if p.Show != tt.want {
				t.Errorf("Show = %v, want %v", p.Show, tt.want)
			}
		})
	}
}

func TestCalcPlacing(t *testing.T) {
	var projects []*project.Project
	for i := 1; i <= 10; i++ {
		projects = append(projects, &project.Project{Name: fmt.Sprint(i), Category: "a", ProjectRank: i})
	}
	res := &project.Project{Name: "res", Category: "a", Resource: true, ProjectRank: 99}
	projects = append(projects, res)
	CalcPlacing(projects)

	want := []int{3, 3, 3, 3, 3, 3, 2, 2, 2, 1}
	for i, p := range projects[:10] {
		if p.Placing != want[i] {
			t.Errorf("rank %d placing = %d, want %d", p.ProjectRank, p.Placing, want[i])
		}
		if i > 0 && p.Placing > projects[i-1].Placing {
			t.Errorf("placing not monotone at rank %d", p.ProjectRank)
		}
	}
	if res.Placing != 0 {
		t.Errorf("resource placed: %d", res.Placing)
	}
}

func TestPercentile(t *testing.T) {
	vs := []float64{1, 2, 3, 4}
	for q, want := range map[float64]float64{0: 1, 50: 2.5, 90: 3.7, 100: 4} {
		if got := Percentile(vs, q); got < want-1e-9 || got > want+1e-9 {
			t.Errorf("Percentile(%v) = %v, want %v", q, got, want)
		}
	}
	if got := Percentile(nil, 90); got != 0 {
		t.Errorf("Percentile(nil) = %v", got)
	}
}

func TestChangesIdempotent(t *testing.T) {
	projects := []*project.Project{
		{Name: "a", ProjectRank: 10},
		{Name: "b", ProjectRank: 4},
		{Name: "docs", Resource: true},
	}
	snap := history.NewSnapshot(testNow, projects)
	added, trending := Changes(projects, snap)
	if len(added) != 0 || len(trending) != 0 {
		t.Errorf("Changes() against own snapshot = %v, %v", added, trending)
	}

	projects[1].ProjectRank = 7
	projects = append(projects, &project.Project{Name: "c", ProjectRank: 3})
	added, trending = Changes(projects, snap)
	if !slices.Equal(added, []string{"c"}) || trending["b"] != 3 || len(trending) != 1 {
		t.Errorf("Changes() = %v, %v", added, trending)
	}

	if added, trending := Changes(projects, nil); added != nil || len(trending) != 0 {
		t.Errorf("Changes(nil) = %v, %v", added, trending)
	}
}

func TestApplyChanges(t *testing.T) {
	projects := []*project.Project{
		{Name: "c"}, {Name: "a"}, {Name: "b"}, {Name: "d"}, {Name: "e"}, {Name: "new"},
	}
	trending := map[string]int{"a": 5, "b": 3, "c": 1, "d": -2, "e": -4}
	up, down := ApplyChanges(projects, []string{"new"}, trending, 2)
	if up != 2 || down != 2 {
		t.Fatalf("ApplyChanges() = %d, %d, want 2, 2", up, down)
	}
	got := map[string]int{}
	for _, p := range projects {
		got[p.Name] = p.Trending
	}
	want := map[string]int{"a": 5, "b": 3, "c": 0, "d": -2, "e": -4, "new": 0}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("%s trending = %d, want %d", name, got[name], w)
		}
	}
	if !projects[5].NewAddition || projects[0].NewAddition {
		t.Errorf("new addition flags wrong")
	}
}

func TestSort(t *testing.T) {
	projects := []*project.Project{
		{Name: "low", ProjectRank: 1, StarCount: 900},
		{Name: "high", ProjectRank: 9, StarCount: 10},
		{Name: "res", Resource: true},
		{Name: "tie", ProjectRank: 9, StarCount: 20},
	}
	names := func() []string {
		var out []string
		for _, p := range projects {
			out = append(out, p.Name)
		}
		return out
	}

	Sort(projects, config.SortByProjectRank)
	if got := names(); !slices.Equal(got, []string{"res", "tie", "high", "low"}) {
		t.Errorf("by projectrank = %v", got)
	}
	Sort(projects, config.SortByStarCount)
	if got := names(); !slices.Equal(got, []string{"res", "low", "tie", "high"}) {
		t.Errorf("by stars = %v", got)
	}
}

func TestCategorize(t *testing.T) {
	cats := PrepareCategories([]project.Category{{ID: "web", Title: "Web"}})
	if len(cats) != 2 || cats[1].ID != project.OthersCategory || cats[1].Title != OthersTitle {
		t.Fatalf("PrepareCategories() = %+v", cats)
	}

	projects := []*project.Project{
		{Name: "a", Homepage: "https://a.io", Category: "web", Show: true},
		{Name: "b", Homepage: "https://b.io", Category: "web"},
		{Name: "c", Category: "web", Show: true},
		{Homepage: "https://anon.io", Show: true},
		{Name: "d", Homepage: "https://d.io", Category: "unknown", Show: true},
	}
	for _, p := range projects {
		AssignCategory(p, cats, quiet())
	}
	if projects[4].Category != project.OthersCategory {
		t.Errorf("unknown category kept: %q", projects[4].Category)
	}

	dropped := Categorize(projects, cats, quiet())
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(cats[0].Projects) != 1 || len(cats[0].HiddenProjects) != 1 || len(cats[1].Projects) != 1 {
		t.Errorf("buckets = %d/%d/%d", len(cats[0].Projects), len(cats[0].HiddenProjects), len(cats[1].Projects))
	}
}

func TestEnrichIsolatesFailures(t *testing.T) {
	boom := &fakeIntegration{name: "boom", enrich: func(*project.Project) error { panic("kaboom") }}
	failing := &fakeIntegration{name: "failing", enrich: func(*project.Project) error { return errors.New("offline") }}
	ok := &fakeIntegration{name: "ok", enrich: func(p *project.Project) error {
		p.StarCount = 42
		return nil
	}}

	p := project.New(project.Spec{Name: "x"})
	res := EnrichProject(context.Background(), p, []integrations.Integration{boom, failing, ok}, quiet())

	if p.StarCount != 42 {
		t.Errorf("later integration did not run")
	}
	failures := res.Failures()
	if len(failures) != 2 {
		t.Fatalf("failures = %v", failures)
	}
	if failures[0].Integration != "boom" || !strings.Contains(failures[0].Err.Error(), "kaboom") {
		t.Errorf("panic outcome = %+v", failures[0])
	}
}

func TestEnrichKeepsOrder(t *testing.T) {
	var specs []project.Spec
	for i := 0; i < 25; i++ {
		specs = append(specs, project.Spec{Name: fmt.Sprintf("p%02d", i)})
	}
	slow := &fakeIntegration{name: "slow", enrich: func(p *project.Project) error {
		if strings.HasSuffix(p.Name, "0") {
			time.Sleep(5 * time.Millisecond)
		}
		return nil
	}}

	projects, results, err := Enrich(context.Background(), specs, []integrations.Integration{slow}, 4, quiet())
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	for i, p := range projects {
		if p.Name != specs[i].Name || results[i].Project != specs[i].Name {
			t.Errorf("position %d = %s, want %s", i, p.Name, specs[i].Name)
		}
	}
	if n := slow.calls.Load(); n != 25 {
		t.Errorf("calls = %d, want 25", n)
	}
}

func TestEnrichCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Enrich(ctx, []project.Spec{{Name: "a"}}, nil, 1, quiet())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Enrich() error = %v, want context.Canceled", err)
	}
}

// testDocument is the three-record scenario under the default configuration:
// a fully enriched project, a project with a two character description and a
// case-only duplicate of the first.
func testDocument() *config.Document {
	return &config.Document{
		Configuration: config.Default(),
		Categories:    []project.Category{{ID: "web", Title: "Web"}},
		Projects: []project.Spec{
			{Name: "flask", Homepage: "https://flask.io", Description: "The Python micro framework", License: "MIT", Category: "web"},
			{Name: "short", Homepage: "https://short.io", Description: "ok", Category: "web"},
			{Name: "FLASK", Homepage: "https://other.io", Category: "web"},
		},
	}
}

func testIntegrations() []integrations.Integration {
	return []integrations.Integration{&fakeIntegration{name: "github", enrich: func(p *project.Project) error {
		if p.Name == "flask" {
			p.GitHubURL = "https://github.com/pallets/flask"
			p.StarCount = 500
			p.ForkCount = 100
			p.ReleaseCount = 40
			p.LatestReleaseNumber = "3.0.3"
			p.LatestReleaseAt = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
			p.CreatedAt = time.Date(2010, 4, 6, 0, 0, 0, 0, time.UTC)
			p.UpdatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		}
		return nil
	}}}
}

func TestRunnerExecute(t *testing.T) {
	dir := t.TempDir()
	store := history.NewFileStore(filepath.Join(dir, "history"))
	runner := NewRunner(testIntegrations(), store, quiet())
	opts := Options{BaseDir: dir, Workers: 2, Now: func() time.Time { return testNow }}

	result, err := runner.Execute(context.Background(), testDocument(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.Duplicates != 1 || len(result.Projects) != 2 {
		t.Errorf("duplicates = %d, projects = %d", result.Stats.Duplicates, len(result.Projects))
	}
	web := result.Categories[0]
	if len(web.Projects) != 1 || web.Projects[0].Name != "flask" {
		t.Fatalf("visible = %+v", web.Projects)
	}
	if len(web.HiddenProjects) != 1 || web.HiddenProjects[0].Name != "short" {
		t.Errorf("hidden = %+v", web.HiddenProjects)
	}
	// 9 rule points, stars round(ln 500 / 2) = 3, forks round(ln 100 / 2) = 2.
	if flask := web.Projects[0]; flask.ProjectRank != 14 || flask.Placing != 1 {
		t.Errorf("flask rank = %d placing = %d, want 14 and 1", flask.ProjectRank, flask.Placing)
	}
	if flask := web.Projects[0]; flask.ProjectRank < config.Default().MinProjectRank {
		t.Errorf("flask rank %d below the default floor", flask.ProjectRank)
	}

	if !strings.Contains(result.Markdown, "- [Web](#web) _1 projects_\n") {
		t.Errorf("toc entry missing:\n%s", result.Markdown)
	}
	if strings.Contains(result.Markdown, "[Others]") {
		t.Errorf("empty others listed in toc")
	}
	if !strings.Contains(result.Markdown, "- [GitHub](https://github.com/pallets/flask)") {
		t.Errorf("integration detail missing")
	}
	if result.Changes != "Nothing changed from last update." {
		t.Errorf("first run changes = %q", result.Changes)
	}

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil || string(readme) != result.Markdown {
		t.Errorf("README.md not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, LatestChangesFile)); err != nil {
		t.Errorf("latest changes not written: %v", err)
	}
	if len(result.Files) != 2 {
		t.Errorf("files = %v", result.Files)
	}

	snap, err := store.Latest(context.Background())
	if err != nil || snap == nil || len(snap.Records) != 2 {
		t.Fatalf("snapshot = %+v, %v", snap, err)
	}

	again, err := runner.Execute(context.Background(), testDocument(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if again.Markdown != result.Markdown || len(again.Added) != 0 || len(again.Trending) != 0 {
		t.Errorf("second run is not idempotent: added=%v trending=%v", again.Added, again.Trending)
	}
}

func TestRunnerWithoutHistory(t *testing.T) {
	dir := t.TempDir()
	doc := testDocument()
	doc.Configuration.ProjectsHistoryFolder = ""
	runner := NewRunner(testIntegrations(), nil, quiet())

	result, err := runner.Execute(context.Background(), doc, Options{BaseDir: dir, Now: func() time.Time { return testNow }})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Snapshot != nil || len(result.Added) != 0 || len(result.Trending) != 0 {
		t.Errorf("history used without a store: snapshot=%v added=%v trending=%v", result.Snapshot, result.Added, result.Trending)
	}
	if result.Changes != "Nothing changed from last update." {
		t.Errorf("changes = %q", result.Changes)
	}
	if _, err := os.Stat(filepath.Join(dir, "README.md")); err != nil {
		t.Errorf("README.md not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "history")); !os.IsNotExist(err) {
		t.Errorf("history folder created: %v", err)
	}
}

func TestRunnerDryRun(t *testing.T) {
	dir := t.TempDir()
	store := history.NewFileStore(filepath.Join(dir, "history"))
	runner := NewRunner(testIntegrations(), store, quiet())

	result, err := runner.Execute(context.Background(), testDocument(), Options{BaseDir: dir, DryRun: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Markdown == "" || len(result.Files) != 0 || result.Snapshot != nil {
		t.Errorf("dry run result = %d bytes, files %v", len(result.Markdown), result.Files)
	}
	if _, err := os.Stat(filepath.Join(dir, "README.md")); !os.IsNotExist(err) {
		t.Errorf("dry run wrote README.md")
	}
}

func TestRunnerUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(testIntegrations(), nil, quiet())

	_, err := runner.Execute(context.Background(), testDocument(), Options{BaseDir: blocker})
	if !bterrors.Is(err, bterrors.ErrCodeOutputUnwritable) {
		t.Errorf("Execute() error = %v, want OUTPUT_UNWRITABLE", err)
	}
}
