package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	bterrors "github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/project"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewSnapshot(t *testing.T) {
	projects := []*project.Project{
		{Name: "flask", Category: "web", ProjectRank: 30, StarCount: 60000, Show: true},
		{Name: "awesome-docs", Resource: true, Show: true},
	}
	snap := NewSnapshot(time.Date(2024, 3, 5, 17, 4, 0, 0, time.UTC), projects)

	if snap.Key() != "2024-03-05" {
		t.Errorf("Key() = %q", snap.Key())
	}
	if snap.RunID == "" {
		t.Error("run id not set")
	}
	if len(snap.Records) != 2 || !snap.Records[1].Resource {
		t.Errorf("records = %+v", snap.Records)
	}
	if got := snap.Ranks(); got["flask"] != 30 || got["awesome-docs"] != 0 {
		t.Errorf("Ranks() = %v", got)
	}
	if NewSnapshot(time.Now(), nil).RunID == snap.RunID {
		t.Error("run ids must be unique")
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	latest, err := s.Latest(ctx)
	if err != nil || latest != nil {
		t.Fatalf("empty Latest() = %v, %v", latest, err)
	}
	if _, err := s.Load(ctx, day("2024-01-01")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}

	older := &Snapshot{Date: day("2024-01-07"), RunID: "a", Records: []Record{
		{Name: "flask", ProjectRank: 20, StarCount: 100},
	}}
	newer := &Snapshot{Date: day("2024-01-14"), RunID: "b", Records: []Record{
		{Name: "flask", Category: "web", ProjectRank: 22, StarCount: 150, Show: true},
		{Name: "Django", ProjectRank: 25, MonthlyDownloads: 1000, Show: true},
		{Name: "docs", Resource: true},
	}}
	for _, snap := range []*Snapshot{newer, older} {
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save(%s) error: %v", snap.Key(), err)
		}
	}

	latest, err = s.Latest(ctx)
	if err != nil || latest == nil {
		t.Fatalf("Latest() = %v, %v", latest, err)
	}
	if latest.Key() != "2024-01-14" || latest.RunID != "b" || len(latest.Records) != 3 {
		t.Errorf("Latest() = %+v", latest)
	}
	if latest.Records[0] != newer.Records[0] || latest.Records[2] != newer.Records[2] {
		t.Errorf("records round trip: %+v", latest.Records)
	}

	got, err := s.Load(ctx, day("2024-01-07"))
	if err != nil || got.Ranks()["flask"] != 20 {
		t.Errorf("Load() = %+v, %v", got, err)
	}

	replaced := &Snapshot{Date: day("2024-01-14"), RunID: "c", Records: []Record{{Name: "flask", ProjectRank: 23}}}
	if err := s.Save(ctx, replaced); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].RunID != "c" || list[0].Projects != 1 || list[1].Projects != 1 {
		t.Errorf("List() = %+v", list)
	}

	if err := s.SaveChanges(ctx, day("2024-01-14"), "## 📈 Trending Up\n"); err != nil {
		t.Errorf("SaveChanges() error: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	s := NewFileStore(dir)
	testStore(t, s)

	if _, err := os.Stat(filepath.Join(dir, "2024-01-14_changes.md")); err != nil {
		t.Errorf("changes archive missing: %v", err)
	}
}

func TestFileStoreReadsForeignColumns(t *testing.T) {
	dir := t.TempDir()
	csv := ",name,github_id,projectrank,star_count,show,resource\n" +
		"0,flask,pallets/flask,31.0,61000.0,True,\n" +
		"1,,,,,,\n" +
		"2,awesome,,0,,False,True\n"
	if err := os.WriteFile(filepath.Join(dir, "2023-12-01_projects.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := NewFileStore(dir).Latest(context.Background())
	if err != nil || snap == nil {
		t.Fatalf("Latest() = %v, %v", snap, err)
	}
	if snap.Key() != "2023-12-01" || len(snap.Records) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	want := Record{Name: "flask", ProjectRank: 31, StarCount: 61000, Show: true}
	if snap.Records[0] != want {
		t.Errorf("record = %+v, want %+v", snap.Records[0], want)
	}
	if !snap.Records[1].Resource {
		t.Error("resource flag lost")
	}
}

func TestFileStoreLatestIsLexicographicallyLast(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2024-02-01_projects.csv", "2024-10-01_projects.csv", "2024-09-30_projects.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("name,projectrank\nx,1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	snap, err := NewFileStore(dir).Latest(context.Background())
	if err != nil || snap.Key() != "2024-10-01" {
		t.Errorf("Latest() = %v, %v", snap, err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", SQLiteFile))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)

	md, err := s.Changes(context.Background(), day("2024-01-14"))
	if err != nil || md != "## 📈 Trending Up\n" {
		t.Errorf("Changes() = %q, %v", md, err)
	}
	latest, err := s.Latest(context.Background())
	if err != nil || latest.RunID != "c" {
		t.Errorf("SaveChanges must keep the run id, got %+v, %v", latest, err)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("BESTOF_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BESTOF_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := OpenMongo(ctx, uri, "bestof_test_"+time.Now().Format("150405"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		s.snapshots.Database().Drop(ctx)
		s.Close()
	}()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, "", dir, "")
	if _, ok := s.(*FileStore); err != nil || !ok {
		t.Errorf("default backend = %T, %v", s, err)
	}
	s, err = Open(ctx, BackendSQLite, dir, "")
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if _, err := os.Stat(filepath.Join(dir, SQLiteFile)); err != nil {
		t.Errorf("sqlite file missing: %v", err)
	}
	for _, backend := range []string{"", BackendFile, BackendSQLite} {
		if _, err := Open(ctx, backend, "", ""); !bterrors.Is(err, bterrors.ErrCodeInvalidConfig) {
			t.Errorf("Open(%q) without folder error = %v, want INVALID_CONFIG", backend, err)
		}
	}
	if _, err := Open(ctx, BackendMongo, dir, ""); err == nil {
		t.Error("mongo without uri must fail")
	}
	if _, err := Open(ctx, "postgres", dir, ""); err == nil {
		t.Error("unknown backend must fail")
	}
}
