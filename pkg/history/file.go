package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	projectsSuffix = "_projects.csv"
	changesSuffix  = "_changes.md"
)

var csvColumns = []string{"name", "category", "projectrank", "star_count", "monthly_downloads", "show", "resource", "run_id"}

// FileStore keeps one CSV file per run in a folder.
//
// Reading is keyed by the header row, so files with extra or reordered
// columns (such as a leading index column) load as well.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The folder is created on the
// first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the history folder.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(date time.Time, suffix string) string {
	return filepath.Join(s.dir, date.Format(DateLayout)+suffix)
}

// Latest loads the lexicographically last *_projects.csv file.
func (s *FileStore) Latest(ctx context.Context) (*Snapshot, error) {
	files, err := s.files()
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return s.read(files[len(files)-1])
}

// Load reads the snapshot of one day.
func (s *FileStore) Load(ctx context.Context, date time.Time) (*Snapshot, error) {
	path := s.path(date, projectsSuffix)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, date.Format(DateLayout))
	}
	return s.read(path)
}

// List reads every snapshot file, newest first.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(files))
	for i := len(files) - 1; i >= 0; i-- {
		snap, err := s.read(files[i])
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{Date: snap.Date, RunID: snap.RunID, Projects: len(snap.Records)})
	}
	return out, nil
}

// Save writes the snapshot, replacing a file of the same day.
func (s *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history folder: %w", err)
	}
	f, err := os.Create(s.path(snap.Date, projectsSuffix))
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range snap.Records {
		row := []string{
			r.Name,
			r.Category,
			strconv.Itoa(r.ProjectRank),
			strconv.Itoa(r.StarCount),
			strconv.Itoa(r.MonthlyDownloads),
			strconv.FormatBool(r.Show),
			strconv.FormatBool(r.Resource),
			snap.RunID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return f.Close()
}

// SaveChanges writes YYYY-MM-DD_changes.md next to the snapshots.
func (s *FileStore) SaveChanges(ctx context.Context, date time.Time, markdown string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history folder: %w", err)
	}
	return os.WriteFile(s.path(date, changesSuffix), []byte(markdown), 0o644)
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*"+projectsSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (s *FileStore) read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	snap := &Snapshot{}
	base := strings.TrimSuffix(filepath.Base(path), projectsSuffix)
	if d, err := time.Parse(DateLayout, base); err == nil {
		snap.Date = d
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("read %s: missing name column", path)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		field := func(name string) string {
			if i, ok := col[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		rec := Record{
			Name:             field("name"),
			Category:         field("category"),
			ProjectRank:      parseInt(field("projectrank")),
			StarCount:        parseInt(field("star_count")),
			MonthlyDownloads: parseInt(field("monthly_downloads")),
			Show:             parseBool(field("show")),
			Resource:         parseBool(field("resource")),
		}
		if rec.Name == "" {
			continue
		}
		if snap.RunID == "" {
			snap.RunID = field("run_id")
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

// parseInt accepts integers and float renderings such as "12.0".
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.ToLower(s))
	return b
}
