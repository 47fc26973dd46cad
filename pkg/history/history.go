// Package history persists a minimal projection of every run so the next run
// can detect trends.
//
// A [Snapshot] is immutable once saved: it records the date of the run, a
// run id and one [Record] per project. Three [Store] backends exist:
//
//   - [FileStore]: one YYYY-MM-DD_projects.csv per run in the history folder
//     (default, compatible with the CSV files older generators wrote)
//   - [SQLiteStore]: a history.db file in the history folder
//   - [MongoStore]: a MongoDB database, selected with BESTOF_MONGO_URI
//
// The latest snapshot is the one with the greatest date; two runs on the same
// day replace each other.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bestof/pkg/project"
)

// DateLayout is the date format of snapshot keys and file names.
const DateLayout = "2006-01-02"

// ErrNotFound is returned by Load when no snapshot exists for a date.
var ErrNotFound = errors.New("history snapshot not found")

// Record is the persisted projection of one project.
type Record struct {
	Name             string `bson:"name"`
	Category         string `bson:"category"`
	ProjectRank      int    `bson:"projectrank"`
	StarCount        int    `bson:"star_count"`
	MonthlyDownloads int    `bson:"monthly_downloads"`
	Show             bool   `bson:"show"`
	Resource         bool   `bson:"resource"`
}

// Snapshot is the dated export of one run.
type Snapshot struct {
	Date    time.Time `bson:"date"`
	RunID   string    `bson:"run_id"`
	Records []Record  `bson:"records"`
}

// Key returns the date key of the snapshot.
func (s *Snapshot) Key() string { return s.Date.Format(DateLayout) }

// Ranks maps project names to their projectrank.
func (s *Snapshot) Ranks() map[string]int {
	ranks := make(map[string]int, len(s.Records))
	for _, r := range s.Records {
		ranks[r.Name] = r.ProjectRank
	}
	return ranks
}

// Summary describes a stored snapshot without its records.
type Summary struct {
	Date     time.Time
	RunID    string
	Projects int
}

// Store reads and writes snapshots.
type Store interface {
	// Latest returns the most recent snapshot, or nil when none exists.
	Latest(ctx context.Context) (*Snapshot, error)
	// Load returns the snapshot of a date or ErrNotFound.
	Load(ctx context.Context, date time.Time) (*Snapshot, error)
	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]Summary, error)
	Save(ctx context.Context, s *Snapshot) error
	// SaveChanges archives the change digest of a run.
	SaveChanges(ctx context.Context, date time.Time, markdown string) error
	Close() error
}

// NewSnapshot projects the records of a run. The date is truncated to the
// day; every snapshot gets a fresh run id.
func NewSnapshot(date time.Time, projects []*project.Project) *Snapshot {
	s := &Snapshot{
		Date:    Day(date),
		RunID:   uuid.NewString(),
		Records: make([]Record, 0, len(projects)),
	}
	for _, p := range projects {
		s.Records = append(s.Records, Record{
			Name:             p.Name,
			Category:         p.Category,
			ProjectRank:      p.ProjectRank,
			StarCount:        p.StarCount,
			MonthlyDownloads: p.MonthlyDownloads,
			Show:             p.Show,
			Resource:         p.Resource,
		})
	}
	return s
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
