package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteFile is the database file name inside the history folder.
const SQLiteFile = "history.db"

// SQLiteStore keeps snapshots in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history folder: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
            date TEXT PRIMARY KEY,
            run_id TEXT NOT NULL,
            changes TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS records (
            date TEXT NOT NULL,
            position INTEGER NOT NULL,
            name TEXT NOT NULL,
            category TEXT,
            projectrank INTEGER,
            star_count INTEGER,
            monthly_downloads INTEGER,
            show INTEGER,
            resource INTEGER,
            PRIMARY KEY (date, position)
        );`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// Latest returns the snapshot with the greatest date.
func (s *SQLiteStore) Latest(ctx context.Context) (*Snapshot, error) {
	var key string
	err := s.db.QueryRowContext(ctx, `SELECT date FROM snapshots ORDER BY date DESC LIMIT 1`).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return s.load(ctx, key)
}

// Load returns the snapshot of one day.
func (s *SQLiteStore) Load(ctx context.Context, date time.Time) (*Snapshot, error) {
	return s.load(ctx, date.Format(DateLayout))
}

func (s *SQLiteStore) load(ctx context.Context, key string) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.db.QueryRowContext(ctx, `SELECT run_id FROM snapshots WHERE date = ?`, key).Scan(&snap.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot %s: %w", key, err)
	}
	snap.Date, _ = time.Parse(DateLayout, key)

	rows, err := s.db.QueryContext(ctx, `SELECT name, COALESCE(category, ''), projectrank, star_count, monthly_downloads, show, resource
        FROM records WHERE date = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.Category, &r.ProjectRank, &r.StarCount, &r.MonthlyDownloads, &r.Show, &r.Resource); err != nil {
			return nil, fmt.Errorf("scan records: %w", err)
		}
		snap.Records = append(snap.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return snap, nil
}

// List returns a summary per snapshot, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.date, s.run_id, COUNT(r.name)
        FROM snapshots s LEFT JOIN records r ON r.date = s.date
        GROUP BY s.date, s.run_id ORDER BY s.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var (
			key string
			sum Summary
		)
		if err := rows.Scan(&key, &sum.RunID, &sum.Projects); err != nil {
			return nil, fmt.Errorf("scan snapshots: %w", err)
		}
		sum.Date, _ = time.Parse(DateLayout, key)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Save replaces the snapshot of the same day in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	key := snap.Key()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE date = ?`, key); err != nil {
		return fmt.Errorf("delete records %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots(date, run_id) VALUES(?, ?)
        ON CONFLICT(date) DO UPDATE SET run_id=excluded.run_id`, key, snap.RunID); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", key, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records(date, position, name, category, projectrank, star_count, monthly_downloads, show, resource)
        VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, r := range snap.Records {
		if _, err := stmt.ExecContext(ctx, key, i, r.Name, r.Category, r.ProjectRank, r.StarCount, r.MonthlyDownloads, r.Show, r.Resource); err != nil {
			return fmt.Errorf("insert record %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

// SaveChanges stores the change digest on the snapshot row of that day.
func (s *SQLiteStore) SaveChanges(ctx context.Context, date time.Time, markdown string) error {
	key := date.Format(DateLayout)
	_, err := s.db.ExecContext(ctx, `INSERT INTO snapshots(date, run_id, changes) VALUES(?, '', ?)
        ON CONFLICT(date) DO UPDATE SET changes=excluded.changes`, key, markdown)
	if err != nil {
		return fmt.Errorf("save changes %s: %w", key, err)
	}
	return nil
}

// Changes returns the archived change digest of a day.
func (s *SQLiteStore) Changes(ctx context.Context, date time.Time) (string, error) {
	var md sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT changes FROM snapshots WHERE date = ?`, date.Format(DateLayout)).Scan(&md)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, date.Format(DateLayout))
	}
	if err != nil {
		return "", err
	}
	return md.String, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
