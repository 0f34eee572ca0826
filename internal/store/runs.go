package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses recorded in the ledger.
const (
	RunCompleted = "completed"
	RunEmpty     = "empty"
	RunFailed    = "failed"
)

// RunRecord is one row of the pipeline run ledger.
type RunRecord struct {
	ID         int64     `json:"id"`
	Prefix     string    `json:"prefix"`
	Username   string    `json:"username"`
	MaxTweets  int       `json:"max_tweets"`
	Fetched    int       `json:"fetched"`
	Events     int       `json:"events"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the wall-clock duration of the run.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// DurationDisplay formats the run duration for the dashboard.
func (r RunRecord) DurationDisplay() string {
	return r.Duration().Round(time.Millisecond).String()
}

// Runs is a SQLite-backed ledger of past pipeline runs. It is observability
// only: ledger failures never abort a run.
type Runs struct {
	db *sql.DB
}

// OpenRuns opens (or creates) the run ledger at dbPath.
func OpenRuns(dbPath string) (*Runs, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	r := &Runs{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the underlying database.
func (r *Runs) Close() error {
	return r.db.Close()
}

func (r *Runs) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		prefix TEXT NOT NULL,
		username TEXT NOT NULL,
		max_tweets INTEGER,
		fetched INTEGER,
		events INTEGER,
		status TEXT NOT NULL,
		error TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Record inserts one run into the ledger.
func (r *Runs) Record(rec RunRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (prefix, username, max_tweets, fetched, events,
			status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Prefix, rec.Username, rec.MaxTweets, rec.Fetched, rec.Events,
		rec.Status, rec.Error, rec.StartedAt, rec.FinishedAt)
	return err
}

// Recent returns the most recent runs, newest first.
func (r *Runs) Recent(limit int) ([]RunRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, prefix, username, max_tweets, fetched, events,
			status, error, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		err := rows.Scan(&rec.ID, &rec.Prefix, &rec.Username, &rec.MaxTweets,
			&rec.Fetched, &rec.Events, &rec.Status, &rec.Error,
			&rec.StartedAt, &rec.FinishedAt)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
