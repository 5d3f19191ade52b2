// Package storage provides SQLite-based persistence for timing reports.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gameshell/internal/profiling"
)

// Store manages the SQLite database connection for timing persistence.
type Store struct {
	db *sql.DB
}

// Run is one shell session: a core driven by a frontend until it exits.
type Run struct {
	ID        int64
	RunID     string
	CoreID    string
	Frontend  string
	Ticks     uint64
	StartedAt time.Time
	EndedAt   time.Time // Zero while the run is still going
}

// IntervalSummary aggregates every stored report entry of one interval.
type IntervalSummary struct {
	Name    string
	Count   uint64
	Reports int
	Mean    time.Duration
	Min     time.Duration
	Max     time.Duration
}

// CounterSummary is the total of one counter over a run.
type CounterSummary struct {
	Name  string
	Total uint64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			core_id TEXT NOT NULL,
			frontend TEXT NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_core_id ON runs(core_id);

		CREATE TABLE IF NOT EXISTS timing_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			count INTEGER NOT NULL,
			samples INTEGER NOT NULL,
			mean_ns INTEGER NOT NULL,
			min_ns INTEGER NOT NULL,
			max_ns INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_timing_entries_run ON timing_entries(run_id, name);

		CREATE TABLE IF NOT EXISTS timing_counters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			value INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_timing_counters_run ON timing_counters(run_id, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun records the beginning of a run.
// Returns the ID of the inserted record.
func (s *Store) StartRun(runID, coreID, frontend string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (run_id, core_id, frontend) VALUES (?, ?, ?)",
		runID, coreID, frontend,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot start run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// FinishRun stores the final tick count and end time of a run.
func (s *Store) FinishRun(runID string, ticks uint64) error {
	res, err := s.db.Exec(
		"UPDATE runs SET ticks = ?, ended_at = CURRENT_TIMESTAMP WHERE run_id = ?",
		int64(ticks), runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: unknown run %q", runID)
	}
	return nil
}

// SaveReport stores one timing report for a run in a single transaction.
// Empty reports are ignored.
func (s *Store) SaveReport(runID string, rep profiling.Report) error {
	if rep.Empty() {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range rep.Entries {
		if _, err := tx.Exec(
			`INSERT INTO timing_entries (run_id, name, count, samples, mean_ns, min_ns, max_ns)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, e.Name, int64(e.Count), e.Samples,
			int64(e.Mean), int64(e.Min), int64(e.Max),
		); err != nil {
			return fmt.Errorf("storage: cannot save timing entry %s: %w", e.Name, err)
		}
	}

	for _, c := range rep.Counters {
		if _, err := tx.Exec(
			"INSERT INTO timing_counters (run_id, name, value) VALUES (?, ?, ?)",
			runID, c.Name, int64(c.Value),
		); err != nil {
			return fmt.Errorf("storage: cannot save counter %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit report: %w", err)
	}
	return nil
}

// RecentRuns retrieves the most recent runs, optionally for one core.
func (s *Store) RecentRuns(coreID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, core_id, frontend, ticks, started_at, ended_at
		 FROM runs
		 WHERE ? = '' OR core_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		coreID, coreID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ticks int64
		var startedAt, endedAt any
		if err := rows.Scan(&r.ID, &r.RunID, &r.CoreID, &r.Frontend, &ticks, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Ticks = uint64(ticks)
		r.StartedAt = parseTime(startedAt)
		r.EndedAt = parseTime(endedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Intervals summarises every interval stored for a run, ordered by name.
func (s *Store) Intervals(runID string) ([]IntervalSummary, error) {
	rows, err := s.db.Query(
		`SELECT name, SUM(count), COUNT(*), AVG(mean_ns), MIN(min_ns), MAX(max_ns)
		 FROM timing_entries
		 WHERE run_id = ?
		 GROUP BY name
		 ORDER BY name`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query intervals: %w", err)
	}
	defer rows.Close()

	var out []IntervalSummary
	for rows.Next() {
		var e IntervalSummary
		var count, minNS, maxNS int64
		var meanNS float64
		if err := rows.Scan(&e.Name, &count, &e.Reports, &meanNS, &minNS, &maxNS); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Count = uint64(count)
		e.Mean = time.Duration(meanNS)
		e.Min = time.Duration(minNS)
		e.Max = time.Duration(maxNS)
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// Counters totals every counter stored for a run, ordered by name.
func (s *Store) Counters(runID string) ([]CounterSummary, error) {
	rows, err := s.db.Query(
		`SELECT name, SUM(value)
		 FROM timing_counters
		 WHERE run_id = ?
		 GROUP BY name
		 ORDER BY name`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query counters: %w", err)
	}
	defer rows.Close()

	var out []CounterSummary
	for rows.Next() {
		var c CounterSummary
		var total int64
		if err := rows.Scan(&c.Name, &total); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.Total = uint64(total)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// ClearRuns deletes every run and its reports.
func (s *Store) ClearRuns() error {
	for _, table := range []string{"timing_entries", "timing_counters", "runs"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
