// Package storage provides the SQLite journal of finished runs.
// Each row keeps the outcome and the encoded replay needed to re-simulate it.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished run.
type RunEntry struct {
	ID        int64
	Vehicle   string
	Seed      int64
	Phase     string // "game_over" or "delivered"
	Distance  int
	Lives     int
	Ticks     uint64
	Replay    []byte // Encoded replay; empty in List results
	CreatedAt time.Time
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

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
			vehicle TEXT NOT NULL,
			seed INTEGER NOT NULL,
			phase TEXT NOT NULL,
			distance INTEGER NOT NULL DEFAULT 0,
			lives INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			replay BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_vehicle ON runs(vehicle);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
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

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(e RunEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (vehicle, seed, phase, distance, lives, ticks, replay)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Vehicle, e.Seed, e.Phase, e.Distance, e.Lives, int64(e.Ticks), e.Replay,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// ListRuns returns the most recent runs, newest first, without replay data.
// An empty vehicle lists every vehicle.
func (s *Store) ListRuns(vehicle string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, vehicle, seed, phase, distance, lives, ticks, created_at
		 FROM runs
		 WHERE ? = '' OR vehicle = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		vehicle, vehicle, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var ticks int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Vehicle, &e.Seed, &e.Phase, &e.Distance, &e.Lives, &ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Ticks = uint64(ticks)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LoadRun returns a run with its replay data.
func (s *Store) LoadRun(id int64) (RunEntry, error) {
	var e RunEntry
	var ticks int64
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, vehicle, seed, phase, distance, lives, ticks, replay, created_at
		 FROM runs
		 WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Vehicle, &e.Seed, &e.Phase, &e.Distance, &e.Lives, &ticks, &e.Replay, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return RunEntry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return RunEntry{}, fmt.Errorf("storage: cannot query run: %w", err)
	}

	e.Ticks = uint64(ticks)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// DeleteRun removes a run from the journal.
func (s *Store) DeleteRun(id int64) error {
	res, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// CountRuns returns how many runs each vehicle has in the journal.
func (s *Store) CountRuns() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT vehicle, COUNT(*) FROM runs GROUP BY vehicle`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var vehicle string
		var n int
		if err := rows.Scan(&vehicle, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan count row: %w", err)
		}
		counts[vehicle] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return counts, nil
}

// parseTime handles the driver returning either time.Time or a string.
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
