// Package store persists cross-lesson performance in SQLite. The engine
// never touches it; hosts load a progress record at startup and save one
// result row per concluded lesson.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nathoo/tutorcore/engine/progress"
	"github.com/nathoo/tutorcore/types"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Result is one concluded lesson for one session.
type Result struct {
	SessionID  string
	LessonID   string
	Tier       types.Tier
	Correct    int
	Total      int
	Passed     bool
	FinishedAt time.Time
}

// Summary aggregates a session's results.
type Summary struct {
	Lessons int
	Correct int
	Total   int
	Passes  int
}

// SQLiteStore persists sessions and lesson results. Single writer per
// session.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates the parent directory if needed and opens the database.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			created_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS lesson_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			tier TEXT NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			passed INTEGER NOT NULL DEFAULT 0,
			finished_ts TEXT NOT NULL,
			FOREIGN KEY(session_id) REFERENCES sessions(id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// NewSession creates a session row and returns its generated ID.
func (s *SQLiteStore) NewSession(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, name, created_ts) VALUES(?,?,?)`,
		id, name, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// SessionExists reports whether the session ID is known.
func (s *SQLiteStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	var one int
	row := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID)
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SaveResult appends one concluded lesson. Earlier rows for the same lesson
// are kept as history; LoadRecord reads the most recent one.
func (s *SQLiteStore) SaveResult(ctx context.Context, r Result) error {
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now().UTC()
	}
	passed := 0
	if r.Passed {
		passed = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lesson_results(session_id, lesson_id, tier, correct, total, passed, finished_ts)
		 VALUES(?,?,?,?,?,?,?)`,
		r.SessionID, r.LessonID, r.Tier.String(), r.Correct, r.Total, passed,
		finished.UTC().Format(timeLayout),
	)
	return err
}

// LoadRecord rebuilds the performance record for a session from the most
// recent result per lesson.
func (s *SQLiteStore) LoadRecord(ctx context.Context, sessionID string) (*progress.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lesson_id, correct
		FROM lesson_results
		WHERE session_id = ? AND id IN (
			SELECT MAX(id) FROM lesson_results WHERE session_id = ? GROUP BY lesson_id
		)
	`, sessionID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	record := progress.NewRecord()
	for rows.Next() {
		var lessonID string
		var correct int
		if err := rows.Scan(&lessonID, &correct); err != nil {
			return nil, err
		}
		record.RecordResult(lessonID, correct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return record, nil
}

// GetSummary aggregates a session's most recent result per lesson.
func (s *SQLiteStore) GetSummary(ctx context.Context, sessionID string) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(correct),0), COALESCE(SUM(total),0), COALESCE(SUM(passed),0)
		FROM lesson_results
		WHERE session_id = ? AND id IN (
			SELECT MAX(id) FROM lesson_results WHERE session_id = ? GROUP BY lesson_id
		)
	`, sessionID, sessionID)
	if err := row.Scan(&out.Lessons, &out.Correct, &out.Total, &out.Passes); err != nil {
		return Summary{}, err
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
