package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/smcclab/video-stitcher/internal/config"
)

// Status classifies the outcome of one session render attempt.
type Status string

const (
	// StatusRendered means a new output file was produced.
	StatusRendered Status = "rendered"
	// StatusFresh means the existing output was newer than every input.
	StatusFresh Status = "fresh"
	// StatusFailed means the session could not be rendered.
	StatusFailed Status = "failed"
)

// Record is one session render attempt.
type Record struct {
	ID         int64
	RunID      string
	Session    string
	Items      int
	Skipped    int
	OutputPath string
	Status     Status
	ErrorText  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store persists render history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database in the log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add inserts one render record.
func (s *Store) Add(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO render_history (
			run_id, session, items, skipped, output_path, status, error_text, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Session,
		rec.Items,
		rec.Skipped,
		rec.OutputPath,
		string(rec.Status),
		rec.ErrorText,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert render record: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, session, items, skipped, output_path, status, error_text, started_at, finished_at
		 FROM render_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query render history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var status, started, finished string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Session, &rec.Items, &rec.Skipped,
			&rec.OutputPath, &status, &rec.ErrorText, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan render record: %w", err)
		}
		rec.Status = Status(status)
		rec.StartedAt = parseTimestamp(started)
		rec.FinishedAt = parseTimestamp(finished)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
