package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// CompletedDownload is one append-only history record. Records are never
// mutated or deleted.
type CompletedDownload struct {
	ID          int64
	Title       string
	FilePath    string
	FormatLabel string
	CompletedAt time.Time
}

// Store persists completed downloads in a sqlite database. The database file
// may be shared across process runs; inserts are single small statements so
// no cross-process coordination is needed.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path and
// ensures the schema exists. Safe to call on every process start.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	s := &Store{db: db}
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init idempotently creates the completed_downloads table. Existing data is
// never touched.
func (s *Store) Init() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS completed_downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		file_path TEXT NOT NULL,
		format_label TEXT NOT NULL,
		completed_at TEXT NOT NULL
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}

// Insert appends one record and fills in its assigned ID.
func (s *Store) Insert(ctx context.Context, rec *CompletedDownload) error {
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO completed_downloads (title, file_path, format_label, completed_at)
	VALUES (?, ?, ?, ?)
	`, rec.Title, rec.FilePath, rec.FormatLabel, rec.CompletedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	return nil
}

// ListAll returns every record, oldest first.
func (s *Store) ListAll(ctx context.Context) ([]CompletedDownload, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, title, file_path, format_label, completed_at
	FROM completed_downloads
	ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []CompletedDownload
	for rows.Next() {
		var rec CompletedDownload
		var completedAt string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.FilePath, &rec.FormatLabel, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
