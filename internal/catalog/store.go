// Package catalog persists organized files, name reservations, decisions,
// duplicates, and quarantine records in SQLite.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/config"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
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

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// InsertFile records a newly organized file. The content hash is unique: a
// second insert with the same hash fails, which is how concurrent workers
// discover they raced on a duplicate.
func (s *Store) InsertFile(ctx context.Context, record *FileRecord) (int64, error) {
	if record == nil {
		return 0, errors.New("record is nil")
	}
	now := time.Now().UTC()
	record.OrganizedAt = now

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO files (
            content_hash, size_bytes, original_path, vault_path, category,
            subcategory, date_source, date_confidence, taken_at, organized_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ContentHash,
		record.SizeBytes,
		record.OriginalPath,
		record.VaultPath,
		record.Category,
		nullableString(record.Subcategory),
		record.DateSource,
		record.DateConfidence,
		nullableTime(record.TakenAt),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	record.ID = id
	return id, nil
}

// DeleteFile removes a file row, used when compensating a failed move.
func (s *Store) DeleteFile(ctx context.Context, id int64) error {
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// FindByHash returns the canonical file for a content hash, or nil when the
// hash has never been organized.
func (s *Store) FindByHash(ctx context.Context, contentHash string) (*FileRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+fileColumns+` FROM files WHERE content_hash = ? LIMIT 1`,
		contentHash,
	)
	record, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	return record, nil
}

// ListFiles returns the newest organized files up to limit.
func (s *Store) ListFiles(ctx context.Context, limit int) ([]*FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+fileColumns+` FROM files ORDER BY organized_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var records []*FileRecord
	for rows.Next() {
		record, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ReserveName claims a filename within a directory. The primary key makes
// the insert idempotent: the first caller wins and later callers get false.
func (s *Store) ReserveName(ctx context.Context, dir, name string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT OR IGNORE INTO reserved_names (dir, name, reserved_at) VALUES (?, ?, ?)`,
		dir,
		name,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("reserve name: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ReleaseName frees a reservation after a failed move.
func (s *Store) ReleaseName(ctx context.Context, dir, name string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`DELETE FROM reserved_names WHERE dir = ? AND name = ?`,
		dir,
		name,
	); err != nil {
		return fmt.Errorf("release name: %w", err)
	}
	return nil
}

// Summarize aggregates catalog counts for run reports.
func (s *Store) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{ByCategory: make(map[string]int64)}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM files`).Scan(&summary.Files); err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM duplicates`).Scan(&summary.Duplicates); err != nil {
		return nil, fmt.Errorf("count duplicates: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM quarantine`).Scan(&summary.Quarantined); err != nil {
		return nil, fmt.Errorf("count quarantine: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(1) FROM files GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		summary.ByCategory[category] = count
	}
	return summary, rows.Err()
}
