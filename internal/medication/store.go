// Package medication provides the medication tracker and its embedded store.
package medication

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/constanfit/constanfit/internal/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrEntryNotFound is returned when no entry matches the owner and id.
var ErrEntryNotFound = errors.New("medication entry not found")

// Store persists medication entries in a local SQLite file, one row per entry.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite store at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("medication store path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert stores a new entry.
func (s *Store) Insert(ctx context.Context, e *model.MedicationEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO medication_entries (id, owner_id, name, time, taken, created_at, created_day)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Name, e.Time, boolToInt(e.Taken), e.CreatedAt.UnixMilli(), e.CreatedDay,
	)
	if err != nil {
		return fmt.Errorf("insert medication entry: %w", err)
	}
	return nil
}

// ListByDay returns the owner's entries created on day, ordered by time then id.
func (s *Store) ListByDay(ctx context.Context, ownerID, day string) ([]*model.MedicationEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, time, taken, created_at, created_day
		 FROM medication_entries
		 WHERE owner_id = ? AND created_day = ?
		 ORDER BY time ASC, id ASC`,
		ownerID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("list medication entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.MedicationEntry
	for rows.Next() {
		var (
			e         model.MedicationEntry
			taken     bool
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Time, &taken, &createdAt, &e.CreatedDay); err != nil {
			return nil, fmt.Errorf("scan medication entry: %w", err)
		}
		e.Taken = taken
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate medication entries: %w", err)
	}

	return entries, nil
}

// ToggleTaken flips the taken flag of one entry and returns the new value.
func (s *Store) ToggleTaken(ctx context.Context, ownerID, id string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE medication_entries
		 SET taken = CASE taken WHEN 0 THEN 1 ELSE 0 END
		 WHERE id = ? AND owner_id = ?
		 RETURNING taken`,
		id, ownerID,
	).Scan(&taken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrEntryNotFound
		}
		return false, fmt.Errorf("toggle medication entry: %w", err)
	}
	return taken, nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM medication_entries WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete medication entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete medication entry: %w", err)
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Count returns how many entries the owner has across all days.
func (s *Store) Count(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM medication_entries WHERE owner_id = ?`, ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count medication entries: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
