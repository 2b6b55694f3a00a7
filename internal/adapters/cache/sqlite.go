package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
  key        TEXT PRIMARY KEY,
  payload    BLOB    NOT NULL,
  created_at INTEGER NOT NULL
);
`

// SQLiteStore is a durable SnapshotStore: one blob row per logical
// key, replaced wholesale on refresh so stale payloads survive for
// fallback until the next successful write.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenStore opens (or creates) the snapshot store at path.
func OpenStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot store path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping snapshot db: %w", err)
	}
	if _, err := sqlDB.Exec(snapshotSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply snapshot schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the stored snapshot for key, or ErrNoSnapshot.
func (s *SQLiteStore) Load(ctx context.Context, key string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Snapshot{}, ErrClosed
	}

	var snap Snapshot
	var createdAt int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT key, payload, created_at FROM snapshots WHERE key = ?`,
		key,
	).Scan(&snap.Key, &snap.Payload, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	snap.CreatedAt = time.UnixMilli(createdAt).UTC()
	return snap, nil
}

// Save replaces the snapshot for its key, last write wins.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return ErrClosed
	}
	if strings.TrimSpace(snap.Key) == "" {
		return fmt.Errorf("snapshot key is required")
	}

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO snapshots (key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		snap.Key,
		snap.Payload,
		createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return ErrClosed
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Count returns the number of stored snapshots.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, ErrClosed
	}

	var n int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

var _ SnapshotStore = (*SQLiteStore)(nil)
