package cache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local SnapshotStore. It backs tests and
// single-node deployments that do not need snapshots to survive a
// restart.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

// Load returns the stored snapshot for key, or ErrNoSnapshot.
func (s *MemoryStore) Load(ctx context.Context, key string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[key]
	if !ok {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

// Save replaces the snapshot for its key.
func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[snap.Key] = snap
	return nil
}

// Delete removes the snapshot for key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snaps, key)
	return nil
}

// Count returns the number of stored snapshots.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.snaps)), nil
}

var _ SnapshotStore = (*MemoryStore)(nil)
