// Package cache provides the TTL-bounded derived-view cache with
// stale-fallback semantics.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/tribunal/internal/domain/types"
)

// DefaultTTL bounds snapshot freshness.
const DefaultTTL = 900 * time.Second

// Snapshot is one cached view payload: a single serialized blob per
// logical key with its creation timestamp embedded.
type Snapshot struct {
	Key       string    `json:"key"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// RefreshFunc rebuilds a view payload from its authoritative source.
type RefreshFunc func(ctx context.Context) ([]byte, error)

// SnapshotStore persists snapshots, one blob per logical key, with
// last-write-wins replacement and no cross-key interaction.
type SnapshotStore interface {
	// Load returns the stored snapshot for key, or ErrNoSnapshot.
	Load(ctx context.Context, key string) (Snapshot, error)
	// Save unconditionally replaces the snapshot for its key.
	Save(ctx context.Context, snap Snapshot) error
	// Delete removes the snapshot for key; absent keys are a no-op.
	Delete(ctx context.Context, key string) error
	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int64, error)
}

// Option applies a configuration option to the ViewCache.
type Option func(*ViewCache)

// WithTTL sets the freshness bound for stored snapshots.
func WithTTL(ttl time.Duration) Option {
	return func(c *ViewCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithStore sets the backing snapshot store.
func WithStore(store SnapshotStore) Option {
	return func(c *ViewCache) {
		if store != nil {
			c.store = store
		}
	}
}

// WithClock overrides the time source; tests use this to cross the
// TTL boundary without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *ViewCache) {
		if now != nil {
			c.now = now
		}
	}
}

// ViewCache serves derived views from stored snapshots. A snapshot
// younger than the TTL is served as-is; otherwise the view is rebuilt
// synchronously within the calling request. When the rebuild fails any
// stored snapshot, however old, substitutes as a stale fallback.
//
// The cache performs no cross-request coordination: concurrent
// refreshes of one key may hit the source redundantly and the final
// write wins.
type ViewCache struct {
	store SnapshotStore
	ttl   time.Duration
	now   func() time.Time
}

// New creates a ViewCache backed by an in-memory store unless
// configured otherwise.
func New(opts ...Option) *ViewCache {
	c := &ViewCache{
		store: NewMemoryStore(),
		ttl:   DefaultTTL,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the view payload for key together with its freshness
// label. A missing snapshot with an unreachable source yields
// ErrSourceUnavailable.
func (c *ViewCache) Get(ctx context.Context, key string, refresh RefreshFunc) (Snapshot, types.Freshness, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, "", err
	}

	stored, loadErr := c.store.Load(ctx, key)
	if loadErr != nil && !errors.Is(loadErr, ErrNoSnapshot) {
		return Snapshot{}, "", fmt.Errorf("load snapshot %q: %w", key, loadErr)
	}
	have := loadErr == nil

	if have && c.now().Sub(stored.CreatedAt) < c.ttl {
		return stored, types.FreshnessFresh, nil
	}

	payload, err := refresh(ctx)
	if err != nil {
		if have {
			return stored, types.FreshnessStaleFallback, nil
		}
		return Snapshot{}, "", fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, key, err)
	}

	snap := Snapshot{Key: key, Payload: payload, CreatedAt: c.now().UTC()}
	if err := c.store.Save(ctx, snap); err != nil {
		return Snapshot{}, "", fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return snap, types.FreshnessFresh, nil
}

// Invalidate discards the snapshots for the given keys so the next
// read rebuilds them. Absent keys are ignored.
func (c *ViewCache) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("invalidate snapshot %q: %w", key, err)
		}
	}
	return nil
}

// Size returns the number of stored snapshots.
func (c *ViewCache) Size(ctx context.Context) (int64, error) {
	return c.store.Count(ctx)
}
