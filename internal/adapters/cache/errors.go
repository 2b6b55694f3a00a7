package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	// ErrNoSnapshot is returned by stores when a key has no snapshot.
	ErrNoSnapshot = errors.New("no snapshot for key")

	// ErrSourceUnavailable signals that a view could not be rebuilt and
	// no snapshot exists to fall back on.
	ErrSourceUnavailable = errors.New("view source unavailable")

	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("snapshot store is closed")
)
