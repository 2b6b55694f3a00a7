package repository

import "errors"

// Sentinel kinds for ledger errors.
var (
	// ErrDuplicateVote signals an insert-time uniqueness conflict on
	// (match_id, reviewer_id, attribute). It is an idempotent outcome,
	// not a storage fault.
	ErrDuplicateVote = errors.New("vote already recorded")

	// ErrClosed is returned when the ledger is used after Close.
	ErrClosed = errors.New("ledger is closed")
)
