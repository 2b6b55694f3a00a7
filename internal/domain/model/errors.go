package model

import "errors"

// Sentinel kinds for the ingestion error taxonomy. These cross layer
// boundaries so handlers can map them to stable response codes.
var (
	// ErrUnknownReviewer means the token resolved to no reviewer.
	// Not retryable without a fresh token.
	ErrUnknownReviewer = errors.New("unknown reviewer")

	// ErrInactiveReviewer means the reviewer exists but may not vote.
	ErrInactiveReviewer = errors.New("reviewer is inactive")

	// ErrUnknownMatch means the match reference does not resolve.
	ErrUnknownMatch = errors.New("unknown match")

	// ErrInvalidVoteValue marks a single entry whose value is outside
	// {0,1,2}; other entries in the batch still proceed.
	ErrInvalidVoteValue = errors.New("invalid vote value")
)
