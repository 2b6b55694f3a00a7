// Package repository defines the vote ledger interface and errors.
package repository

import (
	"context"

	"github.com/okian/tribunal/internal/domain/model"
	"github.com/okian/tribunal/internal/domain/types"
)

// Ledger provides append and read access to the immutable vote store.
// Rows are unique on (match_id, reviewer_id, attribute); duplicates
// are rejected at insert time by the store, not by callers.
type Ledger interface {
	// AppendBatch inserts all votes inside one transaction. If any row
	// collides with an existing (match, reviewer, attribute) key the
	// whole batch is rolled back and ErrDuplicateVote is returned; no
	// partial persistence ever occurs.
	AppendBatch(ctx context.Context, votes []model.Vote) error

	// VotedAttributes returns the distinct attributes a reviewer has
	// already voted for a match.
	VotedAttributes(ctx context.Context, matchID, reviewerID string) ([]types.Attribute, error)

	// VotesForPlayer returns every vote in a division where the player
	// appears on either side of the match.
	VotesForPlayer(ctx context.Context, playerID, divisionCode string) ([]model.Vote, error)

	// DivisionsByVolume lists the divisions a player has contributing
	// votes in, ordered by vote volume descending.
	DivisionsByVolume(ctx context.Context, playerID string) ([]types.DivisionVolume, error)

	// NetworkEdges returns distinct matchups with their vote volume,
	// used to build the player-network view.
	NetworkEdges(ctx context.Context) ([]types.NetworkEdge, error)

	// Count returns the total number of ledger rows.
	Count(ctx context.Context) (int64, error)
}
