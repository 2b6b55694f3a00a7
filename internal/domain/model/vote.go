// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/tribunal/internal/domain/types"
)

// Vote is one immutable ledger row: a single reviewer's ternary
// judgment of one attribute for one match. Rows are unique on
// (MatchID, ReviewerID, Attribute) and never mutated or deleted.
//
// DivisionCode and ReviewerWeight are snapshotted from the match
// catalog and reviewer registry at ingest time so that aggregation is
// a pure function of the ledger alone.
type Vote struct {
	ID             string          // ledger row id (uuid)
	MatchID        string          // match being judged
	ReviewerID     string          // judging reviewer
	Attribute      types.Attribute // judged skill dimension
	Value          types.Verdict   // ternary outcome relative to player1
	Player1ID      string
	Player2ID      string
	DivisionCode   string
	ReviewerWeight float64
	CreatedAt      time.Time
}

// Reviewer mirrors the reviewer registry read shape.
type Reviewer struct {
	ID     string  `json:"reviewer_id"`
	Weight float64 `json:"weight"`
	Active bool    `json:"active"`
}

// Match mirrors the match catalog read shape. Matches are immutable
// historical facts.
type Match struct {
	ID           string `json:"match_id"`
	Player1ID    string `json:"player1_id"`
	Player2ID    string `json:"player2_id"`
	DivisionCode string `json:"division_code"`
}

// Submission is one validated vote batch for a single (match, reviewer).
type Submission struct {
	MatchID   string
	Player1ID string
	Player2ID string
	Values    map[types.Attribute]types.Verdict
}

// SubmissionResult reports the per-attribute outcome of a batch:
// accepted appends, idempotent duplicates, and entries rejected for a
// value outside {0,1,2}. Duplicates and invalid entries never fail the
// rest of the batch.
type SubmissionResult struct {
	Accepted     int               `json:"accepted"`
	Skipped      []types.Attribute `json:"skipped"`
	Invalid      []types.Attribute `json:"invalid"`
	AllDuplicate bool              `json:"all_duplicate"`
}
