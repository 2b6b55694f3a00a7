// Package types contains common types used across the application
package types

import "fmt"

// Attribute is one of the six fixed skill dimensions a reviewer judges
// per match. The set is closed: anything outside it is rejected at the
// boundary rather than dropped downstream.
type Attribute string

// The fixed attribute set.
const (
	AttributeMicro      Attribute = "micro"
	AttributeMacro      Attribute = "macro"
	AttributeClutch     Attribute = "clutch"
	AttributeCreativity Attribute = "creativity"
	AttributeAggression Attribute = "aggression"
	AttributeStrategy   Attribute = "strategy"
)

// AttributeCount is the size of the closed attribute set.
const AttributeCount = 6

// Attributes returns the closed attribute set in canonical order.
func Attributes() []Attribute {
	return []Attribute{
		AttributeMicro,
		AttributeMacro,
		AttributeClutch,
		AttributeCreativity,
		AttributeAggression,
		AttributeStrategy,
	}
}

// ParseAttribute validates a raw attribute name against the closed set.
func ParseAttribute(s string) (Attribute, error) {
	a := Attribute(s)
	switch a {
	case AttributeMicro, AttributeMacro, AttributeClutch,
		AttributeCreativity, AttributeAggression, AttributeStrategy:
		return a, nil
	}
	return "", fmt.Errorf("unknown attribute %q", s)
}

// Verdict is a ternary comparative judgment recorded per attribute:
// 0 = tie/unsure, 1 = player1 better, 2 = player2 better.
type Verdict int

// Verdict values.
const (
	VerdictTie       Verdict = 0
	VerdictPlayerOne Verdict = 1
	VerdictPlayerTwo Verdict = 2
)

// Valid reports whether v is inside the bounded {0,1,2} domain.
func (v Verdict) Valid() bool {
	return v == VerdictTie || v == VerdictPlayerOne || v == VerdictPlayerTwo
}

// CompletionStatus classifies a reviewer's progress on a match.
type CompletionStatus string

// Completion states derived from the distinct-attribute count.
const (
	CompletionPending   CompletionStatus = "pending"
	CompletionPartial   CompletionStatus = "partial"
	CompletionCompleted CompletionStatus = "completed"
)

// Freshness labels a cached view payload.
type Freshness string

// Freshness values returned by the derived-view cache.
const (
	FreshnessFresh         Freshness = "fresh"
	FreshnessStaleFallback Freshness = "stale-fallback"
)

// Completion is the read shape for completion queries.
type Completion struct {
	Status   CompletionStatus `json:"status"`
	Progress string           `json:"progress"` // "x/6"
}

// AttributeScore is one derived score entry. Scored distinguishes a
// real value from the absence of contributing votes: a player with no
// votes is unscored, which is not the same as scoring at the offset.
type AttributeScore struct {
	Attribute Attribute `json:"attribute"`
	Score     float64   `json:"score,omitempty"`
	Scored    bool      `json:"scored"`
}

// DivisionVolume pairs a division code with its contributing-vote count.
type DivisionVolume struct {
	DivisionCode string `json:"division_code"`
	Votes        int    `json:"votes"`
}

// NetworkEdge is one matchup in the player-network view: two players
// who met in a division, weighted by recorded vote volume.
type NetworkEdge struct {
	Player1ID    string `json:"player1_id"`
	Player2ID    string `json:"player2_id"`
	DivisionCode string `json:"division_code"`
	Votes        int    `json:"votes"`
}
