// Package rating converts ternary comparative votes into absolute
// per-attribute scores.
package rating

import (
	"math"

	"github.com/okian/tribunal/internal/domain/types"
)

// Default score-space configuration constants.
const (
	defaultOffset   = 5.0
	defaultChartMin = 2.0
	defaultChartMax = 10.0
	defaultSpread   = 1.0
)

// Outcome is a vote's direction relative to the queried player.
type Outcome int

// Outcomes of a ternary vote from the queried player's perspective.
const (
	OutcomeNeutral Outcome = iota
	OutcomeFavorable
	OutcomeUnfavorable
)

// OutcomeFor maps a ternary verdict to an outcome for the queried
// player. A "player1 better" vote is favorable when the queried player
// is player1 and unfavorable when they are player2; the mapping
// inverts symmetrically for "player2 better". Ties are neutral either
// way.
func OutcomeFor(v types.Verdict, queriedIsPlayer1 bool) Outcome {
	switch v {
	case types.VerdictPlayerOne:
		if queriedIsPlayer1 {
			return OutcomeFavorable
		}
		return OutcomeUnfavorable
	case types.VerdictPlayerTwo:
		if queriedIsPlayer1 {
			return OutcomeUnfavorable
		}
		return OutcomeFavorable
	default:
		return OutcomeNeutral
	}
}

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithOffset sets the score-space anchor where neutral outcomes land.
func WithOffset(offset float64) Option {
	return func(p *Policy) {
		p.offset = offset
	}
}

// WithChartBounds sets the inclusive score range.
func WithChartBounds(chartMin, chartMax float64) Option {
	return func(p *Policy) {
		if chartMax > chartMin {
			p.chartMin = chartMin
			p.chartMax = chartMax
		}
	}
}

// WithSpread sets the fraction of the distance between the offset and
// the nearest bound that a directional outcome displaces. Values
// outside (0,1] are ignored.
func WithSpread(spread float64) Option {
	return func(p *Policy) {
		if spread > 0 && spread <= 1 {
			p.spread = spread
		}
	}
}

// Policy maps ternary outcomes into score space and combines them.
// It is immutable after construction and safe for concurrent use; a
// score is a pure function of its inputs.
type Policy struct {
	offset   float64
	chartMin float64
	chartMax float64
	spread   float64
}

// NewPolicy creates a scoring policy with defaults (offset 5, range
// 2-10, full spread) adjusted by options. The offset is clamped into
// the configured range.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		offset:   defaultOffset,
		chartMin: defaultChartMin,
		chartMax: defaultChartMax,
		spread:   defaultSpread,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.offset = math.Max(p.chartMin, math.Min(p.chartMax, p.offset))

	return p
}

// Point maps an outcome to its score-space point. Neutral lands
// exactly at the offset; favorable and unfavorable displace
// symmetrically toward the max and min bounds.
func (p *Policy) Point(o Outcome) float64 {
	switch o {
	case OutcomeFavorable:
		return p.offset + p.spread*(p.chartMax-p.offset)
	case OutcomeUnfavorable:
		return p.offset - p.spread*(p.offset-p.chartMin)
	default:
		return p.offset
	}
}

// Input is one contributing vote from the queried player's side.
type Input struct {
	Value            types.Verdict
	QueriedIsPlayer1 bool
	Weight           float64
}

// Score combines contributing votes into a single score via a
// weighted mean of their points: a weight-2 reviewer's vote counts as
// two weight-1 votes. The second return is false when no vote
// contributes, which callers must treat as unscored rather than zero.
// Votes with a non-positive or non-finite weight are ignored.
func (p *Policy) Score(votes []Input) (float64, bool) {
	var sum, weight float64
	for _, v := range votes {
		if v.Weight <= 0 || math.IsNaN(v.Weight) || math.IsInf(v.Weight, 0) {
			continue
		}
		sum += v.Weight * p.Point(OutcomeFor(v.Value, v.QueriedIsPlayer1))
		weight += v.Weight
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}
