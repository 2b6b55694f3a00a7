package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/tribunal/internal/domain/progress"
	"github.com/okian/tribunal/internal/domain/rating"
	"github.com/okian/tribunal/internal/domain/types"
	"github.com/okian/tribunal/pkg/metrics"
)

// Completion reports how far a reviewer has progressed on a match,
// derived from the distinct attributes they have voted.
func (s *Service) Completion(ctx context.Context, matchID, reviewerID string) (types.Completion, error) {
	voted, err := s.ledger.VotedAttributes(ctx, matchID, reviewerID)
	if err != nil {
		return types.Completion{}, fmt.Errorf("read voted attributes: %w", err)
	}
	return progress.Of(len(voted)), nil
}

// AttributeScores returns the six per-attribute scores for a player in
// a division, served through the view cache so repeated reads within
// the TTL window reuse one aggregation.
func (s *Service) AttributeScores(ctx context.Context, playerID, divisionCode string) ([]types.AttributeScore, types.Freshness, error) {
	key := scoresKey(playerID, divisionCode)
	snap, freshness, err := s.views.Get(ctx, key, s.instrumented(key, func(ctx context.Context) ([]byte, error) {
		scores, err := s.computeScores(ctx, playerID, divisionCode)
		if err != nil {
			return nil, err
		}
		return json.Marshal(scores)
	}))
	if err != nil {
		return nil, "", err
	}
	recordFreshness(key, freshness)

	var scores []types.AttributeScore
	if err := json.Unmarshal(snap.Payload, &scores); err != nil {
		return nil, "", fmt.Errorf("decode score snapshot %q: %w", key, err)
	}
	return scores, freshness, nil
}

// computeScores aggregates the ledger into the six attribute scores.
// It reads nothing but the ledger; every fact it needs was snapshotted
// onto the vote rows at ingest time.
func (s *Service) computeScores(ctx context.Context, playerID, divisionCode string) ([]types.AttributeScore, error) {
	start := time.Now()

	votes, err := s.ledger.VotesForPlayer(ctx, playerID, divisionCode)
	if err != nil {
		return nil, fmt.Errorf("read player votes: %w", err)
	}

	inputs := make(map[types.Attribute][]rating.Input, types.AttributeCount)
	for _, v := range votes {
		inputs[v.Attribute] = append(inputs[v.Attribute], rating.Input{
			Value:            v.Value,
			QueriedIsPlayer1: v.Player1ID == playerID,
			Weight:           v.ReviewerWeight,
		})
	}

	scores := make([]types.AttributeScore, 0, types.AttributeCount)
	for _, attr := range types.Attributes() {
		value, scored := s.policy.Score(inputs[attr])
		if !scored {
			metrics.RecordUnscoredRead()
		}
		scores = append(scores, types.AttributeScore{
			Attribute: attr,
			Score:     value,
			Scored:    scored,
		})
	}

	metrics.RecordAggregation()
	metrics.RecordAggregationLatency(float64(time.Since(start).Milliseconds()))

	return scores, nil
}

// Divisions lists the divisions a player has contributing votes in,
// ordered by vote volume descending.
func (s *Service) Divisions(ctx context.Context, playerID string) ([]types.DivisionVolume, error) {
	divisions, err := s.ledger.DivisionsByVolume(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("read player divisions: %w", err)
	}
	return divisions, nil
}

// Stats is the operational snapshot served by the stats endpoint.
type Stats struct {
	LedgerRows     int64 `json:"ledger_rows"`
	CacheSnapshots int64 `json:"cache_snapshots"`
}

// GetStats returns current operational counters.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	rows, err := s.ledger.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count ledger rows: %w", err)
	}
	snapshots, err := s.views.Size(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count snapshots: %w", err)
	}

	metrics.UpdateLedgerRows(rows)
	metrics.UpdateCacheSnapshots(snapshots)

	return Stats{LedgerRows: rows, CacheSnapshots: snapshots}, nil
}
