package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/tribunal/internal/adapters/cache"
	"github.com/okian/tribunal/internal/domain/types"
	"github.com/okian/tribunal/pkg/metrics"
)

// Named view keys served by the views endpoint.
const (
	ViewSeasonSchedule = "season-schedule"
	ViewPlayerNetwork  = "player-network"
)

// scoresKey names the cached score view for one player in one division.
func scoresKey(playerID, divisionCode string) string {
	return fmt.Sprintf("scores:%s:%s", playerID, divisionCode)
}

// View serves a named derived view through the snapshot cache. Unknown
// keys yield ErrUnknownView; a missing snapshot whose source cannot be
// reached surfaces as cache.ErrSourceUnavailable.
func (s *Service) View(ctx context.Context, key string) ([]byte, types.Freshness, error) {
	var refresh cache.RefreshFunc
	switch key {
	case ViewSeasonSchedule:
		refresh = s.catalog.SeasonSchedule
	case ViewPlayerNetwork:
		refresh = s.refreshPlayerNetwork
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownView, key)
	}

	snap, freshness, err := s.views.Get(ctx, key, s.instrumented(key, refresh))
	if err != nil {
		return nil, "", err
	}
	recordFreshness(key, freshness)
	return snap.Payload, freshness, nil
}

// refreshPlayerNetwork rebuilds the matchup graph from the ledger.
func (s *Service) refreshPlayerNetwork(ctx context.Context) ([]byte, error) {
	edges, err := s.ledger.NetworkEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("read network edges: %w", err)
	}
	return json.Marshal(edges)
}

// instrumented wraps a refresh func so failed rebuilds are counted per
// key even when the cache masks them with a stale fallback.
func (s *Service) instrumented(key string, refresh cache.RefreshFunc) cache.RefreshFunc {
	return func(ctx context.Context) ([]byte, error) {
		payload, err := refresh(ctx)
		if err != nil {
			metrics.RecordCacheRefreshError(key)
		}
		return payload, err
	}
}

func recordFreshness(key string, freshness types.Freshness) {
	if freshness == types.FreshnessStaleFallback {
		metrics.RecordCacheStaleFallback(key)
		return
	}
	metrics.RecordCacheFresh(key)
}
