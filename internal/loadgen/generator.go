package loadgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/okian/tribunal/internal/domain/types"
	"github.com/okian/tribunal/pkg/logger"
)

// Verdict domain for generated votes. A small fraction lands outside
// {0,1,2} on purpose so invalid reporting gets exercised too.
const (
	verdictDomain      = 3
	invalidValue       = 7
	invalidEveryNth    = 25
	attributesPerBatch = 4 // most batches are partial, like real reviewers
)

// generateBatches builds randomized vote batches over a bounded pool
// of players, matches and reviewer tokens. Reusing pools guarantees
// some batches collide on (match, reviewer, attribute) and exercise
// the idempotent-duplicate path.
func generateBatches(ctx context.Context, config *Config, stats *Stats) ([]Batch, error) {
	if config.NumPlayers < 2 || config.NumMatches < 1 || config.NumTokens < 1 {
		return nil, fmt.Errorf("pools too small: players=%d matches=%d tokens=%d",
			config.NumPlayers, config.NumMatches, config.NumTokens)
	}

	logger.Get().Info(ctx, "generating vote batches", logger.Int("batches", config.NumBatches))

	batches := make([]Batch, 0, config.NumBatches)
	attrs := types.Attributes()

	for i := 0; i < config.NumBatches; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matchIdx, err := randomInt(config.NumMatches)
		if err != nil {
			return nil, err
		}
		// Pair players deterministically per match so resubmissions of a
		// match carry the same player pair, as the catalog would.
		p1 := matchIdx % config.NumPlayers
		p2 := (matchIdx + 1 + matchIdx%(config.NumPlayers-1)) % config.NumPlayers
		if p2 == p1 {
			p2 = (p1 + 1) % config.NumPlayers
		}

		tokenIdx, err := randomInt(config.NumTokens)
		if err != nil {
			return nil, err
		}

		votes := make(map[string]int, attributesPerBatch)
		for j := 0; j < attributesPerBatch; j++ {
			attrIdx, err := randomInt(len(attrs))
			if err != nil {
				return nil, err
			}
			value, err := randomInt(verdictDomain)
			if err != nil {
				return nil, err
			}
			if i > 0 && i%invalidEveryNth == 0 && j == 0 {
				value = invalidValue
			}
			votes[string(attrs[attrIdx])] = value
		}

		batches = append(batches, Batch{
			ReviewerToken: fmt.Sprintf("reviewer-token-%03d", tokenIdx),
			MatchID:       fmt.Sprintf("match-%05d", matchIdx),
			Player1ID:     fmt.Sprintf("player-%04d", p1),
			Player2ID:     fmt.Sprintf("player-%04d", p2),
			Votes:         votes,
		})
	}

	stats.BatchesGenerated = len(batches)
	logger.Get().Info(ctx, "vote batches generated", logger.Int("batches", len(batches)))
	return batches, nil
}

func randomInt(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("random bound must be positive, got %d", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("generate random int: %w", err)
	}
	return int(v.Int64()), nil
}
