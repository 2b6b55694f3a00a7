package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/tribunal/internal/adapters/repository"
	"github.com/okian/tribunal/internal/domain/model"
	"github.com/okian/tribunal/internal/domain/types"
	"github.com/okian/tribunal/pkg/logger"
	"github.com/okian/tribunal/pkg/metrics"
)

// appendAttempts bounds retries when a concurrent submission for the
// same (match, reviewer) slips votes in between our duplicate check
// and the batch insert.
const appendAttempts = 2

// SubmitVotes validates and records one vote batch for the reviewer
// behind token. Entries with a value outside the ternary domain are
// reported back as invalid, resubmitted (match, reviewer, attribute)
// entries are skipped as idempotent duplicates, and the remainder is
// appended atomically. Duplicates and invalid entries never fail the
// rest of the batch.
func (s *Service) SubmitVotes(ctx context.Context, token string, sub model.Submission) (model.SubmissionResult, error) {
	start := time.Now()
	metrics.RecordSubmission()

	reviewer, err := s.registry.Resolve(ctx, token)
	if err != nil {
		return model.SubmissionResult{}, err
	}
	if !reviewer.Active {
		return model.SubmissionResult{}, model.ErrInactiveReviewer
	}

	match, err := s.catalog.Match(ctx, sub.MatchID)
	if err != nil {
		return model.SubmissionResult{}, err
	}
	// The submitted player pair must correspond to the catalog's facts
	// for the match; a mismatch means the client is judging a match it
	// does not actually have.
	if sub.Player1ID != match.Player1ID || sub.Player2ID != match.Player2ID {
		return model.SubmissionResult{}, fmt.Errorf(
			"%w: players %s/%s do not correspond to match %s",
			model.ErrUnknownMatch, sub.Player1ID, sub.Player2ID, sub.MatchID)
	}

	result := model.SubmissionResult{
		Skipped: []types.Attribute{},
		Invalid: []types.Attribute{},
	}
	pending := make(map[types.Attribute]types.Verdict, len(sub.Values))
	for attr, verdict := range sub.Values {
		if !verdict.Valid() {
			result.Invalid = append(result.Invalid, attr)
			continue
		}
		pending[attr] = verdict
	}
	metrics.RecordVotesInvalid(len(result.Invalid))

	for attempt := 0; attempt < appendAttempts && len(pending) > 0; attempt++ {
		voted, err := s.ledger.VotedAttributes(ctx, match.ID, reviewer.ID)
		if err != nil {
			return model.SubmissionResult{}, fmt.Errorf("read voted attributes: %w", err)
		}
		for _, attr := range voted {
			if _, ok := pending[attr]; ok {
				result.Skipped = append(result.Skipped, attr)
				delete(pending, attr)
			}
		}
		if len(pending) == 0 {
			break
		}

		batch := make([]model.Vote, 0, len(pending))
		for attr, verdict := range pending {
			batch = append(batch, model.Vote{
				MatchID:        match.ID,
				ReviewerID:     reviewer.ID,
				Attribute:      attr,
				Value:          verdict,
				Player1ID:      match.Player1ID,
				Player2ID:      match.Player2ID,
				DivisionCode:   match.DivisionCode,
				ReviewerWeight: reviewer.Weight,
			})
		}

		err = s.ledger.AppendBatch(ctx, batch)
		if err == nil {
			result.Accepted = len(batch)
			break
		}
		if errors.Is(err, repository.ErrDuplicateVote) {
			// A concurrent submission won the race for at least one row.
			// Re-read the ledger and retry with the duplicates skipped.
			continue
		}
		metrics.RecordIngestRollback()
		return model.SubmissionResult{}, fmt.Errorf("append votes: %w", err)
	}

	metrics.RecordVotesAccepted(result.Accepted)
	metrics.RecordVotesDuplicate(len(result.Skipped))
	result.AllDuplicate = result.Accepted == 0 && len(result.Invalid) == 0 && len(result.Skipped) > 0

	if result.Accepted > 0 {
		s.invalidateScores(ctx, match)
	}

	metrics.RecordIngestLatency(float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "vote batch recorded",
		logger.String("matchID", match.ID),
		logger.String("reviewerID", reviewer.ID),
		logger.Int("accepted", result.Accepted),
		logger.Int("skipped", len(result.Skipped)),
		logger.Int("invalid", len(result.Invalid)),
	)

	return result, nil
}

// invalidateScores drops the cached score views for both players of a
// match after new votes land. The votes are already durable, so a
// failed invalidation is logged and tolerated; the snapshots age out
// at the TTL regardless.
func (s *Service) invalidateScores(ctx context.Context, match model.Match) {
	keys := []string{
		scoresKey(match.Player1ID, match.DivisionCode),
		scoresKey(match.Player2ID, match.DivisionCode),
	}
	if err := s.views.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn(ctx, "score snapshot invalidation failed", logger.Error(err))
		return
	}
	metrics.RecordCacheInvalidation(len(keys))
}
