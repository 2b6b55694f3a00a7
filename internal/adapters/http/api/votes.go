// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/tribunal/internal/domain/model"
	"github.com/okian/tribunal/internal/domain/types"
)

// VotesHandler handles vote submission requests.
type VotesHandler struct {
	deps Dependencies
}

// NewVotesHandler creates a new votes handler.
func NewVotesHandler(deps Dependencies) *VotesHandler {
	return &VotesHandler{deps: deps}
}

// votesRequest mirrors the wire schema for POST /api/v1/votes. Votes
// maps attribute names to ternary values; the value type is int so an
// out-of-domain number reaches the service and comes back as invalid
// instead of failing JSON decoding.
type votesRequest struct {
	ReviewerToken string         `json:"reviewer_token" validate:"required"`
	MatchID       string         `json:"match_id" validate:"required"`
	Player1ID     string         `json:"player1_id" validate:"required"`
	Player2ID     string         `json:"player2_id" validate:"required"`
	Votes         map[string]int `json:"votes" validate:"required,min=1"`
}

// votesResponse reports the per-attribute outcome of the batch.
type votesResponse struct {
	Accepted     int               `json:"accepted"`
	Skipped      []types.Attribute `json:"skipped"`
	Invalid      []types.Attribute `json:"invalid"`
	AllDuplicate bool              `json:"all_duplicate"`
}

// HandlePostVotes handles POST /api/v1/votes requests.
func (h *VotesHandler) HandlePostVotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req votesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	// Attribute names outside the closed set are a request shape
	// problem, unlike out-of-domain values which are reported per entry.
	sub := model.Submission{
		MatchID:   req.MatchID,
		Player1ID: req.Player1ID,
		Player2ID: req.Player2ID,
		Values:    make(map[types.Attribute]types.Verdict, len(req.Votes)),
	}
	var unknown []string
	for name, value := range req.Votes {
		attr, err := types.ParseAttribute(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		sub.Values[attr] = types.Verdict(value)
	}
	if len(unknown) > 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: unknown attributes: %s", ErrBadRequest, strings.Join(unknown, ", ")))
		return
	}

	result, err := h.deps.SubmitVotes(r.Context(), req.ReviewerToken, sub)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, votesResponse{
		Accepted:     result.Accepted,
		Skipped:      result.Skipped,
		Invalid:      result.Invalid,
		AllDuplicate: result.AllDuplicate,
	})
}
