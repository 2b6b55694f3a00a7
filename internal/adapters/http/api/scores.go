package api

import (
	"fmt"
	"net/http"

	"github.com/okian/tribunal/internal/domain/types"
)

// ScoresHandler handles derived score and division listing requests.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// scoresResponse is the read shape for GET /api/v1/scores.
type scoresResponse struct {
	PlayerID     string                 `json:"player_id"`
	DivisionCode string                 `json:"division_code"`
	Freshness    types.Freshness        `json:"freshness"`
	Scores       []types.AttributeScore `json:"scores"`
}

// HandleGetScores handles GET /api/v1/scores requests.
// Query parameters: player_id, division.
func (h *ScoresHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	playerID := r.URL.Query().Get("player_id")
	division := r.URL.Query().Get("division")
	if playerID == "" || division == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: player_id and division are required", ErrBadRequest))
		return
	}

	scores, freshness, err := h.deps.AttributeScores(r.Context(), playerID, division)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoresResponse{
		PlayerID:     playerID,
		DivisionCode: division,
		Freshness:    freshness,
		Scores:       scores,
	})
}

// divisionsResponse is the read shape for GET /api/v1/divisions.
type divisionsResponse struct {
	PlayerID  string                 `json:"player_id"`
	Divisions []types.DivisionVolume `json:"divisions"`
}

// HandleGetDivisions handles GET /api/v1/divisions requests.
// Query parameters: player_id.
func (h *ScoresHandler) HandleGetDivisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: player_id is required", ErrBadRequest))
		return
	}

	divisions, err := h.deps.Divisions(r.Context(), playerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, divisionsResponse{PlayerID: playerID, Divisions: divisions})
}
