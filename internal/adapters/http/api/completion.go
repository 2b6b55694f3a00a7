package api

import (
	"fmt"
	"net/http"
)

// CompletionHandler handles completion progress requests.
type CompletionHandler struct {
	deps Dependencies
}

// NewCompletionHandler creates a new completion handler.
func NewCompletionHandler(deps Dependencies) *CompletionHandler {
	return &CompletionHandler{deps: deps}
}

// HandleGetCompletion handles GET /api/v1/completion requests.
// Query parameters: match_id, reviewer_id.
func (h *CompletionHandler) HandleGetCompletion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	matchID := r.URL.Query().Get("match_id")
	reviewerID := r.URL.Query().Get("reviewer_id")
	if matchID == "" || reviewerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: match_id and reviewer_id are required", ErrBadRequest))
		return
	}

	completion, err := h.deps.Completion(r.Context(), matchID, reviewerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completion)
}
