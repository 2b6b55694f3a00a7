package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/tribunal/internal/domain/types"
)

// ViewsHandler serves named derived views through the snapshot cache.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// viewResponse wraps a cached payload with its freshness label so
// clients can tell a fresh rebuild from a stale fallback.
type viewResponse struct {
	Key       string          `json:"key"`
	Freshness types.Freshness `json:"freshness"`
	Payload   json.RawMessage `json:"payload"`
}

// HandleGetView handles GET /api/v1/views/{key} requests.
func (h *ViewsHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/v1/views/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: missing or malformed view key", ErrBadRequest))
		return
	}

	payload, freshness, err := h.deps.View(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{
		Key:       key,
		Freshness: freshness,
		Payload:   json.RawMessage(payload),
	})
}
