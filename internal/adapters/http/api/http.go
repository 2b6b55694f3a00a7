// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	appcache "github.com/okian/tribunal/internal/adapters/cache"
	service "github.com/okian/tribunal/internal/app"
	"github.com/okian/tribunal/internal/domain/model"
	"github.com/okian/tribunal/internal/domain/types"
)

// validate is the shared request validator instance.
var validate = validator.New() //nolint:gochecknoglobals // validator instances are designed to be shared

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitVotes records one validated vote batch for the reviewer
	// behind token.
	SubmitVotes(ctx context.Context, token string, sub model.Submission) (model.SubmissionResult, error)

	// Completion reports a reviewer's progress on a match.
	Completion(ctx context.Context, matchID, reviewerID string) (types.Completion, error)

	// Read operations expose derived rating data.
	AttributeScores(ctx context.Context, playerID, divisionCode string) ([]types.AttributeScore, types.Freshness, error)
	Divisions(ctx context.Context, playerID string) ([]types.DivisionVolume, error)
	View(ctx context.Context, key string) ([]byte, types.Freshness, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	votesHandler      *VotesHandler
	completionHandler *CompletionHandler
	scoresHandler     *ScoresHandler
	viewsHandler      *ViewsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		votesHandler:      NewVotesHandler(deps),
		completionHandler: NewCompletionHandler(deps),
		scoresHandler:     NewScoresHandler(deps),
		viewsHandler:      NewViewsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/v1/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/votes", MetricsMiddleware(s.votesHandler.HandlePostVotes, "votes"))
	mux.HandleFunc("/api/v1/completion", MetricsMiddleware(s.completionHandler.HandleGetCompletion, "completion"))
	mux.HandleFunc("/api/v1/scores", MetricsMiddleware(s.scoresHandler.HandleGetScores, "scores"))
	mux.HandleFunc("/api/v1/divisions", MetricsMiddleware(s.scoresHandler.HandleGetDivisions, "divisions"))
	mux.HandleFunc("/api/v1/views/", MetricsMiddleware(s.viewsHandler.HandleGetView, "views"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps service-layer errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownReviewer):
		writeError(w, http.StatusNotFound, "unknown_reviewer", err)
	case errors.Is(err, model.ErrInactiveReviewer):
		writeError(w, http.StatusForbidden, "inactive_reviewer", err)
	case errors.Is(err, model.ErrUnknownMatch):
		writeError(w, http.StatusNotFound, "unknown_match", err)
	case errors.Is(err, service.ErrUnknownView):
		writeError(w, http.StatusNotFound, "unknown_view", err)
	case errors.Is(err, appcache.ErrSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "source_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
