// Package clients provides HTTP adapters for the external reviewer
// registry and match catalog services.
package clients

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/tribunal/internal/domain/model"
)

// Default client configuration constants.
const (
	defaultTimeout = 10 * time.Second
)

// ReviewerRegistry resolves an opaque token to a reviewer.
type ReviewerRegistry interface {
	// Resolve returns the reviewer behind token, or ErrUnknownReviewer.
	Resolve(ctx context.Context, token string) (model.Reviewer, error)
}

// MatchCatalog serves canonical match facts and the season schedule.
type MatchCatalog interface {
	// Match returns the match facts for id, or ErrUnknownMatch.
	Match(ctx context.Context, matchID string) (model.Match, error)

	// SeasonSchedule returns the serialized season schedule, used as an
	// authoritative source by the derived-view cache.
	SeasonSchedule(ctx context.Context) ([]byte, error)
}

// Option applies a configuration option to an HTTP client adapter.
type Option func(*httpClientConfig)

type httpClientConfig struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the underlying HTTP client; tests use this
// to point adapters at httptest servers with short timeouts.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *httpClientConfig) {
		if c != nil {
			cfg.httpClient = c
		}
	}
}

func newHTTPClientConfig(opts ...Option) httpClientConfig {
	cfg := httpClientConfig{
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
