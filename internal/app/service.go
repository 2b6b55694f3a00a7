// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"

	"github.com/okian/tribunal/internal/adapters/cache"
	"github.com/okian/tribunal/internal/adapters/clients"
	"github.com/okian/tribunal/internal/adapters/repository"
	"github.com/okian/tribunal/internal/domain/rating"
	"github.com/okian/tribunal/pkg/logger"
)

// Service implements the API dependencies for the rating system.
type Service struct {
	mu sync.RWMutex

	// Core components
	ledger   repository.Ledger
	registry clients.ReviewerRegistry
	catalog  clients.MatchCatalog
	views    *cache.ViewCache
	policy   *rating.Policy

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLedger sets the vote ledger backing the service.
func WithLedger(l repository.Ledger) Option {
	return func(s *Service) {
		if l != nil {
			s.ledger = l
		}
	}
}

// WithRegistry sets the reviewer registry client.
func WithRegistry(r clients.ReviewerRegistry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithCatalog sets the match catalog client.
func WithCatalog(c clients.MatchCatalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithViewCache sets the derived-view cache.
func WithViewCache(v *cache.ViewCache) Option {
	return func(s *Service) {
		if v != nil {
			s.views = v
		}
	}
}

// WithRatingPolicy sets the score mapping policy.
func WithRatingPolicy(p *rating.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration. The ledger,
// registry and catalog have no usable defaults and must be provided
// before Start.
func New(opts ...Option) *Service {
	s := &Service{
		views:  cache.New(),
		policy: rating.NewPolicy(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates the wiring and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	switch {
	case s.ledger == nil:
		return ErrMissingLedger
	case s.registry == nil:
		return ErrMissingRegistry
	case s.catalog == nil:
		return ErrMissingCatalog
	}

	s.started = true
	s.logger.Info(ctx, "rating service started")

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	// Close the ledger if it owns resources
	if closer, ok := s.ledger.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}
