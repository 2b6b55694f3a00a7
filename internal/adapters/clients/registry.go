package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/tribunal/internal/domain/model"
)

// RegistryClient talks to the reviewer registry over HTTP.
type RegistryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRegistryClient creates a registry client for baseURL.
func NewRegistryClient(baseURL string, opts ...Option) *RegistryClient {
	cfg := newHTTPClientConfig(opts...)
	return &RegistryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cfg.httpClient,
	}
}

// Resolve looks up the reviewer behind an opaque token. A 404 maps to
// ErrUnknownReviewer; any transport or server fault is wrapped as-is.
func (c *RegistryClient) Resolve(ctx context.Context, token string) (model.Reviewer, error) {
	if strings.TrimSpace(token) == "" {
		return model.Reviewer{}, model.ErrUnknownReviewer
	}

	endpoint := c.baseURL + "/reviewers/resolve?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Reviewer{}, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Reviewer{}, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return model.Reviewer{}, model.ErrUnknownReviewer
	default:
		return model.Reviewer{}, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var reviewer model.Reviewer
	if err := json.NewDecoder(resp.Body).Decode(&reviewer); err != nil {
		return model.Reviewer{}, fmt.Errorf("decode reviewer: %w", err)
	}
	if reviewer.ID == "" || reviewer.Weight <= 0 {
		return model.Reviewer{}, fmt.Errorf("registry returned malformed reviewer: %w", model.ErrUnknownReviewer)
	}
	return reviewer, nil
}

var _ ReviewerRegistry = (*RegistryClient)(nil)
