package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/tribunal/internal/domain/model"
)

// CatalogClient talks to the match catalog over HTTP.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient creates a catalog client for baseURL.
func NewCatalogClient(baseURL string, opts ...Option) *CatalogClient {
	cfg := newHTTPClientConfig(opts...)
	return &CatalogClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cfg.httpClient,
	}
}

// Match fetches the canonical facts for one match. A 404 maps to
// ErrUnknownMatch.
func (c *CatalogClient) Match(ctx context.Context, matchID string) (model.Match, error) {
	if strings.TrimSpace(matchID) == "" {
		return model.Match{}, model.ErrUnknownMatch
	}

	endpoint := c.baseURL + "/matches/" + url.PathEscape(matchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Match{}, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Match{}, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return model.Match{}, model.ErrUnknownMatch
	default:
		return model.Match{}, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var match model.Match
	if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
		return model.Match{}, fmt.Errorf("decode match: %w", err)
	}
	if match.ID == "" || match.Player1ID == "" || match.Player2ID == "" || match.DivisionCode == "" {
		return model.Match{}, fmt.Errorf("catalog returned malformed match: %w", model.ErrUnknownMatch)
	}
	return match, nil
}

// SeasonSchedule fetches the serialized season schedule. The payload
// is passed through opaquely; the derived-view cache stores it as one
// blob.
func (c *CatalogClient) SeasonSchedule(ctx context.Context) ([]byte, error) {
	endpoint := c.baseURL + "/schedule"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build schedule request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schedule request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read schedule payload: %w", err)
	}
	return payload, nil
}

var _ MatchCatalog = (*CatalogClient)(nil)
