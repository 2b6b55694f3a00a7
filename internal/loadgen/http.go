package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/tribunal/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitBatches submits vote batches concurrently using worker pools
func submitBatches(ctx context.Context, config *Config, batches []Batch, stats *Stats) error {
	logger.Get().Info(ctx, "submitting vote batches",
		logger.Int("batches", len(batches)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/v1/votes"

	var (
		submitted int64
		accepted  int64
		skipped   int64
		invalid   int64
		failed    int64
	)

	batchChan := make(chan Batch, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
					resp, err := submitSingleBatch(ctx, client, url, batch)
					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							logger.Get().Warn(ctx, "batch submission failed",
								logger.String("matchID", batch.MatchID),
								logger.Error(err))
						}
						continue
					}
					atomic.AddInt64(&accepted, int64(resp.Accepted))
					atomic.AddInt64(&skipped, int64(len(resp.Skipped)))
					atomic.AddInt64(&invalid, int64(len(resp.Invalid)))
				}
			}
		}()
	}

	go func() {
		defer close(batchChan)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- batch:
			}
		}
	}()

	wg.Wait()

	stats.BatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.VotesAccepted = int(atomic.LoadInt64(&accepted))
	stats.VotesSkipped = int(atomic.LoadInt64(&skipped))
	stats.VotesInvalid = int(atomic.LoadInt64(&invalid))
	stats.BatchesFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "batch submission completed",
		logger.Int("accepted", stats.VotesAccepted),
		logger.Int("skipped", stats.VotesSkipped),
		logger.Int("invalid", stats.VotesInvalid),
		logger.Int("failed", stats.BatchesFailed))

	return nil
}

// submitSingleBatch submits a single batch and parses the outcome
func submitSingleBatch(ctx context.Context, client *HTTPClient, url string, batch Batch) (BatchResponse, error) {
	resp, err := client.Post(ctx, url, batch)
	if err != nil {
		return BatchResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return BatchResponse{}, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var parsed BatchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return BatchResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return parsed, nil
}
