package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
)

// DefaultTimeout bounds every call to the external recommendation service.
const DefaultTimeout = 5 * time.Second

// RecommendationClient calls the external AI recommendation service.
// Any failure is reported as an error so the caller can fall back to the
// deterministic engine; this client never retries.
type RecommendationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRecommendationClient creates a client for the given service URL.
// A non-positive timeout falls back to the default.
func NewRecommendationClient(baseURL string, timeout time.Duration) *RecommendationClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RecommendationClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Recommend submits the inventory snapshot and returns the remote
// suggestions together with the service's availability flag. A false flag
// means the model could not produce recommendations right now, which is
// distinct from a legitimate empty result.
func (c *RecommendationClient) Recommend(ctx context.Context, items []domain.Item) ([]domain.RemoteSuggestion, bool, error) {
	payload, err := json.Marshal(recommendationRequest{Items: items})
	if err != nil {
		return nil, false, fmt.Errorf("recommender: marshal snapshot: %w", err)
	}

	url := c.baseURL + "/api/v1/recommendations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("recommender: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("recommender: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("recommender: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("recommender: service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed recommendationResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, false, fmt.Errorf("recommender: parse response: %w", err)
	}

	return parsed.Suggestions, parsed.Available, nil
}

// recommendationRequest mirrors the recommendation service's input model.
type recommendationRequest struct {
	Items []domain.Item `json:"items"`
}

// recommendationResponse mirrors the recommendation service's output model.
type recommendationResponse struct {
	Available   bool                      `json:"available"`
	Suggestions []domain.RemoteSuggestion `json:"suggestions"`
}
