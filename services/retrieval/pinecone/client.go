package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/profpick/backend/services/retrieval"
)

// Client is a minimal REST client for the Pinecone query API. It talks to a
// single index endpoint; namespace selection happens per query.
type Client struct {
	indexHost  string
	apiKey     string
	httpClient *http.Client
}

// Config holds the Pinecone client configuration
type Config struct {
	// APIKey for authentication (sent as a header, never logged)
	APIKey string

	// IndexHost is the per-index endpoint, e.g. https://rag-xxxx.svc.pinecone.io
	IndexHost string

	// Timeout for requests
	Timeout time.Duration
}

// NewClient creates a new Pinecone query client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		indexHost: cfg.IndexHost,
		apiKey:    cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Query returns up to topK nearest neighbors in the given namespace, in the
// order reported by the index. Zero matches is a valid result.
func (c *Client) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]retrieval.Match, error) {
	reqBody := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexHost+"/query", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector index query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("vector index query failed: %s: %s", resp.Status, string(body))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	matches := make([]retrieval.Match, 0, len(out.Matches))
	for _, m := range out.Matches {
		match := retrieval.Match{
			ID:    m.ID,
			Score: m.Score,
		}
		if v, ok := m.Metadata["subject"].(string); ok {
			match.Metadata.Subject = v
		}
		if v, ok := m.Metadata["stars"].(float64); ok {
			match.Metadata.Stars = v
		}
		if v, ok := m.Metadata["review"].(string); ok {
			match.Metadata.Review = v
		}
		matches = append(matches, match)
	}
	return matches, nil
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string                 `json:"id"`
		Score    float64                `json:"score"`
		Metadata map[string]interface{} `json:"metadata"`
	} `json:"matches"`
	Namespace string `json:"namespace"`
}
