package retrieval

import (
	"context"
)

// Match is a single nearest-neighbor result from the vector index. ID is the
// professor name; Score is the similarity reported by the index.
type Match struct {
	ID       string        `json:"id"`
	Score    float64       `json:"score"`
	Metadata MatchMetadata `json:"metadata"`
}

// MatchMetadata carries the review fields stored alongside each vector.
// Review is free-text student feedback and may be empty.
type MatchMetadata struct {
	Subject string  `json:"subject"`
	Stars   float64 `json:"stars"`
	Review  string  `json:"review,omitempty"`
}

// Retriever queries an external vector index for the nearest neighbors to a
// query vector. Implementations must preserve the index's ordering (descending
// similarity) and must not re-rank. An empty result is valid, not an error.
type Retriever interface {
	Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error)
}
