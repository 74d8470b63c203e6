package providers

import (
	"context"
)

// Embedder turns text into a fixed-length numeric vector via an external
// embedding service.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Generator sends a flattened prompt to an external text-generation service
// and returns the full completion text. The call blocks until the complete
// text is available; streaming to the HTTP caller happens downstream.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ProviderError represents an error from an external provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates if the request can be retried
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if provErr, ok := err.(*ProviderError); ok {
		return provErr.Retryable
	}
	return false
}
