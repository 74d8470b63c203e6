package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeExternal     ErrorType = "external"
	ErrorTypeStream       ErrorType = "stream"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on the error category so sentinel errors below work with errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

var (
	// Validation errors (invalid input from the caller)
	ErrEmptyConversation = NewDomainError(ErrorTypeValidation, "conversation is empty", nil)
	ErrEmptyMessage      = NewDomainError(ErrorTypeValidation, "last message has no content", nil)
	ErrInvalidPayload    = NewDomainError(ErrorTypeValidation, "invalid conversation payload", nil)

	// Authorization errors
	ErrUnauthorized = NewDomainError(ErrorTypeUnauthorized, "unauthorized", nil)
	ErrInvalidToken = NewDomainError(ErrorTypeUnauthorized, "invalid authentication token", nil)

	// Not found errors
	ErrConversationNotFound = NewDomainError(ErrorTypeNotFound, "conversation not found", nil)

	// External collaborator errors (embedding, vector index, generation)
	ErrEmbeddingUnavailable  = NewDomainError(ErrorTypeExternal, "embedding service unavailable", nil)
	ErrIndexUnavailable      = NewDomainError(ErrorTypeExternal, "vector index unavailable", nil)
	ErrGenerationUnavailable = NewDomainError(ErrorTypeExternal, "generation service unavailable", nil)

	// Stream errors
	ErrStreamWrite = NewDomainError(ErrorTypeStream, "failed to write response stream", nil)

	// Internal errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error", nil)
)

// GetErrorType returns the category of an error, or internal for unknown errors
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal
}

// GetErrorDetails extracts the details map from a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an authorization error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsExternalError checks if an error came from an upstream collaborator
func IsExternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeExternal
}

// IsStreamError checks if an error occurred while writing the response stream
func IsStreamError(err error) bool {
	return GetErrorType(err) == ErrorTypeStream
}

// IsInternalError checks if an error is internal
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}
