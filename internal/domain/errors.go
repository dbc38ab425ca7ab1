package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInvalidDimension  = "INVALID_DIMENSION"
	ErrCodePersistence       = "PERSISTENCE_FAILURE"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeAllSourcesDown    = "ALL_SOURCES_UNAVAILABLE"
	ErrCodeEmbeddingFailure  = "EMBEDDING_FAILURE"
	ErrCodeUpstreamFailure   = "UPSTREAM_FAILURE"
	ErrCodeEmptyResponse     = "EMPTY_RESPONSE"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyTopic           = NewDomainError(ErrCodeValidation, "topic is required")
	ErrEmptyQuery           = NewDomainError(ErrCodeValidation, "query is required")
	ErrInvalidContentType   = NewDomainError(ErrCodeValidation, "invalid content type")
	ErrInvalidLength        = NewDomainError(ErrCodeValidation, "invalid length")
	ErrInvalidTone          = NewDomainError(ErrCodeValidation, "invalid tone")
	ErrInvalidThreshold     = NewDomainError(ErrCodeValidation, "threshold must be between 0 and 1")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Store errors
var (
	ErrEntryNotFound     = NewDomainError(ErrCodeNotFound, "knowledge entry not found")
	ErrWrongDimension    = NewDomainError(ErrCodeInvalidDimension, "embedding dimension does not match collection")
	ErrEntryNotPersisted = NewDomainError(ErrCodePersistence, "failed to persist knowledge entry")
)

// Retrieval errors
var (
	ErrSourceUnavailable     = NewDomainError(ErrCodeSourceUnavailable, "retrieval source unavailable")
	ErrAllSourcesUnavailable = NewDomainError(ErrCodeAllSourcesDown, "all retrieval sources unavailable")
)

// Generation errors
var (
	ErrUpstreamGeneration = NewDomainError(ErrCodeUpstreamFailure, "upstream generation call failed")
	ErrEmptyGeneration    = NewDomainError(ErrCodeEmptyResponse, "generation returned no usable text")
)

// Auth errors
var (
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)
