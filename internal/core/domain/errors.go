package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist,
	// is soft-deleted, or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input,
	// such as empty text where non-empty text is required.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates two vectors of different
	// lengths were compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCredentialMissing indicates no embedding API key could be
	// resolved from any configured credential source.
	ErrCredentialMissing = errors.New("no embedding API key configured")
)

// ProviderError carries the error payload returned by the embedding
// provider. It is returned whenever the provider responds with a non-2xx
// status or a malformed body.
type ProviderError struct {
	// Message is the provider's human-readable error message.
	Message string

	// Code is the provider's machine-readable error code, if any.
	Code string

	// StatusCode is the HTTP status of the failed response.
	// Zero when the response could not be parsed at all.
	StatusCode int
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("embedding provider error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("embedding provider error (status %d): %s", e.StatusCode, e.Message)
}
