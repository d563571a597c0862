// Package apperrors defines the error taxonomy shared by the session engine,
// the request client, the insight orchestrator, and the report renderer.
// Callers branch on these types with errors.As / the Is* helpers; the HTTP
// layer maps them to status codes and error codes.
package apperrors

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure or a non-payload (unstructured) server
// response. StatusCode is zero when the request never reached the server.
type NetworkError struct {
	Err        error
	StatusCode int
	Message    string
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("server returned non-payload response (status %d)", e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthExpiredError signals that token refresh failed and the session is
// irrecoverable. It is never silently absorbed: the client clears all stored
// session state before returning it.
type AuthExpiredError struct {
	Err error
}

func (e *AuthExpiredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session expired: %v", e.Err)
	}
	return "session expired"
}

func (e *AuthExpiredError) Unwrap() error { return e.Err }

// QuotaExceededError is a provider-reported rate/quota rejection. Surfaced
// distinctly from GenerationError so the caller can present an upgrade path.
type QuotaExceededError struct {
	Err error
}

func (e *QuotaExceededError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation quota exceeded: %v", e.Err)
	}
	return "generation quota exceeded"
}

func (e *QuotaExceededError) Unwrap() error { return e.Err }

// GenerationError is any insight-provider failure that is not a quota signal
// and not a parse failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("insight generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedResponseError means a structured provider payload did not match
// the requested schema. Distinct from transport failures: the call succeeded
// but the content is unusable.
type MalformedResponseError struct {
	Err error
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ValidationError blocks an operation before it runs; submission with
// incomplete answers is the primary case.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RenderError is a document-generation failure.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("report rendering failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Classification helpers.

func IsNetwork(err error) bool {
	var t *NetworkError
	return errors.As(err, &t)
}

func IsAuthExpired(err error) bool {
	var t *AuthExpiredError
	return errors.As(err, &t)
}

func IsQuotaExceeded(err error) bool {
	var t *QuotaExceededError
	return errors.As(err, &t)
}

func IsMalformedResponse(err error) bool {
	var t *MalformedResponseError
	return errors.As(err, &t)
}

func IsValidation(err error) bool {
	var t *ValidationError
	return errors.As(err, &t)
}
