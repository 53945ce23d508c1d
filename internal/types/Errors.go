/*

Error taxonomy for the analysis engine. Every failure surfaced out of the
engine is one of these; the orchestrator classifies them into an ErrorKind
so the transport layer can map kinds onto HTTP statuses without inspecting
error internals.

*/

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the coarse classification attached to error-shaped results.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindRateLimit  ErrorKind = "rate_limit"
	KindUpstream   ErrorKind = "upstream"
	KindResolution ErrorKind = "resolution"
	KindInternal   ErrorKind = "internal"
)

// ErrIncompleteIdentity indicates resolution finished without producing a
// usable identity.
var ErrIncompleteIdentity = errors.New("identity could not be completed")

// ValidationError carries every format violation found in the raw input,
// not just the first one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Violations, "; ")
}

// NotFoundError indicates no asset matched the given query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no asset found for %q", e.Query)
}

// RateLimitError indicates admission was denied for a client.
type RateLimitError struct {
	ClientID string
	Limit    int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for client %q (max %d requests per minute)", e.ClientID, e.Limit)
}

// UpstreamError indicates a specific provider call failed: network error,
// timeout, non-2xx status, or an unparseable payload.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ResolutionError indicates the identity never became complete.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return "identity resolution failed: " + e.Reason
}

// ClassifyError maps an engine error onto its ErrorKind.
func ClassifyError(err error) ErrorKind {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		rateLimitErr  *RateLimitError
		upstreamErr   *UpstreamError
		resolutionErr *ResolutionError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.As(err, &rateLimitErr):
		return KindRateLimit
	case errors.As(err, &upstreamErr):
		return KindUpstream
	case errors.As(err, &resolutionErr), errors.Is(err, ErrIncompleteIdentity):
		return KindResolution
	default:
		return KindInternal
	}
}
