package shopify

import "fmt"

// FailureKind classifies a source fetch failure. Both the live client and the
// mock generator surface the same taxonomy so callers never branch on the
// transport.
type FailureKind string

const (
	FailureUnauthorized FailureKind = "unauthorized"
	FailureRateLimited  FailureKind = "rate_limited"
	FailureTimeout      FailureKind = "timeout"
	FailureConnection   FailureKind = "connection_failure"
	FailureUpstream     FailureKind = "upstream_error"
	FailureUnknown      FailureKind = "unknown"
)

// SourceError is the tagged failure returned by a Source. It is never raised
// as a panic; callers inspect Kind to decide how to respond.
type SourceError struct {
	Kind   FailureKind
	Status int
	cause  string
}

func (e *SourceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shopify source %s (status %d): %s", e.Kind, e.Status, e.cause)
	}
	return fmt.Sprintf("shopify source %s: %s", e.Kind, e.cause)
}

// Message renders the caller-facing error text for this failure.
func (e *SourceError) Message() string {
	switch e.Kind {
	case FailureUnauthorized:
		return "Invalid Shopify access token"
	case FailureRateLimited:
		return "Rate limit exceeded. Please try again later."
	case FailureTimeout:
		return "Request timeout. Shopify API may be slow."
	case FailureConnection:
		return "Connection error. Check internet connection."
	case FailureUpstream:
		return fmt.Sprintf("Shopify API error: %d", e.Status)
	default:
		return fmt.Sprintf("Unexpected error: %s", e.cause)
	}
}

func newSourceError(kind FailureKind, status int, cause string) *SourceError {
	return &SourceError{Kind: kind, Status: status, cause: cause}
}

// Unauthorized reports invalid store credentials.
func Unauthorized(cause string) *SourceError {
	return newSourceError(FailureUnauthorized, 401, cause)
}

// RateLimited reports an upstream throttle response.
func RateLimited(cause string) *SourceError {
	return newSourceError(FailureRateLimited, 429, cause)
}

// Timeout reports an expired request deadline.
func Timeout(cause string) *SourceError {
	return newSourceError(FailureTimeout, 0, cause)
}

// ConnectionFailure reports a transport-level failure before any response.
func ConnectionFailure(cause string) *SourceError {
	return newSourceError(FailureConnection, 0, cause)
}

// UpstreamError reports a non-OK upstream status outside the dedicated kinds.
func UpstreamError(status int, cause string) *SourceError {
	return newSourceError(FailureUpstream, status, cause)
}

// Unknown reports an unclassified failure, typically a decode error.
func Unknown(cause string) *SourceError {
	return newSourceError(FailureUnknown, 0, cause)
}
