package llm

import (
	"context"
	"errors"
	"net"
	"os"
)

// Error is the uniform error kind for every dispatch failure: transport,
// HTTP status, malformed body, or an unsupported provider identifier. It
// always carries the upstream cause message.
type Error struct {
	Type        ErrorType
	Message     string
	Retryable   bool
	StatusCode  int
	ProviderErr error // original provider-specific error
}

// ErrorType categorizes an Error. Callers branch on behavior (retryable or
// not), not on provider identity.
type ErrorType string

const (
	ErrorTypeUnsupportedProvider ErrorType = "unsupported_provider"
	ErrorTypeInvalidRequest      ErrorType = "invalid_request"
	ErrorTypeRateLimit           ErrorType = "rate_limit"
	ErrorTypeTimeout             ErrorType = "timeout"
	ErrorTypeNetwork             ErrorType = "network"
	ErrorTypeProvider            ErrorType = "provider"
	ErrorTypeUnknown             ErrorType = "unknown"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ProviderErr != nil {
		return e.Message + ": " + e.ProviderErr.Error()
	}
	return e.Message
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.ProviderErr
}

// IsRetryableError checks whether an error is worth retrying at a calling
// layer. The dispatch layer itself never retries.
func IsRetryableError(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

// NewProviderError creates a non-retryable provider error.
func NewProviderError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeProvider,
		Message:     message,
		ProviderErr: providerErr,
	}
}

// NewUnsupportedProviderError reports a provider identifier outside the
// closed provider table. It is raised before any network attempt.
func NewUnsupportedProviderError(provider string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedProvider,
		Message: "unsupported provider: " + provider,
	}
}

// isTimeout reports whether err is a deadline or timeout failure from any
// layer of the transport stack.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
