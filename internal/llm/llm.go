package llm

import (
	"context"
	"errors"
	"strings"
)

// Client is the generation collaborator: text in, text plus usage out.
// Cross-cutting concerns (retries, rate limiting, logging) are applied
// via Middleware, not inside provider implementations.
type Client interface {
	Name() string
	Close() error
	GenerateText(ctx context.Context, system, user string, maxTokens int) (string, Usage, error)
}

// ErrMissingConfig means no usable provider credentials were found. It
// is fatal and never retried.
var ErrMissingConfig = errors.New(
	"llm: missing provider configuration; set GEMINI_API_KEY, or all of LITELLM_BASE_URL, LITELLM_API_KEY and LITELLM_MODEL")

// ErrEmptyResponse means the provider returned no usable candidate text.
var ErrEmptyResponse = errors.New("llm: empty response from provider")

// PermanentError marks a failure that will not resolve with retries:
// safety blocks, output-length exhaustion, malformed provider replies.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsTransient reports whether an error is a rate-limit or quota failure
// worth backing off and retrying. Permanent errors are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pErr *PermanentError
	if errors.As(err, &pErr) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "quota", "rate limit", "rate_limit", "resource_exhausted", "too many requests"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
