package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

var (
	// ErrExhausted is returned when every provider failed every attempt.
	ErrExhausted = errors.New("generation providers exhausted")
	// ErrNoProviders indicates no provider could be constructed.
	ErrNoProviders = errors.New("no generation providers available")
	// ErrEmptyResponse indicates a provider answered without content.
	ErrEmptyResponse = errors.New("provider returned empty content")
	// ErrUnknownKind indicates an unsupported provider kind.
	ErrUnknownKind = errors.New("unknown provider kind")
)

// StatusError is a provider failure carrying an HTTP status code.
type StatusError struct {
	Provider string
	Code     int
	Err      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Code, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Retryable reports whether the status is worth another attempt on the same provider.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusRequestTimeout ||
		e.Code == http.StatusTooManyRequests ||
		e.Code >= http.StatusInternalServerError
}

// TransportError is a provider failure without an HTTP status: connection
// errors, timeouts, and malformed or empty responses.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// classify wraps a raw client error as a StatusError or TransportError.
func classify(provider string, err error) error {
	var se *StatusError
	var te *TransportError
	if errors.As(err, &se) || errors.As(err, &te) {
		return err
	}
	if code, ok := statusCode(err); ok {
		return &StatusError{Provider: provider, Code: code, Err: err}
	}
	return &TransportError{Provider: provider, Err: err}
}

func statusCode(err error) (int, bool) {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode, true
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode, true
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	return 0, false
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

// ErrorKind labels an error for logs and metrics.
func ErrorKind(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return "status"
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "transport"
	}
	return "other"
}
