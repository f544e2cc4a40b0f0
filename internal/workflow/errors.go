// Package workflow implements the assessment request flows for Compass:
// choosing and generating the next interview question, and synthesizing the
// final maturity report from a completed history.
package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/compass/pkg/llm"
)

// Sentinel errors for workflow operations.
var (
	ErrNoQuestion     = errors.New("provider returned no question text")
	ErrGenerateFailed = errors.New("generation produced unusable output")
)

// MapHTTPStatus maps workflow and provider errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, llm.ErrExhausted), errors.Is(err, llm.ErrNoProviders):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNoQuestion), errors.Is(err, ErrGenerateFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
