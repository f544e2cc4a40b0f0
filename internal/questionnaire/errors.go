// Package questionnaire exposes the assessment engine over HTTP: the
// next-question / report endpoint, the phase catalog, and score breakdowns.
package questionnaire

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/compass/internal/workflow"
)

// Request boundary errors.
var (
	ErrUnsupportedMediaType = errors.New("content type must be application/json")
	ErrMalformedRequest     = errors.New("malformed request")
	ErrRequestTooLarge      = errors.New("request body exceeds maximum size")
)

// MapHTTPStatus maps boundary, workflow, and provider errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest
	}
	return workflow.MapHTTPStatus(err)
}
