package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/compass/pkg/storage"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrDuplicate      = errors.New("session already exists")
	ErrReportNotFound = errors.New("session report not found")
	ErrInvalidRequest = errors.New("invalid session request")
)

// MapHTTPStatus translates session and archive errors into response codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrReportNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
