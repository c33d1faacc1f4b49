package api

import (
	"errors"
	"net/http"

	"github.com/mtereshin/picpost-api/internal/api/shared"
	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
	"github.com/mtereshin/picpost-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes
// without leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrPostNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound

	// Tag validation failures carry a semantic meaning beyond a
	// malformed request, so they map to 422.
	case errors.Is(err, domain.ErrInvalidTags):
		return http.StatusUnprocessableEntity

	// Bad request
	case errors.Is(err, domain.ErrEmptyImage),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrMissingFile):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for
// the error. Rejections keep their text (they describe the caller's
// own input); everything else collapses to a generic message.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, store.ErrPostNotFound):
		return "post not found"
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, task.ErrTaskNotFound):
		return "task not found"
	case errors.Is(err, domain.ErrInvalidTags),
		errors.Is(err, domain.ErrEmptyImage),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrMissingFile):
		return err.Error()
	default:
		return "an internal error occurred"
	}
}
