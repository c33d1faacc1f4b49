package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
	"github.com/mtereshin/picpost-api/internal/task"
)

func TestMapErrorToStatusCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown user", domain.ErrUserNotFound, http.StatusNotFound},
		{"store user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"post not found", store.ErrPostNotFound, http.StatusNotFound},
		{"ledger task not found", task.ErrTaskNotFound, http.StatusNotFound},
		{"self tag", domain.ErrSelfTag, http.StatusUnprocessableEntity},
		{"duplicate tag", domain.ErrDuplicateTag, http.StatusUnprocessableEntity},
		{"unknown tagged user", domain.ErrUnknownTaggedUser, http.StatusUnprocessableEntity},
		{"empty image", domain.ErrEmptyImage, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("context: %w", store.ErrPostNotFound), http.StatusNotFound},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	// Internal failures collapse to a generic message.
	assert.Equal(t, "an internal error occurred",
		GetSafeErrorMessage(errors.New("pq: connection refused user=admin")))

	// Rejections describe the caller's own input and pass through.
	assert.Equal(t, domain.ErrSelfTag.Error(), GetSafeErrorMessage(domain.ErrSelfTag))
	assert.Equal(t, "user not found", GetSafeErrorMessage(domain.ErrUserNotFound))
	assert.Equal(t, "task not found", GetSafeErrorMessage(task.ErrTaskNotFound))
}
