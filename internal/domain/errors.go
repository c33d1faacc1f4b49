package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrUserNotFound is returned when the submitting user does not
	// resolve to a known user.
	ErrUserNotFound = errors.New("user does not exist")

	// ErrInvalidTags is the umbrella error for a rejected tagged-user
	// list. The specific reasons below all wrap it so callers can
	// treat any tagging problem as one rejection class.
	ErrInvalidTags = errors.New("incorrectly tagged users")

	// ErrEmptyImage is returned when a submission carries no image data.
	ErrEmptyImage = errors.New("image cannot be empty")

	// Specific tagging rejections. Each wraps ErrInvalidTags.

	// ErrDuplicateTag indicates the same user was tagged more than once.
	ErrDuplicateTag = fmt.Errorf("%w: duplicate tagged user", ErrInvalidTags)

	// ErrSelfTag indicates the post owner appears in their own tag list.
	ErrSelfTag = fmt.Errorf("%w: owner cannot tag themselves", ErrInvalidTags)

	// ErrUnknownTaggedUser indicates a tagged user that does not exist.
	ErrUnknownTaggedUser = fmt.Errorf("%w: unknown tagged user", ErrInvalidTags)
)
