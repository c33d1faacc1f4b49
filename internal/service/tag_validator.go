package service

import (
	"context"
	"fmt"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
)

// TagValidator checks the tagged-user list of a submission: no
// duplicates, no self-tags, and every tagged user must exist. It is
// purely read-only against the user directory.
type TagValidator struct {
	users store.UserDirectory
}

// NewTagValidator creates a TagValidator backed by the given user
// directory.
func NewTagValidator(users store.UserDirectory) *TagValidator {
	return &TagValidator{users: users}
}

// Validate returns nil for an acceptable tag list and an error
// wrapping domain.ErrInvalidTags otherwise. A nil or empty list is
// trivially valid. The cheap structural checks run before any
// directory lookup; lookups short-circuit on the first unknown user.
func (v *TagValidator) Validate(ctx context.Context, ownerID int64, taggedIDs []int64) error {
	if len(taggedIDs) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(taggedIDs))
	for _, id := range taggedIDs {
		if id == ownerID {
			return domain.ErrSelfTag
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: user %d tagged twice", domain.ErrDuplicateTag, id)
		}
		seen[id] = struct{}{}
	}

	for _, id := range taggedIDs {
		exists, err := v.users.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up tagged user %d: %w", id, err)
		}
		if !exists {
			return fmt.Errorf("%w: user %d", domain.ErrUnknownTaggedUser, id)
		}
	}

	return nil
}
