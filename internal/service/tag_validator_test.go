package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtereshin/picpost-api/internal/domain"
)

func TestTagValidator(t *testing.T) {
	ctx := context.Background()
	v := NewTagValidator(newFakeUserDirectory(1, 2, 3))

	t.Run("nil list is valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, 1, nil))
	})

	t.Run("empty list is valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, 1, []int64{}))
	})

	t.Run("known users are valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, 1, []int64{2, 3}))
	})

	t.Run("duplicate tag", func(t *testing.T) {
		err := v.Validate(ctx, 1, []int64{2, 3, 2})
		assert.ErrorIs(t, err, domain.ErrDuplicateTag)
		assert.ErrorIs(t, err, domain.ErrInvalidTags)
	})

	t.Run("self tag", func(t *testing.T) {
		err := v.Validate(ctx, 1, []int64{2, 1})
		assert.ErrorIs(t, err, domain.ErrSelfTag)
	})

	t.Run("unknown tagged user", func(t *testing.T) {
		err := v.Validate(ctx, 1, []int64{2, 99})
		assert.ErrorIs(t, err, domain.ErrUnknownTaggedUser)
	})

	t.Run("lookup failures propagate", func(t *testing.T) {
		broken := newFakeUserDirectory(1, 2)
		broken.err = errBoom
		err := NewTagValidator(broken).Validate(ctx, 1, []int64{2})
		assert.ErrorIs(t, err, errBoom)
		assert.NotErrorIs(t, err, domain.ErrInvalidTags)
	})
}
