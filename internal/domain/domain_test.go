package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtereshin/picpost-api/internal/domain"
)

func TestNewPost(t *testing.T) {
	t.Run("valid post", func(t *testing.T) {
		loc := "Lisbon"
		post, err := domain.NewPost(42, "42/abc.jpg", "sunset", &loc)
		require.NoError(t, err)
		assert.Equal(t, int64(42), post.UserID)
		assert.Equal(t, "42/abc.jpg", post.ImagePath)
		assert.Equal(t, "sunset", post.Description)
		require.NotNil(t, post.Location)
		assert.Equal(t, "Lisbon", *post.Location)
		assert.False(t, post.CreatedAt.IsZero())
		assert.Zero(t, post.ID, "storage assigns the ID")
	})

	t.Run("missing image path", func(t *testing.T) {
		_, err := domain.NewPost(42, "", "sunset", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyImagePath)
	})

	t.Run("invalid owner", func(t *testing.T) {
		_, err := domain.NewPost(0, "42/abc.jpg", "", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidOwner)
	})
}

func TestSubmissionValidate(t *testing.T) {
	t.Run("image required", func(t *testing.T) {
		s := &domain.Submission{Description: "no picture"}
		assert.ErrorIs(t, s.Validate(), domain.ErrEmptyImage)
	})

	t.Run("tags are optional", func(t *testing.T) {
		s := &domain.Submission{Image: []byte{0xff, 0xd8}}
		assert.NoError(t, s.Validate())
	})
}

func TestUserValidate(t *testing.T) {
	cases := []struct {
		name    string
		user    domain.User
		wantErr error
	}{
		{"valid", domain.User{ID: 1, Username: "ana"}, nil},
		{"zero id", domain.User{ID: 0, Username: "ana"}, domain.ErrInvalidUserID},
		{"blank username", domain.User{ID: 1, Username: "   "}, domain.ErrEmptyUsername},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestTagErrorsWrapInvalidTags(t *testing.T) {
	for _, err := range []error{
		domain.ErrDuplicateTag,
		domain.ErrSelfTag,
		domain.ErrUnknownTaggedUser,
	} {
		assert.True(t, errors.Is(err, domain.ErrInvalidTags), "%v should wrap ErrInvalidTags", err)
	}
}
