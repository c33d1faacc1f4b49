package domain

// Submission is the inbound payload for a new post. It is transient:
// nothing here is persisted directly, the asynchronous pipeline turns
// it into a Post (or a failed task) after the request has returned.
type Submission struct {
	// Image holds the raw uploaded image bytes.
	Image []byte `json:"image"`

	// Description is free text attached to the post.
	Description string `json:"description"`

	// Location is an optional free-text location.
	Location *string `json:"location,omitempty"`

	// TaggedUserIDs optionally lists users tagged in the image, in
	// submission order. A nil slice means "no tags"; validation rules
	// for a non-nil slice live in the tag validator.
	TaggedUserIDs []int64 `json:"tagged_user_ids,omitempty"`
}

// Validate checks the parts of a Submission that do not require any
// external lookup. Tag semantics (duplicates, self-tags, existence)
// are the tag validator's job.
func (s *Submission) Validate() error {
	if len(s.Image) == 0 {
		return ErrEmptyImage
	}
	return nil
}
