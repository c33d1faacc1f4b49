package task

import "errors"

// Job validation errors.
var (
	ErrEmptyTaskID = errors.New("job task ID cannot be empty")
	ErrEmptyJob    = errors.New("job image payload cannot be empty")
)

// Job is the payload handed from the dispatcher to the queue for
// out-of-band execution by a worker. It always carries the same task
// ID the dispatcher registered in-flight; the worker finalizes the
// ledger under that ID and nothing else.
type Job struct {
	TaskID        string  `json:"task_id"`
	OwnerID       int64   `json:"owner_id"`
	Image         []byte  `json:"image"`
	Description   string  `json:"description"`
	Location      *string `json:"location,omitempty"`
	TaggedUserIDs []int64 `json:"tagged_user_ids,omitempty"`
}

// Validate checks that the job is complete enough to process.
func (j *Job) Validate() error {
	if j.TaskID == "" {
		return ErrEmptyTaskID
	}
	if len(j.Image) == 0 {
		return ErrEmptyJob
	}
	return nil
}
