package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/store"
	"github.com/mtereshin/picpost-api/internal/task"
)

// fakeUserDirectory serves a fixed set of user IDs.
type fakeUserDirectory struct {
	users map[int64]struct{}
	// err, when set, is returned by every lookup.
	err error
}

func newFakeUserDirectory(ids ...int64) *fakeUserDirectory {
	users := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		users[id] = struct{}{}
	}
	return &fakeUserDirectory{users: users}
}

func (d *fakeUserDirectory) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	if _, ok := d.users[id]; !ok {
		return nil, store.ErrUserNotFound
	}
	return &domain.User{ID: id, Username: "user", CreatedAt: time.Now().UTC()}, nil
}

func (d *fakeUserDirectory) Exists(ctx context.Context, id int64) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.users[id]
	return ok, nil
}

// recordingQueue captures enqueued jobs; enqueueErr makes Enqueue fail.
type recordingQueue struct {
	mu         sync.Mutex
	jobs       []task.Job
	enqueueErr error
}

func (q *recordingQueue) Enqueue(ctx context.Context, job task.Job) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Close() error { return nil }

func (q *recordingQueue) enqueued() []task.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]task.Job(nil), q.jobs...)
}

// fakeBlobStore keeps saved objects in memory; saveErr makes Save fail.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (b *fakeBlobStore) Save(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if b.saveErr != nil {
		return "", b.saveErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectPath] = data
	return objectPath, nil
}

// fakePostStore assigns sequential post IDs; createErr makes Create fail.
type fakePostStore struct {
	mu        sync.Mutex
	nextID    int64
	posts     map[int64]*domain.Post
	tags      map[int64][]int64
	createErr error
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		nextID: 1,
		posts:  make(map[int64]*domain.Post),
		tags:   make(map[int64][]int64),
	}
}

func (s *fakePostStore) Create(ctx context.Context, post *domain.Post, taggedUserIDs []int64) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	stored := *post
	stored.ID = id
	s.posts[id] = &stored
	s.tags[id] = append([]int64(nil), taggedUserIDs...)
	return id, nil
}

func (s *fakePostStore) GetByID(ctx context.Context, id int64) (*domain.Post, []int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, nil, store.ErrPostNotFound
	}
	return post, s.tags[id], nil
}

func (s *fakePostStore) WithTx(tx *sql.Tx) store.PostStore { return s }

func (s *fakePostStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

var errBoom = errors.New("boom")
