package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtereshin/picpost-api/internal/api/shared"
	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/mocks"
	"github.com/mtereshin/picpost-api/internal/service"
	"github.com/mtereshin/picpost-api/internal/task"
)

type apiFixture struct {
	router *chi.Mux
	ledger *task.MemoryLedger
	queue  *mocks.MockQueueWriter
	posts  *mocks.MockPostStore
}

func newAPIFixture(t *testing.T, userIDs ...int64) *apiFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := mocks.NewMockUserDirectory(userIDs...)
	ledger := task.NewMemoryLedger()
	queue := &mocks.MockQueueWriter{}
	posts := mocks.NewMockPostStore()

	svc := service.NewPostService(
		users, service.NewTagValidator(users), posts, ledger, queue, logger)

	postHandler := NewPostHandler(svc, logger)
	taskHandler := NewTaskHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/users/{userID}/posts", postHandler.SubmitPost)
		r.Get("/users/{userID}/posts/{postID}", postHandler.GetPost)
		r.Get("/tasks/{taskID}", taskHandler.GetTask)
	})

	return &apiFixture{router: r, ledger: ledger, queue: queue, posts: posts}
}

// submissionForm builds a multipart body with an image plus optional
// extra fields.
func submissionForm(t *testing.T, imageData []byte, fields map[string][]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if imageData != nil {
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	for field, values := range fields {
		for _, v := range values {
			require.NoError(t, writer.WriteField(field, v))
		}
	}
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (f *apiFixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitPostEndpoint(t *testing.T) {
	f := newAPIFixture(t, 1, 2, 3)

	body, contentType := submissionForm(t, testPNG(t), map[string][]string{
		"description":    {"a pier at dusk"},
		"location":       {"Brighton"},
		"tagged_user_id": {"2", "3"},
	})

	rec := f.do(http.MethodPost, "/api/users/1/posts", body, contentType)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp SubmitPostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.AcceptedStatus, resp.Status)
	require.NotEmpty(t, resp.TaskID)

	// The task is in-flight and the queued job carries the form data.
	inFlight, err := f.ledger.IsInFlight(context.Background(), resp.TaskID)
	require.NoError(t, err)
	assert.True(t, inFlight)

	jobs := f.queue.Enqueued()
	require.Len(t, jobs, 1)
	assert.Equal(t, resp.TaskID, jobs[0].TaskID)
	assert.Equal(t, int64(1), jobs[0].OwnerID)
	assert.Equal(t, "a pier at dusk", jobs[0].Description)
	require.NotNil(t, jobs[0].Location)
	assert.Equal(t, "Brighton", *jobs[0].Location)
	assert.Equal(t, []int64{2, 3}, jobs[0].TaggedUserIDs)
}

func TestSubmitPostEndpointRejections(t *testing.T) {
	testCases := []struct {
		name       string
		userID     string
		image      []byte
		fields     map[string][]string
		wantStatus int
	}{
		{
			name:       "unknown owner",
			userID:     "42",
			image:      []byte{1, 2, 3},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "self tag",
			userID:     "1",
			image:      []byte{1, 2, 3},
			fields:     map[string][]string{"tagged_user_id": {"1"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "duplicate tag",
			userID:     "1",
			image:      []byte{1, 2, 3},
			fields:     map[string][]string{"tagged_user_id": {"2", "2"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown tagged user",
			userID:     "1",
			image:      []byte{1, 2, 3},
			fields:     map[string][]string{"tagged_user_id": {"99"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing image",
			userID:     "1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric tag",
			userID:     "1",
			image:      []byte{1, 2, 3},
			fields:     map[string][]string{"tagged_user_id": {"abc"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric user ID",
			userID:     "abc",
			image:      []byte{1, 2, 3},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAPIFixture(t, 1, 2, 3)

			body, contentType := submissionForm(t, tc.image, tc.fields)
			rec := f.do(http.MethodPost, "/api/users/"+tc.userID+"/posts", body, contentType)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Empty(t, f.queue.Enqueued(), "rejected submissions must not enqueue")

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGetPostEndpoint(t *testing.T) {
	f := newAPIFixture(t, 1, 2)

	loc := "Porto"
	postID := f.posts.Seed(&domain.Post{
		UserID:      1,
		ImagePath:   "1/abc.jpg",
		Description: "tiles",
		Location:    &loc,
		CreatedAt:   time.Now().UTC(),
	}, []int64{2})

	rec := f.do(http.MethodGet, "/api/users/1/posts/"+strconv.FormatInt(postID, 10), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, postID, resp.ID)
	assert.Equal(t, int64(1), resp.UserID)
	assert.Equal(t, "1/abc.jpg", resp.ImagePath)
	assert.Equal(t, "tiles", resp.Description)
	require.NotNil(t, resp.Location)
	assert.Equal(t, "Porto", *resp.Location)
	assert.Equal(t, []int64{2}, resp.TaggedUserIDs)
}

func TestGetPostEndpointNotFound(t *testing.T) {
	f := newAPIFixture(t, 1, 2)

	postID := f.posts.Seed(&domain.Post{UserID: 2, ImagePath: "2/x.jpg"}, nil)

	// Missing post.
	rec := f.do(http.MethodGet, "/api/users/1/posts/999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Existing post addressed under the wrong owner.
	rec = f.do(http.MethodGet, "/api/users/1/posts/"+strconv.FormatInt(postID, 10), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
