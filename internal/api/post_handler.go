package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mtereshin/picpost-api/internal/api/shared"
	"github.com/mtereshin/picpost-api/internal/domain"
	"github.com/mtereshin/picpost-api/internal/service"
)

// PostHandler serves the post submission and retrieval endpoints.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger.With("component", "post_handler"),
	}
}

// SubmitPost handles POST /api/users/{userID}/posts. The body is a
// multipart form with an "image" file plus optional "description",
// "location" and repeated "tagged_user_id" fields. A valid submission
// is answered immediately with 202 and a task ID to poll.
func (h *PostHandler) SubmitPost(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid user ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, shared.MaxUploadBytes)
	if err := r.ParseMultipartForm(shared.MaxUploadBytes); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"invalid multipart form", err)
		return
	}

	image, err := shared.ReadFormFile(r, "image")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	taggedUserIDs, err := shared.FormInt64s(r, "tagged_user_id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"invalid tagged_user_id", err)
		return
	}

	submission := &domain.Submission{
		Image:         image,
		Description:   r.FormValue("description"),
		Location:      shared.OptionalFormValue(r, "location"),
		TaggedUserIDs: taggedUserIDs,
	}

	receipt, err := h.posts.SubmitPost(r.Context(), userID, submission)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitPostResponse{
		Status: receipt.Status,
		TaskID: receipt.TaskID,
	})
}

// GetPost handles GET /api/users/{userID}/posts/{postID}.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid user ID")
		return
	}
	postID, err := pathInt64(r, "postID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, taggedUserIDs, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	// A post is only addressable under its owner's collection.
	if post.UserID != userID {
		shared.RespondWithError(w, r, http.StatusNotFound, "post not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toPostResponse(post, taggedUserIDs))
}

// pathInt64 parses a chi URL parameter as int64.
func pathInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
