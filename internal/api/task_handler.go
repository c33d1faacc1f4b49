package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mtereshin/picpost-api/internal/api/shared"
	"github.com/mtereshin/picpost-api/internal/service"
)

// TaskHandler serves the task polling endpoint.
type TaskHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(posts *service.PostService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		posts:  posts,
		logger: logger.With("component", "task_handler"),
	}
}

// GetTask handles GET /api/tasks/{taskID}. Solved tasks carry the
// committed post ID; failed tasks carry the failure text.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid task ID")
		return
	}

	status, err := h.posts.TaskOutcome(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskStatusResponse{
		TaskID: status.TaskID,
		State:  string(status.State),
		PostID: status.PostID,
		Error:  status.Error,
	})
}
