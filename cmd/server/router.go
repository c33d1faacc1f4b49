package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mtereshin/picpost-api/internal/api"
	apiMiddleware "github.com/mtereshin/picpost-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	postHandler := api.NewPostHandler(app.postService, app.logger)
	taskHandler := api.NewTaskHandler(app.postService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/{userID}/posts", postHandler.SubmitPost)
		r.Get("/users/{userID}/posts/{postID}", postHandler.GetPost)
		r.Get("/tasks/{taskID}", taskHandler.GetTask)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
