package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/phrazzld/task-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.AllowAll().Handler)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.NewRequestLogger())
	r.Use(middleware.Recoverer)

	// Create API handlers using the application's services
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	systemHandler := api.NewSystemHandler(app.db, app.cache, app.logger)

	// Service identity and health endpoints
	r.Get("/", systemHandler.Root)
	r.Get("/health", systemHandler.Health)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Task endpoints
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Put("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Aggregate statistics
		r.Get("/stats", taskHandler.GetStats)
	})

	return r
}
