package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public, authenticated and admin routes under /api
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", handlers.authHandler.register())
		r.Post("/auth/login", handlers.authHandler.login())
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/skills", handlers.skillHandler.getAllSkills())
		r.Post("/contact", handlers.contactHandler.sendContact())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Get("/auth/me", handlers.authHandler.me())
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

			r.Post("/skills", handlers.skillHandler.createSkill())
			r.Put("/skills/{skillID}", handlers.skillHandler.updateSkill())
			r.Delete("/skills/{skillID}", handlers.skillHandler.deleteSkill())

			r.Post("/contact/test", handlers.contactHandler.sendTest())

			if handlers.uploadHandler != nil {
				r.Post("/uploads", handlers.uploadHandler.uploadMedia())
			}
		})
	})
}
