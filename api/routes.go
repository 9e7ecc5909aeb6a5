package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public site, the auth endpoints, signed-in actions and the admin
// dashboard. The maintenance gate covers the public site only.
func setupRoutes(r chi.Router, h *routeHandlers, sessions sessionMiddleware, gate func(http.Handler) http.Handler) {
	r.Get("/health", h.healthHandler.getHealth())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.authHandler.signUp())
		r.Post("/signin", h.authHandler.signIn())
		r.Post("/signout", h.authHandler.signOut())
		r.Get("/session", h.authHandler.getSession())
	})

	r.Group(func(r chi.Router) {
		r.Use(sessions.optional)
		r.Get("/site", h.settingsHandler.getPublicSettings())

		r.Group(func(r chi.Router) {
			r.Use(gate)

			r.Get("/categories", h.categoryHandler.getCategories())
			r.Get("/projects", h.projectHandler.getProjects())
			r.Get("/projects/{projectID}", h.projectHandler.getProject())
			r.Get("/projects/{projectID}/comments", h.commentHandler.getComments())
			r.Get("/projects/{projectID}/share", h.projectHandler.getShareLinks())
			r.Post("/contact", h.contactHandler.sendContact())

			r.Group(func(r chi.Router) {
				r.Use(sessions.authenticate)
				r.Post("/projects/{projectID}/like", h.commentHandler.toggleLike())
				r.Post("/projects/{projectID}/comments", h.commentHandler.createComment())
				r.Get("/me/profile", h.profileHandler.getProfile())
				r.Patch("/me/profile", h.profileHandler.updateProfile())
			})
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(sessions.authenticate)
		r.Use(sessions.requireAdmin)

		r.Get("/projects", h.adminHandler.getAllProjects())
		r.Post("/projects", h.adminHandler.createProject())
		r.Post("/projects/bulk", h.adminHandler.bulkAction())
		r.Patch("/projects/{projectID}", h.adminHandler.updateProject())
		r.Delete("/projects/{projectID}", h.adminHandler.deleteProject())
		r.Put("/projects/{projectID}/categories", h.adminHandler.setCategories())
		r.Post("/projects/{projectID}/images", h.uploadHandler.addGalleryImages())
		r.Put("/projects/{projectID}/images/order", h.uploadHandler.reorderGallery())
		r.Delete("/projects/{projectID}/images/*", h.uploadHandler.removeGalleryImage())

		r.Delete("/comments/{commentID}", h.commentHandler.deleteComment())

		r.Post("/categories", h.categoryHandler.createCategory())
		r.Patch("/categories/{categoryID}", h.categoryHandler.updateCategory())
		r.Delete("/categories/{categoryID}", h.categoryHandler.deleteCategory())

		r.Get("/settings", h.settingsHandler.getSettings())
		r.Patch("/settings", h.settingsHandler.updateSettings())

		r.Post("/uploads", h.uploadHandler.upload())
	})
}
