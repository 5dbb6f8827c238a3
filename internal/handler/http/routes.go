package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.getServerVersion)

		r.Route("/auth", func(r chi.Router) {
			// routes without authorization
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/verify-email", h.verifyEmail)
			r.Post("/forgot-password", h.forgotPassword)
			r.Post("/reset-password", h.resetPassword)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Post("/logout", h.logout)
				r.Post("/resend-verification", h.resendVerification)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/", h.listUsers)
			r.Get("/profile", h.getProfile)
			r.Put("/profile", h.updateProfile)
			r.Put("/{userID}/role", h.changeRole)
			r.Delete("/{userID}", h.deleteUser)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/", h.listTasks)
			r.Post("/", h.createTask)
			r.Get("/stats", h.taskStats)
			r.Get("/{taskID}", h.getTask)
			r.Put("/{taskID}", h.updateTask)
			r.Delete("/{taskID}", h.deleteTask)
			r.Post("/{taskID}/assign", h.assignTask)
		})
	})

	return router
}
