package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/accounts", h.createAccount)
		r.Post("/api/accounts/{account}/check", h.checkPassword)
	})

	// authenticated vault routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/accounts/{account}", h.getAccount)
		r.Put("/api/accounts/{account}", h.setMetadata)

		r.Get("/api/accounts/{account}/items", h.fetchAllItems)
		r.Put("/api/accounts/{account}/items/{item}", h.setItem)
		r.Get("/api/accounts/{account}/items/{item}", h.getItem)
		r.Delete("/api/accounts/{account}/items/{item}", h.deleteItem)

		r.Put("/api/accounts/{account}/subscriptions/{token}", h.setSubscription)
		r.Get("/api/accounts/{account}/subscriptions/{token}", h.getSubscription)
	})

	return router
}
