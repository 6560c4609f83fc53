package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all handlers behind the shared middleware stack.
func NewRouter(cartHandler *CartHandler, productHandler *ProductHandler, shippingHandler *ShippingHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MockAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{name}", cartHandler.RemoveItem)
		})

		r.Get("/products", productHandler.Get)

		r.Post("/orders", cartHandler.Checkout)

		r.Get("/shipping-types", shippingHandler.ListShippingTypes)
		r.Route("/shippings", func(r chi.Router) {
			r.Get("/{id}", shippingHandler.GetShipping)
			r.Get("/{id}/status", shippingHandler.CheckStatus)
			r.Post("/{id}/complete", shippingHandler.CompleteShipping)
			r.Post("/process-batch", shippingHandler.ProcessBatch)
		})
	})

	return r
}
