// =============================================================================
// Buyer Ledger - API Routes
// =============================================================================

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/skdtraders/buyer-ledger/internal/store"
)

// NewRouter wires the middleware stack and the endpoint set.
func NewRouter(s store.Store) chi.Router {
	h := NewHandlers(s)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The desk client is a separate static site, so CORS stays open for
	// the usual local dev origins plus whatever is deployed in front.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/buyers", func(r chi.Router) {
			r.Get("/", h.ListBuyers)
			r.Post("/", h.BulkUpsertBuyers)
			r.Delete("/", h.DeleteAllBuyers)
			r.Get("/export", h.ExportBuyers)
			r.Patch("/{buyer}", h.UpdateBuyerPayment)
		})
		r.Post("/import", h.ImportSpreadsheet)
	})

	return r
}
