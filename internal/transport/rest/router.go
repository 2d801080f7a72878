package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/tuannda/membership-payments/internal/transport/middleware"
	"github.com/tuannda/membership-payments/internal/transport/swagger"
	"github.com/tuannda/membership-payments/internal/webhook"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, guard *webhook.Guard, webhookHandler *webhook.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Gateway-facing webhook endpoint, guarded before anything else runs
	if webhookHandler != nil && guard != nil {
		router.Group(func(gr chi.Router) {
			gr.Use(guard.Middleware(webhookHandler.BaseHandler))
			gr.Post("/payments/{provider}/webhook", webhookHandler.HandleWebhook)
		})
	}

	// Internal API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if webhookHandler != nil {
			r.Get("/orders/{code}", webhookHandler.HandleGetOrder)
		}
	})
}
