package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/okrahel/venue_flow/internal/core/services"
)

// NewRouter mounts every tenant-scoped surface under /v1/tenants/{tenant}.
func NewRouter(svc *services.WorkflowService, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	queue := NewQueueHandler(svc, logger)
	bookings := NewBookingHandler(svc)
	couriers := NewCourierHandler(svc)
	auctions := NewAuctionHandler(svc)
	applications := NewApplicationHandler(svc)

	r.Route("/v1/tenants/{tenant}", func(r chi.Router) {
		r.Route("/queue", queue.Routes)
		r.Route("/bookings", bookings.Routes)
		r.Route("/couriers", couriers.Routes)
		r.Route("/auctions", auctions.Routes)
		r.Route("/applications", applications.Routes)
	})

	return r
}
