package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"shipment-ops-service/internal/api/handlers"
	"shipment-ops-service/internal/ports"
	"shipment-ops-service/internal/regions"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(
	repo ports.ShipmentRepository,
	tbl *regions.Table,
	statsCache ports.StatsCache,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)

	shipments := &handlers.ShipmentHandler{
		Repo:    repo,
		Regions: tbl,
		Stats:   statsCache,
		Now:     time.Now,
	}

	r.Get("/health", handlers.Health)
	r.Get("/shipments", shipments.List)
	r.Get("/shipments/stats", shipments.GetStats)
	r.Get("/shipments/{id}", shipments.Get)

	return r
}
