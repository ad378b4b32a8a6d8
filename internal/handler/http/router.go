package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetparts/partsearch/internal/service"
	"github.com/fleetparts/partsearch/pkg/health"
	"github.com/fleetparts/partsearch/pkg/middleware"
)

// NewRouter creates a chi router with all partsearch routes registered.
func NewRouter(
	searchService *service.SearchService,
	partService *service.PartService,
	indexer *service.Indexer,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("partsearch"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(searchService, logger)
	partHandler := NewPartHandler(partService, logger)
	adminHandler := NewAdminHandler(indexer, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", searchHandler.Search)
		r.Get("/parts/{id}", partHandler.GetDetail)
		r.Post("/admin/reindex", adminHandler.Reindex)
	})

	return r
}
