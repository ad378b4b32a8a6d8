package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fleetparts/partsearch/internal/service"
	"github.com/fleetparts/partsearch/pkg/httputil"
)

// AdminHandler handles administrative HTTP endpoints.
type AdminHandler struct {
	indexer *service.Indexer
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(indexer *service.Indexer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		indexer: indexer,
		logger:  logger,
	}
}

// Reindex handles POST /api/v1/admin/reindex. The full indexing pass runs
// in the background; the request returns immediately.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx := context.Background()
		if err := h.indexer.Run(ctx); err != nil {
			h.logger.ErrorContext(ctx, "background reindex failed", "error", err)
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "reindex started"}})
}
