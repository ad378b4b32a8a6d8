package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fleetparts/partsearch/internal/service"
	"github.com/fleetparts/partsearch/pkg/httputil"
)

// PartHandler handles HTTP requests for part detail lookups.
type PartHandler struct {
	service *service.PartService
	logger  *slog.Logger
}

// NewPartHandler creates a new part HTTP handler.
func NewPartHandler(svc *service.PartService, logger *slog.Logger) *PartHandler {
	return &PartHandler{
		service: svc,
		logger:  logger,
	}
}

// GetDetail handles GET /api/v1/parts/{id}
func (h *PartHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "part id is required"},
		})
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}
