package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taihub/taihub/internal/platform/httpx"
)

// Handler exposes the public counters endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the stats route. Counters are public.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.snapshot)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("stats snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}
