package videos

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taihub/taihub/internal/identity"
	"github.com/taihub/taihub/internal/platform/httpx"
	"github.com/taihub/taihub/internal/shared"
)

// Handler wires HTTP endpoints for the video catalogue.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	audit    *shared.AuditLogger
	authz    identity.Middleware
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger, authz identity.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		audit:    audit,
		authz:    authz,
		validate: validator.New(),
	}
}

type videoRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	YouTubeURL string `json:"youtubeUrl" validate:"required,url"`
}

// MountRoutes registers video routes. Reads are public; mutations need the
// videos capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireMutate(identity.DomainVideos))
		r.Post("/", h.save)
		r.Put("/{id}", h.save)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list videos", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if out == nil {
		out = []Video{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	video := Video{
		ID:         chi.URLParam(r, "id"),
		Title:      req.Title,
		YouTubeURL: req.YouTubeURL,
	}

	actor := identity.PrincipalFromContext(r.Context())
	saved, err := h.service.Save(r.Context(), video, actor.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such video")
			return
		}
		h.logger.Error("save video", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, saved)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete video", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if h.audit != nil {
		actor := identity.PrincipalFromContext(r.Context())
		log := shared.AuditLog{Actor: actor.Name, Action: "videos.delete", Entity: "video", EntityID: id}
		if err := h.audit.Record(r.Context(), log); err != nil {
			h.logger.Warn("audit record", slog.Any("error", err))
		}
	}
	httpx.NoContent(w)
}
