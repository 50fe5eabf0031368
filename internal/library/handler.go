package library

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

// Handler wires HTTP endpoints for the library shelf.
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

type bookRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Author      string `json:"author" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	PDFURL      string `json:"pdfUrl" validate:"required,url"`
}

// MountRoutes registers library routes. Reads are public; mutations need
// the library capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireMutate(identity.DomainLibrary))
		r.Post("/", h.save)
		r.Put("/{id}", h.save)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list books", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSON(w, http.StatusOK, books)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such book")
			return
		}
		h.logger.Error("get book", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	book := Book{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		PDFURL:      req.PDFURL,
	}

	actor := identity.PrincipalFromContext(r.Context())
	saved, err := h.service.Save(r.Context(), book, actor.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such book")
			return
		}
		h.logger.Error("save book", slog.Any("error", err))
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
		h.logger.Error("delete book", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if h.audit != nil {
		actor := identity.PrincipalFromContext(r.Context())
		log := shared.AuditLog{Actor: actor.Name, Action: "library.delete", Entity: "book", EntityID: id}
		if err := h.audit.Record(r.Context(), log); err != nil {
			h.logger.Warn("audit record", slog.Any("error", err))
		}
	}
	httpx.NoContent(w)
}
