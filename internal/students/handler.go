package students

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

// Handler wires HTTP endpoints for student admissions.
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

type submitRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required,min=6,max=20"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address" validate:"max=500"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,url"`
}

type reviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type examAccessRequest struct {
	Allowed bool `json:"allowed"`
}

// MountRoutes registers admission routes. Applications and status checks
// are public; review requires the exams capability since approval feeds
// the exam gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.submit)
	r.Get("/status", h.status)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireMutate(identity.DomainExams))
		r.Get("/", h.list)
		r.Post("/{id}/review", h.review)
		r.Put("/{id}/exam-access", h.examAccess)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.Submit(r.Context(), Request{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Email:    req.Email,
		Address:  req.Address,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		h.logger.Error("submit student request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	created.Password = ""
	httpx.JSON(w, http.StatusCreated, created)
}

// status lets an applicant check their own outcome by phone without
// authenticating. The stored password is only echoed once approved, so
// the student can log in to the member area.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if identity.NormalizePhone(phone) == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "phone query parameter is required")
		return
	}
	req, err := h.service.StatusByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no request for that phone number")
			return
		}
		h.logger.Error("student status", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if req.Status != StatusApproved {
		req.Password = ""
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list student requests", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	for i := range out {
		out[i].Password = ""
	}
	if out == nil {
		out = []Request{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.service.Review(r.Context(), id, Status(req.Status))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such request")
			return
		}
		h.logger.Error("review student request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "students.review."+req.Status, id)
	updated.Password = ""
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) examAccess(w http.ResponseWriter, r *http.Request) {
	var req examAccessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.service.SetExamAccess(r.Context(), id, req.Allowed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such request")
			return
		}
		h.logger.Error("set exam access", slog.Any("error", err))
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
		return
	}
	updated.Password = ""
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete student request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "students.delete", id)
	httpx.NoContent(w)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	actor := identity.PrincipalFromContext(r.Context())
	log := shared.AuditLog{Actor: actor.Name, Action: action, Entity: "student_request", EntityID: entityID}
	if err := h.audit.Record(r.Context(), log); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}
