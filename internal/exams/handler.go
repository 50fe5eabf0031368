package exams

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taihub/taihub/internal/identity"
	"github.com/taihub/taihub/internal/platform/httpx"
	"github.com/taihub/taihub/internal/shared"
	"github.com/taihub/taihub/internal/students"
)

// Handler wires HTTP endpoints for exams.
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

type questionRequest struct {
	ID            string   `json:"id"`
	Type          string   `json:"type" validate:"required,oneof=translation mcq"`
	Word          string   `json:"word" validate:"required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Options       []string `json:"options" validate:"omitempty,min=2,max=6"`
	AudioURL      string   `json:"audioUrl" validate:"omitempty,url"`
}

type examRequest struct {
	Title            string            `json:"title" validate:"required,max=200"`
	Description      string            `json:"description" validate:"max=2000"`
	Questions        []questionRequest `json:"questions" validate:"required,min=1,dive"`
	TimeLimitMinutes int               `json:"timeLimitMinutes" validate:"required,min=1,max=600"`
	Difficulty       string            `json:"difficulty" validate:"required,oneof=Beginner Intermediate Scholar"`
	IsPublished      bool              `json:"isPublished"`
}

type publishRequest struct {
	Published bool `json:"published"`
}

type submitRequest struct {
	Phone   string   `json:"phone" validate:"required"`
	Answers []Answer `json:"answers" validate:"required,min=1,dive"`
}

// MountRoutes registers exam routes. Authoring and review need the exams
// capability; students reach papers and submissions through their
// approved phone number, never anonymously.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/paper", h.paper)
	r.Post("/{id}/submissions", h.submit)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireMutate(identity.DomainExams))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
		r.Post("/", h.save)
		r.Put("/{id}", h.save)
		r.Put("/{id}/publish", h.publish)
		r.Delete("/{id}", h.remove)
		r.Get("/{id}/submissions", h.submissions)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list exams", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if out == nil {
		out = []Exam{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such exam")
			return
		}
		h.logger.Error("get exam", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	exam := Exam{
		ID:               chi.URLParam(r, "id"),
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Difficulty:       req.Difficulty,
		IsPublished:      req.IsPublished,
	}
	for _, q := range req.Questions {
		exam.Questions = append(exam.Questions, Question{
			ID:            q.ID,
			Type:          QuestionType(q.Type),
			Word:          q.Word,
			CorrectAnswer: q.CorrectAnswer,
			Options:       q.Options,
			AudioURL:      q.AudioURL,
		})
	}

	actor := identity.PrincipalFromContext(r.Context())
	saved, err := h.service.Save(r.Context(), exam, actor.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such exam")
			return
		}
		h.logger.Error("save exam", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, saved)
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	e, err := h.service.SetPublished(r.Context(), id, req.Published)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such exam")
			return
		}
		h.logger.Error("publish exam", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "exams.publish", id)
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete exam", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "exams.delete", id)
	httpx.NoContent(w)
}

func (h *Handler) paper(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	e, err := h.service.Paper(r.Context(), chi.URLParam(r, "id"), phone)
	if err != nil {
		h.respondExamError(w, err, "load paper")
		return
	}
	httpx.JSON(w, http.StatusOK, e)
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

	sub, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"), req.Phone, req.Answers)
	if err != nil {
		h.respondExamError(w, err, "submit exam")
		return
	}
	httpx.JSON(w, http.StatusCreated, sub)
}

func (h *Handler) submissions(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Submissions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such exam")
			return
		}
		h.logger.Error("list submissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if out == nil {
		out = []Submission{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) respondExamError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, students.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no such exam")
	case errors.Is(err, ErrNotEligible):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "exam access has not been granted")
	case errors.Is(err, ErrNotPublished):
		httpx.Problem(w, http.StatusConflict, "Conflict", "exam is not open for submissions")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	actor := identity.PrincipalFromContext(r.Context())
	log := shared.AuditLog{Actor: actor.Name, Action: action, Entity: "exam", EntityID: entityID}
	if err := h.audit.Record(r.Context(), log); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}
