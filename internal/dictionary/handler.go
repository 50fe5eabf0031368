package dictionary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taihub/taihub/internal/ai"
	"github.com/taihub/taihub/internal/identity"
	"github.com/taihub/taihub/internal/platform/httpx"
	"github.com/taihub/taihub/internal/shared"
)

// MediaEnqueuer schedules background generation of word media.
type MediaEnqueuer interface {
	EnqueueWordImage(ctx context.Context, wordID string) error
	EnqueueWordAudio(ctx context.Context, wordID string) error
}

// Suggester proposes a Tai Khamyang rendering for a word form.
type Suggester interface {
	SuggestTranslation(ctx context.Context, english, assamese string) (*ai.Suggestion, error)
}

// Handler wires HTTP endpoints for the dictionary.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	enqueuer  MediaEnqueuer
	suggester Suggester
	audit     *shared.AuditLogger
	authz     identity.Middleware
	validate  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, enqueuer MediaEnqueuer, suggester Suggester, audit *shared.AuditLogger, authz identity.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		enqueuer:  enqueuer,
		suggester: suggester,
		audit:     audit,
		authz:     authz,
		validate:  validator.New(),
	}
}

// MountRoutes registers dictionary routes on the provided router. Listings
// are public; mutations require the dictionary capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireMutate(identity.DomainDictionary))
		r.Post("/", h.save)
		r.Put("/{id}", h.save)
		r.Delete("/{id}", h.remove)
		r.Post("/{id}/illustrate", h.illustrate)
		r.Post("/{id}/speech", h.speech)
		r.Post("/suggest", h.suggest)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	words, err := h.service.Search(r.Context(), query, category)
	if err != nil {
		h.logger.Error("search words", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if words == nil {
		words = []Word{}
	}
	httpx.JSON(w, http.StatusOK, words)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	word, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such word")
			return
		}
		h.logger.Error("get word", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, word)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req WordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		req.ID = id
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	actor := identity.PrincipalFromContext(r.Context())
	word, err := h.service.Save(r.Context(), req.toWord(), actorName(actor))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such word")
			return
		}
		h.logger.Error("save word", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, word)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete word", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "dictionary.delete", id)
	httpx.NoContent(w)
}

func (h *Handler) illustrate(w http.ResponseWriter, r *http.Request) {
	h.enqueueMedia(w, r, h.enqueuer.EnqueueWordImage)
}

func (h *Handler) speech(w http.ResponseWriter, r *http.Request) {
	h.enqueueMedia(w, r, h.enqueuer.EnqueueWordAudio)
}

func (h *Handler) enqueueMedia(w http.ResponseWriter, r *http.Request, enqueue func(context.Context, string) error) {
	if h.enqueuer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "media generation is not configured")
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := h.service.Get(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no such word")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if err := enqueue(r.Context(), id); err != nil {
		h.logger.Error("enqueue word media", slog.String("word", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued", "id": id})
}

type suggestRequest struct {
	English  string `json:"english" validate:"required,max=200"`
	Assamese string `json:"assamese" validate:"max=200"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "translation suggestions are not configured")
		return
	}
	var req suggestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	suggestion, err := h.suggester.SuggestTranslation(r.Context(), req.English, req.Assamese)
	if err != nil {
		h.logger.Error("suggest translation", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Upstream Error", "translation service is unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, suggestion)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	actor := identity.PrincipalFromContext(r.Context())
	log := shared.AuditLog{Actor: actor.Name, Action: action, Entity: "word", EntityID: entityID}
	if err := h.audit.Record(r.Context(), log); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}

func actorName(p identity.Principal) string {
	if p.Name != "" {
		return p.Name
	}
	if p.Role == identity.RoleOwner {
		return "Owner"
	}
	return "Staff"
}
