package identity

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taihub/taihub/internal/platform/httpx"
	"github.com/taihub/taihub/internal/shared"
)

// Handler wires HTTP endpoints for authentication and staff management.
type Handler struct {
	logger   *slog.Logger
	store    *Store
	csrf     *shared.CSRFManager
	audit    *shared.AuditLogger
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, store *Store, csrf *shared.CSRFManager, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:   logger,
		store:    store,
		csrf:     csrf,
		audit:    audit,
		validate: validator.New(),
	}
}

// MountAuthRoutes registers authentication routes on the provided router.
func (h *Handler) MountAuthRoutes(r chi.Router) {
	r.Post("/setup", h.handleSetup)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)

	mw := Middleware{Logger: h.logger}
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireOwner())
		r.Put("/credentials", h.handleRotateCredentials)
	})
}

// MountStaffRoutes registers owner-only staff management routes.
func (h *Handler) MountStaffRoutes(r chi.Router) {
	mw := Middleware{Logger: h.logger}
	r.Use(mw.RequireOwner())
	r.Get("/", h.handleListStaff)
	r.Put("/", h.handleUpsertStaff)
	r.Delete("/{phone}", h.handleRemoveStaff)
}

// sessionAdapter exposes the request session as the lifecycle's durable
// principal store.
type sessionAdapter struct {
	sess *shared.Session
}

func (a sessionAdapter) ReadSession() (json.RawMessage, bool) {
	if a.sess == nil {
		return nil, false
	}
	raw := a.sess.Principal()
	return raw, len(raw) > 0
}

func (a sessionAdapter) WriteSession(raw json.RawMessage) {
	if a.sess != nil {
		a.sess.SetPrincipal(raw)
	}
}

func (a sessionAdapter) ClearSession() {
	if a.sess != nil {
		a.sess.ClearPrincipal()
	}
}

func (h *Handler) lifecycle(r *http.Request) *Lifecycle {
	return NewLifecycle(sessionAdapter{sess: shared.SessionFromContext(r.Context())}, h.logger)
}

type setupRequest struct {
	Phone    string `json:"phone" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=4"`
	Name     string `json:"name" validate:"required,max=100"`
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
	// Intent selects login-surface branding only; it has no authorization
	// effect and the owner path is always tried first regardless.
	Intent string `json:"intent,omitempty" validate:"omitempty,oneof=staff developer"`
}

type rotateRequest struct {
	Phone    string `json:"phone" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=4"`
}

type sessionResponse struct {
	State         State           `json:"state"`
	SetupRequired bool            `json:"setupRequired"`
	Unreachable   bool            `json:"unreachable,omitempty"`
	Principal     *Principal      `json:"principal,omitempty"`
	CanView       map[Domain]bool `json:"canView"`
	CanMutate     map[Domain]bool `json:"canMutate"`
	CSRFToken     string          `json:"csrfToken,omitempty"`
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cred, err := h.store.InitializeOwner(r.Context(), req.Phone, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, ErrAlreadyInitialized) {
			httpx.Problem(w, http.StatusConflict, "Already Initialized", "owner credential already exists")
			return
		}
		h.logger.Error("initialize owner", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{"phone": cred.Phone, "name": cred.Name})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, err := h.store.Authenticate(req.Phone, req.Password)
	if err != nil {
		// One generic message for every failure mode.
		httpx.Problem(w, http.StatusUnauthorized, "Invalid Credentials", "please check phone and password")
		return
	}

	h.lifecycle(r).Login(principal)
	httpx.JSON(w, http.StatusOK, principal)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(r).Logout()
	httpx.NoContent(w)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	lc := h.lifecycle(r)
	lc.Resume(nil)

	resp := sessionResponse{
		State:         lc.State(),
		SetupRequired: h.store.SetupRequired(),
		Unreachable:   h.store.Unreachable(),
		CanView:       map[Domain]bool{},
		CanMutate:     map[Domain]bool{},
	}
	principal, ok := lc.Current()
	if ok {
		p := principal
		resp.Principal = &p
	}
	for _, d := range Domains {
		resp.CanView[d] = CanView(principal, d)
		resp.CanMutate[d] = CanMutate(principal, d)
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil && h.csrf != nil {
		if token, err := h.csrf.EnsureToken(r.Context(), sess); err == nil {
			resp.CSRFToken = token
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRotateCredentials(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cred, err := h.store.RotateOwnerCredential(r.Context(), req.Phone, req.Password)
	if err != nil {
		h.logger.Error("rotate owner credential", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.recordAudit(r, "owner.rotate_credentials", "owner_credential", cred.Phone, nil)
	httpx.JSON(w, http.StatusOK, map[string]string{"phone": cred.Phone, "name": cred.Name})
}

func (h *Handler) handleListStaff(w http.ResponseWriter, r *http.Request) {
	records := h.store.StaffList()
	for i := range records {
		records[i].Password = ""
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) handleUpsertStaff(w http.ResponseWriter, r *http.Request) {
	var rec StaffRecord
	if err := httpx.DecodeJSON(r, &rec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if rec.Phone == "" || rec.Name == "" || rec.Password == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "phone, name and password are required")
		return
	}

	if err := h.store.UpsertStaff(r.Context(), rec); err != nil {
		h.logger.Error("upsert staff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.recordAudit(r, "staff.upsert", "staff_record", rec.Phone, map[string]any{"name": rec.Name})
	rec.Password = ""
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) handleRemoveStaff(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if err := h.store.RemoveStaff(r.Context(), phone); err != nil {
		h.logger.Error("remove staff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "staff.remove", "staff_record", phone, nil)
	httpx.NoContent(w)
}

func (h *Handler) recordAudit(r *http.Request, action, entity, entityID string, meta map[string]any) {
	if h.audit == nil {
		return
	}
	actor := PrincipalFromContext(r.Context())
	log := shared.AuditLog{Actor: actor.Name, Action: action, Entity: entity, EntityID: entityID, Meta: meta}
	if err := h.audit.Record(r.Context(), log); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}
