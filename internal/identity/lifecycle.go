package identity

import (
	"encoding/json"
	"log/slog"
)

// State names the session lifecycle phases.
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateChecking        State = "checking"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// SessionStore is the durable key-value storage holding the persisted
// principal between restarts.
type SessionStore interface {
	ReadSession() (json.RawMessage, bool)
	WriteSession(raw json.RawMessage)
	ClearSession()
}

// Lifecycle mediates login/logout transitions and rehydrates the persisted
// principal. A malformed persisted record is treated as no session: the
// lifecycle fails open to unauthenticated, never crashes.
type Lifecycle struct {
	store     SessionStore
	logger    *slog.Logger
	state     State
	principal Principal
}

// NewLifecycle constructs a Lifecycle in the uninitialized state.
func NewLifecycle(store SessionStore, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{store: store, logger: logger, state: StateUninitialized, principal: Anonymous()}
}

// Resume runs the startup transition: uninitialized -> checking, then to
// authenticated when a structurally valid principal was persisted, else to
// unauthenticated. The check function is the credential bulk load that must
// complete before authentication is meaningful; its error does not abort
// the transition.
func (l *Lifecycle) Resume(check func() error) {
	l.state = StateChecking
	if check != nil {
		if err := check(); err != nil && l.logger != nil {
			l.logger.Warn("credential load during session check", slog.Any("error", err))
		}
	}

	raw, ok := l.store.ReadSession()
	if !ok || len(raw) == 0 {
		l.state = StateUnauthenticated
		l.principal = Anonymous()
		return
	}

	p, err := DecodePrincipal(raw)
	if err != nil || p.IsAnonymous() {
		if err != nil && l.logger != nil {
			l.logger.Warn("malformed persisted session, treating as signed out", slog.Any("error", err))
		}
		l.store.ClearSession()
		l.state = StateUnauthenticated
		l.principal = Anonymous()
		return
	}

	l.state = StateAuthenticated
	l.principal = p
}

// Login records a freshly authenticated principal. Re-login while already
// authenticated simply replaces the stored principal.
func (l *Lifecycle) Login(p Principal) {
	l.principal = p
	l.state = StateAuthenticated
	l.store.WriteSession(EncodePrincipal(p))
}

// Logout clears the durable session record.
func (l *Lifecycle) Logout() {
	l.principal = Anonymous()
	l.state = StateUnauthenticated
	l.store.ClearSession()
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	return l.state
}

// Current returns the active principal and whether one is authenticated.
func (l *Lifecycle) Current() (Principal, bool) {
	if l.state != StateAuthenticated {
		return Anonymous(), false
	}
	return l.principal, true
}

// EncodePrincipal serializes a principal for the session store.
func EncodePrincipal(p Principal) json.RawMessage {
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return data
}

// DecodePrincipal parses a persisted principal, validating its shape.
func DecodePrincipal(raw json.RawMessage) (Principal, error) {
	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return Principal{}, err
	}
	switch p.Role {
	case RoleOwner:
		// Owner capability is implicit, stored permissions notwithstanding.
		p.Permissions = FullPermissions()
	case RoleStaff, RoleAnonymous:
	default:
		p = Anonymous()
	}
	return p, nil
}
