package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taihub/taihub/internal/identity"
	"github.com/taihub/taihub/internal/shared"
	_ "github.com/taihub/taihub/testing"
)

type fakeRepo struct {
	owner *identity.OwnerCredential
	staff map[string]identity.StaffRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{staff: make(map[string]identity.StaffRecord)}
}

func (f *fakeRepo) FetchOwnerCredential(ctx context.Context) (*identity.OwnerCredential, error) {
	return f.owner, nil
}

func (f *fakeRepo) SaveOwnerCredential(ctx context.Context, cred identity.OwnerCredential) error {
	f.owner = &cred
	return nil
}

func (f *fakeRepo) FetchAllStaff(ctx context.Context) ([]identity.StaffRecord, error) {
	out := make([]identity.StaffRecord, 0, len(f.staff))
	for _, rec := range f.staff {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepo) SaveStaffRecord(ctx context.Context, rec identity.StaffRecord) error {
	f.staff[rec.Phone] = rec
	return nil
}

func (f *fakeRepo) DeleteStaffRecord(ctx context.Context, phone string) error {
	delete(f.staff, phone)
	return nil
}

type testApp struct {
	router   http.Handler
	sessions *shared.SessionManager
	store    *identity.Store
}

func newTestApp(t *testing.T, repo identity.Repository) *testApp {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrfsecret")

	store := identity.NewStore(repo, nil)
	require.NoError(t, store.Load(context.Background()))

	handler := identity.NewHandler(nil, store, csrf, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
			if err := sessions.Commit(ctx, w, req, sess); err != nil {
				t.Fatalf("commit session: %v", err)
			}
		})
	})
	r.Route("/auth", handler.MountAuthRoutes)
	r.Route("/staff", handler.MountStaffRoutes)

	return &testApp{router: r, sessions: sessions, store: store}
}

func (a *testApp) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	res := httptest.NewRecorder()
	a.router.ServeHTTP(res, req)
	return res
}

func TestLoginAndSessionRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	repo.owner = &identity.OwnerCredential{Phone: "9000000001", Password: "root1234", Name: "Admin"}
	app := newTestApp(t, repo)

	res := app.do(t, http.MethodPost, "/auth/login", `{"phone":"+91 9000000001","password":"root1234"}`, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var p identity.Principal
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &p))
	assert.Equal(t, identity.RoleOwner, p.Role)

	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)

	res = app.do(t, http.MethodGet, "/auth/session", "", cookies)
	require.Equal(t, http.StatusOK, res.Code)
	var sess struct {
		State     identity.State           `json:"state"`
		Principal *identity.Principal      `json:"principal"`
		CanMutate map[identity.Domain]bool `json:"canMutate"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &sess))
	assert.Equal(t, identity.StateAuthenticated, sess.State)
	require.NotNil(t, sess.Principal)
	assert.Equal(t, "Admin", sess.Principal.Name)
	assert.True(t, sess.CanMutate[identity.DomainExams])
}

func TestLoginInvalidCredentialsGenericMessage(t *testing.T) {
	repo := newFakeRepo()
	repo.owner = &identity.OwnerCredential{Phone: "9000000001", Password: "root1234", Name: "Admin"}
	app := newTestApp(t, repo)

	wrongPass := app.do(t, http.MethodPost, "/auth/login", `{"phone":"9000000001","password":"bad"}`, nil)
	unknownPhone := app.do(t, http.MethodPost, "/auth/login", `{"phone":"1234567890","password":"bad"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownPhone.Code)
	// No enumeration: both failures carry the same body.
	assert.Equal(t, wrongPass.Body.String(), unknownPhone.Body.String())
}

func TestLogoutClearsSession(t *testing.T) {
	repo := newFakeRepo()
	repo.owner = &identity.OwnerCredential{Phone: "9000000001", Password: "root1234", Name: "Admin"}
	app := newTestApp(t, repo)

	res := app.do(t, http.MethodPost, "/auth/login", `{"phone":"9000000001","password":"root1234"}`, nil)
	cookies := res.Result().Cookies()

	res = app.do(t, http.MethodPost, "/auth/logout", "", cookies)
	require.Equal(t, http.StatusNoContent, res.Code)

	res = app.do(t, http.MethodGet, "/auth/session", "", cookies)
	var sess struct {
		State identity.State `json:"state"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &sess))
	assert.Equal(t, identity.StateUnauthenticated, sess.State)
}

func TestSetupFlow(t *testing.T) {
	app := newTestApp(t, newFakeRepo())

	res := app.do(t, http.MethodGet, "/auth/session", "", nil)
	var sess struct {
		SetupRequired bool `json:"setupRequired"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &sess))
	assert.True(t, sess.SetupRequired)

	res = app.do(t, http.MethodPost, "/auth/setup", `{"phone":"9000000001","password":"root1234","name":"Admin"}`, nil)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = app.do(t, http.MethodPost, "/auth/setup", `{"phone":"9000000002","password":"other","name":"Impostor"}`, nil)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = app.do(t, http.MethodPost, "/auth/login", `{"phone":"9000000001","password":"root1234"}`, nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestStaffRoutesRequireOwner(t *testing.T) {
	repo := newFakeRepo()
	repo.owner = &identity.OwnerCredential{Phone: "9000000001", Password: "root1234", Name: "Admin"}
	repo.staff["8000000002"] = identity.StaffRecord{Phone: "8000000002", Password: "pass", Name: "Mina", Permissions: identity.PermissionSet{Dictionary: true}}
	app := newTestApp(t, repo)

	// Anonymous is rejected.
	res := app.do(t, http.MethodGet, "/staff/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	// Staff principals are rejected too.
	login := app.do(t, http.MethodPost, "/auth/login", `{"phone":"8000000002","password":"pass"}`, nil)
	require.Equal(t, http.StatusOK, login.Code)
	res = app.do(t, http.MethodGet, "/staff/", "", login.Result().Cookies())
	assert.Equal(t, http.StatusForbidden, res.Code)

	// The owner can list, upsert and remove.
	login = app.do(t, http.MethodPost, "/auth/login", `{"phone":"9000000001","password":"root1234"}`, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	res = app.do(t, http.MethodGet, "/staff/", "", cookies)
	require.Equal(t, http.StatusOK, res.Code)
	var records []identity.StaffRecord
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Password, "passwords must not leak in listings")

	res = app.do(t, http.MethodPut, "/staff/", `{"phone":"7000000003","password":"pw","name":"Noi","permissions":{"songs":true}}`, cookies)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = app.do(t, http.MethodDelete, "/staff/7000000003", "", cookies)
	assert.Equal(t, http.StatusNoContent, res.Code)

	// Removing again is a no-op, not an error.
	res = app.do(t, http.MethodDelete, "/staff/7000000003", "", cookies)
	assert.Equal(t, http.StatusNoContent, res.Code)
}
