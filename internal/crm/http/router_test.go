package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/internal/crm/store/drivers/sqlite"
	"github.com/telecrm/telecrm/pkg/cryptox"
	"github.com/telecrm/telecrm/pkg/sessionx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "crmhttp-test-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type testEnv struct {
	router *Router
	store  *sqlite.Store
	codec  *sessionx.Codec
}

const testCookieName = "telecrm_session"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec := &sessionx.Codec{Secret: []byte("test-secret"), Issuer: "telecrm"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(codec, testCookieName, sessionx.DefaultTTL, "test", "", st, logger)
	r.AuthService = &service.AuthService{Store: st}
	r.InviteService = &service.InviteService{Store: st}
	r.UserService = &service.UserService{Store: st}
	r.LeadService = &service.LeadService{Store: st}
	r.CallLogService = &service.CallLogService{Store: st}
	r.AppointmentService = &service.AppointmentService{Store: st}
	r.ListService = &service.ListService{Store: st}
	r.CampaignService = &service.CampaignService{Store: st}
	r.DashboardService = &service.DashboardService{Store: st}
	r.ActivityService = &service.ActivityService{Store: st}
	r.ApplyRoutes()

	return &testEnv{router: r, store: st, codec: codec}
}

// seedUser creates an account directly in the store and returns a valid
// session cookie for it.
func (env *testEnv) seedUser(t *testing.T, name, email string, role domain.Role) (domain.User, *http.Cookie) {
	t.Helper()
	ctx := t.Context()

	openID := "local:" + email
	method := "local"
	now := time.Now().UTC()
	require.NoError(t, env.store.Users().UpsertUser(ctx, store.UserUpsert{
		OpenID:       openID,
		Name:         &name,
		Email:        &email,
		LoginMethod:  &method,
		Role:         &role,
		LastSignedIn: &now,
	}))
	user, err := env.store.Users().GetUserByOpenID(ctx, openID)
	require.NoError(t, err)

	token, err := env.codec.Issue(user.OpenID, user.Name, time.Hour)
	require.NoError(t, err)
	return user, &http.Cookie{Name: testCookieName, Value: token}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestLoginSessionFlow(t *testing.T) {
	env := newTestEnv(t)

	// Provision the account over the invite endpoints, driven by an admin.
	_, adminCookie := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/invites/issue",
		map[string]string{"email": "agent@example.com", "role": "agent"}, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var issued struct {
		Token string `json:"token"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeBody(t, rec, &issued)
	require.NotEmpty(t, issued.Token)
	require.Equal(t, "agent@example.com", issued.Email)

	rec = env.do(t, http.MethodPost, "/api/invites/verify",
		map[string]string{"token": issued.Token}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/invites/accept",
		map[string]string{"token": issued.Token, "name": "Agent", "password": "pw123456"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("login sets a session cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login",
			map[string]string{"email": "agent@example.com", "password": "pw123456"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookieFrom(t, rec)
		require.NotEmpty(t, cookie.Value)
		require.True(t, cookie.HttpOnly)

		var body map[string]any
		decodeBody(t, rec, &body)
		require.Equal(t, "agent@example.com", body["email"])
		require.NotContains(t, body, "passwordHash")

		me := env.do(t, http.MethodGet, "/api/session/me", nil, cookie)
		require.Equal(t, http.StatusOK, me.Code)

		var identity struct {
			Name string `json:"name"`
			Role string `json:"role"`
		}
		decodeBody(t, me, &identity)
		require.Equal(t, "Agent", identity.Name)
		require.Equal(t, "agent", identity.Role)
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login",
			map[string]string{"email": "agent@example.com", "password": "nope"}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_credentials")
	})

	t.Run("reused invitation is a 409", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/invites/accept",
			map[string]string{"token": issued.Token, "name": "Imp", "password": "pw123456"}, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/session/logout", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookieFrom(t, rec)
		require.Empty(t, cookie.Value)
		require.Equal(t, -1, cookie.MaxAge)
	})
}

func TestRouteAuthorization(t *testing.T) {
	env := newTestEnv(t)

	_, viewerCookie := env.seedUser(t, "Viewer", "viewer@example.com", domain.RoleViewer)
	_, agentCookie := env.seedUser(t, "Agent", "agent@example.com", domain.RoleAgent)
	manager, managerCookie := env.seedUser(t, "Manager", "manager@example.com", domain.RoleManager)
	_, adminCookie := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)

	t.Run("anonymous API calls are 401", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/leads/list", map[string]any{}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("viewer cannot create leads", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/leads/create",
			map[string]string{"name": "Sato", "phone": "0311112222"}, viewerCookie)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("agent cannot create leads either", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/leads/create",
			map[string]string{"name": "Sato", "phone": "0311112222"}, agentCookie)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("manager creates, viewer reads", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/leads/create",
			map[string]string{"name": "Sato", "company": "Sato Ltd", "phone": "0311112222"}, managerCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var lead struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		}
		decodeBody(t, rec, &lead)
		require.NotZero(t, lead.ID)
		require.Equal(t, "unreached", lead.Status)

		rec = env.do(t, http.MethodPost, "/api/leads/list", map[string]any{}, viewerCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Sato Ltd")
	})

	t.Run("user management is admin only", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users", nil, managerCookie)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/users", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/users/role",
			map[string]any{"userId": manager.ID, "role": "agent"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invite issue is admin only", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/invites/issue",
			map[string]string{"email": "x@example.com", "role": "agent"}, managerCookie)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("tampered cookie reads as anonymous", func(t *testing.T) {
		bad := &http.Cookie{Name: testCookieName, Value: "garbage"}
		rec := env.do(t, http.MethodPost, "/api/leads/list", map[string]any{}, bad)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLeadEndpoints(t *testing.T) {
	env := newTestEnv(t)

	agent, agentCookie := env.seedUser(t, "Agent", "agent@example.com", domain.RoleAgent)
	_, managerCookie := env.seedUser(t, "Manager", "manager@example.com", domain.RoleManager)

	rec := env.do(t, http.MethodPost, "/api/leads/create",
		map[string]string{"name": "Tanaka", "phone": "0312345678"}, managerCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var lead struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &lead)

	rec = env.do(t, http.MethodPost, "/api/leads/assign",
		map[string]any{"leadIds": []int64{lead.ID}, "agentId": agent.ID}, managerCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("next surfaces the assigned lead", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/leads/next", nil, agentCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Tanaka")
	})

	t.Run("get by path id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/leads/1", nil, agentCookie)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("call logging transitions the lead", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/calls/create",
			map[string]any{"leadId": lead.ID, "result": "connected", "memo": "talked"}, agentCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/leads/1", nil, agentCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"connected"`)
	})

	t.Run("unknown lead is a 404", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/leads/999", nil, agentCookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":"ok"`)
}
