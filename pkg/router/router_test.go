package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/audit"
	"github.com/tendant/simple-account/pkg/login"
	"github.com/tendant/simple-account/pkg/ratelimit"
	"github.com/tendant/simple-account/pkg/revocation"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	services Services
}

func newTestServer(t *testing.T, throttle *ratelimit.Middleware) *testServer {
	t.Helper()
	return newAuditedTestServer(t, throttle, nil)
}

func newAuditedTestServer(t *testing.T, throttle *ratelimit.Middleware, auditor *audit.Middleware) *testServer {
	t.Helper()
	services := NewServices(Dependencies{
		Repository:     account.NewInMemoryAccountRepository(),
		Hasher:         login.NewBcryptHasher(4),
		TokenGenerator: tokengenerator.NewJwtTokenGenerator("test-secret", "simple-account", "public", time.Hour),
		Revocations:    revocation.NewInMemoryStore(),
	})

	r := chi.NewRouter()
	cfg := NewConfig(services, throttle)
	cfg.Audit = auditor
	SetupRoutes(r, cfg)
	return &testServer{t: t, handler: r, services: services}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/authentication/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, code, string(env.Data))
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.Token)
	return data.Token
}

func (s *testServer) createAdmin() {
	s.t.Helper()
	_, err := s.services.Accounts.Create(context.Background(), account.CreateParams{
		Name:     "Admin",
		Email:    "admin@apextest.com",
		Password: "adminpass",
		Roles:    account.NewRoleSet(account.AdminRole),
	})
	require.NoError(s.t, err)
}

func fields(t *testing.T, env envelope) map[string][]string {
	t.Helper()
	var out map[string][]string
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestRegistrationAndLogin(t *testing.T) {
	s := newTestServer(t, nil)
	john := map[string]string{"name": "John Doe", "email": "john@apextest.com", "password": "password123"}

	code, env := s.do(http.MethodPost, "/authentication/register", "", john)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "User registered successfully", env.Message)
	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "John Doe", user["name"])
	assert.Equal(t, []interface{}{"user"}, user["roles"])
	for _, key := range []string{"id", "email", "created_at", "updated_at"} {
		assert.Contains(t, user, key)
	}
	assert.NotContains(t, user, "secret")

	code, env = s.do(http.MethodPost, "/authentication/register", "", john)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Validation error", env.Message)
	assert.Equal(t, []string{"The email has already been taken."}, fields(t, env)["email"])

	code, env = s.do(http.MethodPost, "/authentication/login", "", map[string]string{"email": "john@apextest.com", "password": "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", env.Message)
	assert.Equal(t, "null", string(env.Data))

	code, env = s.do(http.MethodPost, "/authentication/login", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, fields(t, env), "password")

	token := s.login("john@apextest.com", "password123")

	code, env = s.do(http.MethodGet, "/profile", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User profile retrieved successfully", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "john@apextest.com", user["email"])
}

func TestAuthenticationPrecedesValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/profile"},
		{http.MethodPut, "/profile/update"},
		{http.MethodPut, "/profile/password"},
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/admin/users"},
		{http.MethodPost, "/admin/users"},
		{http.MethodPut, "/admin/users/" + uuid.New().String()},
		{http.MethodDelete, "/admin/users/" + uuid.New().String()},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			code, env := s.do(tt.method, tt.path, "", map[string]string{"email": "not-an-email"})
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, "Unauthenticated.", env.Message)

			code, _ = s.do(tt.method, tt.path, "garbage-token", nil)
			assert.Equal(t, http.StatusUnauthorized, code)
		})
	}
}

func TestProfileUpdates(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodPost, "/authentication/register", "", map[string]string{"name": "John Doe", "email": "john@apextest.com", "password": "password123"})
	s.do(http.MethodPost, "/authentication/register", "", map[string]string{"name": "Jane Doe", "email": "jane@apextest.com", "password": "password123"})
	token := s.login("john@apextest.com", "password123")

	code, env := s.do(http.MethodPut, "/profile/update", token, map[string]string{"name": "John Smith", "email": "jane@apextest.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"The email has already been taken."}, fields(t, env)["email"])

	code, env = s.do(http.MethodPut, "/profile/update", token, map[string]string{"name": "John Smith", "email": "john@apextest.com"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Profile updated successfully", env.Message)

	code, env = s.do(http.MethodPut, "/profile/update", token, `{"name":`)
	assert.Equal(t, http.StatusUnprocessableEntity, code, "malformed body is treated as empty")
	assert.Contains(t, fields(t, env), "name")

	code, env = s.do(http.MethodPut, "/profile/password", token, map[string]string{"current_password": "password123", "new_password": "password123"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"The new password field and current password must be different."}, fields(t, env)["new_password"])

	code, env = s.do(http.MethodPut, "/profile/password", token, map[string]string{"current_password": "wrongpass", "new_password": "newpassword"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Current password is incorrect", env.Message)

	code, env = s.do(http.MethodPut, "/profile/password", token, map[string]string{"current_password": "password123", "new_password": "newpassword"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Password updated successfully", env.Message)
	assert.Equal(t, "null", string(env.Data))

	code, _ = s.do(http.MethodPost, "/authentication/login", "", map[string]string{"email": "john@apextest.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, code)
	s.login("john@apextest.com", "newpassword")
}

func TestLogoutRevokesOnlyCurrentToken(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodPost, "/authentication/register", "", map[string]string{"name": "John Doe", "email": "john@apextest.com", "password": "password123"})
	first := s.login("john@apextest.com", "password123")
	second := s.login("john@apextest.com", "password123")

	code, env := s.do(http.MethodPost, "/logout", first, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out successfully", env.Message)

	code, env = s.do(http.MethodGet, "/profile", first, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthenticated.", env.Message)

	code, _ = s.do(http.MethodGet, "/profile", second, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	s.createAdmin()
	s.do(http.MethodPost, "/authentication/register", "", map[string]string{"name": "John Doe", "email": "john@apextest.com", "password": "password123"})
	userToken := s.login("john@apextest.com", "password123")
	adminToken := s.login("admin@apextest.com", "adminpass")

	code, env := s.do(http.MethodGet, "/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "This action is unauthorized.", env.Message)

	code, env = s.do(http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Users retrieved successfully", env.Message)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 2)

	code, env = s.do(http.MethodPost, "/admin/users", adminToken, map[string]interface{}{
		"name": "Jane Doe", "email": "jane@apextest.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"The roles field is required."}, fields(t, env)["roles"])

	code, env = s.do(http.MethodPost, "/admin/users", adminToken, map[string]interface{}{
		"name": "Jane Doe", "email": "jane@apextest.com", "password": "password123", "roles": []string{"user", "admin"},
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User created successfully", env.Message)
	var jane map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &jane))
	assert.Equal(t, []interface{}{"admin", "user"}, jane["roles"])
	janeID := jane["id"].(string)

	code, env = s.do(http.MethodPut, "/admin/users/"+uuid.New().String(), adminToken, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusNotFound, code, "unknown id wins over invalid fields")
	assert.Equal(t, "User not found", env.Message)
	assert.Equal(t, "null", string(env.Data))

	code, _ = s.do(http.MethodPut, "/admin/users/not-a-uuid", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodPut, "/admin/users/"+janeID, adminToken, map[string]interface{}{
		"name": "Jane Smith", "email": "jane@apextest.com", "roles": []string{"user"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User updated successfully", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &jane))
	assert.Equal(t, "Jane Smith", jane["name"])
	assert.Equal(t, []interface{}{"user"}, jane["roles"])

	code, env = s.do(http.MethodDelete, "/admin/users/"+janeID, adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User deleted successfully", env.Message)
	assert.Equal(t, "null", string(env.Data))

	code, _ = s.do(http.MethodDelete, "/admin/users/"+janeID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDemotedAdminLosesAccessImmediately(t *testing.T) {
	s := newTestServer(t, nil)
	s.createAdmin()
	adminToken := s.login("admin@apextest.com", "adminpass")

	admin, err := s.services.Accounts.FindByEmail(context.Background(), "admin@apextest.com")
	require.NoError(t, err)
	_, err = s.services.Accounts.RemoveRole(context.Background(), admin.ID, account.AdminRole)
	require.NoError(t, err)

	code, _ := s.do(http.MethodGet, "/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestLoginThrottle(t *testing.T) {
	throttle := ratelimit.NewMiddleware(ratelimit.Config{Enabled: true, Capacity: 2, PerMinute: 1})
	t.Cleanup(throttle.Stop)
	s := newTestServer(t, throttle)

	creds := map[string]string{"email": "john@apextest.com", "password": "password123"}
	for i := 0; i < 2; i++ {
		code, _ := s.do(http.MethodPost, "/authentication/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, env := s.do(http.MethodPost, "/authentication/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too Many Attempts.", env.Message)

	code, _ = s.do(http.MethodPost, "/authentication/register", "", map[string]string{"name": "John Doe", "email": "john@apextest.com", "password": "password123"})
	assert.Equal(t, http.StatusCreated, code, "only login is throttled")
}

type auditSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *auditSink) Send(_ context.Context, event audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func TestAuditRecordsAuthenticatedRequests(t *testing.T) {
	sink := &auditSink{}
	s := newAuditedTestServer(t, nil, audit.NewMiddleware(audit.Config{Sink: sink}))
	s.createAdmin()
	token := s.login("admin@apextest.com", "adminpass")

	code, _ := s.do(http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	require.Len(t, sink.events, 1, "unauthenticated requests never reach the audit layer")
	event := sink.events[0]
	assert.Equal(t, "admin@apextest.com", event.Email)
	assert.Equal(t, http.MethodGet, event.Method)
	assert.Equal(t, "/admin/users", event.URI)
	assert.Equal(t, http.StatusOK, event.Status)
}

func TestRegistrationPasswordByteLimit(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.do(http.MethodPost, "/authentication/register", "", map[string]string{
		"name": "Long Secret", "email": "long@apextest.com", "password": strings.Repeat("a", 80),
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Validation error", env.Message)
	assert.Contains(t, fields(t, env), "password")

	limit := strings.Repeat("a", 72)
	code, _ = s.do(http.MethodPost, "/authentication/register", "", map[string]string{
		"name": "Long Secret", "email": "long@apextest.com", "password": limit,
	})
	require.Equal(t, http.StatusCreated, code)
	s.login("long@apextest.com", limit)
}
