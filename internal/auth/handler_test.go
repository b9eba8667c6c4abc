package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/winkshine/winkshine-admin/internal/auth"
	"github.com/winkshine/winkshine-admin/internal/users"
)

type authEnv struct {
	router http.Handler
	svc    *auth.Service
	repo   *memRepo
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	repo := newMemRepo()
	svc := auth.NewService(repo, auth.NewTokenIssuer("test-signing-key", time.Hour), nil)
	gate := auth.NewGate(svc, nil)
	handler := auth.NewHandler(nil, svc, gate)

	router := chi.NewRouter()
	router.Route("/api/auth", handler.MountRoutes)
	return &authEnv{router: router, svc: svc, repo: repo}
}

func (e *authEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type sessionData struct {
	User struct {
		ID    string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionData {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	var session sessionData
	require.NoError(t, json.Unmarshal(env.Data, &session))
	return session
}

func TestRegisterEndpoint(t *testing.T) {
	env := newAuthEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Equal(t, "User registered successfully", body.Message)

	session := decodeSession(t, rec)
	require.Equal(t, "user", session.User.Role)
	require.NotEmpty(t, session.Token)
	require.NotEmpty(t, session.User.ID)
}

func TestRegisterEndpointValidation(t *testing.T) {
	env := newAuthEnv(t)

	for name, body := range map[string]map[string]string{
		"missing name":   {"email": "alice@example.com", "password": "secret1"},
		"missing email":  {"name": "Alice", "password": "secret1"},
		"invalid email":  {"name": "Alice", "email": "not-an-email", "password": "secret1"},
		"short password": {"name": "Alice", "email": "alice@example.com", "password": "12345"},
		"unknown role":   {"name": "Alice", "email": "alice@example.com", "password": "secret1", "role": "root"},
	} {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
		require.Equal(t, "Name, email, and password are required", decodeEnvelope(t, rec).Error, name)
	}
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	body := map[string]string{"name": "Alice", "email": "alice@example.com", "password": "secret1"}

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/auth/register", "", body).Code)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User with this email already exists", decodeEnvelope(t, rec).Error)
}

func TestRegisterEndpointAdminElevation(t *testing.T) {
	env := newAuthEnv(t)
	adminBody := map[string]string{"name": "Root", "email": "root@example.com", "password": "secret1", "role": "admin"}

	// Anonymous callers cannot mint admins.
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", adminBody)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Admin access required", decodeEnvelope(t, rec).Error)

	// Neither can an ordinary user.
	userSession := decodeSession(t, env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	}))
	rec = env.do(t, http.MethodPost, "/api/auth/register", userSession.Token, adminBody)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// A seeded admin can.
	admin, adminToken, err := env.svc.Register(context.Background(), "Seed Admin", "seed@example.com", "secret1", users.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, admin.Role)

	rec = env.do(t, http.MethodPost, "/api/auth/register", adminToken, adminBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "admin", decodeSession(t, rec).User.Role)
}

func TestLoginEndpoint(t *testing.T) {
	env := newAuthEnv(t)
	env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ALICE@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeSession(t, rec)
	require.Equal(t, "alice@example.com", session.User.Email)
	require.NotEmpty(t, session.Token)
}

func TestLoginEndpointUniformFailure(t *testing.T) {
	env := newAuthEnv(t)
	env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})

	wrongPassword := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	unknownEmail := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
		"wrong password and unknown email must be indistinguishable on the wire")
	require.Equal(t, "Invalid email or password", decodeEnvelope(t, wrongPassword).Error)
}

func TestLoginEndpointInactiveAccount(t *testing.T) {
	env := newAuthEnv(t)
	session := decodeSession(t, env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	}))

	_, err := env.repo.UpdateStatus(context.Background(), session.User.ID, users.StatusInactive)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Account is inactive. Please contact administrator.", decodeEnvelope(t, rec).Error)
}

func TestMeEndpoint(t *testing.T) {
	env := newAuthEnv(t)
	session := decodeSession(t, env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	}))

	rec := env.do(t, http.MethodGet, "/api/auth/me", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		ID       string `json:"_id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsActive bool   `json:"isActive"`
	}
	envBody := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(envBody.Data, &me))
	require.Equal(t, session.User.ID, me.ID)
	require.Equal(t, "alice@example.com", me.Email)
	require.True(t, me.IsActive)
}

func TestMeEndpointRequiresToken(t *testing.T) {
	env := newAuthEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Access token required", decodeEnvelope(t, rec).Error)

	rec = env.do(t, http.MethodGet, "/api/auth/me", "bogus-token", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Invalid or expired token", decodeEnvelope(t, rec).Error)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	env := newAuthEnv(t)
	session := decodeSession(t, env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	}))
	env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "secret2",
	})

	rec := env.do(t, http.MethodPut, "/api/auth/profile", session.Token, map[string]string{
		"name": "Alice Liddell", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Profile updated successfully", decodeEnvelope(t, rec).Message)

	rec = env.do(t, http.MethodPut, "/api/auth/profile", session.Token, map[string]string{
		"name": "Alice", "email": "bob@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email is already taken by another user", decodeEnvelope(t, rec).Error)
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newAuthEnv(t)
	session := decodeSession(t, env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	}))

	rec := env.do(t, http.MethodPut, "/api/auth/password", session.Token, map[string]string{
		"currentPassword": "wrong", "newPassword": "secret2",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Current password is incorrect", decodeEnvelope(t, rec).Error)

	rec = env.do(t, http.MethodPut, "/api/auth/password", session.Token, map[string]string{
		"currentPassword": "secret1", "newPassword": "secret2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Password changed successfully", decodeEnvelope(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}
