package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/api/middleware"
	"Vidtube/internal/core/users"
	"Vidtube/internal/db/memstore"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	Success bool            `json:"success"`
}

func newRouter() chi.Router {
	store := memstore.New()
	auth := middleware.NewJWTAuth("user-handler-test-secret", "vidtube-test", time.Hour)
	h := NewHandler(users.NewService(store.Users(), nil, 0, nil), auth)

	r := chi.NewRouter()
	r.Post("/users/register", h.HandleRegister)
	r.Post("/users/login", h.HandleLogin)
	r.With(auth.RequireAuth).Get("/users/me", h.HandleMe)
	r.Get("/users/{userId}", h.HandleGetProfile)
	return r
}

func post(t *testing.T, r chi.Router, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, &buf))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestRegisterLoginAndMe(t *testing.T) {
	r := newRouter()
	reg := users.RegisterRequest{Username: "streamer", FullName: "Stream Er", Email: "streamer@example.com", Password: "correct horse"}

	code, env := post(t, r, "/users/register", reg)
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.NotContains(t, string(env.Data), "correct horse")
	assert.NotContains(t, string(env.Data), "passwordHash")
	var created users.User
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, _ = post(t, r, "/users/register", reg)
	assert.Equal(t, http.StatusConflict, code)

	code, env = post(t, r, "/users/login", users.LoginRequest{Username: "streamer", Password: "correct horse"})
	require.Equal(t, http.StatusOK, code)
	var login LoginOutput
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, created.ID, login.User.ID)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"streamer"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_Failures(t *testing.T) {
	r := newRouter()
	code, _ := post(t, r, "/users/register", users.RegisterRequest{
		Username: "viewer", FullName: "View Er", Email: "viewer@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		name   string
		req    users.LoginRequest
		status int
	}{
		{"wrong password", users.LoginRequest{Username: "viewer", Password: "nope-nope"}, http.StatusUnauthorized},
		{"unknown user", users.LoginRequest{Email: "ghost@example.com", Password: "password123"}, http.StatusUnauthorized},
		{"no identifier", users.LoginRequest{Password: "password123"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := post(t, r, "/users/login", tt.req)
			assert.Equal(t, tt.status, code)
			assert.False(t, env.Success)
		})
	}
}

func TestMe_RequiresToken(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
