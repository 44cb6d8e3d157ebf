package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"Vidtube/internal/core/identity"
)

const testSecret = "test-secret-0123456789"

func newTestAuth() *JWTAuth {
	return NewJWTAuth(testSecret, "vidtube-test", time.Hour)
}

// createTestToken signs arbitrary claims with the test secret
func createTestToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	auth := newTestAuth()
	userID := uuid.New()

	token, expires, err := auth.Issue(userID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Errorf("expected expiry in the future, got %v", expires)
	}

	handlerCalled := false
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		actor, ok := identity.ActorFrom(r.Context())
		if !ok || actor != userID {
			t.Errorf("expected actor %s, got %s (ok=%v)", userID, actor, ok)
		}
		w.WriteHeader(http.StatusOK)
	}))

	w := serve(handler, token)

	if !handlerCalled {
		t.Error("handler was not called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuth_MissingAuthHeader(t *testing.T) {
	handler := newTestAuth().RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	w := serve(handler, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestRequireAuth_InvalidAuthHeaderFormat(t *testing.T) {
	handler := newTestAuth().RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic dGVzdDp0ZXN0")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestRequireAuth_RejectedTokens(t *testing.T) {
	userID := uuid.NewString()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-jwt"},
		{"expired", createTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": userID, "iss": "vidtube-test", "exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"wrong secret", createTestToken(t, jwt.SigningMethodHS256, []byte("another-secret-entirely"), jwt.MapClaims{
			"sub": userID, "iss": "vidtube-test", "exp": future,
		})},
		{"wrong issuer", createTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": userID, "iss": "someone-else", "exp": future,
		})},
		{"no expiry", createTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": userID, "iss": "vidtube-test",
		})},
		{"missing subject", createTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"iss": "vidtube-test", "exp": future,
		})},
		{"unsigned", createTestToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{
			"sub": userID, "iss": "vidtube-test", "exp": future,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAuth().RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			}))

			w := serve(handler, tt.token)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", w.Code)
			}
		})
	}
}

func TestOptionalAuth_WithToken(t *testing.T) {
	auth := newTestAuth()
	userID := uuid.New()
	token, _, _ := auth.Issue(userID)

	var got uuid.UUID
	handler := auth.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.ActorFrom(r.Context())
	}))

	serve(handler, token)

	if got != userID {
		t.Errorf("expected actor %s, got %s", userID, got)
	}
}

func TestOptionalAuth_WithoutToken(t *testing.T) {
	handlerCalled := false
	handler := newTestAuth().OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if _, ok := identity.ActorFrom(r.Context()); ok {
			t.Error("expected anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	}))

	w := serve(handler, "")

	if !handlerCalled || w.Code != http.StatusOK {
		t.Errorf("expected handler to run with 200, got called=%v status=%d", handlerCalled, w.Code)
	}
}

func TestOptionalAuth_InvalidToken(t *testing.T) {
	handlerCalled := false
	handler := newTestAuth().OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if _, ok := identity.ActorFrom(r.Context()); ok {
			t.Error("invalid token must not authenticate")
		}
	}))

	serve(handler, "garbage")

	if !handlerCalled {
		t.Error("handler was not called")
	}
}
