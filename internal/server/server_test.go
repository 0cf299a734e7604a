package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/folioengine/folio/internal/adapters"
)

type echoHandler struct{}

func (echoHandler) Register(e *echo.Echo) {
	e.POST("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}

func newTestServer(t *testing.T, maxBodyBytes int64) *Server {
	t.Helper()
	srv := NewServer(nil, ":0", "test-secret", maxBodyBytes, echoHandler{})
	return srv
}

func TestPublicPathsSkipJWT(t *testing.T) {
	srv := newTestServer(t, 0)
	for _, path := range []string{"/ping", "/auth/login", "/media/photo.jpg"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Echo().ServeHTTP(rec, req)
		if rec.Code == http.StatusUnauthorized {
			t.Errorf("%s should not require a token", path)
		}
	}
}

func TestProtectedPathRequiresJWT(t *testing.T) {
	srv := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	token, err := adapters.NewLocalAuth("test-secret").IssueToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d with valid token, body %s", rec.Code, rec.Body.String())
	}
}

func TestBodyCapIsAHardFailure(t *testing.T) {
	srv := newTestServer(t, 16)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(strings.Repeat("x", 64)))
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}
