package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/folioengine/folio/internal/adapters"
	"github.com/folioengine/folio/internal/config"
)

func newAuthTest(t *testing.T) (*echo.Echo, *adapters.LocalAuth) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	auth := adapters.NewLocalAuth("test-secret")
	h := NewAuthHandler(nil, auth, config.AdminConfig{
		Username:     "admin",
		PasswordHash: string(hashed),
	}, time.Hour)
	e := echo.New()
	h.Register(e)
	return e, auth
}

func TestLoginIssuesToken(t *testing.T) {
	e, auth := newAuthTest(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	subject, err := auth.VerifyToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token should verify: %v", err)
	}
	if subject != "admin" {
		t.Fatalf("subject = %q", subject)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e, _ := newAuthTest(t)

	for _, body := range []string{
		`{"username":"admin","password":"wrong"}`,
		`{"username":"intruder","password":"hunter2"}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d for %s, want 401", rec.Code, body)
		}
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	e, _ := newAuthTest(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
