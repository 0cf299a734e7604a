package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/folioengine/folio/internal/adapters"
	"github.com/folioengine/folio/internal/config"
)

// AuthHandler serves /auth/login and issues JWTs for the configured admin
// account through the auth capability.
type AuthHandler struct {
	auth      adapters.Auth
	admin     config.AdminConfig
	expiresIn time.Duration
	logger    *slog.Logger
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success body (access_token, expiry).
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	Username    string `json:"username"`
}

// NewAuthHandler creates an auth handler with the resolved auth capability.
func NewAuthHandler(log *slog.Logger, auth adapters.Auth, admin config.AdminConfig, expiresIn time.Duration) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		auth:      auth,
		admin:     admin,
		expiresIn: expiresIn,
		logger:    log.With(slog.String("handler", "auth")),
	}
}

// Register mounts POST /auth/login on the Echo instance.
func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
}

// Login validates admin credentials and issues a JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	if h.auth == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "auth capability not configured")
	}
	if h.expiresIn <= 0 {
		return echo.NewHTTPError(http.StatusInternalServerError, "jwt expiry not configured")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	if username != h.admin.Username {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := h.auth.VerifyPassword(h.admin.PasswordHash, req.Password); err != nil {
		h.logger.Warn("login rejected", slog.String("username", username))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.auth.IssueToken(username, h.expiresIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(h.expiresIn).UTC().Format(time.RFC3339),
		Username:    username,
	})
}
