package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/folioengine/folio/internal/adapters"
	"github.com/folioengine/folio/internal/media"
	"github.com/folioengine/folio/internal/render"
)

// RenderHandler serves media filter rendering, markdown conversion, and
// page publishing.
type RenderHandler struct {
	renderer *render.Renderer
	markdown goldmark.Markdown
	publish  adapters.Publish
	email    adapters.Email
	siteBase string
	logger   *slog.Logger
}

// NewRenderHandler creates a render handler over the renderer and the
// resolved publish/email capabilities.
func NewRenderHandler(log *slog.Logger, renderer *render.Renderer, publish adapters.Publish, email adapters.Email, siteBase string) *RenderHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RenderHandler{
		renderer: renderer,
		markdown: render.NewMarkdown(renderer),
		publish:  publish,
		email:    email,
		siteBase: strings.TrimRight(siteBase, "/"),
		logger:   log.With(slog.String("handler", "render")),
	}
}

// Register mounts the render routes on the Echo instance.
func (h *RenderHandler) Register(e *echo.Echo) {
	e.POST("/render", h.Render)
	e.POST("/render/markdown", h.Markdown)
	e.POST("/pages/:slug/publish", h.Publish)
	e.POST("/pages/:slug/share", h.Share)
}

// RenderRequest is one media filter invocation.
type RenderRequest struct {
	Category string   `json:"category"`
	Input    string   `json:"input"`
	Args     []string `json:"args"`
}

// RenderResponse carries the discriminated render outcome: Output is the
// template substitution value either way; Diagnostic is set when the
// reference could not be resolved.
type RenderResponse struct {
	Output     string `json:"output"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Render runs one media filter and returns the substitution value.
func (h *RenderHandler) Render(c echo.Context) error {
	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	category := media.Category(strings.TrimSpace(req.Category))
	switch category {
	case media.CategoryImage, media.CategoryAudio, media.CategoryVideo:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown media category")
	}

	result := h.renderer.Render(c.Request().Context(), category, req.Input, req.Args)
	return c.JSON(http.StatusOK, RenderResponse{
		Output:     result.String(),
		Diagnostic: result.Diagnostic(),
	})
}

// Markdown converts a markdown body to HTML with media references rewritten.
func (h *RenderHandler) Markdown(c echo.Context) error {
	source, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read body")
	}
	var buf bytes.Buffer
	if err := h.markdown.Convert(source, &buf); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Publish converts a markdown body and hands the HTML to the publish
// capability.
func (h *RenderHandler) Publish(c echo.Context) error {
	if h.publish == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "publish capability not configured")
	}
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}

	source, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read body")
	}
	var buf bytes.Buffer
	if err := h.markdown.Convert(source, &buf); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := h.publish.Publish(c.Request().Context(), slug, buf.Bytes()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"slug": slug, "status": "published"})
}

// ShareRequest is the body for POST /pages/:slug/share.
type ShareRequest struct {
	To string `json:"to"`
}

// Share emails a link to a published page through the email capability.
func (h *RenderHandler) Share(c echo.Context) error {
	if h.email == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "email capability not configured")
	}
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	var req ShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	to := strings.TrimSpace(req.To)
	if to == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "recipient is required")
	}

	link := h.siteBase + "/pages/" + slug + ".html"
	err := h.email.Send(c.Request().Context(), adapters.Message{
		To:      to,
		Subject: "A page was shared with you",
		Body:    "Read it here: " + link,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}
