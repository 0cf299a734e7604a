package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/folioengine/folio/internal/adapters"
	"github.com/folioengine/folio/internal/config"
	"github.com/folioengine/folio/internal/limits"
	"github.com/folioengine/folio/internal/media"
	"github.com/folioengine/folio/internal/registry"
	"github.com/folioengine/folio/internal/upload"
)

// MediaHandler serves uploads and stored media.
type MediaHandler struct {
	service  *media.Service
	registry *registry.FS
	limiter  adapters.Limiter
	user     limits.Limits
	logger   *slog.Logger
}

// NewMediaHandler creates a media handler. user carries the deployment's
// configured ceilings; the limiter clamps them per mode.
func NewMediaHandler(log *slog.Logger, service *media.Service, reg *registry.FS, limiter adapters.Limiter, cfg config.LimitsConfig) *MediaHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MediaHandler{
		service:  service,
		registry: reg,
		limiter:  limiter,
		user: limits.Limits{
			MaxImageMB: cfg.MaxImageMB,
			MaxVideoMB: cfg.MaxVideoMB,
			MaxAudioMB: cfg.MaxAudioMB,
		},
		logger: log.With(slog.String("handler", "media")),
	}
}

// Register mounts the media routes on the Echo instance.
func (h *MediaHandler) Register(e *echo.Echo) {
	e.POST("/media", h.Upload)
	e.GET("/media/:filename", h.Get)
}

// UploadResponse reports the outcome of an upload batch.
type UploadResponse struct {
	Receipt  string             `json:"receipt"`
	Stored   []media.Asset      `json:"stored"`
	Rejected []upload.Rejection `json:"rejected"`
}

// Upload validates a multipart batch against the effective limits, stores
// the accepted files, and registers them in the media catalog. Rejections
// are structured data in the response, not errors; only a batch that cannot
// be read at all fails the request.
func (h *MediaHandler) Upload(c echo.Context) error {
	if h.service == nil || h.registry == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "media service not configured")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files in upload")
	}

	effective := h.limiter.Effective(h.user)

	candidates := make([]upload.File, 0, len(files))
	for _, fh := range files {
		candidates = append(candidates, upload.File{
			Name:      fh.Filename,
			Mime:      fh.Header.Get("Content-Type"),
			SizeBytes: fh.Size,
		})
	}
	outcome := upload.Validate(candidates, effective)

	accepted := make(map[string]bool, len(outcome.Valid))
	for _, f := range outcome.Valid {
		accepted[f.Name] = true
	}

	resp := UploadResponse{
		Receipt:  uuid.NewString(),
		Stored:   make([]media.Asset, 0, len(outcome.Valid)),
		Rejected: outcome.Rejected,
	}

	ctx := c.Request().Context()
	for _, fh := range files {
		if !accepted[fh.Filename] {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			resp.Rejected = append(resp.Rejected, upload.Rejection{
				Name: fh.Filename, Reason: "could not read upload",
			})
			continue
		}
		asset, err := h.service.Ingest(ctx, media.IngestInput{
			Filename: fh.Filename,
			Mime:     fh.Header.Get("Content-Type"),
			Reader:   src,
			MaxBytes: effective.MaxBodyBytes,
		})
		_ = src.Close()
		if err != nil {
			h.logger.Error("ingest failed", slog.String("filename", fh.Filename), slog.Any("error", err))
			resp.Rejected = append(resp.Rejected, upload.Rejection{
				Name: fh.Filename, Reason: "storage failed",
			})
			continue
		}
		if err := h.registry.Register(ctx, media.Entry{
			Filename: asset.Filename,
			Mime:     asset.Mime,
			Path:     asset.StorageKey,
		}); err != nil {
			h.logger.Error("register failed", slog.String("filename", asset.Filename), slog.Any("error", err))
		}
		resp.Stored = append(resp.Stored, asset)
	}

	return c.JSON(http.StatusOK, resp)
}

// Get streams a stored media asset.
func (h *MediaHandler) Get(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "media service not configured")
	}
	filename := media.BaseFilename(c.Param("filename"))
	if filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "filename is required")
	}

	rc, err := h.service.Open(c.Request().Context(), filename)
	if err != nil {
		if errors.Is(err, media.ErrEntryNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "media not found")
		}
		return echo.NewHTTPError(http.StatusNotFound, "media not found")
	}
	defer func() {
		_ = rc.Close()
	}()

	return c.Stream(http.StatusOK, media.MimeFromExtension(path.Ext(filename)), rc)
}
