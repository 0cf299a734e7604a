package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/folioengine/folio/internal/adapters"
	"github.com/folioengine/folio/internal/config"
	"github.com/folioengine/folio/internal/handlers"
	"github.com/folioengine/folio/internal/limits"
	"github.com/folioengine/folio/internal/media"
	"github.com/folioengine/folio/internal/registry"
	"github.com/folioengine/folio/internal/render"
	"github.com/folioengine/folio/internal/server"
	"github.com/folioengine/folio/internal/version"
)

var ServerModule = fx.Module(
	"server",
	fx.Provide(
		provideServerHandler(handlers.NewPingHandler),
		provideServerHandler(provideAuthHandler),
		provideServerHandler(provideMediaHandler),
		provideServerHandler(provideRenderHandler),
		provideServer,
	),
	fx.Invoke(startServer),
)

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideAuthHandler(log *slog.Logger, caps adapters.Set, cfg config.Config) (*handlers.AuthHandler, error) {
	expiresIn, err := time.ParseDuration(cfg.Auth.JWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("parse jwt_expires_in: %w", err)
	}
	return handlers.NewAuthHandler(log, caps.Auth, cfg.Admin, expiresIn), nil
}

func provideMediaHandler(log *slog.Logger, svc *media.Service, reg *registry.FS, caps adapters.Set, cfg config.Config) *handlers.MediaHandler {
	return handlers.NewMediaHandler(log, svc, reg, caps.Limits, cfg.Limits)
}

func provideRenderHandler(log *slog.Logger, renderer *render.Renderer, caps adapters.Set, cfg config.Config) *handlers.RenderHandler {
	return handlers.NewRenderHandler(log, renderer, caps.Publish, caps.Email, cfg.Server.SiteBase)
}

type serverParams struct {
	fx.In

	Logger    *slog.Logger
	Config    config.Config
	Authority *limits.Authority
	Handlers  []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	caps := params.Authority.Effective(limits.Limits{})
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.Config.Auth.JWTSecret, caps.MaxBodyBytes, params.Handlers...)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting Folio %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
