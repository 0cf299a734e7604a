package modules

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/folioengine/folio/internal/adapters"
	"github.com/folioengine/folio/internal/config"
	"github.com/folioengine/folio/internal/limits"
	"github.com/folioengine/folio/internal/media"
	"github.com/folioengine/folio/internal/registry"
	"github.com/folioengine/folio/internal/render"
	"github.com/folioengine/folio/internal/storage"
)

var MediaModule = fx.Module(
	"media",
	fx.Provide(
		provideAuthority,
		provideStorage,
		provideRegistry,
		media.NewService,
		provideBasePaths,
		provideRenderer,
		provideCapabilities,
	),
)

func provideAuthority(cfg config.Config) *limits.Authority {
	return limits.NewAuthority(limits.ParseMode(cfg.Limits.Mode), limits.Default())
}

func provideStorage(cfg config.Config) (storage.Provider, error) {
	local, err := storage.NewLocal(cfg.Media.Root, cfg.Media.ImageBase)
	if err != nil {
		return nil, fmt.Errorf("media storage: %w", err)
	}
	return local, nil
}

func provideRegistry(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (*registry.FS, error) {
	reg, err := registry.NewFS(log, cfg.Media.Root)
	if err != nil {
		return nil, fmt.Errorf("media registry: %w", err)
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Media.RescanCron == "" {
				return nil
			}
			return reg.StartRescan(cfg.Media.RescanCron)
		},
		OnStop: func(ctx context.Context) error {
			reg.StopRescan()
			return nil
		},
	})
	return reg, nil
}

func provideBasePaths(cfg config.Config) render.BasePaths {
	return render.BasePathMap{
		media.CategoryImage: cfg.Media.ImageBase,
		media.CategoryAudio: cfg.Media.AudioBase,
		media.CategoryVideo: cfg.Media.VideoBase,
	}
}

func provideRenderer(log *slog.Logger, reg *registry.FS, paths render.BasePaths, cfg config.Config) *render.Renderer {
	return render.NewRenderer(log, reg, paths, render.WithStrictVariants(cfg.Media.StrictVariants))
}

// provideCapabilities builds the default capability set and applies the
// deployment overrides from config: a configured SMTP host swaps the logging
// email adapter for real delivery.
func provideCapabilities(log *slog.Logger, cfg config.Config, provider storage.Provider, authority *limits.Authority) (adapters.Set, error) {
	defaults := adapters.Set{
		Publish: adapters.NewStoragePublish(log, provider),
		Limits:  adapters.NewAuthorityLimiter(authority),
		Auth:    adapters.NewLocalAuth(cfg.Auth.JWTSecret),
		Email:   adapters.NewLogEmail(log),
	}

	var overrides adapters.Overrides
	if cfg.SMTP.Host != "" {
		smtp, err := adapters.NewSMTPEmail(log, cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		if err != nil {
			return adapters.Set{}, fmt.Errorf("smtp adapter: %w", err)
		}
		overrides.Email.Send = smtp.Send
	}

	return adapters.Resolve(defaults, overrides), nil
}
