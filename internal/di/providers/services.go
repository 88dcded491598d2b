package providers

import (
	"github.com/samber/do/v2"

	"github.com/walloflove/wol-server/internal/api"
	"github.com/walloflove/wol-server/internal/config"
	"github.com/walloflove/wol-server/internal/embed"
	"github.com/walloflove/wol-server/internal/logger"
	"github.com/walloflove/wol-server/internal/service"
)

// ProvideContentResolver provides the content resolver.
func ProvideContentResolver(i do.Injector) (*service.ContentResolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	_ = do.MustInvoke[*TracingHandle](i)

	return service.NewContentResolver(storeHandle.Store, log.Component("resolver")), nil
}

// ProvideAnalyticsService provides the analytics sink.
func ProvideAnalyticsService(i do.Injector) (*service.AnalyticsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	_ = do.MustInvoke[*TracingHandle](i)

	return service.NewAnalyticsService(storeHandle.Store, log.Component("analytics")), nil
}

// ProvidePreviewBootstrapper provides the in-process bootstrapper behind
// the preview route. It has no task submitter, so previews never track.
func ProvidePreviewBootstrapper(i do.Injector) (*embed.Bootstrapper, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	resolver := do.MustInvoke[*service.ContentResolver](i)

	return embed.NewBootstrapper(api.NewPreviewClient(resolver), nil, embed.Config{
		AutoplayInterval: cfg.Embed.AutoplayInterval,
		RequestTimeout:   cfg.Embed.RequestTimeout,
	}, log.Component("preview")), nil
}
