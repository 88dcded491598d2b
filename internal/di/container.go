// Package di provides dependency injection configuration for the widget server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/walloflove/wol-server/internal/config"
	"github.com/walloflove/wol-server/internal/di/providers"
	"github.com/walloflove/wol-server/internal/embed"
	"github.com/walloflove/wol-server/internal/logger"
	"github.com/walloflove/wol-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideTracing)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Workers
	do.Provide(injector, providers.ProvideTaskQueue)
	do.Provide(injector, providers.ProvideTrackLimiter)

	// Business services
	do.Provide(injector, providers.ProvideContentResolver)
	do.Provide(injector, providers.ProvideAnalyticsService)
	do.Provide(injector, providers.ProvidePreviewBootstrapper)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.TracingHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.TaskQueueHandle](injector)
	_ = do.MustInvoke[*providers.TrackLimiterHandle](injector)

	_ = do.MustInvoke[*service.ContentResolver](injector)
	_ = do.MustInvoke[*service.AnalyticsService](injector)
	_ = do.MustInvoke[*embed.Bootstrapper](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
