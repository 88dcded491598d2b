package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/walloflove/wol-server/internal/api"
	"github.com/walloflove/wol-server/internal/config"
	"github.com/walloflove/wol-server/internal/embed"
	"github.com/walloflove/wol-server/internal/logger"
	"github.com/walloflove/wol-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	queueHandle := do.MustInvoke[*TaskQueueHandle](i)
	limiterHandle := do.MustInvoke[*TrackLimiterHandle](i)

	services := &api.Services{
		Resolver:  do.MustInvoke[*service.ContentResolver](i),
		Analytics: do.MustInvoke[*service.AnalyticsService](i),
		Preview:   do.MustInvoke[*embed.Bootstrapper](i),
	}

	handler := api.NewServer(storeHandle.Store, services, queueHandle.Queue, limiterHandle.KeyedRateLimiter, api.Options{
		PublicURL:        cfg.Server.PublicURL,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		ScriptCacheTTL:   cfg.Embed.ScriptCacheTTL,
		AutoplayInterval: cfg.Embed.AutoplayInterval,
	}, log.Component("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
