package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/walloflove/wol-server/internal/config"
	"github.com/walloflove/wol-server/internal/logger"
	"github.com/walloflove/wol-server/internal/tracing"
)

// TracingHandle flushes spans on shutdown.
type TracingHandle struct {
	shutdown func(context.Context) error
}

// Shutdown implements do.Shutdownable.
func (h *TracingHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.shutdown(ctx)
}

// ProvideTracing installs the global tracer provider.
func ProvideTracing(i do.Injector) (*TracingHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	shutdown, err := tracing.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	if cfg.Telemetry.OTLPEndpoint != "" {
		log.Info("Tracing enabled",
			"endpoint", cfg.Telemetry.OTLPEndpoint,
			"service_name", cfg.Telemetry.ServiceName,
		)
	}

	return &TracingHandle{shutdown: shutdown}, nil
}
