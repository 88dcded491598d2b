package api

import (
	"github.com/walloflove/wol-server/internal/embed"
	"github.com/walloflove/wol-server/internal/service"
)

// Services groups the business logic used by the API server.
type Services struct {
	Resolver  *service.ContentResolver
	Analytics *service.AnalyticsService
	Preview   *embed.Bootstrapper // Renders previews in-process; never tracks
}
