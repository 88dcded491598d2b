package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/walloflove/wol-server/internal/task"
)

// Health states, worst last.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// pingTimeout bounds the database check so a wedged pool cannot hang probes.
const pingTimeout = 2 * time.Second

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports database reachability and the tracking queue backlog",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string      `json:"status" enum:"healthy,degraded,unhealthy" doc:"Component status"`
	Latency string      `json:"latency,omitempty" doc:"Time taken by the check"`
	Message string      `json:"message,omitempty" doc:"Additional status information"`
	Queue   *task.Stats `json:"queue,omitempty" doc:"Tracking queue counters"`
}

// HealthResponse is the overall status plus each component's.
type HealthResponse struct {
	Status     string                     `json:"status" enum:"healthy,degraded,unhealthy" doc:"Worst component status"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"tracking": s.checkTracking(),
	}

	overall := statusHealthy
	for _, c := range components {
		overall = worse(overall, c.Status)
	}

	return &HealthOutput{
		CacheControl: CacheNoStore,
		Body:         HealthResponse{Status: overall, Components: components},
	}, nil
}

func worse(a, b string) string {
	rank := map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// checkDatabase pings the store. Without it no widget can resolve.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.db == nil {
		return ComponentHealth{Status: statusUnhealthy, Message: "database not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := s.db.Ping(ctx)
	h := ComponentHealth{Status: statusHealthy, Latency: time.Since(start).String()}
	if err != nil {
		s.logger.Warn("Health check: database ping failed", "error", err)
		h.Status = statusUnhealthy
		h.Message = "database ping failed"
	}
	return h
}

// checkTracking reports the queue counters. Dropped increments skew the
// engagement counts but never affect rendering, so they only degrade.
func (s *Server) checkTracking() ComponentHealth {
	if s.tasks == nil {
		return ComponentHealth{Status: statusDegraded, Message: "tracking disabled"}
	}

	stats := s.tasks.Stats()
	h := ComponentHealth{Status: statusHealthy, Queue: &stats}
	if stats.Dropped > 0 {
		h.Status = statusDegraded
		h.Message = "tracking increments dropped"
	}
	return h
}
