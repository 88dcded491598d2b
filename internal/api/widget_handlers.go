package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/dto"
)

func (s *Server) registerWidgetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getWidget",
		Method:      http.MethodGet,
		Path:        "/api/widget/{widgetId}",
		Summary:     "Get widget",
		Description: "Returns an active widget's public configuration and its approved testimonials, newest first",
		Tags:        []string{"Widgets"},
	}, s.handleGetWidget)

	huma.Register(s.api, huma.Operation{
		OperationID: "trackWidgetView",
		Method:      http.MethodPost,
		Path:        "/api/widget/{widgetId}/view",
		Summary:     "Track widget view",
		Description: "Records a widget impression. Always succeeds; counting is best effort",
		Tags:        []string{"Tracking"},
	}, s.handleTrackView)

	huma.Register(s.api, huma.Operation{
		OperationID: "trackWidgetClick",
		Method:      http.MethodPost,
		Path:        "/api/widget/{widgetId}/click",
		Summary:     "Track widget interaction",
		Description: "Records a user interaction with a widget. Always succeeds; counting is best effort",
		Tags:        []string{"Tracking"},
	}, s.handleTrackClick)
}

// === DTOs ===

// WidgetInput identifies a widget by its public id.
type WidgetInput struct {
	WidgetID string `path:"widgetId" doc:"Public widget identifier"`
}

// WidgetOutput wraps the widget response for Huma.
type WidgetOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         dto.WidgetResponse
}

// TrackOutput wraps the tracking acknowledgement for Huma.
type TrackOutput struct {
	Body dto.TrackResponse
}

// === Handlers ===

func (s *Server) handleGetWidget(ctx context.Context, input *WidgetInput) (*WidgetOutput, error) {
	res, err := s.services.Resolver.Resolve(ctx, input.WidgetID)
	if err != nil {
		return nil, err
	}

	return &WidgetOutput{
		CacheControl: CacheNoStore,
		Body:         dto.NewWidgetResponse(res.Widget, res.Testimonials),
	}, nil
}

func (s *Server) handleTrackView(ctx context.Context, input *WidgetInput) (*TrackOutput, error) {
	s.track(ctx, input.WidgetID, domain.CounterViews)
	return &TrackOutput{Body: dto.TrackResponse{Success: true}}, nil
}

func (s *Server) handleTrackClick(ctx context.Context, input *WidgetInput) (*TrackOutput, error) {
	s.track(ctx, input.WidgetID, domain.CounterClicks)
	return &TrackOutput{Body: dto.TrackResponse{Success: true}}, nil
}

// track hands the increment to the background queue. Nothing it does can
// change the response. Limited increments are counted as rejected in the
// queue stats, so the undercount shows on /health.
func (s *Server) track(ctx context.Context, widgetID string, counter domain.Counter) {
	if s.tasks == nil {
		return
	}
	name := "record-" + string(counter) + ":" + widgetID
	ip := clientIP(ctx)
	if s.trackLimiter != nil && !s.trackLimiter.Allow(ip+"|"+widgetID) {
		s.tasks.Reject(name, "rate limited")
		s.logger.Info("tracking rate limited",
			"widget_id", widgetID,
			"counter", counter,
			"ip", ip,
		)
		return
	}

	analytics := s.services.Analytics
	accepted := s.tasks.Submit(name, func(ctx context.Context) error {
		return analytics.Record(ctx, widgetID, counter)
	})
	if !accepted {
		s.logger.Warn("tracking increment dropped",
			"widget_id", widgetID,
			"counter", counter,
		)
	}
}
