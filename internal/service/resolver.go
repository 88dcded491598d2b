// Package service holds the server-side core: the Content Resolver that
// selects what a widget shows, and the Analytics Sink that counts engagement.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/walloflove/wol-server/internal/domain"
	domainerrors "github.com/walloflove/wol-server/internal/errors"
	"github.com/walloflove/wol-server/internal/store"
	"github.com/walloflove/wol-server/internal/tracing"
)

// Resolution is a widget together with the testimonials it should display.
type Resolution struct {
	Widget       *domain.Widget
	Testimonials []*domain.Testimonial
}

// ContentResolver selects a widget's eligible testimonials.
type ContentResolver struct {
	store  store.WidgetReader
	logger *slog.Logger
	tracer trace.Tracer

	// Concurrent resolves of the same widget share one store round trip.
	group singleflight.Group
}

// NewContentResolver creates a new content resolver.
func NewContentResolver(s store.WidgetReader, logger *slog.Logger) *ContentResolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ContentResolver{
		store:  s,
		logger: logger,
		tracer: tracing.Tracer(),
	}
}

// Resolve returns the widget and its display list, newest first.
//
// Errors carry CodeNotFound when the widget is missing or inactive and
// CodeTransient for any storage failure. Nothing is retried here.
func (r *ContentResolver) Resolve(ctx context.Context, widgetID string) (*Resolution, error) {
	if widgetID == "" {
		return nil, domainerrors.NotFound("widget id is empty")
	}

	ctx, span := r.tracer.Start(ctx, "ContentResolver.Resolve",
		trace.WithAttributes(attribute.String("widget.id", widgetID)))
	defer span.End()

	// The shared query outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(widgetID, func() (any, error) {
		return r.resolve(shared, widgetID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			return nil, res.Err
		}
		out := res.Val.(*Resolution)
		span.SetAttributes(
			attribute.Int("testimonials.count", len(out.Testimonials)),
			attribute.Bool("singleflight.shared", res.Shared),
		)
		return &Resolution{
			Widget:       out.Widget,
			Testimonials: slices.Clone(out.Testimonials),
		}, nil
	case <-ctx.Done():
		span.SetStatus(codes.Error, "caller gave up")
		return nil, domainerrors.Transient(ctx.Err(), "widget resolve interrupted")
	}
}

func (r *ContentResolver) resolve(ctx context.Context, widgetID string) (*Resolution, error) {
	widget, err := r.store.GetActiveWidget(ctx, widgetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("widget %s not found", widgetID)
		}
		r.logger.Error("widget lookup failed",
			slog.String("widget_id", widgetID),
			slog.String("error", err.Error()),
		)
		return nil, domainerrors.Transient(err, "widget lookup failed")
	}

	settings := widget.Settings
	candidates, err := r.store.ListTestimonials(ctx, store.TestimonialQuery{
		OwnerID: widget.OwnerID,
		Status:  domain.StatusApproved,
		Sources: nonEmpty(settings.SelectedSources),
		Limit:   settings.Limit(),
	})
	if err != nil {
		r.logger.Error("testimonial query failed",
			slog.String("widget_id", widgetID),
			slog.String("error", err.Error()),
		)
		return nil, domainerrors.Transient(err, "testimonial query failed")
	}

	// Tag filtering runs after truncation, so a widget can show fewer
	// than its limit even when older matching testimonials exist.
	testimonials := candidates
	if tags := nonEmpty(settings.FilterTags); len(tags) > 0 {
		testimonials = make([]*domain.Testimonial, 0, len(candidates))
		for _, t := range candidates {
			if t.MatchesAnyTag(tags) {
				testimonials = append(testimonials, t)
			}
		}
	}

	r.logger.Debug("widget resolved",
		slog.String("widget_id", widgetID),
		slog.Int("candidates", len(candidates)),
		slog.Int("testimonials", len(testimonials)),
	)

	return &Resolution{Widget: widget, Testimonials: testimonials}, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
