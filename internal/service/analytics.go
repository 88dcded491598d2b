package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/walloflove/wol-server/internal/domain"
	domainerrors "github.com/walloflove/wol-server/internal/errors"
	"github.com/walloflove/wol-server/internal/store"
	"github.com/walloflove/wol-server/internal/tracing"
)

// AnalyticsService records widget engagement.
// Counts are approximate: a retried request may be counted twice.
type AnalyticsService struct {
	store  store.CounterStore
	logger *slog.Logger
	tracer trace.Tracer
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(s store.CounterStore, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AnalyticsService{
		store:  s,
		logger: logger,
		tracer: tracing.Tracer(),
	}
}

// RecordView counts one widget view.
func (s *AnalyticsService) RecordView(ctx context.Context, widgetID string) error {
	return s.record(ctx, widgetID, domain.CounterViews)
}

// RecordClick counts one widget interaction.
func (s *AnalyticsService) RecordClick(ctx context.Context, widgetID string) error {
	return s.record(ctx, widgetID, domain.CounterClicks)
}

// Record counts one event on the named counter.
func (s *AnalyticsService) Record(ctx context.Context, widgetID string, counter domain.Counter) error {
	return s.record(ctx, widgetID, counter)
}

func (s *AnalyticsService) record(ctx context.Context, widgetID string, counter domain.Counter) error {
	if widgetID == "" {
		return domainerrors.Validation("widget id is empty")
	}
	if !counter.Valid() {
		return domainerrors.Validationf("unknown counter %q", counter)
	}

	ctx, span := s.tracer.Start(ctx, "AnalyticsService.Record",
		trace.WithAttributes(
			attribute.String("widget.id", widgetID),
			attribute.String("counter", string(counter)),
		))
	defer span.End()

	if err := s.store.IncrementWidgetCounter(ctx, widgetID, counter); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domainerrors.Transient(err, "counter increment failed")
	}
	return nil
}
