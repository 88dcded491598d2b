// Package store defines the narrow storage contract the widget core relies on.
// Implementations issue declarative queries; the core never locks or
// performs read-modify-write cycles itself.
package store

import (
	"context"

	"github.com/walloflove/wol-server/internal/domain"
)

// TestimonialQuery selects testimonials for display.
// Results are ordered by creation time, newest first.
type TestimonialQuery struct {
	OwnerID string
	Status  domain.TestimonialStatus
	Sources []string // empty means any source
	Limit   int      // <= 0 means unlimited
}

// WidgetReader is the read side used by the Content Resolver.
type WidgetReader interface {
	// GetActiveWidget returns the widget only if it exists and is active.
	// Returns ErrNotFound otherwise.
	GetActiveWidget(ctx context.Context, id string) (*domain.Widget, error)

	// ListTestimonials runs a filtered, sorted, limited testimonial query.
	ListTestimonials(ctx context.Context, q TestimonialQuery) ([]*domain.Testimonial, error)
}

// CounterStore is the write side used by the Analytics Sink.
type CounterStore interface {
	// IncrementWidgetCounter atomically adds one to the named counter.
	// Incrementing a counter for an unknown widget is a no-op, not an error.
	IncrementWidgetCounter(ctx context.Context, widgetID string, counter domain.Counter) error
}

// Store is the full contract implemented by storage backends.
type Store interface {
	WidgetReader
	CounterStore

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
