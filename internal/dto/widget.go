// Package dto provides the public wire types of the widget endpoint.
//
// These are what a foreign page sees. They carry only display data:
// no owner reference, no author email. The company token is derived
// server-side so the email never leaves the service.
package dto

import (
	"time"

	"github.com/walloflove/wol-server/internal/domain"
)

// WidgetConfig is the client-facing representation of a widget.
type WidgetConfig struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Type     domain.WidgetType     `json:"type"`
	Settings domain.WidgetSettings `json:"settings"`
}

// Testimonial is the client-facing representation of an approved testimonial.
type Testimonial struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	AuthorName    string    `json:"author_name"`
	AuthorCompany string    `json:"author_company,omitempty"` // Email domain, when present
	Rating        int       `json:"rating"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// WidgetResponse is the body of a successful widget resolve.
type WidgetResponse struct {
	Widget       WidgetConfig  `json:"widget"`
	Testimonials []Testimonial `json:"testimonials"`
}

// TrackResponse is the body of every tracking call.
type TrackResponse struct {
	Success bool `json:"success"`
}

// NewWidgetConfig strips a widget down to its public fields.
func NewWidgetConfig(w *domain.Widget) WidgetConfig {
	return WidgetConfig{
		ID:       w.ID,
		Name:     w.Name,
		Type:     w.Type,
		Settings: w.Settings,
	}
}

// NewTestimonial strips a testimonial down to its public fields.
func NewTestimonial(t *domain.Testimonial) Testimonial {
	return Testimonial{
		ID:            t.ID,
		Content:       t.Content,
		AuthorName:    t.AuthorName,
		AuthorCompany: t.Company(),
		Rating:        t.Rating,
		Source:        t.Source,
		CreatedAt:     t.CreatedAt,
	}
}

// NewWidgetResponse builds the response body. Testimonials is never nil so
// it always encodes as a JSON array.
func NewWidgetResponse(w *domain.Widget, ts []*domain.Testimonial) WidgetResponse {
	out := make([]Testimonial, 0, len(ts))
	for _, t := range ts {
		out = append(out, NewTestimonial(t))
	}
	return WidgetResponse{
		Widget:       NewWidgetConfig(w),
		Testimonials: out,
	}
}
