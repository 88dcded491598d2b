// Package domain contains the core types of the widget server: widgets, their
// display settings, and the testimonials they show.
package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// TestimonialStatus is the moderation state of a testimonial.
type TestimonialStatus string

// Moderation states. Only approved testimonials are ever public.
const (
	StatusPending  TestimonialStatus = "pending"
	StatusApproved TestimonialStatus = "approved"
	StatusHidden   TestimonialStatus = "hidden"
)

// Testimonial is a written review collected for an owner.
type Testimonial struct {
	CreatedAt   time.Time         `json:"created_at"`
	ID          string            `json:"id"`
	OwnerID     string            `json:"owner_id"`
	Content     string            `json:"content"`
	AuthorName  string            `json:"author_name"`
	AuthorEmail string            `json:"author_email,omitempty"`
	Source      string            `json:"source"`
	Status      TestimonialStatus `json:"status"`
	Rating      int               `json:"rating"`
}

// Company infers the author's company token from the email domain.
// Returns "" when there is no email or no domain part.
func (t *Testimonial) Company() string {
	_, domain, ok := strings.Cut(strings.TrimSpace(t.AuthorEmail), "@")
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(domain))
}

// MatchesAnyTag reports whether the content contains at least one of tags,
// compared case-insensitively as plain substrings. Empty tags are ignored.
//
// This is a text match, not structured tagging: "art" matches "party".
func (t *Testimonial) MatchesAnyTag(tags []string) bool {
	folder := cases.Fold()
	content := folder.String(t.Content)
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if strings.Contains(content, folder.String(tag)) {
			return true
		}
	}
	return false
}

// ClampedRating returns the rating limited to the 1..5 star range.
func (t *Testimonial) ClampedRating() int {
	return min(max(t.Rating, 1), 5)
}
