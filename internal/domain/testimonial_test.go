package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestimonial_Company(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@acme.com", "acme.com"},
		{"  Jane@Acme.COM ", "acme.com"},
		{"", ""},
		{"no-at-sign", ""},
		{"trailing@", ""},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			tm := &Testimonial{AuthorEmail: tt.email}
			assert.Equal(t, tt.want, tm.Company())
		})
	}
}

func TestTestimonial_MatchesAnyTag(t *testing.T) {
	tm := &Testimonial{Content: "Support was FAST and friendly. Great onboarding!"}

	assert.True(t, tm.MatchesAnyTag([]string{"fast"}))
	assert.True(t, tm.MatchesAnyTag([]string{"pricing", "Onboarding"}))
	assert.False(t, tm.MatchesAnyTag([]string{"pricing"}))
	assert.False(t, tm.MatchesAnyTag(nil))
	assert.False(t, tm.MatchesAnyTag([]string{""}))
}

func TestTestimonial_MatchesAnyTag_SubstringNotWord(t *testing.T) {
	tm := &Testimonial{Content: "What a party!"}
	assert.True(t, tm.MatchesAnyTag([]string{"art"}))
}

func TestTestimonial_MatchesAnyTag_UnicodeFolding(t *testing.T) {
	tm := &Testimonial{Content: "STRASSE und Straße"}
	assert.True(t, tm.MatchesAnyTag([]string{"straße"}))
}

func TestTestimonial_ClampedRating(t *testing.T) {
	assert.Equal(t, 1, (&Testimonial{Rating: 0}).ClampedRating())
	assert.Equal(t, 3, (&Testimonial{Rating: 3}).ClampedRating())
	assert.Equal(t, 5, (&Testimonial{Rating: 9}).ClampedRating())
}
