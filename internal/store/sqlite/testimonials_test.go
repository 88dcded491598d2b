package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/store"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedTestimonial(t *testing.T, s *Store, id, ownerID, source string, status domain.TestimonialStatus, age time.Duration) {
	t.Helper()
	err := s.CreateTestimonial(context.Background(), &domain.Testimonial{
		ID:          id,
		CreatedAt:   baseTime.Add(-age),
		OwnerID:     ownerID,
		Content:     "Great product " + id,
		AuthorName:  "Author " + id,
		AuthorEmail: id + "@example.com",
		Source:      source,
		Status:      status,
		Rating:      5,
	})
	require.NoError(t, err)
}

func ids(ts []*domain.Testimonial) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestListTestimonials_FilterSortLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedTestimonial(t, s, "t1", "owner-1", "google", domain.StatusApproved, 3*time.Hour)
	seedTestimonial(t, s, "t2", "owner-1", "direct", domain.StatusApproved, 2*time.Hour)
	seedTestimonial(t, s, "t3", "owner-1", "google", domain.StatusApproved, 1*time.Hour)
	seedTestimonial(t, s, "t4", "owner-1", "google", domain.StatusPending, 0)
	seedTestimonial(t, s, "t5", "owner-2", "google", domain.StatusApproved, 0)

	got, err := s.ListTestimonials(ctx, store.TestimonialQuery{
		OwnerID: "owner-1",
		Status:  domain.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids(got))

	got, err = s.ListTestimonials(ctx, store.TestimonialQuery{
		OwnerID: "owner-1",
		Status:  domain.StatusApproved,
		Sources: []string{"google"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t1"}, ids(got))

	got, err = s.ListTestimonials(ctx, store.TestimonialQuery{
		OwnerID: "owner-1",
		Status:  domain.StatusApproved,
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t2"}, ids(got))
}

func TestListTestimonials_SubSecondOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Whole seconds and fractions mixed; the fractions differ in length.
	seedTestimonial(t, s, "older", "owner-1", "direct", domain.StatusApproved, 500*time.Millisecond)
	seedTestimonial(t, s, "whole", "owner-1", "direct", domain.StatusApproved, 0)
	seedTestimonial(t, s, "tenth", "owner-1", "direct", domain.StatusApproved, -100*time.Millisecond)
	seedTestimonial(t, s, "half", "owner-1", "direct", domain.StatusApproved, -500*time.Millisecond)
	seedTestimonial(t, s, "newest", "owner-1", "direct", domain.StatusApproved, -510*time.Millisecond)

	got, err := s.ListTestimonials(ctx, store.TestimonialQuery{
		OwnerID: "owner-1",
		Status:  domain.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "half", "tenth", "whole", "older"}, ids(got))

	got, err = s.ListTestimonials(ctx, store.TestimonialQuery{
		OwnerID: "owner-1",
		Status:  domain.StatusApproved,
		Limit:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest"}, ids(got))
}

func TestFormatTime_FixedWidth(t *testing.T) {
	whole := formatTime(baseTime)
	frac := formatTime(baseTime.Add(100 * time.Millisecond))

	assert.Equal(t, "2026-03-01T12:00:00.000000000Z", whole)
	assert.Len(t, frac, len(whole))
	assert.Less(t, whole, frac)

	parsed, err := parseTime(frac)
	require.NoError(t, err)
	assert.True(t, baseTime.Add(100*time.Millisecond).Equal(parsed))

	legacy, err := parseTime("2026-03-01T12:00:00.1Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(legacy))
}

func TestListTestimonials_Empty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListTestimonials(context.Background(), store.TestimonialQuery{OwnerID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListTestimonials_ScansAllFields(t *testing.T) {
	s := newTestStore(t)
	seedTestimonial(t, s, "t1", "owner-1", "google", domain.StatusApproved, 0)

	got, err := s.ListTestimonials(context.Background(), store.TestimonialQuery{OwnerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	tm := got[0]
	assert.Equal(t, "Great product t1", tm.Content)
	assert.Equal(t, "Author t1", tm.AuthorName)
	assert.Equal(t, "t1@example.com", tm.AuthorEmail)
	assert.Equal(t, "google", tm.Source)
	assert.Equal(t, domain.StatusApproved, tm.Status)
	assert.Equal(t, 5, tm.Rating)
	assert.True(t, baseTime.Equal(tm.CreatedAt))
}

func TestCreateTestimonial_Duplicate(t *testing.T) {
	s := newTestStore(t)
	seedTestimonial(t, s, "t1", "owner-1", "google", domain.StatusApproved, 0)

	err := s.CreateTestimonial(context.Background(), &domain.Testimonial{
		ID: "t1", CreatedAt: baseTime, OwnerID: "owner-1", Content: "x", AuthorName: "y", Source: "direct",
		Status: domain.StatusPending, Rating: 4,
	})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestListTestimonials_ManySources(t *testing.T) {
	s := newTestStore(t)
	for i := range 5 {
		seedTestimonial(t, s, fmt.Sprintf("t%d", i), "owner-1", fmt.Sprintf("src-%d", i), domain.StatusApproved, time.Duration(i)*time.Minute)
	}

	got, err := s.ListTestimonials(context.Background(), store.TestimonialQuery{
		OwnerID: "owner-1",
		Sources: []string{"src-0", "src-2", "src-4", "unknown"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t0", "t2", "t4"}, ids(got))
}
