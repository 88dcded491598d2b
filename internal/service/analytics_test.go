package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walloflove/wol-server/internal/domain"
	domainerrors "github.com/walloflove/wol-server/internal/errors"
)

func TestAnalytics_RecordViewAndClick(t *testing.T) {
	f := newFakeStore()
	addWidget(f, "w1", domain.WidgetTypeWall, nil)
	a := NewAnalyticsService(f, nil)

	require.NoError(t, a.RecordView(context.Background(), "w1"))
	require.NoError(t, a.RecordView(context.Background(), "w1"))
	require.NoError(t, a.RecordClick(context.Background(), "w1"))

	assert.Equal(t, 2, f.counters["w1"][domain.CounterViews])
	assert.Equal(t, 1, f.counters["w1"][domain.CounterClicks])
}

func TestAnalytics_UnknownWidgetAcked(t *testing.T) {
	a := NewAnalyticsService(newFakeStore(), nil)
	assert.NoError(t, a.RecordView(context.Background(), "xyz"))
}

func TestAnalytics_StoreFailureIsTransient(t *testing.T) {
	f := newFakeStore()
	f.incErr = errors.New("disk full")

	err := NewAnalyticsService(f, nil).RecordClick(context.Background(), "w1")
	assert.True(t, domainerrors.IsTransient(err))
}

func TestAnalytics_Validation(t *testing.T) {
	a := NewAnalyticsService(newFakeStore(), nil)

	assert.ErrorIs(t, a.RecordView(context.Background(), ""), domainerrors.ErrValidation)
	assert.ErrorIs(t, a.Record(context.Background(), "w1", domain.Counter("shares")), domainerrors.ErrValidation)
}
