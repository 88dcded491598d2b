package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/dto"
	domainerrors "github.com/walloflove/wol-server/internal/errors"
)

func TestHTTPClient_FetchWidget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/widget/w1", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(dto.WidgetResponse{
			Widget:       dto.WidgetConfig{ID: "w1", Type: domain.WidgetTypeList, Settings: domain.DefaultWidgetSettings()},
			Testimonials: []dto.Testimonial{{ID: "t1", Content: "hi", AuthorName: "A", Rating: 5}},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", time.Second, nil)
	got, err := c.FetchWidget(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.WidgetTypeList, got.Widget.Type)
	require.Len(t, got.Testimonials, 1)
	assert.Equal(t, "hi", got.Testimonials[0].Content)
}

func TestHTTPClient_FetchWidgetStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domainerrors.ErrNotFound},
		{http.StatusInternalServerError, domainerrors.ErrTransient},
		{http.StatusBadGateway, domainerrors.ErrTransient},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"x","code":"X"}`))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, time.Second, nil).FetchWidget(context.Background(), "w1")
			assert.ErrorIs(t, err, tt.want)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestHTTPClient_FetchWidgetBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, time.Second, nil).FetchWidget(context.Background(), "w1")
	assert.True(t, domainerrors.IsTransient(err))
}

func TestHTTPClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, time.Second, nil).FetchWidget(context.Background(), "w1")
	assert.True(t, domainerrors.IsTransient(err))
}

func TestHTTPClient_Track(t *testing.T) {
	var views, clicks atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case "/api/widget/w1/view":
			views.Add(1)
		case "/api/widget/w1/click":
			clicks.Add(1)
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	require.NoError(t, c.TrackView(context.Background(), "w1"))
	require.NoError(t, c.TrackClick(context.Background(), "w1"))
	assert.Error(t, c.TrackView(context.Background(), "other"))

	assert.Equal(t, int32(1), views.Load())
	assert.Equal(t, int32(1), clicks.Load())
}
