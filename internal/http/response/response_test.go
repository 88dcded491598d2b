package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusServiceUnavailable, "TRANSIENT", "try later", slog.New(slog.DiscardHandler))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Error: "try later", Code: "TRANSIENT"}, body)
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w, "Widget not found", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Widget not found","code":"NOT_FOUND"}`, w.Body.String())
}

func TestJavaScript(t *testing.T) {
	tests := []struct {
		name   string
		maxAge time.Duration
		want   string
	}{
		{"cached", 5 * time.Minute, "public, max-age=300"},
		{"uncached", 0, "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JavaScript(w, []byte("void 0;"), tt.maxAge, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/javascript; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, w.Header().Get("Cache-Control"))
			assert.Equal(t, "void 0;", w.Body.String())
		})
	}
}

func TestHTML(t *testing.T) {
	w := httptest.NewRecorder()

	HTML(w, func(out io.Writer) error {
		_, err := io.WriteString(out, "<p>hi</p>")
		return err
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "<p>hi</p>", w.Body.String())
}

func TestHTML_RenderErrorIsLoggedNotPanicked(t *testing.T) {
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		HTML(w, func(io.Writer) error { return errors.New("broken pipe") }, slog.New(slog.DiscardHandler))
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
