package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/walloflove/wol-server/internal/dto"
	domainerrors "github.com/walloflove/wol-server/internal/errors"
)

// maxResponseBytes caps how much of a widget response is read.
const maxResponseBytes = 1 << 20

// Client is the widget API as seen from the embed side.
type Client interface {
	FetchWidget(ctx context.Context, widgetID string) (*dto.WidgetResponse, error)
	TrackView(ctx context.Context, widgetID string) error
	TrackClick(ctx context.Context, widgetID string) error
}

// HTTPClient calls the widget API over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API rooted at baseURL
// (e.g. "https://app.example.com").
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("widget api: status %d", e.StatusCode)
}

func (c *HTTPClient) endpoint(widgetID string, suffix ...string) string {
	parts := append([]string{c.baseURL, "api", "widget", url.PathEscape(widgetID)}, suffix...)
	return strings.Join(parts, "/")
}

// FetchWidget resolves a widget. A 404 is reported as NotFound; network
// failures, other statuses and undecodable bodies as Transient.
func (c *HTTPClient) FetchWidget(ctx context.Context, widgetID string) (*dto.WidgetResponse, error) {
	u := c.endpoint(widgetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching widget", "widget_id", widgetID, "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Transient(err, "widget request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domainerrors.NotFoundf("widget %s not found", widgetID).
			WithCause(&StatusError{StatusCode: resp.StatusCode})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domainerrors.Transient(&StatusError{StatusCode: resp.StatusCode}, "widget request failed")
	}

	var body dto.WidgetResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, domainerrors.Transient(err, "parse widget response")
	}
	return &body, nil
}

// TrackView reports a widget view.
func (c *HTTPClient) TrackView(ctx context.Context, widgetID string) error {
	return c.track(ctx, widgetID, "view")
}

// TrackClick reports a widget interaction.
func (c *HTTPClient) TrackClick(ctx context.Context, widgetID string) error {
	return c.track(ctx, widgetID, "click")
}

func (c *HTTPClient) track(ctx context.Context, widgetID, event string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(widgetID, event), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("track %s: %w", event, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("track %s: %w", event, &StatusError{StatusCode: resp.StatusCode})
	}
	return nil
}
