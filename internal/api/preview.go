package api

import (
	"context"

	"github.com/walloflove/wol-server/internal/dto"
	"github.com/walloflove/wol-server/internal/embed"
	"github.com/walloflove/wol-server/internal/service"
)

// PreviewClient serves the embed bootstrapper straight from the resolver,
// without an HTTP round trip. Tracking calls are ignored.
type PreviewClient struct {
	resolver *service.ContentResolver
}

var _ embed.Client = (*PreviewClient)(nil)

// NewPreviewClient creates an in-process embed client.
func NewPreviewClient(resolver *service.ContentResolver) *PreviewClient {
	return &PreviewClient{resolver: resolver}
}

// FetchWidget implements embed.Client.
func (c *PreviewClient) FetchWidget(ctx context.Context, widgetID string) (*dto.WidgetResponse, error) {
	res, err := c.resolver.Resolve(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewWidgetResponse(res.Widget, res.Testimonials)
	return &resp, nil
}

// TrackView implements embed.Client. Previews never count.
func (c *PreviewClient) TrackView(context.Context, string) error { return nil }

// TrackClick implements embed.Client. Previews never count.
func (c *PreviewClient) TrackClick(context.Context, string) error { return nil }
