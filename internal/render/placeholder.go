package render

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/walloflove/wol-server/internal/dom"
	"github.com/walloflove/wol-server/internal/domain"
)

// Placeholder messages. The two are deliberately different: one is a
// failure, the other a successful but empty widget.
const (
	UnavailableText = "Testimonials are temporarily unavailable (widget %s)."
	EmptyText       = "No testimonials to display yet."
)

// Unavailable replaces the container's contents with the failure placeholder.
// The widget id is included so site owners can quote it to support.
func Unavailable(container *html.Node, widgetID string) *html.Node {
	p := placeholder(domain.ThemeLight, ClassUnavailable, fmt.Sprintf(UnavailableText, widgetID))
	dom.SetAttr(p, "data-widget-id", widgetID)
	dom.ReplaceChildren(container, p)
	return p
}

// Empty replaces the container's contents with the no-content placeholder.
func Empty(container *html.Node, theme domain.Theme) *html.Node {
	p := placeholder(theme, ClassEmpty, EmptyText)
	dom.ReplaceChildren(container, p)
	return p
}

func placeholder(theme domain.Theme, kind, text string) *html.Node {
	n := dom.NewElement("div", ClassWidget, ThemeClass(theme), ClassPlaceholder, kind)
	dom.SetAttr(n, "role", "status")
	dom.Append(n, dom.Text(text))
	return n
}

// IsUnavailable reports whether the container shows the failure placeholder.
func IsUnavailable(container *html.Node) bool {
	return len(dom.FindByClass(container, ClassUnavailable)) > 0
}

// IsEmpty reports whether the container shows the no-content placeholder.
func IsEmpty(container *html.Node) bool {
	return len(dom.FindByClass(container, ClassEmpty)) > 0
}
