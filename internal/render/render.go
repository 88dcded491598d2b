// Package render is the presentation engine: it turns a widget's settings
// and testimonials into markup inside a container element.
//
// Rendering is a pure function of its inputs except for the carousel,
// which keeps its slide index and an optional autoplay timer.
package render

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/net/html"

	"github.com/walloflove/wol-server/internal/dom"
	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/dto"
)

// ErrNoContainer is returned when Mount is given a nil container.
var ErrNoContainer = errors.New("render: nil container")

// Options are the host-side hooks a mount can use.
type Options struct {
	// Locker guards DOM writes made after Mount returns (carousel
	// transitions). Usually the page lock.
	Locker sync.Locker

	// OnInteraction runs after every user-triggered carousel transition.
	OnInteraction func()
}

// Mounted describes what Mount rendered.
type Mounted struct {
	Root     *html.Node
	Variant  domain.WidgetType
	Cards    int
	Empty    bool
	Carousel *Carousel // nil unless Variant is carousel
}

// Mount renders the widget into container, replacing its contents.
// Unknown widget types render as a wall. No testimonials renders the
// empty placeholder.
func Mount(container *html.Node, w dto.WidgetConfig, testimonials []dto.Testimonial, opts Options) (*Mounted, error) {
	if container == nil {
		return nil, ErrNoContainer
	}

	s := w.Settings
	if len(testimonials) == 0 {
		return &Mounted{Root: Empty(container, s.Theme), Empty: true}, nil
	}

	variant := w.Type.Normalize()
	root := dom.NewElement("div", ClassWidget, ThemeClass(s.Theme), ClassVariantPrefix+string(variant))
	dom.SetAttr(root, "data-widget-id", w.ID)

	m := &Mounted{Root: root, Variant: variant}

	switch variant {
	case domain.WidgetTypeList:
		m.Cards = appendCards(root, ClassList, testimonials, s)
	case domain.WidgetTypeSingle:
		m.Cards = appendCards(root, ClassSingle, testimonials[:1], s)
	case domain.WidgetTypeCarousel:
		m.Carousel = buildCarousel(root, testimonials, s, opts)
		m.Cards = m.Carousel.Len()
	default:
		m.Cards = appendCards(root, ClassGrid, testimonials, s)
	}

	dom.ReplaceChildren(container, root)
	return m, nil
}

func appendCards(root *html.Node, layoutClass string, ts []dto.Testimonial, s domain.WidgetSettings) int {
	layout := dom.NewElement("div", layoutClass)
	for _, t := range ts {
		dom.Append(layout, Card(t, s))
	}
	dom.Append(root, layout)
	return len(ts)
}

func buildCarousel(root *html.Node, ts []dto.Testimonial, s domain.WidgetSettings, opts Options) *Carousel {
	carousel := dom.NewElement("div", ClassCarousel)
	dom.SetAttr(carousel, "aria-roledescription", "carousel")

	viewport := dom.NewElement("div", ClassViewport)
	track := dom.NewElement("div", ClassTrack)

	slides := make([]*html.Node, 0, len(ts))
	for i, t := range ts {
		slide := dom.NewElement("div", ClassSlide)
		dom.SetAttr(slide, "aria-label", fmt.Sprintf("%d of %d", i+1, len(ts)))
		dom.Append(slide, Card(t, s))
		dom.Append(track, slide)
		slides = append(slides, slide)
	}
	dom.Append(viewport, track)
	dom.Append(carousel, viewport)

	var indicators []*html.Node
	if len(ts) > 1 {
		dom.Append(carousel,
			navButton(ClassPrev, "Previous testimonial", "‹"),
			navButton(ClassNext, "Next testimonial", "›"),
		)

		bar := dom.NewElement("div", ClassIndicators)
		for i := range ts {
			ind := dom.NewElement("button", ClassIndicator)
			dom.SetAttr(ind, "type", "button")
			dom.SetAttr(ind, "data-index", strconv.Itoa(i))
			dom.SetAttr(ind, "aria-label", fmt.Sprintf("Show testimonial %d", i+1))
			dom.Append(bar, ind)
			indicators = append(indicators, ind)
		}
		dom.Append(carousel, bar)
	}

	dom.Append(root, carousel)

	var onUser func(from, to int)
	if opts.OnInteraction != nil {
		onUser = func(int, int) { opts.OnInteraction() }
	}

	c := newCarousel(opts.Locker, track, slides, indicators, onUser)
	c.apply(0)
	return c
}

func navButton(class, label, glyph string) *html.Node {
	b := dom.NewElement("button", ClassNav, class)
	dom.SetAttr(b, "type", "button")
	dom.SetAttr(b, "aria-label", label)
	dom.Append(b, dom.Text(glyph))
	return b
}
