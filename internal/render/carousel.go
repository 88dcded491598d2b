package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/walloflove/wol-server/internal/dom"
)

// ErrIndexOutOfRange is returned by Jump for an index with no slide.
var ErrIndexOutOfRange = errors.New("carousel index out of range")

// Trigger records what caused a carousel transition.
type Trigger int

// Transition triggers. Only user triggers count as engagement.
const (
	TriggerUser Trigger = iota
	TriggerAutoplay
)

func (t Trigger) String() string {
	if t == TriggerAutoplay {
		return "autoplay"
	}
	return "user"
}

// Carousel is the interactive state of a carousel widget: the index of the
// visible slide, 0..N-1. Next and Prev wrap around.
//
// Every transition moves the track and the indicator highlight while holding
// the page lock, so a render never observes one without the other.
type Carousel struct {
	mu sync.Locker

	index      int
	track      *html.Node
	slides     []*html.Node
	indicators []*html.Node

	// onUser runs after a user-triggered transition, outside the lock.
	onUser func(from, to int)

	autoplayMu sync.Mutex
	stop       context.CancelFunc
	done       chan struct{}
}

func newCarousel(mu sync.Locker, track *html.Node, slides, indicators []*html.Node, onUser func(from, to int)) *Carousel {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Carousel{
		mu:         mu,
		track:      track,
		slides:     slides,
		indicators: indicators,
		onUser:     onUser,
	}
}

// Len returns the number of slides.
func (c *Carousel) Len() int { return len(c.slides) }

// Index returns the current slide index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Interactive reports whether the carousel has controls at all.
func (c *Carousel) Interactive() bool { return len(c.slides) > 1 }

// Next shows the following slide, wrapping to the first.
func (c *Carousel) Next() int { return c.step(1, TriggerUser) }

// Prev shows the preceding slide, wrapping to the last.
func (c *Carousel) Prev() int { return c.step(-1, TriggerUser) }

// Jump shows slide k directly, as an indicator click does.
func (c *Carousel) Jump(k int) error {
	if k < 0 || k >= len(c.slides) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, k, len(c.slides))
	}
	c.transition(func(int) int { return k }, TriggerUser)
	return nil
}

func (c *Carousel) step(delta int, trigger Trigger) int {
	n := len(c.slides)
	return c.transition(func(cur int) int { return ((cur+delta)%n + n) % n }, trigger)
}

// transition is the single path every trigger goes through.
func (c *Carousel) transition(target func(cur int) int, trigger Trigger) int {
	if len(c.slides) <= 1 {
		return 0
	}

	c.mu.Lock()
	from := c.index
	to := target(from)
	c.apply(to)
	c.mu.Unlock()

	if trigger == TriggerUser && c.onUser != nil {
		c.onUser(from, to)
	}
	return to
}

// apply writes index into the DOM. Caller holds c.mu.
func (c *Carousel) apply(index int) {
	c.index = index
	dom.SetAttr(c.track, "style", trackStyle(index))
	for i, ind := range c.indicators {
		dom.ToggleClass(ind, ClassActive, i == index)
		if i == index {
			dom.SetAttr(ind, "aria-current", "true")
		} else {
			dom.RemoveAttr(ind, "aria-current")
		}
	}
	for i, s := range c.slides {
		if i == index {
			dom.RemoveAttr(s, "aria-hidden")
		} else {
			dom.SetAttr(s, "aria-hidden", "true")
		}
	}
}

// StartAutoplay advances the carousel every interval until ctx ends or
// StopAutoplay is called. It does nothing for carousels with one slide.
func (c *Carousel) StartAutoplay(ctx context.Context, interval time.Duration) {
	if !c.Interactive() || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	c.startAutoplay(ctx, ticker.C, ticker.Stop)
}

// StartAutoplayTicks advances the carousel on every value from ticks.
func (c *Carousel) StartAutoplayTicks(ctx context.Context, ticks <-chan time.Time) {
	if !c.Interactive() {
		return
	}
	c.startAutoplay(ctx, ticks, func() {})
}

func (c *Carousel) startAutoplay(ctx context.Context, ticks <-chan time.Time, release func()) {
	c.autoplayMu.Lock()
	defer c.autoplayMu.Unlock()
	if c.stop != nil {
		release()
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.stop = cancel
	c.done = done

	go func() {
		defer close(done)
		defer release()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				c.step(1, TriggerAutoplay)
			}
		}
	}()
}

// StopAutoplay stops the autoplay timer and waits for it to exit.
func (c *Carousel) StopAutoplay() {
	c.autoplayMu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.autoplayMu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

// Autoplaying reports whether an autoplay timer is running.
func (c *Carousel) Autoplaying() bool {
	c.autoplayMu.Lock()
	defer c.autoplayMu.Unlock()
	return c.stop != nil
}

func trackStyle(index int) string {
	return fmt.Sprintf("transform: translateX(-%d%%)", index*100)
}

// VisibleIndex reads the slide index back from a track's offset.
func VisibleIndex(track *html.Node) int {
	style, _ := dom.Attr(track, "style")
	var pct int
	if _, err := fmt.Sscanf(style, "transform: translateX(-%d%%)", &pct); err != nil {
		return -1
	}
	return pct / 100
}

// ActiveIndicator returns the index of the highlighted indicator, or -1.
func ActiveIndicator(root *html.Node) int {
	for _, ind := range dom.FindByClass(root, ClassIndicator) {
		if dom.HasClass(ind, ClassActive) {
			v, _ := dom.Attr(ind, "data-index")
			i, err := strconv.Atoi(v)
			if err != nil {
				return -1
			}
			return i
		}
	}
	return -1
}
