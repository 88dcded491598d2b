package embed

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/walloflove/wol-server/internal/dom"
	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/dto"
	"github.com/walloflove/wol-server/internal/render"
	"github.com/walloflove/wol-server/internal/task"
)

// State is a mount's position in its lifecycle.
type State int

// Mount states: Initializing -> Loading -> Rendered | Unavailable.
const (
	StateInitializing State = iota
	StateLoading
	StateRendered
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config tunes the bootstrapper.
type Config struct {
	AutoplayInterval time.Duration
	RequestTimeout   time.Duration
}

// Bootstrapper mounts widgets into pages. It holds no per-mount state;
// every Mount returns its own Session.
type Bootstrapper struct {
	client Client
	tasks  task.Submitter // nil disables tracking
	cfg    Config
	logger *slog.Logger
}

// NewBootstrapper creates a bootstrapper. Pass a nil tasks submitter to
// render without reporting engagement.
func NewBootstrapper(client Client, tasks task.Submitter, cfg Config, logger *slog.Logger) *Bootstrapper {
	if cfg.AutoplayInterval <= 0 {
		cfg.AutoplayInterval = 5 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bootstrapper{client: client, tasks: tasks, cfg: cfg, logger: logger}
}

// Session is the render session of one mounted widget.
type Session struct {
	WidgetID  string
	Container *html.Node

	mu           sync.Mutex
	state        State
	discarded    bool
	err          error
	widget       dto.WidgetConfig
	testimonials []dto.Testimonial
	mounted      *render.Mounted
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns why the session became unavailable, if it did.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Discarded reports whether a response arrived after the container was
// removed from the page and was dropped.
func (s *Session) Discarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discarded
}

// Testimonials returns the ordered display list.
func (s *Session) Testimonials() []dto.Testimonial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.testimonials
}

// Mounted returns what the presentation engine rendered, or nil.
func (s *Session) Mounted() *render.Mounted {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Carousel returns the interactive carousel, or nil.
func (s *Session) Carousel() *render.Carousel {
	if m := s.Mounted(); m != nil {
		return m.Carousel
	}
	return nil
}

// Close stops any autoplay timer. The DOM is left as is.
func (s *Session) Close() {
	if c := s.Carousel(); c != nil {
		c.StopAutoplay()
	}
}

func (s *Session) set(state State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.err = err
}

// Mount bootstraps the widget named by script's src into page.
//
// A src that does not identify a widget returns ErrMalformedEmbed and
// leaves the page untouched. Every other failure is contained: the session
// ends Unavailable and Mount returns a nil error. A fault after rendering
// (autoplay, tracking) is logged and leaves the rendered widget alone.
func (b *Bootstrapper) Mount(ctx context.Context, page *dom.Page, script *html.Node) (s *Session, err error) {
	src, _ := dom.Attr(script, "src")
	widgetID, err := ParseScriptURL(src)
	if err != nil {
		b.logger.Warn("embed script not mounted", "src", src, "error", err)
		return nil, err
	}

	s = &Session{WidgetID: widgetID, state: StateInitializing}
	defer func() {
		if r := recover(); r != nil {
			b.contain(page, s, r)
			err = nil
		}
	}()

	page.Mutate(func() {
		container := dom.NewElement("div")
		dom.SetAttr(container, "id", ContainerID(widgetID))
		if script.Parent != nil {
			dom.InsertAfter(script, container)
		} else {
			dom.Append(page.Body(), container)
		}
		page.EnsureStyle(render.StyleID, render.Stylesheet())
		s.Container = container
	})
	s.set(StateLoading, nil)

	resp, fetchErr := b.fetch(ctx, widgetID)

	var rendered bool
	page.Mutate(func() {
		if !page.Contains(s.Container) {
			s.mu.Lock()
			s.discarded = true
			s.mu.Unlock()
			b.logger.Debug("container detached, response discarded", "widget_id", widgetID)
			return
		}
		rendered = b.render(s, page, resp, fetchErr)
	})

	if rendered {
		b.startAutoplay(ctx, s)
		b.submitTrack("view", widgetID, b.client.TrackView)
	}
	return s, nil
}

// contain turns a fault escaping Mount into the Unavailable state.
func (b *Bootstrapper) contain(page *dom.Page, s *Session, r any) {
	b.logger.Error("widget mount panicked",
		"widget_id", s.WidgetID,
		"state", s.State().String(),
		"panic", r,
		"stack", string(debug.Stack()),
	)
	if s.State() == StateRendered {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("unavailable placeholder failed", "widget_id", s.WidgetID, "panic", r)
		}
	}()
	s.set(StateUnavailable, fmt.Errorf("mount panicked: %v", r))
	if s.Container == nil {
		return
	}
	page.Mutate(func() {
		if page.Contains(s.Container) {
			render.Unavailable(s.Container, s.WidgetID)
		}
	})
}

// MountAll mounts every widget script on the page, each independently.
func (b *Bootstrapper) MountAll(ctx context.Context, page *dom.Page) []*Session {
	var scripts []*html.Node
	page.Mutate(func() {
		for _, sc := range page.Scripts() {
			if src, _ := dom.Attr(sc, "src"); IsEmbedScript(src) {
				scripts = append(scripts, sc)
			}
		}
	})

	sessions := make([]*Session, 0, len(scripts))
	for _, sc := range scripts {
		s, err := b.Mount(ctx, page, sc)
		if err != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions
}

func (b *Bootstrapper) fetch(ctx context.Context, widgetID string) (resp *dto.WidgetResponse, err error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("widget fetch panicked: %v", r)
		}
	}()
	return b.client.FetchWidget(ctx, widgetID)
}

// render runs inside page.Mutate. It reports whether testimonials were
// rendered, which is the only case that counts as a view.
func (b *Bootstrapper) render(s *Session, page *dom.Page, resp *dto.WidgetResponse, fetchErr error) (rendered bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("widget render panicked",
				"widget_id", s.WidgetID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			render.Unavailable(s.Container, s.WidgetID)
			s.set(StateUnavailable, fmt.Errorf("render panicked: %v", r))
			rendered = false
		}
	}()

	if fetchErr != nil || resp == nil {
		if fetchErr == nil {
			fetchErr = fmt.Errorf("empty widget response")
		}
		b.logger.Warn("widget unavailable", "widget_id", s.WidgetID, "error", fetchErr)
		render.Unavailable(s.Container, s.WidgetID)
		s.set(StateUnavailable, fetchErr)
		return false
	}

	s.mu.Lock()
	s.widget = resp.Widget
	s.testimonials = resp.Testimonials
	s.mu.Unlock()

	if len(resp.Testimonials) == 0 {
		render.Empty(s.Container, resp.Widget.Settings.Theme)
		s.set(StateRendered, nil)
		return false
	}

	widgetID := s.WidgetID
	m, err := render.Mount(s.Container, resp.Widget, resp.Testimonials, render.Options{
		Locker: page.Locker(),
		OnInteraction: func() {
			b.submitTrack("click", widgetID, b.client.TrackClick)
		},
	})
	if err != nil {
		render.Unavailable(s.Container, s.WidgetID)
		s.set(StateUnavailable, err)
		return false
	}

	s.mu.Lock()
	s.mounted = m
	s.mu.Unlock()
	s.set(StateRendered, nil)
	return true
}

func (b *Bootstrapper) startAutoplay(ctx context.Context, s *Session) {
	s.mu.Lock()
	autoplay := s.widget.Settings.Autoplay && s.widget.Type.Normalize() == domain.WidgetTypeCarousel
	s.mu.Unlock()

	if c := s.Carousel(); autoplay && c != nil && c.Interactive() {
		c.StartAutoplay(ctx, b.cfg.AutoplayInterval)
	}
}

func (b *Bootstrapper) submitTrack(event, widgetID string, call func(context.Context, string) error) {
	if b.tasks == nil {
		return
	}
	b.tasks.Submit("track-"+event+":"+widgetID, func(ctx context.Context) error {
		return call(ctx, widgetID)
	})
}
