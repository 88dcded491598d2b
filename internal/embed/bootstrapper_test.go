package embed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/walloflove/wol-server/internal/dom"
	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/dto"
	"github.com/walloflove/wol-server/internal/render"
	"github.com/walloflove/wol-server/internal/task"
)

// fakeClient serves canned responses and records calls.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]*dto.WidgetResponse
	fetchErr  error
	panicMsg  string
	fetched   []string
	views     []string
	clicks    []string

	// beforeReturn runs inside FetchWidget, e.g. to detach the container.
	beforeReturn func()
}

func (f *fakeClient) FetchWidget(_ context.Context, id string) (*dto.WidgetResponse, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, id)
	hook := f.beforeReturn
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	resp, ok := f.responses[id]
	if !ok {
		return nil, errors.New("status 404")
	}
	return resp, nil
}

func (f *fakeClient) TrackView(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, id)
	return errors.New("tracking is down")
}

func (f *fakeClient) TrackClick(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, id)
	return nil
}

func (f *fakeClient) counts() (fetched, views, clicks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched), len(f.views), len(f.clicks)
}

// recordingSubmitter records task names and runs nothing until Run.
type recordingSubmitter struct {
	mu    sync.Mutex
	names []string
	fns   []task.Func
}

func (r *recordingSubmitter) Submit(name string, fn task.Func) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.fns = append(r.fns, fn)
	return true
}

func (r *recordingSubmitter) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func (r *recordingSubmitter) Run(ctx context.Context) {
	r.mu.Lock()
	fns := r.fns
	r.fns = nil
	r.mu.Unlock()
	for _, fn := range fns {
		_ = fn(ctx)
	}
}

func response(typ domain.WidgetType, n int, mutate func(*domain.WidgetSettings)) *dto.WidgetResponse {
	s := domain.DefaultWidgetSettings()
	if mutate != nil {
		mutate(&s)
	}
	resp := &dto.WidgetResponse{
		Widget:       dto.WidgetConfig{ID: "abc123", Type: typ, Settings: s},
		Testimonials: []dto.Testimonial{},
	}
	for i := range n {
		resp.Testimonials = append(resp.Testimonials, dto.Testimonial{
			ID:         "t" + string(rune('0'+i)),
			Content:    "Wonderful",
			AuthorName: "Alan Turing",
			Rating:     5,
		})
	}
	return resp
}

func hostPage(t *testing.T, scripts ...string) (*dom.Page, []*html.Node) {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<html><head></head><body><h1>Host</h1>`)
	for _, src := range scripts {
		b.WriteString(`<script src="` + src + `"></script><p class="after"></p>`)
	}
	b.WriteString(`</body></html>`)

	page, err := dom.ParsePage(strings.NewReader(b.String()))
	require.NoError(t, err)
	return page, page.Scripts()
}

func countStyles(page *dom.Page) int {
	return len(dom.FindAll(page.Document(), func(n *html.Node) bool {
		id, _ := dom.Attr(n, "id")
		return n.Data == "style" && id == render.StyleID
	}))
}

func TestMount_RendersAndTracksViewAfterRender(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"abc123": response(domain.WidgetTypeWall, 2, nil),
	}}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{}, nil)

	page, scripts := hostPage(t, "https://app.example.com/widget/abc123.js")
	s, err := b.Mount(context.Background(), page, scripts[0])
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, StateRendered, s.State())
	assert.Same(t, s.Container, scripts[0].NextSibling, "container sits right after the script")
	id, _ := dom.Attr(s.Container, "id")
	assert.Equal(t, "wol-widget-abc123", id)
	assert.Len(t, dom.FindByClass(s.Container, render.ClassCard), 2)
	assert.Equal(t, 1, countStyles(page))

	// View tracking was submitted, not performed inline.
	assert.Equal(t, []string{"track-view:abc123"}, tasks.Names())
	_, views, _ := client.counts()
	assert.Zero(t, views)

	// A failing tracking call changes nothing visible.
	before := page.String()
	tasks.Run(context.Background())
	_, views, _ = client.counts()
	assert.Equal(t, 1, views)
	assert.Equal(t, before, page.String())
	assert.Equal(t, StateRendered, s.State())
}

// Scenario: a malformed embed creates nothing and calls nothing.
func TestMount_MalformedEmbed(t *testing.T) {
	client := &fakeClient{}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{}, nil)

	page, scripts := hostPage(t, "https://app.example.com/widget/.js")
	before := page.String()

	s, err := b.Mount(context.Background(), page, scripts[0])
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrMalformedEmbed)

	fetched, _, _ := client.counts()
	assert.Zero(t, fetched)
	assert.Empty(t, tasks.Names())
	assert.Equal(t, before, page.String())
	assert.Zero(t, countStyles(page))
}

func TestMount_NetworkFailureShowsUnavailable(t *testing.T) {
	client := &fakeClient{fetchErr: errors.New("dial tcp: connection refused")}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{}, nil)

	page, scripts := hostPage(t, "/widget/abc123.js")

	var s *Session
	var err error
	assert.NotPanics(t, func() {
		s, err = b.Mount(context.Background(), page, scripts[0])
	})
	require.NoError(t, err)

	assert.Equal(t, StateUnavailable, s.State())
	assert.Error(t, s.Err())
	assert.True(t, render.IsUnavailable(s.Container))
	assert.Contains(t, dom.TextContent(s.Container), "abc123")
	assert.Empty(t, tasks.Names(), "nothing tracked for an unavailable widget")
}

func TestMount_ClientPanicIsContained(t *testing.T) {
	client := &fakeClient{panicMsg: "boom"}
	b := NewBootstrapper(client, nil, Config{}, nil)
	page, scripts := hostPage(t, "/widget/abc123.js")

	var s *Session
	require.NotPanics(t, func() {
		s, _ = b.Mount(context.Background(), page, scripts[0])
	})
	assert.Equal(t, StateUnavailable, s.State())
	assert.True(t, render.IsUnavailable(s.Container))
}

func TestMount_ContainerSetupFaultIsContained(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"abc123": response(domain.WidgetTypeWall, 1, nil),
	}}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{}, nil)

	// A page with no document and a detached script: creating the
	// container fails.
	page := &dom.Page{}
	script := dom.NewElement("script")
	dom.SetAttr(script, "src", "/widget/abc123.js")

	var s *Session
	var err error
	require.NotPanics(t, func() {
		s, err = b.Mount(context.Background(), page, script)
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, StateUnavailable, s.State())
	assert.ErrorContains(t, s.Err(), "mount panicked")

	fetched, _, _ := client.counts()
	assert.Zero(t, fetched)
	assert.Empty(t, tasks.Names())
}

// panickingSubmitter fails on every submission.
type panickingSubmitter struct{}

func (panickingSubmitter) Submit(string, task.Func) bool { panic("queue exploded") }

func TestMount_TrackingFaultKeepsRenderedWidget(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"abc123": response(domain.WidgetTypeList, 2, nil),
	}}
	b := NewBootstrapper(client, panickingSubmitter{}, Config{}, nil)
	page, scripts := hostPage(t, "/widget/abc123.js")

	var s *Session
	require.NotPanics(t, func() {
		s, _ = b.Mount(context.Background(), page, scripts[0])
	})
	defer s.Close()

	assert.Equal(t, StateRendered, s.State())
	assert.NoError(t, s.Err())
	assert.False(t, render.IsUnavailable(s.Container))
	assert.Len(t, dom.FindByClass(s.Container, render.ClassCard), 2)
}

func TestMount_ZeroTestimonialsIsRenderedEmpty(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"abc123": response(domain.WidgetTypeCarousel, 0, nil),
	}}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{}, nil)
	page, scripts := hostPage(t, "/widget/abc123.js")

	s, err := b.Mount(context.Background(), page, scripts[0])
	require.NoError(t, err)

	assert.Equal(t, StateRendered, s.State())
	assert.True(t, render.IsEmpty(s.Container))
	assert.False(t, render.IsUnavailable(s.Container))
	assert.Empty(t, tasks.Names())
}

func TestMount_DetachedContainerDiscardsResponse(t *testing.T) {
	page, scripts := hostPage(t, "/widget/abc123.js")
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"abc123": response(domain.WidgetTypeWall, 1, nil),
	}}
	client.beforeReturn = func() {
		page.Mutate(func() {
			if c := page.GetElementByID(ContainerID("abc123")); c != nil {
				dom.Remove(c)
			}
		})
	}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{}, nil)

	s, err := b.Mount(context.Background(), page, scripts[0])
	require.NoError(t, err)

	assert.True(t, s.Discarded())
	assert.Equal(t, StateLoading, s.State())
	assert.Nil(t, s.Container.FirstChild, "detached container never mutated")
	assert.Empty(t, tasks.Names())
}

func TestMountAll_IndependentWidgetsShareOneStylesheet(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"one": response(domain.WidgetTypeCarousel, 3, nil),
		"two": response(domain.WidgetTypeCarousel, 3, nil),
	}}
	b := NewBootstrapper(client, nil, Config{}, nil)
	page, _ := hostPage(t,
		"/widget/one.js",
		"https://cdn.example.com/analytics.js",
		"/widget/two.js",
	)

	sessions := b.MountAll(context.Background(), page)
	require.Len(t, sessions, 2)
	defer sessions[0].Close()
	defer sessions[1].Close()

	assert.Equal(t, 1, countStyles(page))
	assert.NotNil(t, page.GetElementByID("wol-widget-one"))
	assert.NotNil(t, page.GetElementByID("wol-widget-two"))

	sessions[0].Carousel().Next()
	assert.Equal(t, 1, sessions[0].Carousel().Index())
	assert.Equal(t, 0, sessions[1].Carousel().Index(), "sessions never share carousel state")
}

func TestMount_CarouselClicksSubmitTracking(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"abc123": response(domain.WidgetTypeCarousel, 3, nil),
	}}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{}, nil)
	page, scripts := hostPage(t, "/widget/abc123.js")

	s, err := b.Mount(context.Background(), page, scripts[0])
	require.NoError(t, err)
	defer s.Close()

	s.Carousel().Next()
	require.NoError(t, s.Carousel().Jump(0))

	assert.Equal(t, []string{
		"track-view:abc123",
		"track-click:abc123",
		"track-click:abc123",
	}, tasks.Names())
}

func TestMount_AutoplayStartsOnlyWhenEnabled(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"auto":   response(domain.WidgetTypeCarousel, 2, func(s *domain.WidgetSettings) { s.Autoplay = true }),
		"manual": response(domain.WidgetTypeCarousel, 2, nil),
		"solo":   response(domain.WidgetTypeCarousel, 1, func(s *domain.WidgetSettings) { s.Autoplay = true }),
	}}
	tasks := &recordingSubmitter{}
	b := NewBootstrapper(client, tasks, Config{AutoplayInterval: 5 * time.Millisecond}, nil)
	page, _ := hostPage(t, "/widget/auto.js", "/widget/manual.js", "/widget/solo.js")

	sessions := b.MountAll(context.Background(), page)
	require.Len(t, sessions, 3)
	for _, s := range sessions {
		defer s.Close()
	}

	auto, manual, solo := sessions[0], sessions[1], sessions[2]
	assert.True(t, auto.Carousel().Autoplaying())
	assert.False(t, manual.Carousel().Autoplaying())
	assert.False(t, solo.Carousel().Autoplaying())

	assert.Eventually(t, func() bool { return auto.Carousel().Index() == 1 }, time.Second, time.Millisecond)

	for _, name := range tasks.Names() {
		assert.NotContains(t, name, "track-click", "autoplay never counts as a click")
	}
}

func TestMount_WithRealQueue(t *testing.T) {
	client := &fakeClient{responses: map[string]*dto.WidgetResponse{
		"abc123": response(domain.WidgetTypeList, 1, nil),
	}}
	q := task.New(task.Config{Workers: 1, QueueSize: 8}, nil)
	q.Start()

	b := NewBootstrapper(client, q, Config{}, nil)
	page, scripts := hostPage(t, "/widget/abc123.js")
	_, err := b.Mount(context.Background(), page, scripts[0])
	require.NoError(t, err)

	require.NoError(t, q.Stop(context.Background()))
	_, views, _ := client.counts()
	assert.Equal(t, 1, views)
	assert.Equal(t, int64(1), q.Stats().Failed, "tracking failure stays in the queue")
}
