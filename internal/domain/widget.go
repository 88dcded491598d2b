package domain

import (
	"encoding/json"
	"time"
)

// DefaultMaxTestimonials is the display limit applied when a widget does not set one.
const DefaultMaxTestimonials = 10

// WidgetType selects the presentation variant of a widget.
type WidgetType string

// Known widget types. Anything else renders as a wall.
const (
	WidgetTypeWall     WidgetType = "wall"
	WidgetTypeList     WidgetType = "list"
	WidgetTypeSingle   WidgetType = "single"
	WidgetTypeCarousel WidgetType = "carousel"
)

// Normalize maps unrecognized types to the wall variant so newer types
// stored by the dashboard still render on older embed scripts.
func (t WidgetType) Normalize() WidgetType {
	switch t {
	case WidgetTypeWall, WidgetTypeList, WidgetTypeSingle, WidgetTypeCarousel:
		return t
	default:
		return WidgetTypeWall
	}
}

// Theme is the color scheme of a rendered widget.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Normalize returns ThemeLight for anything that is not ThemeDark.
func (t Theme) Normalize() Theme {
	if t == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// WidgetSettings is the owner-configured display bundle of a widget.
type WidgetSettings struct {
	Theme           Theme    `json:"theme" validate:"omitempty,oneof=light dark"`
	MaxTestimonials int      `json:"max_testimonials" validate:"gte=0,lte=100"`
	ShowRatings     bool     `json:"show_ratings"`
	ShowAvatars     bool     `json:"show_avatars"`
	ShowCompany     bool     `json:"show_company"`
	SelectedSources []string `json:"selected_sources,omitempty" validate:"omitempty,dive,required"`
	FilterTags      []string `json:"filter_tags,omitempty" validate:"omitempty,dive,required"`
	Autoplay        bool     `json:"autoplay"` // carousel only
}

// DefaultWidgetSettings returns the settings a widget has before the owner changes anything.
func DefaultWidgetSettings() WidgetSettings {
	return WidgetSettings{
		Theme:           ThemeLight,
		MaxTestimonials: DefaultMaxTestimonials,
		ShowRatings:     true,
		ShowAvatars:     true,
		ShowCompany:     true,
	}
}

// ParseWidgetSettings decodes stored settings JSON on top of the defaults,
// so keys missing from older rows keep their default values.
func ParseWidgetSettings(raw []byte) (WidgetSettings, error) {
	s := DefaultWidgetSettings()
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return WidgetSettings{}, err
	}
	return s, nil
}

// Limit returns the maximum number of testimonials to display.
func (s WidgetSettings) Limit() int {
	if s.MaxTestimonials <= 0 {
		return DefaultMaxTestimonials
	}
	return s.MaxTestimonials
}

// Widget is an embeddable display unit belonging to one owner.
// Inactive widgets are treated as deleted by everything public.
type Widget struct {
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id"`
	Name       string         `json:"name"`
	Type       WidgetType     `json:"type"`
	Settings   WidgetSettings `json:"settings"`
	IsActive   bool           `json:"is_active"`
	ViewCount  int64          `json:"view_count"`
	ClickCount int64          `json:"click_count"`
}

// DisplayType returns the normalized presentation variant.
func (w *Widget) DisplayType() WidgetType {
	return w.Type.Normalize()
}

// Counter names one of the per-widget engagement counters.
type Counter string

// Engagement counters.
const (
	CounterViews  Counter = "views"
	CounterClicks Counter = "clicks"
)

// Valid reports whether c is a known counter.
func (c Counter) Valid() bool {
	return c == CounterViews || c == CounterClicks
}
