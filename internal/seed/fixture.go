// Package seed loads widget and testimonial fixtures into a store, for
// local development and demos.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/id"
	"github.com/walloflove/wol-server/internal/store"
	"github.com/walloflove/wol-server/internal/validation"
)

// Writer is the slice of the store that seeding needs.
type Writer interface {
	CreateWidget(ctx context.Context, w *domain.Widget) error
	CreateTestimonial(ctx context.Context, t *domain.Testimonial) error
}

// Fixture is the YAML document accepted by Load.
type Fixture struct {
	Widgets      []WidgetFixture      `yaml:"widgets" validate:"dive"`
	Testimonials []TestimonialFixture `yaml:"testimonials" validate:"dive"`
}

// WidgetFixture describes one widget. Omitted settings keep their defaults.
type WidgetFixture struct {
	ID       string           `yaml:"id" validate:"omitempty,widgetid"` // Generated when empty
	OwnerID  string           `yaml:"owner_id" validate:"required"`
	Name     string           `yaml:"name" validate:"required"`
	Type     string           `yaml:"type" validate:"omitempty,oneof=wall list single carousel"`
	Active   *bool            `yaml:"active"` // Defaults to true
	Settings *SettingsFixture `yaml:"settings"`
}

// SettingsFixture overrides individual widget settings.
type SettingsFixture struct {
	Theme           string   `yaml:"theme" validate:"omitempty,oneof=light dark"`
	MaxTestimonials int      `yaml:"max_testimonials" validate:"gte=0,lte=100"`
	ShowRatings     *bool    `yaml:"show_ratings"`
	ShowAvatars     *bool    `yaml:"show_avatars"`
	ShowCompany     *bool    `yaml:"show_company"`
	SelectedSources []string `yaml:"selected_sources" validate:"omitempty,dive,required"`
	FilterTags      []string `yaml:"filter_tags" validate:"omitempty,dive,required"`
	Autoplay        bool     `yaml:"autoplay"`
}

// TestimonialFixture describes one testimonial. Age places it in the past
// relative to the time of seeding.
type TestimonialFixture struct {
	ID          string        `yaml:"id"` // Random UUID when empty
	OwnerID     string        `yaml:"owner_id" validate:"required"`
	Content     string        `yaml:"content" validate:"required"`
	AuthorName  string        `yaml:"author_name" validate:"required"`
	AuthorEmail string        `yaml:"author_email" validate:"omitempty,email"`
	Source      string        `yaml:"source"`
	Status      string        `yaml:"status" validate:"omitempty,oneof=pending approved hidden"`
	Rating      int           `yaml:"rating" validate:"omitempty,min=1,max=5"`
	Age         time.Duration `yaml:"age" validate:"gte=0"`
}

// Result summarizes what Apply wrote.
type Result struct {
	WidgetIDs    []string
	Testimonials int
	Skipped      int
}

// Load decodes and validates a fixture document.
func Load(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	if err := validation.New().Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Options tune Apply.
type Options struct {
	// SkipExisting ignores rows whose id is already taken instead of failing.
	SkipExisting bool
	Now          func() time.Time
	Logger       *slog.Logger
}

// Apply writes every widget, then every testimonial.
func Apply(ctx context.Context, w Writer, f *Fixture, opts Options) (*Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now().UTC()
	res := &Result{}

	for i, wf := range f.Widgets {
		widget, err := wf.toDomain(now)
		if err != nil {
			return res, fmt.Errorf("widgets[%d]: %w", i, err)
		}
		if err := w.CreateWidget(ctx, widget); err != nil {
			if opts.SkipExisting && errors.Is(err, store.ErrAlreadyExists) {
				opts.Logger.Info("widget exists, skipping", "widget_id", widget.ID)
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("widgets[%d]: %w", i, err)
		}
		res.WidgetIDs = append(res.WidgetIDs, widget.ID)
	}

	for i, tf := range f.Testimonials {
		t := tf.toDomain(now)
		if err := w.CreateTestimonial(ctx, t); err != nil {
			if opts.SkipExisting && errors.Is(err, store.ErrAlreadyExists) {
				opts.Logger.Info("testimonial exists, skipping", "testimonial_id", t.ID)
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("testimonials[%d]: %w", i, err)
		}
		res.Testimonials++
	}

	return res, nil
}

func (wf WidgetFixture) toDomain(now time.Time) (*domain.Widget, error) {
	widgetID := wf.ID
	if widgetID == "" {
		generated, err := id.Generate("wgt")
		if err != nil {
			return nil, err
		}
		widgetID = generated
	}

	typ := domain.WidgetType(wf.Type)
	if typ == "" {
		typ = domain.WidgetTypeWall
	}
	active := true
	if wf.Active != nil {
		active = *wf.Active
	}

	return &domain.Widget{
		ID:        widgetID,
		OwnerID:   wf.OwnerID,
		Name:      wf.Name,
		Type:      typ,
		Settings:  wf.Settings.apply(domain.DefaultWidgetSettings()),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (sf *SettingsFixture) apply(s domain.WidgetSettings) domain.WidgetSettings {
	if sf == nil {
		return s
	}
	if sf.Theme != "" {
		s.Theme = domain.Theme(sf.Theme)
	}
	if sf.MaxTestimonials > 0 {
		s.MaxTestimonials = sf.MaxTestimonials
	}
	if sf.ShowRatings != nil {
		s.ShowRatings = *sf.ShowRatings
	}
	if sf.ShowAvatars != nil {
		s.ShowAvatars = *sf.ShowAvatars
	}
	if sf.ShowCompany != nil {
		s.ShowCompany = *sf.ShowCompany
	}
	s.SelectedSources = sf.SelectedSources
	s.FilterTags = sf.FilterTags
	s.Autoplay = sf.Autoplay
	return s
}

func (tf TestimonialFixture) toDomain(now time.Time) *domain.Testimonial {
	t := &domain.Testimonial{
		ID:          tf.ID,
		OwnerID:     tf.OwnerID,
		Content:     tf.Content,
		AuthorName:  tf.AuthorName,
		AuthorEmail: tf.AuthorEmail,
		Source:      tf.Source,
		Status:      domain.TestimonialStatus(tf.Status),
		Rating:      tf.Rating,
		CreatedAt:   now.Add(-tf.Age),
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Source == "" {
		t.Source = "manual"
	}
	if t.Status == "" {
		t.Status = domain.StatusApproved
	}
	if t.Rating == 0 {
		t.Rating = 5
	}
	return t
}
