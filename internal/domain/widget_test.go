package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetType_Normalize(t *testing.T) {
	tests := []struct {
		in   WidgetType
		want WidgetType
	}{
		{WidgetTypeWall, WidgetTypeWall},
		{WidgetTypeList, WidgetTypeList},
		{WidgetTypeSingle, WidgetTypeSingle},
		{WidgetTypeCarousel, WidgetTypeCarousel},
		{"masonry", WidgetTypeWall},
		{"", WidgetTypeWall},
		{"CAROUSEL", WidgetTypeWall},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestTheme_Normalize(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeDark.Normalize())
	assert.Equal(t, ThemeLight, ThemeLight.Normalize())
	assert.Equal(t, ThemeLight, Theme("sepia").Normalize())
}

func TestWidgetSettings_Limit(t *testing.T) {
	assert.Equal(t, 10, WidgetSettings{}.Limit())
	assert.Equal(t, 10, WidgetSettings{MaxTestimonials: -3}.Limit())
	assert.Equal(t, 2, WidgetSettings{MaxTestimonials: 2}.Limit())
}

func TestParseWidgetSettings_KeepsDefaultsForMissingKeys(t *testing.T) {
	s, err := ParseWidgetSettings([]byte(`{"max_testimonials":2,"show_avatars":false,"selected_sources":["google"]}`))
	require.NoError(t, err)

	assert.Equal(t, 2, s.MaxTestimonials)
	assert.False(t, s.ShowAvatars)
	assert.True(t, s.ShowRatings, "missing key keeps default")
	assert.Equal(t, ThemeLight, s.Theme)
	assert.Equal(t, []string{"google"}, s.SelectedSources)
}

func TestParseWidgetSettings_Empty(t *testing.T) {
	s, err := ParseWidgetSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidgetSettings(), s)
}

func TestParseWidgetSettings_Invalid(t *testing.T) {
	_, err := ParseWidgetSettings([]byte(`{"theme":`))
	assert.Error(t, err)
}

func TestCounter_Valid(t *testing.T) {
	assert.True(t, CounterViews.Valid())
	assert.True(t, CounterClicks.Valid())
	assert.False(t, Counter("shares").Valid())
}
