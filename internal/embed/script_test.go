package embed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walloflove/wol-server/internal/render"
)

func TestScript_Templated(t *testing.T) {
	js, err := Script(ScriptOptions{
		APIBase:          "https://app.example.com",
		WidgetID:         "abc123",
		AutoplayInterval: 3 * time.Second,
	})
	require.NoError(t, err)

	s := string(js)
	assert.Contains(t, s, `var API_BASE = "https://app.example.com";`)
	assert.Contains(t, s, `var STYLE_ID = "`+render.StyleID+`";`)
	assert.Contains(t, s, `var CONTAINER_PREFIX = "wol-widget-";`)
	assert.Contains(t, s, `var AUTOPLAY_MS = 3000;`)
	assert.Contains(t, s, "wol-indicator wol-active")
	assert.Contains(t, s, "document.currentScript")
	assert.NotContains(t, s, "{{")
}

func TestScript_EscapesValues(t *testing.T) {
	js, err := Script(ScriptOptions{APIBase: `https://x.test/"</script>`})
	require.NoError(t, err)

	assert.NotContains(t, string(js), `"</script>`)
	assert.Contains(t, string(js), `var AUTOPLAY_MS = 5000;`)
}
