package render

import (
	"fmt"
	"strings"

	"github.com/walloflove/wol-server/internal/domain"
)

// Palette is the fixed set of colors a theme swaps.
type Palette struct {
	Background string
	Surface    string
	Text       string
	Muted      string
	Border     string
	Accent     string
	Star       string
	StarEmpty  string
}

// Palettes for the supported themes.
var (
	LightPalette = Palette{
		Background: "transparent",
		Surface:    "#ffffff",
		Text:       "#1f2937",
		Muted:      "#6b7280",
		Border:     "#e5e7eb",
		Accent:     "#6366f1",
		Star:       "#f59e0b",
		StarEmpty:  "#d1d5db",
	}
	DarkPalette = Palette{
		Background: "transparent",
		Surface:    "#1f2937",
		Text:       "#f9fafb",
		Muted:      "#9ca3af",
		Border:     "#374151",
		Accent:     "#818cf8",
		Star:       "#fbbf24",
		StarEmpty:  "#4b5563",
	}
)

// PaletteFor returns the palette of a theme, light for anything unknown.
func PaletteFor(t domain.Theme) Palette {
	if t.Normalize() == domain.ThemeDark {
		return DarkPalette
	}
	return LightPalette
}

// ThemeClass returns the root class that selects a theme's palette.
func ThemeClass(t domain.Theme) string {
	return ClassThemePrefix + string(t.Normalize())
}

func (p Palette) vars() string {
	return fmt.Sprintf(
		"--wol-bg:%s;--wol-surface:%s;--wol-text:%s;--wol-muted:%s;--wol-border:%s;--wol-accent:%s;--wol-star:%s;--wol-star-empty:%s;",
		p.Background, p.Surface, p.Text, p.Muted, p.Border, p.Accent, p.Star, p.StarEmpty,
	)
}

// layoutCSS only references palette variables, so both themes share one
// DOM and one set of layout rules.
const layoutCSS = `
.wol-widget{box-sizing:border-box;font-family:system-ui,-apple-system,"Segoe UI",Roboto,sans-serif;color:var(--wol-text);background:var(--wol-bg);line-height:1.5;}
.wol-widget *{box-sizing:border-box;}
.wol-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(280px,1fr));gap:16px;}
.wol-list{display:flex;flex-direction:column;gap:16px;}
.wol-single{max-width:640px;margin:0 auto;}
.wol-card{background:var(--wol-surface);border:1px solid var(--wol-border);border-radius:12px;padding:20px;}
.wol-stars{display:flex;gap:2px;margin-bottom:8px;}
.wol-star{color:var(--wol-star-empty);}
.wol-star-filled{color:var(--wol-star);}
.wol-content{margin:0 0 16px;font-size:15px;}
.wol-author{display:flex;align-items:center;gap:12px;}
.wol-avatar{width:40px;height:40px;border-radius:50%;background:var(--wol-accent);color:#fff;display:flex;align-items:center;justify-content:center;font-weight:600;}
.wol-author-name{font-weight:600;}
.wol-author-company{color:var(--wol-muted);font-size:13px;}
.wol-carousel{position:relative;}
.wol-viewport{overflow:hidden;}
.wol-track{display:flex;transition:transform .4s ease;}
.wol-slide{flex:0 0 100%;padding:0 4px;}
.wol-nav{position:absolute;top:50%;transform:translateY(-50%);border:1px solid var(--wol-border);background:var(--wol-surface);color:var(--wol-text);border-radius:50%;width:36px;height:36px;cursor:pointer;}
.wol-prev{left:-18px;}
.wol-next{right:-18px;}
.wol-indicators{display:flex;justify-content:center;gap:6px;margin-top:12px;}
.wol-indicator{width:8px;height:8px;border-radius:50%;border:0;padding:0;background:var(--wol-border);cursor:pointer;}
.wol-indicator.wol-active{background:var(--wol-accent);}
.wol-placeholder{padding:16px;text-align:center;color:var(--wol-muted);font-size:14px;}
`

// Stylesheet returns the scoped CSS shared by every widget on a page.
func Stylesheet() string {
	var b strings.Builder
	fmt.Fprintf(&b, ".wol-widget,.%s{%s}\n", ThemeClass(domain.ThemeLight), LightPalette.vars())
	fmt.Fprintf(&b, ".%s{%s}\n", ThemeClass(domain.ThemeDark), DarkPalette.vars())
	b.WriteString(strings.TrimLeft(layoutCSS, "\n"))
	return b.String()
}
