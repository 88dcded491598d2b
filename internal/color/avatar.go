// Package color provides color generation utilities for author avatars.
package color

import "fmt"

// Avatar saturation and lightness, chosen so white initials stay readable
// on both themes.
const (
	avatarSaturation = 45
	avatarLightness  = 48
)

// Hue maps a name to a stable hue in [0, 360). The hash is a 32-bit
// multiply-by-31 over code points, which the browser script reproduces
// exactly with Math.imul.
func Hue(name string) int {
	var h uint32
	for _, r := range name {
		h = h*31 + uint32(r)
	}
	return int(h % 360)
}

// ForName returns a CSS color for an author's avatar. The same name always
// yields the same color, on the server and in the browser.
func ForName(name string) string {
	return fmt.Sprintf("hsl(%d,%d%%,%d%%)", Hue(name), avatarSaturation, avatarLightness)
}
