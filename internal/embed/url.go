// Package embed is the embed bootstrapper: it identifies a widget from its
// script tag, creates the container, and drives fetch, render and track.
//
// The same state machine ships to browsers as the JavaScript asset returned
// by Script, and runs in-process for previews and headless rendering.
package embed

import (
	"net/url"
	"path"
	"strings"

	domainerrors "github.com/walloflove/wol-server/internal/errors"
	"github.com/walloflove/wol-server/internal/validation"
)

// ErrMalformedEmbed is matched by every identification failure.
var ErrMalformedEmbed = domainerrors.ErrMalformedEmbed

const (
	scriptSuffix      = ".js"
	containerIDPrefix = "wol-widget-"
	widgetPathSegment = "widget"
)

// ContainerID returns the namespaced element id for a widget's container.
func ContainerID(widgetID string) string {
	return containerIDPrefix + widgetID
}

// ParseScriptURL extracts the widget id from an embed script URL: the path
// segment immediately before the ".js" suffix. Query and fragment are
// ignored. Relative URLs are accepted.
func ParseScriptURL(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", domainerrors.MalformedEmbedf("empty script url")
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", domainerrors.MalformedEmbedf("unparsable script url %q", src).WithCause(err)
	}

	// The path itself must end in ".js"; path.Base would forgive a trailing
	// slash that the browser script rejects.
	if !strings.HasSuffix(u.Path, scriptSuffix) {
		return "", domainerrors.MalformedEmbedf("script url %q does not end in %s", src, scriptSuffix)
	}

	last := u.Path[strings.LastIndex(u.Path, "/")+1:]
	id := strings.TrimSuffix(last, scriptSuffix)
	if id == "" {
		return "", domainerrors.MalformedEmbedf("script url %q has an empty widget segment", src)
	}
	if !validation.ValidWidgetID(id) {
		return "", domainerrors.MalformedEmbedf("script url %q has an invalid widget id", src)
	}
	return id, nil
}

// IsEmbedScript reports whether src looks like a widget embed script,
// i.e. ".../widget/{id}.js". Used to pick our scripts out of a host page.
func IsEmbedScript(src string) bool {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return false
	}
	dir := path.Base(path.Dir(u.Path))
	return dir == widgetPathSegment && strings.HasSuffix(u.Path, scriptSuffix)
}
