package embed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/walloflove/wol-server/internal/render"
)

//go:embed assets/widget.js
var scriptSource string

var scriptTemplate = template.Must(template.New("widget.js").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).Parse(scriptSource))

// ScriptOptions parameterize the browser embed script.
type ScriptOptions struct {
	APIBase          string // origin of the widget API, no trailing slash
	WidgetID         string
	AutoplayInterval time.Duration
}

type scriptData struct {
	APIBase         string
	WidgetID        string
	StyleID         string
	ContainerPrefix string
	CSS             string
	AutoplayMS      int64
	UnavailableText string
	EmptyText       string
}

// Script renders the JavaScript served at /widget/{id}.js. It carries the
// same stylesheet, markup and state machine as the in-process bootstrapper.
func Script(opts ScriptOptions) ([]byte, error) {
	if opts.AutoplayInterval <= 0 {
		opts.AutoplayInterval = 5 * time.Second
	}

	data := scriptData{
		APIBase:         opts.APIBase,
		WidgetID:        opts.WidgetID,
		StyleID:         render.StyleID,
		ContainerPrefix: containerIDPrefix,
		CSS:             render.Stylesheet(),
		AutoplayMS:      opts.AutoplayInterval.Milliseconds(),
		UnavailableText: render.UnavailableText,
		EmptyText:       render.EmptyText,
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render embed script: %w", err)
	}
	return buf.Bytes(), nil
}
