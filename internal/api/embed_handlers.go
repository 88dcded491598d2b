package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/walloflove/wol-server/internal/dom"
	"github.com/walloflove/wol-server/internal/embed"
	domainerrors "github.com/walloflove/wol-server/internal/errors"
	"github.com/walloflove/wol-server/internal/http/response"
	"github.com/walloflove/wol-server/internal/validation"
)

// defaultScriptCacheTTL applies when Options.ScriptCacheTTL is zero.
const defaultScriptCacheTTL = 5 * time.Minute

func (s *Server) registerEmbedRoutes() {
	// Direct chi routes; neither response is JSON.
	s.router.Get("/widget/{widgetId}.js", s.handleServeScript)
	s.router.Get("/widget/{widgetId}/preview", s.handlePreview)
}

// handleServeScript serves the embed script a customer pastes into their page.
func (s *Server) handleServeScript(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	if !validation.ValidWidgetID(widgetID) {
		response.NotFound(w, "Widget not found", s.logger)
		return
	}

	script, err := embed.Script(embed.ScriptOptions{
		APIBase:          s.publicBase(r),
		WidgetID:         widgetID,
		AutoplayInterval: s.opts.AutoplayInterval,
	})
	if err != nil {
		s.logger.Error("Failed to render embed script", "widget_id", widgetID, "error", err)
		response.Error(w, http.StatusInternalServerError, string(domainerrors.CodeInternal), genericServerError, s.logger)
		return
	}

	ttl := s.opts.ScriptCacheTTL
	if ttl == 0 {
		ttl = defaultScriptCacheTTL
	}

	response.JavaScript(w, script, ttl, s.logger.With("widget_id", widgetID))
}

// handlePreview renders the widget server-side into a standalone page.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	if s.services == nil || s.services.Preview == nil {
		response.NotFound(w, "Preview not available", s.logger)
		return
	}

	page := dom.NewPage()
	script := page.AppendScript(s.publicBase(r) + "/widget/" + widgetID + ".js")

	session, err := s.services.Preview.Mount(r.Context(), page, script)
	if err != nil {
		if errors.Is(err, embed.ErrMalformedEmbed) {
			response.NotFound(w, "Widget not found", s.logger)
			return
		}
		s.logger.Error("Preview mount failed", "widget_id", widgetID, "error", err)
		response.Error(w, http.StatusInternalServerError, string(domainerrors.CodeInternal), genericServerError, s.logger)
		return
	}
	session.Close()

	// The snapshot must not boot a second, tracked copy in the browser.
	page.Mutate(func() {
		dom.Remove(script)
		title := dom.NewElement("title")
		dom.Append(title, dom.Text("Widget preview"))
		dom.Append(page.Head(), title)
	})

	response.HTML(w, page.Render, s.logger.With("widget_id", widgetID))
}

// publicBase is the origin the browser should call back to.
func (s *Server) publicBase(r *http.Request) string {
	if s.opts.PublicURL != "" {
		return s.opts.PublicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
