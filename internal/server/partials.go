package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/sse"
	"github.com/debemdeboas/folio/internal/theme"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/rs/zerolog"
)

// servePartialPost answers the live reload script with the post title and its
// freshly rendered body.
func (s *Server) servePartialPost(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("post")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	post, ok := s.renderPost(r, slug)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<title>%s</title>\n%s", template.HTMLEscapeString(post.Title), post.HTML)
}

func (s *Server) servePartialSource(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("post")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	post, ok := s.repo.GetPostBySlug(r.Context(), slug)
	if !ok {
		http.NotFound(w, r)
		return
	}

	source, err := render.HighlightMarkdown(post.Content, theme.GetSyntaxThemeFromRequest(r))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("slug", slug).Msg("Failed to highlight markdown source")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(source))
}

func (s *Server) serveThemeOppositeIcon(w http.ResponseWriter, r *http.Request) {
	currTheme := r.URL.Query().Get("theme")
	if currTheme == "" {
		http.Error(w, "theme required", http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(currTheme)))
}

type themeChanged struct {
	Value       string `json:"value"`
	SyntaxTheme string `json:"syntaxTheme"`
}

func (s *Server) serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	if !s.cfg.Theme.AllowSwitching {
		http.Error(w, "theme switching is disabled", http.StatusForbidden)
		return
	}

	newTheme := theme.OppositeTheme(theme.GetThemeFromRequest(r))
	http.SetCookie(w, theme.Cookie(config.CookieTheme, newTheme))

	syntaxTheme := theme.GetDefaultSyntaxTheme(newTheme)
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && theme.IsSyntaxTheme(cookie.Value) {
		syntaxTheme = cookie.Value
	}

	trigger, err := json.Marshal(map[string]themeChanged{
		"themeChanged": {Value: newTheme, SyntaxTheme: syntaxTheme},
	})
	if err == nil {
		w.Header().Set(config.HHxTrigger, string(trigger))
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

func (s *Server) serveSyntaxThemeSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	currTheme := r.FormValue("syntax-theme-select")
	if currTheme == "" {
		http.Error(w, "theme required", http.StatusBadRequest)
		return
	}
	if !theme.IsSyntaxTheme(currTheme) {
		http.Error(w, "unknown syntax theme", http.StatusBadRequest)
		return
	}

	cookie := theme.Cookie(config.CookieSyntaxTheme, currTheme)
	cookie.HttpOnly = true
	http.SetCookie(w, cookie)

	writeCSS(w, theme.GenerateSyntaxCSS(currTheme))
}

func (s *Server) serveSyntaxThemeGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	currTheme := r.PathValue("theme")
	if !theme.IsSyntaxTheme(currTheme) {
		http.NotFound(w, r)
		return
	}

	writeCSS(w, theme.GenerateSyntaxCSS(currTheme))
}

func writeCSS(w http.ResponseWriter, css template.CSS) {
	themeStyle := []byte(css)
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, `"`+util.ContentHash(themeStyle)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}

// serveEvents streams reload events. The post parameter narrows the stream to
// one slug; without it every change is delivered.
func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Features.LiveReload {
		http.NotFound(w, r)
		return
	}

	l := zerolog.Ctx(r.Context())
	slug := r.URL.Query().Get("post")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	client := sse.NewClient(slug)
	s.clients.Add(client)
	l.Debug().Str("slug", slug).Msg("SSE client connected")

	defer func() {
		s.clients.Delete(client)
		l.Debug().Str("slug", slug).Msg("SSE client disconnected")
	}()

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	done := r.Context().Done()
	for {
		select {
		case msg, ok := <-client.Msg:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-done:
			return
		}
	}
}
