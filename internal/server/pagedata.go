package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/debemdeboas/folio/internal/theme"
)

// PageData is shared by every page rendered through the layout template.
type PageData struct {
	SiteName string
	Tagline  string

	Title       string
	Description string
	Author      string
	Keywords    []string
	Favicon     string

	Canonical     string
	OGType        string
	PublishedTime string
	ArticleTags   []string

	Theme               string
	ThemeIcon           template.HTML
	AllowThemeSwitching bool

	SyntaxCSS    template.CSS
	SyntaxTheme  string
	SyntaxThemes []string

	FeedEnabled bool
	Social      config.SocialConfig
	Year        int

	// LiveSlug is set on post pages when live reload is on.
	LiveSlug string
	InBlog   bool
}

func (s *Server) newPageData(r *http.Request) *PageData {
	currentTheme := theme.GetThemeFromRequest(r)
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r)

	return &PageData{
		SiteName:            s.cfg.Site.Name,
		Tagline:             s.cfg.Site.Tagline,
		Description:         s.cfg.Site.Description,
		Author:              s.cfg.Meta.Author,
		Keywords:            s.cfg.Meta.Keywords,
		Favicon:             s.cfg.Meta.Favicon,
		Canonical:           s.absoluteURL(r.URL.EscapedPath()),
		OGType:              "website",
		Theme:               currentTheme,
		ThemeIcon:           template.HTML(theme.GetThemeIcon(currentTheme)),
		AllowThemeSwitching: s.cfg.Theme.AllowSwitching,
		SyntaxTheme:         syntaxTheme,
		SyntaxThemes:        theme.GetSyntaxThemes(),
		SyntaxCSS:           theme.GenerateSyntaxCSS(syntaxTheme),
		FeedEnabled:         s.cfg.Features.Feed,
		Social:              s.cfg.Social,
		Year:                time.Now().Year(),
		InBlog:              strings.HasPrefix(r.URL.Path, routes.BlogPath),
	}
}

// postPath and tagPath escape their argument as a single path segment, so
// spaces, slashes and fragments in file names or tags survive the round trip.
func postPath(slug string) string {
	return config.BlogUrlPath + url.PathEscape(slug)
}

func tagPath(tag string) string {
	return config.TagsUrlPath + url.PathEscape(strings.ToLower(tag))
}

func (s *Server) absoluteURL(path string) string {
	return strings.TrimRight(s.cfg.Site.URL, "/") + path
}
