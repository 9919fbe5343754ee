// Package server exposes the content repository over HTTP: pages, partials
// for live reload, a small JSON API, feeds and theme switching.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/debemdeboas/folio/internal/sse"
	"github.com/debemdeboas/folio/internal/theme"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/rs/zerolog"
)

var serverLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	serverLogger = l
}

type Server struct {
	cfg      *config.Config
	repo     repository.PostRepository
	renderer *render.Renderer
	clients  *sse.SSEClients

	static  fs.FS
	pages   map[string]*template.Template
	handler http.Handler
}

var templateFuncs = template.FuncMap{
	"join":    strings.Join,
	"eqFold":  strings.EqualFold,
	"postURL": postPath,
	"tagURL":  tagPath,
	"first": func(s []string, n int) []string {
		if len(s) > n {
			return s[:n]
		}
		return s
	},
}

// New builds the HTTP server. assets must hold the static and templates
// directories.
func New(cfg *config.Config, repo repository.PostRepository, renderer *render.Renderer, assets fs.FS) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	static, err := fs.Sub(assets, config.StaticLocalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		repo:     repo,
		renderer: renderer,
		clients:  sse.NewSSEClients(),
		static:   static,
		pages:    make(map[string]*template.Template),
	}

	if err := s.hashStatic(); err != nil {
		return nil, err
	}
	serverLogger.Debug().Int("assets", cache.StaticAssets()).Msg("Hashed static assets")

	for _, page := range []string{config.TemplateIndex, config.TemplateBlog, config.TemplatePost, config.TemplateNotFound} {
		tmpl, err := template.New(config.TemplateLayout).Funcs(templateFuncs).ParseFS(assets,
			config.TemplatesLocalDir+"/"+config.TemplateLayout,
			config.TemplatesLocalDir+"/"+config.TemplatePartials,
			config.TemplatesLocalDir+"/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		s.pages[page] = tmpl
	}

	s.handler = s.middleware(s.routes())
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Clients() *sse.SSEClients {
	return s.clients
}

// NotifyReload refreshes the render cache for slug and tells the browsers
// showing it to reload.
func (s *Server) NotifyReload(slug string) {
	ctx := context.Background()
	if post, ok := s.repo.GetPostBySlug(ctx, slug); ok {
		s.renderer.WarmCache([]byte(post.Content), util.ContentHashString(post.Content), s.defaultSyntaxTheme())
	}

	sent := s.clients.Broadcast(slug, "reload")
	serverLogger.Info().Str("slug", slug).Int("clients", sent).Msg("Sent reload event")
}

// WarmCache renders every post with the default syntax theme in the background.
func (s *Server) WarmCache(ctx context.Context) {
	syntaxTheme := s.defaultSyntaxTheme()
	for _, slug := range s.repo.ListSlugs(ctx) {
		if post, ok := s.repo.GetPostBySlug(ctx, slug); ok {
			s.renderer.WarmCache([]byte(post.Content), util.ContentHashString(post.Content), syntaxTheme)
		}
	}
}

func (s *Server) defaultSyntaxTheme() string {
	return theme.GetDefaultSyntaxTheme(s.cfg.Theme.Default)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc(routes.RootPath, s.serveIndex)
	mux.HandleFunc("GET "+routes.BlogPath, s.serveBlog)
	mux.HandleFunc("GET "+routes.BlogTagPath, s.serveBlogTag)
	mux.HandleFunc("GET "+routes.BlogPostPath, s.servePost)

	mux.HandleFunc("GET "+routes.PartialsPost, s.servePartialPost)
	mux.HandleFunc("GET "+routes.PartialsSource, s.servePartialSource)
	mux.HandleFunc(routes.ThemeOppositeIcon, s.serveThemeOppositeIcon)
	mux.HandleFunc(routes.ThemeToggle, s.serveThemeToggle)
	mux.HandleFunc(routes.SyntaxThemeSet, s.serveSyntaxThemeSet)
	mux.HandleFunc(routes.SyntaxThemeGet, s.serveSyntaxThemeGet)
	mux.HandleFunc(routes.SSEPath, s.serveEvents)

	mux.HandleFunc("GET "+routes.APIPosts, s.serveAPIPosts)
	mux.HandleFunc("GET "+routes.APIPost, s.serveAPIPost)
	mux.HandleFunc("GET "+routes.APITags, s.serveAPITags)
	mux.HandleFunc("GET "+routes.APISlugs, s.serveAPISlugs)

	mux.HandleFunc("GET "+routes.RobotsPath, s.serveRobots)
	mux.HandleFunc("GET "+routes.FeedPath, s.serveFeed)
	mux.HandleFunc("GET "+routes.SitemapPath, s.serveSitemap)

	mux.Handle(config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(s.static))))

	return mux
}

// hashStatic records a content hash per static file, used as its ETag.
func (s *Server) hashStatic() error {
	return fs.WalkDir(s.static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(s.static, path)
		if err != nil {
			return err
		}
		cache.SetStaticETag(config.StaticUrlPath+path, util.ContentHash(data))
		return nil
	})
}
