package server

import (
	"bytes"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/debemdeboas/folio/internal/theme"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/rs/zerolog"
)

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routes.RootPath {
		s.serveNotFound(w, r, "")
		return
	}

	ctx := r.Context()
	recent := s.repo.ListPostsMetadata(ctx)
	if n := s.cfg.Content.RecentPosts; n >= 0 && len(recent) > n {
		recent = recent[:n]
	}

	data := struct {
		*PageData
		Featured []model.PostMetadata
		Recent   []model.PostMetadata
	}{
		PageData: s.newPageData(r),
		Featured: s.repo.ListFeaturedPosts(ctx),
		Recent:   recent,
	}

	s.renderPage(w, r, http.StatusOK, config.TemplateIndex, data)
}

func (s *Server) serveBlog(w http.ResponseWriter, r *http.Request) {
	s.renderBlog(w, r, r.URL.Query().Get("tag"))
}

func (s *Server) serveBlogTag(w http.ResponseWriter, r *http.Request) {
	s.renderBlog(w, r, r.PathValue("tag"))
}

// renderBlog lists featured posts apart from the rest, or only the posts
// carrying tag when one is given.
func (s *Server) renderBlog(w http.ResponseWriter, r *http.Request, tag string) {
	ctx := r.Context()

	data := struct {
		*PageData
		Tag      string
		Tags     []string
		Featured []model.PostMetadata
		Posts    []model.PostMetadata
	}{
		PageData: s.newPageData(r),
		Tag:      tag,
		Tags:     s.repo.ListTags(ctx),
	}
	data.Title = "Blog"

	if tag != "" {
		data.Title = "Posts tagged " + tag
		data.Posts = s.repo.ListPostsByTag(ctx, tag)
	} else {
		for _, post := range s.repo.ListPostsMetadata(ctx) {
			if post.Featured {
				data.Featured = append(data.Featured, post)
			} else {
				data.Posts = append(data.Posts, post)
			}
		}
	}

	s.renderPage(w, r, http.StatusOK, config.TemplateBlog, data)
}

func (s *Server) servePost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	post, ok := s.renderPost(r, slug)
	if !ok {
		s.serveNotFound(w, r, "This post does not exist.")
		return
	}

	data := struct {
		*PageData
		Post *model.RenderedPost
	}{
		PageData: s.newPageData(r),
		Post:     post,
	}
	data.Title = post.Title
	data.Description = post.Description
	if len(post.Tags) > 0 {
		data.Keywords = post.Tags
	}
	if post.Author != "" {
		data.Author = post.Author
	}
	data.OGType = "article"
	data.PublishedTime = post.Date
	data.ArticleTags = post.Tags
	if s.cfg.Features.LiveReload {
		data.LiveSlug = post.Slug
	}

	s.renderPage(w, r, http.StatusOK, config.TemplatePost, data)
}

// renderPost looks slug up and renders its body with the syntax theme of the
// request.
func (s *Server) renderPost(r *http.Request, slug string) (*model.RenderedPost, bool) {
	post, ok := s.repo.GetPostBySlug(r.Context(), slug)
	if !ok {
		return nil, false
	}

	doc := s.renderer.RenderCached([]byte(post.Content), util.ContentHashString(post.Content), theme.GetSyntaxThemeFromRequest(r))
	return model.NewRenderedPost(post, doc.HTML, doc.Headings), true
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request, message string) {
	data := struct {
		*PageData
		Message string
	}{
		PageData: s.newPageData(r),
		Message:  message,
	}
	data.Title = "Not found"

	s.renderPage(w, r, http.StatusNotFound, config.TemplateNotFound, data)
}

// renderPage executes page into a buffer first so a failing template never
// leaves a half written response.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	l := zerolog.Ctx(r.Context())

	tmpl, ok := s.pages[page]
	if !ok {
		l.Error().Str("template", page).Msg(config.ErrRenderTemplate)
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, config.TemplateLayout, data); err != nil {
		l.Error().Err(err).Str("template", page).Msg(config.ErrRenderTemplate)
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
