package server

import (
	"encoding/xml"
	"net/http"
	"path"
	"time"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/rs/zerolog"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Features.Feed {
		http.NotFound(w, r)
		return
	}

	posts := s.repo.ListPostsMetadata(r.Context())
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if t, ok := p.PublishedAt(); ok {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := s.absoluteURL(postPath(p.Slug))
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			Author:      p.Author,
			Categories:  p.Tags,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.cfg.Site.Name,
			Link:        s.absoluteURL(routes.RootPath),
			Description: s.cfg.Site.Description,
			Language:    "en",
			Items:       items,
		},
	}
	writeXML(w, r, config.CTypeRSS, feed)
}

func (s *Server) serveSitemap(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Features.Sitemap {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	urls := []sitemapURL{
		{Loc: s.absoluteURL(routes.RootPath)},
		{Loc: s.absoluteURL(routes.BlogPath)},
	}
	for _, p := range s.repo.ListPostsMetadata(ctx) {
		u := sitemapURL{Loc: s.absoluteURL(postPath(p.Slug))}
		if t, ok := p.PublishedAt(); ok {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	for _, tag := range exportTags(s.repo.ListTags(ctx)) {
		// Tags such as ".." have no page of their own.
		if p := tagPath(tag); path.Clean(p) == p {
			urls = append(urls, sitemapURL{Loc: s.absoluteURL(p)})
		}
	}

	writeXML(w, r, config.CTypeXML, sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

func (s *Server) serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, config.CTypeText)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("User-agent: *\nDisallow:\n"))
	if s.cfg.Features.Sitemap {
		w.Write([]byte("Sitemap: " + s.absoluteURL(routes.SitemapPath) + "\n"))
	}
}

func writeXML(w http.ResponseWriter, r *http.Request, contentType string, v any) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode XML response")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	w.Write(out)
}
