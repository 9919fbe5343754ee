// Package render turns markdown bodies into HTML with highlighted code blocks
// and self-linking headings.
package render

import (
	"fmt"
	"slices"
	"sync"

	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/rs/zerolog"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// Document is a rendered markdown body.
type Document struct {
	HTML     []byte
	Headings []model.Heading
}

type Renderer struct {
	engine string
}

// New returns a renderer for one of config.MarkdownRenderers. An empty engine
// selects gomarkdown.
func New(engine string) (*Renderer, error) {
	if engine == "" {
		engine = config.RendererGomarkdown
	}
	if !slices.Contains(config.MarkdownRenderers, engine) {
		return nil, fmt.Errorf("unknown markdown renderer %q", engine)
	}
	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Engine() string {
	return r.engine
}

func (r *Renderer) Render(md []byte, syntaxTheme string) *Document {
	switch r.engine {
	case config.RendererMmark:
		return renderMmark(md, syntaxTheme)
	case config.RendererGoldmark:
		return renderGoldmark(md, syntaxTheme)
	default:
		return renderClassic(md, syntaxTheme)
	}
}

// Mutex to protect the check-render-set operation in RenderCached
var renderCacheMutex sync.Mutex

// RenderCached memoises Render by content hash, engine and syntax theme.
func (r *Renderer) RenderCached(md []byte, contentHash, syntaxTheme string) *Document {
	if contentHash == "" {
		renderLogger.Warn().Msg("Content hash is empty, skipping cache check")
		return r.Render(md, syntaxTheme)
	}

	if cached, found := cache.GetRenderedMarkdown(contentHash, r.engine, syntaxTheme); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache hit for rendered markdown")
		return &Document{HTML: cached.HTML, Headings: cached.Headings}
	}

	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	// Another goroutine may have rendered it while we waited.
	if cached, found := cache.GetRenderedMarkdown(contentHash, r.engine, syntaxTheme); found {
		return &Document{HTML: cached.HTML, Headings: cached.Headings}
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache miss for rendered markdown")
	doc := r.Render(md, syntaxTheme)
	cache.SetRenderedMarkdown(contentHash, r.engine, syntaxTheme, doc.HTML, doc.Headings)

	return doc
}

// WarmCache pre-renders markdown content asynchronously to warm the cache
func (r *Renderer) WarmCache(md []byte, contentHash, syntaxTheme string) {
	renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Starting cache warming")
	go func() {
		r.RenderCached(md, contentHash, syntaxTheme)
		renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache warming completed")
	}()
}
