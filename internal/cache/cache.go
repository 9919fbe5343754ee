// Package cache provides thread-safe generic caching functionality and markdown rendering cache.
package cache

import (
	"sync"

	"github.com/debemdeboas/folio/internal/model"
)

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

func (c *Cache[K, V]) SetTo(items map[K]V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// RenderedContent is a markdown body rendered for one syntax theme.
type RenderedContent struct {
	HTML     []byte
	Headings []model.Heading
}

var renderedMarkdownCache = NewCache[string, *RenderedContent]()

// Keys combine the body hash with the engine and syntax theme, so an edited
// body never hits a stale entry.
func renderKey(contentHash, engine, syntaxTheme string) string {
	return contentHash + ":" + engine + ":" + syntaxTheme
}

func GetRenderedMarkdown(contentHash, engine, syntaxTheme string) (*RenderedContent, bool) {
	return renderedMarkdownCache.Get(renderKey(contentHash, engine, syntaxTheme))
}

func SetRenderedMarkdown(contentHash, engine, syntaxTheme string, html []byte, headings []model.Heading) {
	renderedMarkdownCache.Set(renderKey(contentHash, engine, syntaxTheme), &RenderedContent{
		HTML:     html,
		Headings: headings,
	})
}

func ClearRenderedMarkdownCache() {
	renderedMarkdownCache.Clear()
}

func RenderedMarkdownEntries() int {
	return renderedMarkdownCache.Len()
}
