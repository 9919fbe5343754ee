// Package routes defines HTTP route constants for the application.
package routes

// Pages
const (
	RootPath     = "/"
	BlogPath     = "/blog"
	BlogPostPath = "/blog/{slug}"
	BlogTagPath  = "/blog/tags/{tag}"
)

// Partials and theme switching
const (
	PartialsPost      = "/partials/post"
	PartialsSource    = "/partials/source"
	ThemeOppositeIcon = "/theme/opposite-icon"
	ThemeToggle       = "/theme/toggle"
	SyntaxThemeSet    = "/syntax-theme/set"
	SyntaxThemeGet    = "/syntax-theme/{theme}"

	// SSE
	SSEPath = "/sse"
)

// API
const (
	APIPosts = "/api/posts"
	APIPost  = "/api/posts/{slug}"
	APITags  = "/api/tags"
	APISlugs = "/api/slugs"
)

// Crawlers and feeds
const (
	RobotsPath  = "/robots.txt"
	FeedPath    = "/feed.xml"
	SitemapPath = "/sitemap.xml"
)
