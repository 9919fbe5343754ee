package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HRequestID    = "X-Request-ID"
	HHxTrigger    = "Hx-Trigger"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html; charset=utf-8"
	CTypeJSON = "application/json"
	CTypeText = "text/plain; charset=utf-8"
	CTypeRSS  = "application/rss+xml; charset=utf-8"
	CTypeXML  = "application/xml; charset=utf-8"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme       = "theme"
	CookieSyntaxTheme = "syntax-theme"
)
