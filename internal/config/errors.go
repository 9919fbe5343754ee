package config

const (
	// Database errors
	ErrInitializeDatabaseFmt = "failed to initialize database: %w"

	// Content errors
	ErrListContent        = "Error listing content"
	ErrReadContent        = "Error reading content"
	ErrParseFrontMatter   = "Error parsing front matter, skipping file"
	ErrInitializingSource = "Error initializing content source"
	ErrReloadingPosts     = "Error reloading posts"

	// HTTP errors
	ErrInternalServerError = "Internal server error"
	ErrRenderTemplate      = "Error rendering template"
)
