// Package web embeds the page templates and static assets served by the blog.
package web

import "embed"

//go:embed static templates
var FS embed.FS
