package config

const (
	RendererGomarkdown = "gomarkdown"
	RendererMmark      = "mmark"
	RendererGoldmark   = "goldmark"

	// MarkdownExt marks the files the content repository picks up.
	MarkdownExt = ".md"
)

var MarkdownRenderers = []string{RendererGomarkdown, RendererMmark, RendererGoldmark}
