package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/folio/internal/theme"
)

// HighlightCode returns chroma HTML for code. The info string of a fence may
// carry more than the language, only its first word is used.
func HighlightCode(code, info, syntaxTheme string) string {
	var language string
	if fields := strings.Fields(info); len(fields) > 0 {
		language = fields[0]
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Error tokenising code block")
		return "<pre>" + html.EscapeString(code) + "</pre>"
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, styles.Get(syntaxTheme), iterator); err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Error formatting code block")
		return "<pre>" + html.EscapeString(code) + "</pre>"
	}
	return buf.String()
}

// HighlightMarkdown renders the raw markdown source itself, for the source view.
func HighlightMarkdown(markdown string, syntaxTheme string) (string, error) {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(syntaxTheme)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(true),
		chromahtml.WrapLongLines(true),
	)

	var buf bytes.Buffer
	iterator, err := lexer.Tokenise(nil, markdown)
	if err != nil {
		return markdown, err
	}

	if err := formatter.Format(&buf, style, iterator); err != nil {
		return markdown, err
	}

	return `<div class="markdown-source">` + buf.String() + `</div>`, nil
}
