package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/mmarkdown/mmark/v2/lang"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/mmarkdown/mmark/v2/render/mhtml"
)

const classicExtensions = parser.Tables | parser.FencedCode | parser.Autolink | parser.Strikethrough |
	parser.SpaceHeadings | parser.HeadingIDs | parser.BackslashLineBreak | parser.SuperSubscript |
	parser.DefinitionLists | parser.MathJax | parser.AutoHeadingIDs | parser.Footnotes |
	parser.OrderedListStart | parser.Attributes | parser.NonBlockingSpace

// External links open in a new tab without leaking the referrer.
const linkFlags = md_html.HrefTargetBlank | md_html.NoopenerLinks | md_html.NoreferrerLinks

func renderClassic(md []byte, syntaxTheme string) *Document {
	doc := parser.NewWithExtensions(classicExtensions).Parse(markdown.NormalizeNewlines(md))

	opts := md_html.RendererOptions{
		Flags:          md_html.CommonFlags | md_html.FootnoteReturnLinks | linkFlags,
		RenderNodeHook: nodeHook(syntaxTheme, nil),
	}

	return &Document{
		HTML:     markdown.Render(doc, md_html.NewRenderer(opts)),
		Headings: collectHeadings(doc),
	}
}

func renderMmark(md []byte, syntaxTheme string) *Document {
	md = markdown.NormalizeNewlines(md)

	// Includes would read arbitrary files relative to the working directory.
	exts := mparser.Extensions | parser.NoIntraEmphasis | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(exts &^ parser.Includes)
	p.Opts = parser.Options{
		ParserHook: mparser.Hook,
		Flags:      parser.FlagsNone,
	}

	doc := markdown.Parse(md, p)
	mparser.AddIndex(doc)

	mhtmlOpts := mhtml.RendererOptions{
		Language: lang.New("en"),
	}

	opts := md_html.RendererOptions{
		Flags:          md_html.CommonFlags | md_html.FootnoteNoHRTag | md_html.FootnoteReturnLinks | linkFlags,
		RenderNodeHook: nodeHook(syntaxTheme, mhtmlOpts.RenderHook),
	}

	return &Document{
		HTML:     markdown.Render(doc, md_html.NewRenderer(opts)),
		Headings: collectHeadings(doc),
	}
}

// nodeHook highlights code blocks and turns headings into anchors, deferring
// every other node to next.
func nodeHook(syntaxTheme string, next md_html.RenderNodeFunc) md_html.RenderNodeFunc {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		switch n := node.(type) {
		case *ast.CodeBlock:
			if entering {
				highlighted := HighlightCode(string(n.Literal), string(n.Info), syntaxTheme)
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>\n", highlighted)
			}
			return ast.GoToNext, true

		case *ast.Heading:
			if n.IsTitleblock || n.HeadingID == "" {
				break
			}
			id := html.EscapeString(n.HeadingID)
			// Links cannot nest, so a heading holding one keeps only its id.
			wrap := !containsLink(n)
			switch {
			case entering && wrap:
				fmt.Fprintf(w, "<h%d id=\"%s\"><a class=\"heading-anchor\" href=\"#%s\">", n.Level, id, id)
			case entering:
				fmt.Fprintf(w, "<h%d id=\"%s\">", n.Level, id)
			case wrap:
				fmt.Fprintf(w, "</a></h%d>\n", n.Level)
			default:
				fmt.Fprintf(w, "</h%d>\n", n.Level)
			}
			return ast.GoToNext, true
		}

		if next != nil {
			return next(w, node, entering)
		}
		return ast.GoToNext, false
	}
}

func collectHeadings(doc ast.Node) []model.Heading {
	headings := make([]model.Heading, 0)
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		h, ok := node.(*ast.Heading)
		if !ok || !entering || h.IsTitleblock {
			return ast.GoToNext
		}
		if h.HeadingID == "" {
			return ast.SkipChildren
		}
		headings = append(headings, model.Heading{
			Level: h.Level,
			ID:    h.HeadingID,
			Text:  headingText(h),
		})
		return ast.SkipChildren
	})
	return headings
}

func containsLink(h *ast.Heading) bool {
	found := false
	ast.WalkFunc(h, func(node ast.Node, entering bool) ast.WalkStatus {
		if _, ok := node.(*ast.Link); ok {
			found = true
			return ast.Terminate
		}
		return ast.GoToNext
	})
	return found
}

func headingText(h *ast.Heading) string {
	var b strings.Builder
	ast.WalkFunc(h, func(node ast.Node, entering bool) ast.WalkStatus {
		if leaf := node.AsLeaf(); leaf != nil && entering {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(b.String())
}
