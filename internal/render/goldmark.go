package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	gutil "github.com/yuin/goldmark/util"
)

func newGoldmark(syntaxTheme string) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, extension.DefinitionList),
		goldmark.WithParserOptions(
			gparser.WithAutoHeadingID(),
			gparser.WithASTTransformers(gutil.Prioritized(anchorTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			ghtml.WithUnsafe(),
			renderer.WithNodeRenderers(gutil.Prioritized(&codeBlockRenderer{syntaxTheme: syntaxTheme}, 100)),
		),
	)
}

func renderGoldmark(md []byte, syntaxTheme string) *Document {
	gm := newGoldmark(syntaxTheme)

	doc := gm.Parser().Parse(text.NewReader(md))
	headings := collectGoldmarkHeadings(doc, md)

	var buf bytes.Buffer
	if err := gm.Renderer().Render(&buf, md, doc); err != nil {
		renderLogger.Error().Err(err).Msg("Error rendering markdown with goldmark")
	}

	return &Document{HTML: buf.Bytes(), Headings: headings}
}

// anchorTransformer wraps heading contents in a link to the heading and opens
// external links in a new tab.
type anchorTransformer struct{}

func (anchorTransformer) Transform(doc *gast.Document, _ text.Reader, _ gparser.Context) {
	var headings []*gast.Heading

	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gast.Heading:
			headings = append(headings, node)
		case *gast.Link:
			if isExternalLink(node.Destination) {
				markExternal(node)
			}
		case *gast.AutoLink:
			markExternal(node)
		}
		return gast.WalkContinue, nil
	})

	for _, h := range headings {
		id, ok := h.AttributeString("id")
		if !ok {
			continue
		}
		idBytes, ok := id.([]byte)
		if !ok || len(idBytes) == 0 || hasLink(h) {
			continue
		}

		link := gast.NewLink()
		link.Destination = append([]byte("#"), idBytes...)
		link.SetAttributeString("class", []byte("heading-anchor"))

		for child := h.FirstChild(); child != nil; {
			next := child.NextSibling()
			h.RemoveChild(h, child)
			link.AppendChild(link, child)
			child = next
		}
		h.AppendChild(h, link)
	}
}

func hasLink(h *gast.Heading) bool {
	found := false
	_ = gast.Walk(h, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		switch n.(type) {
		case *gast.Link, *gast.AutoLink:
			found = true
			return gast.WalkStop, nil
		}
		return gast.WalkContinue, nil
	})
	return found
}

func markExternal(n gast.Node) {
	n.SetAttributeString("target", []byte("_blank"))
	n.SetAttributeString("rel", []byte("noreferrer noopener"))
}

func isExternalLink(dest []byte) bool {
	lower := bytes.ToLower(dest)
	return bytes.HasPrefix(lower, []byte("http://")) ||
		bytes.HasPrefix(lower, []byte("https://")) ||
		bytes.HasPrefix(lower, []byte("//"))
}

type codeBlockRenderer struct {
	syntaxTheme string
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(gast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderCodeBlock(w gutil.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}

	var info string
	if fenced, ok := node.(*gast.FencedCodeBlock); ok && fenced.Info != nil {
		info = string(fenced.Info.Segment.Value(source))
	}

	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}

	fmt.Fprintf(w, "<div class=\"highlight\">%s</div>\n", HighlightCode(code.String(), info, r.syntaxTheme))
	return gast.WalkSkipChildren, nil
}

func collectGoldmarkHeadings(doc gast.Node, source []byte) []model.Heading {
	headings := make([]model.Heading, 0)
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		h, ok := n.(*gast.Heading)
		if !ok || !entering {
			return gast.WalkContinue, nil
		}

		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		if id == "" {
			return gast.WalkSkipChildren, nil
		}
		headings = append(headings, model.Heading{
			Level: h.Level,
			ID:    id,
			Text:  goldmarkText(h, source),
		})
		return gast.WalkSkipChildren, nil
	})
	return headings
}

func goldmarkText(n gast.Node, source []byte) string {
	var b strings.Builder
	_ = gast.Walk(n, func(c gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gast.String:
			b.Write(t.Value)
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
