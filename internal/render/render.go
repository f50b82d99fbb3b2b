// Package render converts markdown pages into the HTML fragments served to
// the reader shell. Heading emission is overridden so every heading tag
// carries the dotted ID assigned by the outline: each heading node consumes
// the next non-fenced outline entry, a positional join that stays correct
// even when two headings share the same title or a code block contains
// '#' lines the scanner indexed.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/outline"
)

// fallbackID is emitted when the parser finds more headings than the
// outline indexed, e.g. a setext underline heading the line scan skips.
const fallbackID = "1"

// Renderer turns markdown source into HTML with outline-addressable headings.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a renderer with GitHub-flavored markdown extensions. Fenced
// code blocks keep goldmark's plain <pre><code class="language-x"> shape so
// the enhance pass can highlight them afterwards.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
				renderer.WithNodeRenderers(util.Prioritized(&headingIDs{}, 200)),
			),
		),
	}
}

// Render parses src, stamps each heading node with the next non-fenced
// outline entry, and returns the rendered HTML fragment. Fenced entries are
// passed over: the parser never emits elements for them. Headings beyond
// the end of the outline fall back to level 1 with id "1".
func (r *Renderer) Render(src []byte, headings []outline.Heading) (string, error) {
	reader := text.NewReader(src)
	doc := r.md.Parser().Parse(reader)

	next := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		for next < len(headings) && headings[next].Fenced {
			next++
		}
		if next < len(headings) {
			entry := headings[next]
			h.SetAttributeString("id", []byte(entry.ID))
			h.Level = entry.Level
			next++
		} else {
			h.SetAttributeString("id", []byte(fallbackID))
			h.Level = 1
		}
		return ast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// headingIDs replaces goldmark's default heading renderer with one that
// writes the id attribute stamped onto the node during the pre-render walk.
type headingIDs struct{}

func (h *headingIDs) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, h.renderHeading)
}

func (h *headingIDs) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if !entering {
		fmt.Fprintf(w, "</h%d>\n", n.Level)
		return ast.WalkContinue, nil
	}
	if id, ok := n.AttributeString("id"); ok {
		fmt.Fprintf(w, `<h%d id="%s">`, n.Level, attrString(id))
	} else {
		fmt.Fprintf(w, "<h%d>", n.Level)
	}
	return ast.WalkContinue, nil
}

func attrString(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}
