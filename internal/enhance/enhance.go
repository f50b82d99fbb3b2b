// Package enhance post-processes rendered page HTML. Every code block gets
// chroma syntax highlighting (CSS classes only, colors come from the theme
// stylesheet) and a header bar with the language label and a copy control.
// The pass is idempotent: running it again re-tokenizes from the block's raw
// text and never inserts a second header bar, which is what makes theme
// switches safe to re-apply.
package enhance

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// HeaderClass marks the bar inserted above each code block.
	HeaderClass = "code-header"
	// HighlightedAttr marks code elements that already carry chroma spans.
	HighlightedAttr = "data-highlighted"
	// PlainLabel is shown when a block has no language hint.
	PlainLabel = "Plain Text"

	classPrefix = "chroma-"

	// ChromaClass goes on every enhanced pre. StylesheetCSS scopes all
	// token rules under this class, so token spans only pick up colors
	// inside an element that carries it.
	ChromaClass = classPrefix + "chroma"
)

// Enhancer rewrites code blocks in rendered HTML fragments.
type Enhancer struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// New builds an enhancer. The formatter emits classes for every token kind
// so one markup pass works under any theme stylesheet.
func New() *Enhancer {
	return &Enhancer{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithAllClasses(true),
			chromahtml.ClassPrefix(classPrefix),
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Get("github"),
	}
}

// Apply parses fragment, enhances every <pre><code> block, and returns the
// rewritten fragment. Input that was already enhanced comes back unchanged
// in structure: spans are rebuilt from the block's text and existing header
// bars are left alone.
func (e *Enhancer) Apply(fragment string) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	// ParseFragment returns detached nodes. Reparent them so header bars
	// can be inserted next to top-level blocks.
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	if err := e.walk(root); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return buf.String(), nil
}

func (e *Enhancer) walk(n *html.Node) error {
	if n.Type == html.ElementNode && n.Data == "pre" {
		if code := firstElement(n, "code"); code != nil {
			return e.enhanceBlock(n, code)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := e.walk(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Enhancer) enhanceBlock(pre, code *html.Node) error {
	lang := languageHint(code)
	raw := rawText(code)

	highlighted, err := e.highlight(raw, lang)
	if err != nil {
		return err
	}
	replaceChildren(code, highlighted)
	setAttr(code, HighlightedAttr, "1")
	addClass(pre, ChromaClass)

	if !hasHeaderBar(pre) {
		pre.Parent.InsertBefore(headerBar(languageLabel(lang)), pre)
	}
	return nil
}

// highlight tokenizes src and returns the span nodes to graft under the
// code element.
func (e *Enhancer) highlight(src, lang string) ([]*html.Node, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, fmt.Errorf("tokenise: %w", err)
	}

	var buf bytes.Buffer
	if err := e.formatter.Format(&buf, e.style, iterator); err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "code", DataAtom: atom.Code}
	nodes, err := html.ParseFragment(&buf, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse highlighted: %w", err)
	}
	return nodes, nil
}

// languageHint extracts the name from a language-<name> class, or "".
func languageHint(code *html.Node) string {
	for _, class := range strings.Fields(attrValue(code, "class")) {
		if name, ok := strings.CutPrefix(class, "language-"); ok && name != "" {
			return name
		}
	}
	return ""
}

// languageLabel resolves the display name for the header bar. Known
// languages use chroma's canonical name, unknown hints pass through as-is.
func languageLabel(lang string) string {
	if lang == "" {
		return PlainLabel
	}
	if lexer := lexers.Get(lang); lexer != nil {
		return lexer.Config().Name
	}
	return lang
}

// headerBar builds <div class="code-header"><span>label</span><button>.
func headerBar(label string) *html.Node {
	header := &html.Node{
		Type: html.ElementNode, Data: "div", DataAtom: atom.Div,
		Attr: []html.Attribute{{Key: "class", Val: HeaderClass}},
	}
	span := &html.Node{
		Type: html.ElementNode, Data: "span", DataAtom: atom.Span,
		Attr: []html.Attribute{{Key: "class", Val: "code-lang"}},
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	button := &html.Node{
		Type: html.ElementNode, Data: "button", DataAtom: atom.Button,
		Attr: []html.Attribute{
			{Key: "class", Val: "code-copy"},
			{Key: "type", Val: "button"},
		},
	}
	button.AppendChild(&html.Node{Type: html.TextNode, Data: "Copy"})
	header.AppendChild(span)
	header.AppendChild(button)
	return header
}

// hasHeaderBar reports whether the element immediately before pre, ignoring
// whitespace, is a header bar from a previous pass.
func hasHeaderBar(pre *html.Node) bool {
	for sib := pre.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.TextNode && strings.TrimSpace(sib.Data) == "" {
			continue
		}
		return sib.Type == html.ElementNode && sib.Data == "div" &&
			strings.Contains(attrValue(sib, "class"), HeaderClass)
	}
	return false
}

func firstElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// rawText concatenates the text nodes under n without trimming, so the
// exact block content survives repeated tokenization.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func replaceChildren(n *html.Node, children []*html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	for _, c := range children {
		n.AppendChild(c)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// addClass appends a class token unless the element already carries it.
func addClass(n *html.Node, class string) {
	classes := strings.Fields(attrValue(n, "class"))
	for _, c := range classes {
		if c == class {
			return
		}
	}
	setAttr(n, "class", strings.Join(append(classes, class), " "))
}

// StylesheetCSS renders the chroma stylesheet for a named style, using the
// same class prefix the Apply pass emits. Unknown names fall back to
// chroma's default style.
func StylesheetCSS(styleName string) (string, error) {
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithAllClasses(true),
		chromahtml.ClassPrefix(classPrefix),
	)
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, styles.Get(styleName)); err != nil {
		return "", fmt.Errorf("write css: %w", err)
	}
	return buf.String(), nil
}
