package services

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BuildDocument resolves placeholders in the markup and returns a complete
// HTML document with headCSS injected at the top of <head>.
//
// The markup may be a full document, an <html> fragment without a head, or
// a bare body fragment; the parser normalizes all three into one
// html/head/body skeleton, which is how that structural guarantee holds for
// malformed and nested markup alike. <style> blocks are hoisted into <head>
// as opaque text and are never scanned for placeholder tokens, so a CSS
// selector that happens to look like a token cannot be corrupted.
//
// Resolution is image-aware: bag values marked as images become <img>
// elements in element content and raw URIs inside attributes. Bag values
// marked as markup (the generated line-items table) are spliced in as
// parsed fragments instead of escaped text.
func BuildDocument(markup string, bag DataBag, headCSS string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse template markup: %w", err)
	}

	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)
	if head == nil || body == nil {
		// html.Parse always synthesizes both for any input
		return "", fmt.Errorf("parsed document is missing head or body")
	}

	hoistStyles(body, head)
	resolveNode(body, bag)
	resolveNode(head, bag)

	if headCSS != "" {
		style := &html.Node{
			Type:     html.ElementNode,
			Data:     "style",
			DataAtom: atom.Style,
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: headCSS})
		head.InsertBefore(style, head.FirstChild)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return buf.String(), nil
}

// findElement returns the first element with the given atom, depth-first.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// hoistStyles moves every <style> element under root into head, preserving
// document order. Handles multiple and nested style blocks, which the
// regex approach this replaces could not.
func hoistStyles(root, head *html.Node) {
	var styles []*html.Node
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Style {
				styles = append(styles, c)
				continue
			}
			collect(c)
		}
	}
	collect(root)

	for _, style := range styles {
		style.Parent.RemoveChild(style)
		head.AppendChild(style)
	}
}

// resolveNode walks the subtree substituting placeholder tokens in text
// nodes and attribute values. Style and script elements are opaque.
func resolveNode(n *html.Node, bag DataBag) {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Style || n.DataAtom == atom.Script) {
		return
	}

	if n.Type == html.ElementNode {
		for i := range n.Attr {
			if tokenRegex.MatchString(n.Attr[i].Val) {
				n.Attr[i].Val = ResolvePlaceholders(n.Attr[i].Val, bag)
			}
		}
	}

	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.TextNode && tokenRegex.MatchString(c.Data) {
			resolveTextNode(n, c, bag)
			continue
		}
		resolveNode(c, bag)
	}
}

// resolveTextNode replaces one text node with a sequence of text, <img>
// and fragment nodes. Tokens bound to image values become elements, tokens
// bound to markup values are parsed and spliced in as a fragment;
// everything else is plain single-pass substitution.
func resolveTextNode(parent, textNode *html.Node, bag DataBag) {
	data := textNode.Data
	matches := tokenRegex.FindAllStringIndex(data, -1)

	var nodes []*html.Node
	appendText := func(s string) {
		if s == "" {
			return
		}
		nodes = append(nodes, &html.Node{Type: html.TextNode, Data: s})
	}

	pos := 0
	for _, m := range matches {
		appendText(data[pos:m[0]])
		pos = m[1]

		key := tokenKey(data[m[0]:m[1]])
		value, ok := bag[key]
		if !ok {
			continue
		}
		if value.Image {
			if strings.TrimSpace(value.Data) == "" {
				continue
			}
			img := &html.Node{
				Type:     html.ElementNode,
				Data:     "img",
				DataAtom: atom.Img,
				Attr: []html.Attribute{
					{Key: "src", Val: value.Data},
					{Key: "alt", Val: key},
					{Key: "class", Val: "company-logo"},
				},
			}
			nodes = append(nodes, img)
			continue
		}
		if value.HTML {
			fragment, err := html.ParseFragment(strings.NewReader(value.Data), parent)
			if err != nil {
				appendText(value.Data)
				continue
			}
			nodes = append(nodes, fragment...)
			continue
		}
		appendText(value.Data)
	}
	appendText(data[pos:])

	for _, node := range nodes {
		parent.InsertBefore(node, textNode)
	}
	parent.RemoveChild(textNode)
}
