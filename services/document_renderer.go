package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrRenderFailed wraps any failure in the render pipeline. Callers get
// either a complete document or this error, never partial output.
var ErrRenderFailed = errors.New("document render failed")

// previewCSS is the fixed stylesheet for the on-screen preview: an A4
// sheet at 96dpi (794px) centered on the page, with normalized typography
// so a template previews the same regardless of surrounding app styles.
const previewCSS = `* { margin: 0; padding: 0; box-sizing: border-box; }
html, body { width: 100%; background: #f1f5f9; font-family: Arial, sans-serif; }
.preview-container { width: 100%; max-width: 794px; min-height: 1123px; margin: 0 auto; padding: 20px; background: white; overflow: auto; }
.preview-content { width: 100%; font-size: 12px; line-height: 1.4; color: #333; overflow-wrap: break-word; }
.preview-content table { width: 100%; border-collapse: collapse; margin: 16px 0; font-size: 12px; }
.preview-content th { padding: 8px 6px; text-align: left; font-weight: 600; }
.preview-content td { padding: 6px; text-align: left; }
.preview-content h1 { font-size: 18px; }
.preview-content h2 { font-size: 16px; }
.preview-content h3 { font-size: 14px; }
.preview-content p { font-size: 12px; margin: 6px 0; }
.preview-content .company-logo { max-width: 180px; max-height: 90px; height: auto; object-fit: contain; display: block; }
`

// RenderDocumentHTML resolves a template's placeholders against the data
// bag and returns a complete standalone document with the layout's
// stylesheet injected into the head. The input may be a bare fragment or
// a full document; the output always has the html/head/body skeleton.
func RenderDocumentHTML(markup string, bag DataBag, layoutID string) (string, error) {
	tokens := GetStyleTokens(layoutID)
	doc, err := BuildDocument(markup, bag, RenderLayoutCSS(tokens))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return doc, nil
}

// RenderPreviewHTML renders the document and wraps its body in the A4
// preview container used by the template editor and document screens.
func RenderPreviewHTML(markup string, bag DataBag, layoutID, title string) (string, error) {
	tokens := GetStyleTokens(layoutID)
	doc, err := BuildDocument(markup, bag, RenderLayoutCSS(tokens)+previewCSS)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	wrapped, err := wrapPreviewBody(doc, title)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return wrapped, nil
}

// wrapPreviewBody reparents the document body's children into the
// preview container structure and sets the document title.
func wrapPreviewBody(doc, title string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}

	body := findElement(root, atom.Body)
	if body == nil {
		return "", errors.New("rendered document has no body")
	}

	container := newDiv("preview-container")
	content := newDiv("preview-content")
	container.AppendChild(content)

	for body.FirstChild != nil {
		child := body.FirstChild
		body.RemoveChild(child)
		content.AppendChild(child)
	}
	body.AppendChild(container)

	if title != "" {
		if head := findElement(root, atom.Head); head != nil {
			titleNode := &html.Node{Type: html.ElementNode, DataAtom: atom.Title, Data: "title"}
			titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
			head.AppendChild(titleNode)
		}
	}

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

func newDiv(class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}
