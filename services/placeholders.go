package services

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// tokenRegex matches {{variable.path}} placeholder tokens
var tokenRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Value is a single data bag entry: a plain string, an image reference
// (data URI or URL) that the image-aware mode turns into an <img> element,
// or a pre-built markup fragment that is spliced into the document as
// elements rather than escaped text.
type Value struct {
	Data  string
	Image bool
	HTML  bool
}

// DataBag maps placeholder identifiers to their values for one render
// call. Bags are assembled fresh per render and never shared between
// concurrent renders.
type DataBag map[string]Value

// SetText stores a plain string value.
func (b DataBag) SetText(key, value string) {
	b[key] = Value{Data: value}
}

// SetImage stores an image value (data URI or URL).
func (b DataBag) SetImage(key, uri string) {
	b[key] = Value{Data: uri, Image: true}
}

// SetHTML stores a markup fragment value. Only system-generated markup
// (the line-items table) belongs here; user input always goes through
// SetText so it cannot smuggle elements into a document.
func (b DataBag) SetHTML(key, markup string) {
	b[key] = Value{Data: markup, HTML: true}
}

// MergeBags combines bags in order; later bags override earlier ones for
// the same key.
func MergeBags(bags ...DataBag) DataBag {
	merged := DataBag{}
	for _, bag := range bags {
		for key, value := range bag {
			merged[key] = value
		}
	}
	return merged
}

// ResolvePlaceholders replaces every {{token}} in the template with its
// bag value in a single pass: resolved values are never re-scanned, so a
// data value containing literal {{x}} text survives unresolved. Missing
// tokens resolve to the empty string so a partially filled form always
// renders. Image values resolve to their raw URI; use ResolveMarkup when
// an <img> element is wanted instead.
func ResolvePlaceholders(template string, bag DataBag) string {
	return tokenRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := tokenKey(match)
		value, ok := bag[key]
		if !ok {
			return ""
		}
		return value.Data
	})
}

// ResolveMarkup is the string counterpart of BuildDocument's node
// substitution, for callers that assemble an HTML fragment without a DOM
// parse: image values become <img> elements with the URI escaped into the
// src attribute, markup values are substituted raw and text values as-is.
// Like ResolvePlaceholders it is a single pass over the template.
func ResolveMarkup(template string, bag DataBag) string {
	return tokenRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := tokenKey(match)
		value, ok := bag[key]
		if !ok {
			return ""
		}
		if value.Image {
			if strings.TrimSpace(value.Data) == "" {
				return ""
			}
			return fmt.Sprintf(`<img src="%s" alt="%s" class="company-logo">`,
				html.EscapeString(value.Data), html.EscapeString(key))
		}
		return value.Data
	})
}

// TokenSet returns the distinct token identifiers present in the template,
// in order of first appearance.
func TokenSet(template string) []string {
	seen := map[string]bool{}
	var tokens []string
	for _, match := range tokenRegex.FindAllString(template, -1) {
		key := tokenKey(match)
		if !seen[key] {
			seen[key] = true
			tokens = append(tokens, key)
		}
	}
	return tokens
}

// tokenKey extracts the identifier from a {{key}} match
func tokenKey(match string) string {
	key := strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{")
	return strings.TrimSpace(key)
}
