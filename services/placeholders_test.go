package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePlaceholders(t *testing.T) {
	bag := DataBag{}
	bag.SetText("client.name", "Acme B.V.")
	bag.SetText("invoice.number", "INV-2026-0001")
	bag.SetText("company.city", "Amsterdam")

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "Single token",
			template: "Factuur voor {{client.name}}",
			expected: "Factuur voor Acme B.V.",
		},
		{
			name:     "Multiple tokens",
			template: "{{invoice.number}} — {{client.name}}, {{company.city}}",
			expected: "INV-2026-0001 — Acme B.V., Amsterdam",
		},
		{
			name:     "Token with whitespace",
			template: "{{  client.name  }}",
			expected: "Acme B.V.",
		},
		{
			name:     "Missing token resolves to empty string",
			template: "Hello {{client.missing}}!",
			expected: "Hello !",
		},
		{
			name:     "Repeated token",
			template: "{{company.city}} {{company.city}}",
			expected: "Amsterdam Amsterdam",
		},
		{
			name:     "Malformed token left alone",
			template: "{{client.name",
			expected: "{{client.name",
		},
		{
			name:     "No tokens",
			template: "<p>plain markup</p>",
			expected: "<p>plain markup</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolvePlaceholders(tt.template, bag))
		})
	}
}

func TestResolvePlaceholdersNoDanglingTokens(t *testing.T) {
	template := "{{a}} {{b.c}} {{d_e}} text {{a}}"
	bag := DataBag{}
	bag.SetText("a", "1")

	out := ResolvePlaceholders(template, bag)

	for _, token := range TokenSet(template) {
		assert.NotContains(t, out, "{{"+token+"}}")
	}
}

func TestResolvePlaceholdersSinglePass(t *testing.T) {
	// A value containing literal {{x}} must survive untouched: resolved
	// output is never re-scanned
	bag := DataBag{}
	bag.SetText("note", "use {{secret}} syntax")
	bag.SetText("secret", "LEAKED")

	out := ResolvePlaceholders("note: {{note}}", bag)

	assert.Equal(t, "note: use {{secret}} syntax", out)
	assert.NotContains(t, out, "LEAKED")
}

func TestResolvePlaceholdersImageAsRawURI(t *testing.T) {
	bag := DataBag{}
	bag.SetImage("logo", "https://cdn.example.com/logo.png")

	// Text mode yields the raw URI, for call sites like <img src="{{logo}}">
	assert.Equal(t, "https://cdn.example.com/logo.png", ResolvePlaceholders("{{logo}}", bag))
}

func TestResolveMarkup(t *testing.T) {
	bag := DataBag{}
	bag.SetImage("logo", "data:image/png;base64,AAAA")
	bag.SetText("company.name", "Acme")

	out := ResolveMarkup("{{logo}} {{company.name}}", bag)

	assert.Contains(t, out, `<img src="data:image/png;base64,AAAA"`)
	assert.Contains(t, out, "Acme")
}

func TestResolveMarkupEmptyImage(t *testing.T) {
	bag := DataBag{}
	bag.SetImage("logo", "   ")

	assert.Equal(t, "", ResolveMarkup("{{logo}}", bag))
}

func TestResolveMarkupEscapesImageURI(t *testing.T) {
	bag := DataBag{}
	bag.SetImage("logo", `https://x/"><script>`)

	out := ResolveMarkup("{{logo}}", bag)

	assert.NotContains(t, out, "<script>")
}

func TestMergeBags(t *testing.T) {
	company := DataBag{}
	company.SetText("name", "From company")
	company.SetText("city", "Utrecht")

	user := DataBag{}
	user.SetText("name", "From user")

	record := DataBag{}
	record.SetText("name", "From record")

	merged := MergeBags(company, user, record)

	// Later-merged sources win for the same key
	assert.Equal(t, "From record", merged["name"].Data)
	assert.Equal(t, "Utrecht", merged["city"].Data)
}

func TestTokenSet(t *testing.T) {
	tokens := TokenSet("{{a}} {{b}} {{a}} {{c.d_e}}")
	assert.Equal(t, []string{"a", "b", "c.d_e"}, tokens)
}

func TestResolvePlaceholdersLinearScaling(t *testing.T) {
	// Large templates resolve without re-scanning; this mostly guards
	// against accidentally introducing a resolve-until-fixpoint loop
	bag := DataBag{}
	bag.SetText("x", "{{x}}")

	template := strings.Repeat("{{x}} ", 1000)
	out := ResolvePlaceholders(template, bag)

	assert.Equal(t, 1000, strings.Count(out, "{{x}}"))
}
