package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officeflow_app_go/models"
)

func testOrganization() *models.Organization {
	return &models.Organization{
		Name:       "Jansen Advocatuur B.V.",
		Address:    "Keizersgracht 1",
		PostalCode: "1015 CD",
		City:       "Amsterdam",
		Country:    "Nederland",
		Phone:      "+31 20 123 4567",
		Email:      "info@jansen.nl",
		Website:    "www.jansen.nl",
		KvKNumber:  "12345678",
		VATNumber:  "NL001234567B01",
		IBAN:       "NL91 ABNA 0417 1643 00",
		LogoURI:    "https://cdn.example.com/logo.png",
	}
}

func TestGetVariableDictionary(t *testing.T) {
	dictionary := GetVariableDictionary()
	require.NotEmpty(t, dictionary)

	seen := make(map[string]bool)
	for _, category := range dictionary {
		assert.NotEmpty(t, category.Name)
		for _, v := range category.Variables {
			assert.False(t, seen[v.Key], "duplicate key %s", v.Key)
			seen[v.Key] = true
			assert.NotEmpty(t, v.Label, v.Key)
			assert.NotEmpty(t, v.Example, v.Key)
		}
	}
	assert.True(t, seen["company.name"])
	assert.True(t, seen["invoice.line_items"])
	assert.True(t, seen["quote.number"])
}

func TestBuildOrganizationBag(t *testing.T) {
	bag := BuildOrganizationBag(testOrganization())

	assert.Equal(t, "Jansen Advocatuur B.V.", ResolvePlaceholders("{{company.name}}", bag))
	assert.Equal(t, "1015 CD Amsterdam", ResolvePlaceholders("{{company.postal_code}} {{company.city}}", bag))

	// logo is an image value: raw URI in text, img element in markup
	assert.Equal(t, "https://cdn.example.com/logo.png", ResolvePlaceholders("{{company.logo}}", bag))
	markup := ResolveMarkup("{{company.logo}}", bag)
	assert.Contains(t, markup, "<img")
	assert.Contains(t, markup, "https://cdn.example.com/logo.png")

	t.Run("nil organization", func(t *testing.T) {
		bag := BuildOrganizationBag(nil)
		assert.Equal(t, "", ResolvePlaceholders("{{company.name}}", bag))
	})
}

func TestBuildInvoiceBag(t *testing.T) {
	invoice := &models.Invoice{
		InvoiceNumber: "INV-2026-0042",
		InvoiceDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		PaymentTerms:  30,
		ClientName:    "De Vries Holding B.V.",
		ClientCity:    "Utrecht",
		VATDisplay:    models.VATDisplayExclusive,
		LineItems: []models.InvoiceLineItem{
			{Description: "Advieswerk", Quantity: 2, UnitPrice: 10, VATRate: 21},
		},
	}

	bag := BuildInvoiceBag(invoice, testOrganization())

	assert.Equal(t, "INV-2026-0042", ResolvePlaceholders("{{invoice.number}}", bag))
	assert.Equal(t, "01-09-2026", ResolvePlaceholders("{{invoice.date}}", bag))
	assert.Equal(t, "01-10-2026", ResolvePlaceholders("{{invoice.due_date}}", bag))
	assert.Equal(t, "30", ResolvePlaceholders("{{invoice.payment_terms}}", bag))
	assert.Equal(t, "De Vries Holding B.V.", ResolvePlaceholders("{{client.name}}", bag))
	assert.Equal(t, "€ 20.00", ResolvePlaceholders("{{invoice.subtotal}}", bag))
	assert.Equal(t, "€ 4.20", ResolvePlaceholders("{{invoice.vat_amount}}", bag))
	assert.Equal(t, "€ 24.20", ResolvePlaceholders("{{invoice.total}}", bag))

	// company profile is merged in
	assert.Equal(t, "Jansen Advocatuur B.V.", ResolvePlaceholders("{{company.name}}", bag))

	table := ResolvePlaceholders("{{invoice.line_items}}", bag)
	assert.Contains(t, table, "<table")
	assert.Contains(t, table, "Advieswerk")
}

func TestBuildQuoteBag(t *testing.T) {
	quote := &models.Quote{
		QuoteNumber: "QUO-2026-0007",
		QuoteDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ClientName:  "Bakker & Zonen",
		VATDisplay:  models.VATDisplayInclusive,
		LineItems: []models.QuoteLineItem{
			{Description: "Vooronderzoek", Quantity: 1, UnitPrice: 121, VATRate: 21},
		},
	}

	bag := BuildQuoteBag(quote, testOrganization())

	assert.Equal(t, "QUO-2026-0007", ResolvePlaceholders("{{quote.number}}", bag))
	assert.Equal(t, "01-10-2026", ResolvePlaceholders("{{quote.valid_until}}", bag))
	assert.Equal(t, "€ 121.00", ResolvePlaceholders("{{quote.total}}", bag))
	assert.Equal(t, "€ 100.00", ResolvePlaceholders("{{quote.subtotal}}", bag))
}

func TestSampleBag(t *testing.T) {
	bag := SampleBag()
	for _, category := range GetVariableDictionary() {
		for _, v := range category.Variables {
			assert.NotEqual(t, "", ResolvePlaceholders("{{"+v.Key+"}}", bag), v.Key)
		}
	}
}

func TestLineItemsTableHTML(t *testing.T) {
	t.Run("escapes cell content", func(t *testing.T) {
		items := []LineInput{
			{Description: "Advies <script>alert(1)</script>", Quantity: 1, UnitPrice: 100, VATRate: 21},
		}
		out := LineItemsTableHTML(items, models.VATDisplayExclusive)
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "&lt;script&gt;")
	})

	t.Run("text-only row spans the table", func(t *testing.T) {
		items := []LineInput{
			{Description: "Toelichting op de werkzaamheden", IsTextOnly: true, Quantity: 1, UnitPrice: 999},
			{Description: "Uurtarief", Quantity: 2, UnitPrice: 50, VATRate: 21},
		}
		out := LineItemsTableHTML(items, models.VATDisplayExclusive)
		assert.Contains(t, out, "colspan=\"5\">Toelichting")
		assert.NotContains(t, out, "999")
		assert.Contains(t, out, "€ 100.00") // subtotal excludes the text row
	})

	t.Run("empty items", func(t *testing.T) {
		out := LineItemsTableHTML(nil, models.VATDisplayExclusive)
		assert.Contains(t, out, "Geen regels")
		assert.Contains(t, out, "€ 0.00")
	})

	t.Run("quantity formatting", func(t *testing.T) {
		items := []LineInput{
			{Description: "Uren", Quantity: 2.5, UnitPrice: 80, VATRate: 21},
			{Description: "Stuks", Quantity: 3, UnitPrice: 10, VATRate: 9},
		}
		out := LineItemsTableHTML(items, models.VATDisplayExclusive)
		assert.Contains(t, out, "<td>2.50</td>")
		assert.Contains(t, out, "<td>3</td>")
	})

	t.Run("totals block present", func(t *testing.T) {
		out := LineItemsTableHTML([]LineInput{{Quantity: 1, UnitPrice: 100, VATRate: 21}}, models.VATDisplayExclusive)
		for _, label := range []string{"Subtotaal", "BTW", "Totaal"} {
			assert.True(t, strings.Contains(out, label), label)
		}
		assert.Contains(t, out, "€ 121.00")
	})
}
