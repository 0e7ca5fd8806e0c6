package services

import (
	"fmt"
	"html"
	"strings"
	"time"

	"officeflow_app_go/models"
)

// VariableCategory represents a group of placeholder variables
type VariableCategory struct {
	Name      string     `json:"name"`
	Variables []Variable `json:"variables"`
}

// Variable represents a single placeholder variable
type Variable struct {
	Key     string `json:"key"`     // e.g., "company.name"
	Label   string `json:"label"`   // Display name
	Example string `json:"example"` // Example value
}

// GetVariableDictionary returns all available placeholder variables
// organized by category, for the template editor's variable picker.
func GetVariableDictionary() []VariableCategory {
	return []VariableCategory{
		{
			Name: "Company",
			Variables: []Variable{
				{Key: "company.name", Label: "Company Name", Example: "Jansen Advocatuur B.V."},
				{Key: "company.address", Label: "Company Address", Example: "Keizersgracht 1"},
				{Key: "company.postal_code", Label: "Postal Code", Example: "1015 CD"},
				{Key: "company.city", Label: "City", Example: "Amsterdam"},
				{Key: "company.country", Label: "Country", Example: "Nederland"},
				{Key: "company.phone", Label: "Phone", Example: "+31 20 123 4567"},
				{Key: "company.email", Label: "Email", Example: "info@jansen.nl"},
				{Key: "company.website", Label: "Website", Example: "www.jansen.nl"},
				{Key: "company.kvk_number", Label: "KvK Number", Example: "12345678"},
				{Key: "company.vat_number", Label: "VAT Number", Example: "NL001234567B01"},
				{Key: "company.iban", Label: "IBAN", Example: "NL91 ABNA 0417 1643 00"},
				{Key: "company.logo", Label: "Company Logo", Example: "(logo image)"},
			},
		},
		{
			Name: "Client",
			Variables: []Variable{
				{Key: "client.name", Label: "Client Name", Example: "De Vries Holding B.V."},
				{Key: "client.email", Label: "Client Email", Example: "administratie@devries.nl"},
				{Key: "client.address", Label: "Client Address", Example: "Stationsplein 12"},
				{Key: "client.postal_code", Label: "Client Postal Code", Example: "3511 ED"},
				{Key: "client.city", Label: "Client City", Example: "Utrecht"},
				{Key: "client.country", Label: "Client Country", Example: "Nederland"},
			},
		},
		{
			Name: "Invoice",
			Variables: []Variable{
				{Key: "invoice.number", Label: "Invoice Number", Example: "INV-2026-0042"},
				{Key: "invoice.date", Label: "Invoice Date", Example: "01-09-2026"},
				{Key: "invoice.due_date", Label: "Due Date", Example: "01-10-2026"},
				{Key: "invoice.payment_terms", Label: "Payment Terms", Example: "30"},
				{Key: "invoice.notes", Label: "Notes", Example: "Betaling binnen 30 dagen."},
				{Key: "invoice.subtotal", Label: "Subtotal", Example: "€ 1.250,00"},
				{Key: "invoice.vat_amount", Label: "VAT Amount", Example: "€ 262,50"},
				{Key: "invoice.total", Label: "Total", Example: "€ 1.512,50"},
				{Key: "invoice.line_items", Label: "Line Items Table", Example: "(table)"},
			},
		},
		{
			Name: "Quote",
			Variables: []Variable{
				{Key: "quote.number", Label: "Quote Number", Example: "QUO-2026-0007"},
				{Key: "quote.date", Label: "Quote Date", Example: "01-09-2026"},
				{Key: "quote.valid_until", Label: "Valid Until", Example: "01-10-2026"},
				{Key: "quote.notes", Label: "Notes", Example: "Geldig tot 30 dagen na dagtekening."},
				{Key: "quote.subtotal", Label: "Subtotal", Example: "€ 1.250,00"},
				{Key: "quote.vat_amount", Label: "VAT Amount", Example: "€ 262,50"},
				{Key: "quote.total", Label: "Total", Example: "€ 1.512,50"},
				{Key: "quote.line_items", Label: "Line Items Table", Example: "(table)"},
			},
		},
		{
			Name: "Dates",
			Variables: []Variable{
				{Key: "today.date", Label: "Today's Date", Example: "01-09-2026"},
				{Key: "today.year", Label: "Current Year", Example: "2026"},
			},
		},
	}
}

const dateLayout = "02-01-2006"

// FormatEUR renders an amount the way documents show money.
func FormatEUR(amount float64) string {
	return fmt.Sprintf("€ %.2f", amount)
}

// BuildOrganizationBag maps an organization's profile onto company.*
// placeholder values. The logo is registered as an image value so text
// contexts substitute the raw URI while markup contexts emit an img tag.
func BuildOrganizationBag(org *models.Organization) DataBag {
	bag := DataBag{}
	if org == nil {
		return bag
	}
	bag.SetText("company.name", org.Name)
	bag.SetText("company.address", org.Address)
	bag.SetText("company.postal_code", org.PostalCode)
	bag.SetText("company.city", org.City)
	bag.SetText("company.country", org.Country)
	bag.SetText("company.phone", org.Phone)
	bag.SetText("company.email", org.Email)
	bag.SetText("company.website", org.Website)
	bag.SetText("company.kvk_number", org.KvKNumber)
	bag.SetText("company.vat_number", org.VATNumber)
	bag.SetText("company.iban", org.IBAN)
	bag.SetText("company.bic", org.BIC)
	bag.SetImage("company.logo", org.LogoURI)
	return bag
}

// BuildTodayBag supplies the current-date placeholders.
func BuildTodayBag(now time.Time) DataBag {
	bag := DataBag{}
	bag.SetText("today.date", now.Format(dateLayout))
	bag.SetText("today.year", now.Format("2006"))
	return bag
}

// BuildInvoiceBag assembles the full placeholder data set for rendering
// an invoice document: company profile, client snapshot, invoice fields,
// recomputed totals and the line-items table.
func BuildInvoiceBag(invoice *models.Invoice, org *models.Organization) DataBag {
	bag := DataBag{}
	bag.SetText("client.name", invoice.ClientName)
	bag.SetText("client.email", invoice.ClientEmail)
	bag.SetText("client.address", invoice.ClientAddress)
	bag.SetText("client.postal_code", invoice.ClientPostalCode)
	bag.SetText("client.city", invoice.ClientCity)
	bag.SetText("client.country", invoice.ClientCountry)

	bag.SetText("invoice.number", invoice.InvoiceNumber)
	bag.SetText("invoice.date", invoice.InvoiceDate.Format(dateLayout))
	bag.SetText("invoice.due_date", invoice.DueDate.Format(dateLayout))
	bag.SetText("invoice.payment_terms", fmt.Sprintf("%d", invoice.PaymentTerms))
	bag.SetText("invoice.notes", invoice.Notes)
	bag.SetText("invoice.status", invoice.Status)

	totals := CalculateTotals(InvoiceLineInputs(invoice.LineItems), invoice.VATDisplay)
	bag.SetText("invoice.subtotal", FormatEUR(totals.Subtotal))
	bag.SetText("invoice.vat_amount", FormatEUR(totals.VATAmount))
	bag.SetText("invoice.total", FormatEUR(totals.Total))
	bag.SetHTML("invoice.line_items", LineItemsTableHTML(InvoiceLineInputs(invoice.LineItems), invoice.VATDisplay))

	return MergeBags(BuildOrganizationBag(org), BuildTodayBag(time.Now()), bag)
}

// BuildQuoteBag assembles the placeholder data set for rendering a quote.
func BuildQuoteBag(quote *models.Quote, org *models.Organization) DataBag {
	bag := DataBag{}
	bag.SetText("client.name", quote.ClientName)
	bag.SetText("client.email", quote.ClientEmail)
	bag.SetText("client.address", quote.ClientAddress)
	bag.SetText("client.postal_code", quote.ClientPostalCode)
	bag.SetText("client.city", quote.ClientCity)
	bag.SetText("client.country", quote.ClientCountry)

	bag.SetText("quote.number", quote.QuoteNumber)
	bag.SetText("quote.date", quote.QuoteDate.Format(dateLayout))
	bag.SetText("quote.valid_until", quote.ValidUntil.Format(dateLayout))
	bag.SetText("quote.notes", quote.Notes)
	bag.SetText("quote.status", quote.Status)

	totals := CalculateTotals(QuoteLineInputs(quote.LineItems), quote.VATDisplay)
	bag.SetText("quote.subtotal", FormatEUR(totals.Subtotal))
	bag.SetText("quote.vat_amount", FormatEUR(totals.VATAmount))
	bag.SetText("quote.total", FormatEUR(totals.Total))
	bag.SetHTML("quote.line_items", LineItemsTableHTML(QuoteLineInputs(quote.LineItems), quote.VATDisplay))

	return MergeBags(BuildOrganizationBag(org), BuildTodayBag(time.Now()), bag)
}

// SampleBag returns example values for every dictionary variable, used
// by template previews when no real record is selected.
func SampleBag() DataBag {
	bag := DataBag{}
	for _, category := range GetVariableCategorySamples() {
		for key, value := range category {
			bag.SetText(key, value)
		}
	}
	return bag
}

// GetVariableCategorySamples flattens the dictionary into key/example
// maps, one per category.
func GetVariableCategorySamples() []map[string]string {
	dictionary := GetVariableDictionary()
	samples := make([]map[string]string, 0, len(dictionary))
	for _, category := range dictionary {
		m := make(map[string]string, len(category.Variables))
		for _, v := range category.Variables {
			m[v.Key] = v.Example
		}
		samples = append(samples, m)
	}
	return samples
}

// LineItemsTableHTML renders the line items as an HTML table compatible
// with the layout stylesheet's table rules. Text-only rows render the
// description across the row with empty amount cells. All cell content
// is escaped.
func LineItemsTableHTML(items []LineInput, vatDisplay string) string {
	var b strings.Builder
	b.WriteString("<table class=\"line-items\"><thead><tr>")
	b.WriteString("<th>Omschrijving</th><th>Aantal</th><th>Prijs</th><th>BTW</th><th>Bedrag</th>")
	b.WriteString("</tr></thead><tbody>")

	if len(items) == 0 {
		b.WriteString("<tr><td colspan=\"5\">Geen regels</td></tr>")
	}

	for _, item := range items {
		if item.IsTextOnly {
			fmt.Fprintf(&b, "<tr><td colspan=\"5\">%s</td></tr>", html.EscapeString(item.Description))
			continue
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%.0f%%</td><td>%s</td></tr>",
			html.EscapeString(item.Description),
			formatQuantity(item.Quantity),
			html.EscapeString(FormatEUR(item.UnitPrice)),
			item.VATRate,
			html.EscapeString(FormatEUR(LineTotal(item))))
	}

	b.WriteString("</tbody></table>")

	totals := CalculateTotals(items, vatDisplay)
	b.WriteString("<table class=\"totals\"><tbody>")
	fmt.Fprintf(&b, "<tr><td>Subtotaal</td><td>%s</td></tr>", html.EscapeString(FormatEUR(totals.Subtotal)))
	fmt.Fprintf(&b, "<tr><td>BTW</td><td>%s</td></tr>", html.EscapeString(FormatEUR(totals.VATAmount)))
	fmt.Fprintf(&b, "<tr><td>Totaal</td><td>%s</td></tr>", html.EscapeString(FormatEUR(totals.Total)))
	b.WriteString("</tbody></table>")

	return b.String()
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
