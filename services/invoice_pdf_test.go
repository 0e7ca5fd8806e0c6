package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officeflow_app_go/models"
)

func testInvoice(lineCount int) *models.Invoice {
	invoice := &models.Invoice{
		InvoiceNumber:    "INV-2026-0001",
		InvoiceDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DueDate:          time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ClientName:       "De Vries Holding B.V.",
		ClientAddress:    "Stationsplein 12",
		ClientPostalCode: "3511 ED",
		ClientCity:       "Utrecht",
		VATDisplay:       models.VATDisplayExclusive,
		Notes:            "Betaling binnen 30 dagen op NL91 ABNA 0417 1643 00.",
	}
	for i := 0; i < lineCount; i++ {
		invoice.LineItems = append(invoice.LineItems, models.InvoiceLineItem{
			Description: fmt.Sprintf("Werkzaamheden week %d", i+1),
			Quantity:    2,
			UnitPrice:   95,
			VATRate:     21,
		})
	}
	return invoice
}

func TestGenerateInvoicePDF(t *testing.T) {
	org := testOrganization()

	t.Run("produces a PDF", func(t *testing.T) {
		data, err := GenerateInvoicePDF(testInvoice(3), org, "modern-blue", PDFOptions{})
		require.NoError(t, err)
		require.NotEmpty(t, data)
		assert.Equal(t, "%PDF", string(data[:4]))
	})

	t.Run("every layout renders", func(t *testing.T) {
		for _, layout := range ListLayouts() {
			data, err := GenerateInvoicePDF(testInvoice(2), org, layout.ID, PDFOptions{})
			require.NoError(t, err, layout.ID)
			assert.NotEmpty(t, data, layout.ID)
		}
	})

	t.Run("long invoice paginates", func(t *testing.T) {
		short, err := GenerateInvoicePDF(testInvoice(2), org, "modern-blue", PDFOptions{})
		require.NoError(t, err)
		long, err := GenerateInvoicePDF(testInvoice(120), org, "modern-blue", PDFOptions{})
		require.NoError(t, err)
		assert.Greater(t, len(long), len(short))
	})

	t.Run("repeat header option", func(t *testing.T) {
		data, err := GenerateInvoicePDF(testInvoice(120), org, "modern-blue", PDFOptions{RepeatHeader: true})
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("text-only rows render", func(t *testing.T) {
		invoice := testInvoice(1)
		invoice.LineItems = append(invoice.LineItems, models.InvoiceLineItem{
			Description: "Reiskosten worden apart gedeclareerd.",
			IsTextOnly:  true,
		})
		data, err := GenerateInvoicePDF(invoice, org, "minimal-clean", PDFOptions{})
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("unknown layout falls back", func(t *testing.T) {
		data, err := GenerateInvoicePDF(testInvoice(1), org, "gone", PDFOptions{})
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})
}

func TestTableRowHeightDerivedFromLineSpacing(t *testing.T) {
	// One padded 9pt line per row, via the shared pt-to-mm conversion
	assert.InDelta(t, 9*pdfLineHeight*0.3528+2*tableCellPadding, tableRowHeight, 0.01)
	assert.Greater(t, tableRowHeight, GetLineSpacing(9, pdfLineHeight))
}

func TestGenerateQuotePDF(t *testing.T) {
	quote := &models.Quote{
		QuoteNumber: "QUO-2026-0004",
		QuoteDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ClientName:  "Bakker & Zonen",
		VATDisplay:  models.VATDisplayInclusive,
		LineItems: []models.QuoteLineItem{
			{Description: "Vooronderzoek", Quantity: 1, UnitPrice: 121, VATRate: 21},
		},
	}

	data, err := GenerateQuotePDF(quote, testOrganization(), "classic-elegant", PDFOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
