package services

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"officeflow_app_go/models"
)

const (
	pdfPageWidth  = 210.0 // A4 portrait, mm
	pdfPageHeight = 297.0
	pdfMargin     = 15.0

	pdfLineHeight    = 1.4 // matches the layout stylesheets' line-height
	tableCellPadding = 2.0
)

// tableRowHeight fits one padded 9pt text line per table row.
var tableRowHeight = GetLineSpacing(9, pdfLineHeight) + 2*tableCellPadding

// PDFOptions controls document-level PDF behavior.
type PDFOptions struct {
	// RepeatHeader redraws the company header band on every page
	// instead of only the first.
	RepeatHeader bool
}

type documentMeta struct {
	Title      string
	Number     string
	DateLabel  string
	Date       time.Time
	ExtraLabel string
	ExtraDate  time.Time
	Client     []string
	Notes      string
}

// GenerateInvoicePDF draws an invoice as a native PDF using the layout's
// style tokens for colors, font and header treatment.
func GenerateInvoicePDF(invoice *models.Invoice, org *models.Organization, layoutID string, opts PDFOptions) ([]byte, error) {
	meta := documentMeta{
		Title:      "FACTUUR",
		Number:     invoice.InvoiceNumber,
		DateLabel:  "Factuurdatum",
		Date:       invoice.InvoiceDate,
		ExtraLabel: "Vervaldatum",
		ExtraDate:  invoice.DueDate,
		Client:     clientAddressLines(invoice.ClientName, invoice.ClientAddress, invoice.ClientPostalCode, invoice.ClientCity, invoice.ClientCountry),
		Notes:      invoice.Notes,
	}
	return generateDocumentPDF(meta, InvoiceLineInputs(invoice.LineItems), invoice.VATDisplay, org, layoutID, opts)
}

// GenerateQuotePDF draws a quote as a native PDF.
func GenerateQuotePDF(quote *models.Quote, org *models.Organization, layoutID string, opts PDFOptions) ([]byte, error) {
	meta := documentMeta{
		Title:      "OFFERTE",
		Number:     quote.QuoteNumber,
		DateLabel:  "Offertedatum",
		Date:       quote.QuoteDate,
		ExtraLabel: "Geldig tot",
		ExtraDate:  quote.ValidUntil,
		Client:     clientAddressLines(quote.ClientName, quote.ClientAddress, quote.ClientPostalCode, quote.ClientCity, quote.ClientCountry),
		Notes:      quote.Notes,
	}
	return generateDocumentPDF(meta, QuoteLineInputs(quote.LineItems), quote.VATDisplay, org, layoutID, opts)
}

func clientAddressLines(name, address, postalCode, city, country string) []string {
	lines := []string{}
	if name != "" {
		lines = append(lines, name)
	}
	if address != "" {
		lines = append(lines, address)
	}
	if postalCode != "" && city != "" {
		lines = append(lines, fmt.Sprintf("%s %s", postalCode, city))
	}
	if country != "" && country != "Nederland" {
		lines = append(lines, country)
	}
	return lines
}

type pdfBuilder struct {
	pdf    *fpdf.Fpdf
	tokens StyleTokenSet
	org    *models.Organization
	opts   PDFOptions

	// tr maps UTF-8 to the cp1252 range the core fonts cover, which
	// includes the euro sign and Dutch diacritics.
	tr           func(string) string
	font         string
	contentWidth float64
	y            float64
}

func (b *pdfBuilder) text(x, y float64, s string) {
	b.pdf.Text(x, y, b.tr(s))
}

func generateDocumentPDF(meta documentMeta, lines []LineInput, vatDisplay string, org *models.Organization, layoutID string, opts PDFOptions) ([]byte, error) {
	tokens := GetStyleTokens(layoutID)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(fmt.Sprintf("%s %s", meta.Title, meta.Number), true)

	b := &pdfBuilder{
		pdf:          pdf,
		tokens:       tokens,
		org:          org,
		opts:         opts,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		font:         coreFont(tokens.Font),
		contentWidth: pdfPageWidth - 2*pdfMargin,
	}

	b.addPage()
	b.drawMeta(meta)
	b.drawLineTable(lines)
	b.drawTotals(lines, vatDisplay)
	b.drawNotes(meta.Notes)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// coreFont maps a layout's web font onto one of the built-in PDF fonts.
func coreFont(font string) string {
	switch font {
	case "Times New Roman", "Georgia":
		return "Times"
	default:
		return "Helvetica"
	}
}

// rgbOrFallback parses a layout color, falling back to near-black when
// the stored value is malformed so a bad record still produces a PDF.
func rgbOrFallback(hex string) (int, int, int) {
	r, g, bl, err := HexToRGB(hex)
	if err != nil {
		log.Printf("[WARNING] Invalid layout color %q, using fallback", hex)
		return 31, 41, 55
	}
	return r, g, bl
}

func (b *pdfBuilder) addPage() {
	b.pdf.AddPage()
	if b.pdf.PageNo() == 1 || b.opts.RepeatHeader {
		b.drawHeader()
		b.y = pdfMargin + PxToMm(100) + 10
	} else {
		b.y = pdfMargin + 10
	}
}

// drawHeader renders the company band the way the HTML header renders:
// a filled rectangle for colored layouts, an outlined one for bordered
// layouts, plain text otherwise. Geometry comes from the shared
// px-to-mm conversion so the PDF matches the on-screen preview.
func (b *pdfBuilder) drawHeader() {
	r, g, bl := rgbOrFallback(b.tokens.PrimaryColor)
	headerHeight := PxToMm(100)

	switch b.tokens.HeaderStyle {
	case "colored":
		b.pdf.SetFillColor(r, g, bl)
		b.pdf.Rect(pdfMargin, pdfMargin, b.contentWidth, headerHeight, "F")
		b.pdf.SetTextColor(255, 255, 255)
	case "bordered":
		b.pdf.SetLineWidth(PxToMm(2))
		b.pdf.SetDrawColor(r, g, bl)
		b.pdf.Rect(pdfMargin, pdfMargin, b.contentWidth, headerHeight, "D")
		b.pdf.SetTextColor(r, g, bl)
	default:
		b.pdf.SetTextColor(r, g, bl)
	}

	plan := RenderHeaderGeometry(b.tokens, b.org, pdfPageWidth, pdfMargin)

	b.pdf.SetFont(b.font, "B", 20)
	b.textAligned(plan.Name.Text, plan.Name.X, plan.Name.Y, plan.Name.Align)

	b.pdf.SetFont(b.font, "", 10)
	if b.tokens.HeaderStyle == "colored" {
		b.pdf.SetTextColor(255, 255, 255)
	} else {
		b.pdf.SetTextColor(120, 120, 120)
	}
	for _, line := range plan.Lines {
		b.textAligned(line.Text, line.X, line.Y, line.Align)
	}
}

// textAligned places text at an absolute position, adjusting x for the
// requested alignment using the rendered string width.
func (b *pdfBuilder) textAligned(text string, x, y float64, align string) {
	s := b.tr(text)
	w := b.pdf.GetStringWidth(s)
	switch align {
	case "center":
		x -= w / 2
	case "right":
		x -= w
	}
	b.pdf.Text(x, y, s)
}

func (b *pdfBuilder) drawMeta(meta documentMeta) {
	r, g, bl := rgbOrFallback(b.tokens.PrimaryColor)

	b.pdf.SetTextColor(r, g, bl)
	b.pdf.SetFont(b.font, "B", 16)
	b.text(pdfMargin, b.y, meta.Title)

	b.pdf.SetTextColor(60, 60, 60)
	b.pdf.SetFont(b.font, "", 10)
	metaX := pdfPageWidth - pdfMargin
	lineStep := GetLineSpacing(10, pdfLineHeight)
	b.textAligned(fmt.Sprintf("Nummer: %s", meta.Number), metaX, b.y-2*lineStep, "right")
	b.textAligned(fmt.Sprintf("%s: %s", meta.DateLabel, meta.Date.Format("02-01-2006")), metaX, b.y-lineStep, "right")
	b.textAligned(fmt.Sprintf("%s: %s", meta.ExtraLabel, meta.ExtraDate.Format("02-01-2006")), metaX, b.y, "right")
	b.y += 12

	for _, line := range meta.Client {
		b.text(pdfMargin, b.y, line)
		b.y += lineStep
	}
	b.y += 8
}

func (b *pdfBuilder) columnWidths() []float64 {
	// description, quantity, unit price, VAT rate, line total
	return []float64{b.contentWidth * 0.44, b.contentWidth * 0.12, b.contentWidth * 0.16, b.contentWidth * 0.12, b.contentWidth * 0.16}
}

func (b *pdfBuilder) drawTableHeader() {
	r, g, bl := rgbOrFallback(b.tokens.PrimaryColor)
	widths := b.columnWidths()
	headers := []string{"Omschrijving", "Aantal", "Prijs", "BTW", "Bedrag"}

	b.pdf.SetFillColor(r, g, bl)
	b.pdf.SetTextColor(255, 255, 255)
	b.pdf.SetFont(b.font, "B", 9)
	x := pdfMargin
	for i, h := range headers {
		b.pdf.Rect(x, b.y, widths[i], tableRowHeight, "F")
		b.text(x+tableCellPadding, b.y+tableRowHeight-2.5, h)
		x += widths[i]
	}
	b.y += tableRowHeight
}

func (b *pdfBuilder) drawLineTable(lines []LineInput) {
	b.drawTableHeader()

	sr, sg, sb := rgbOrFallback(b.tokens.SecondaryColor)
	b.pdf.SetTextColor(40, 40, 40)
	b.pdf.SetFont(b.font, "", 9)

	borderWidth := 0.2
	switch b.tokens.BorderStyle {
	case "bold":
		borderWidth = 0.5
	case "none":
		borderWidth = 0
	}

	widths := b.columnWidths()
	for _, line := range lines {
		if b.y+tableRowHeight > pdfPageHeight-pdfMargin-40 {
			b.addPage()
			b.drawTableHeader()
			b.pdf.SetTextColor(40, 40, 40)
			b.pdf.SetFont(b.font, "", 9)
		}

		if borderWidth > 0 {
			b.pdf.SetLineWidth(borderWidth)
			b.pdf.SetDrawColor(sr, sg, sb)
			b.pdf.Line(pdfMargin, b.y+tableRowHeight, pdfMargin+b.contentWidth, b.y+tableRowHeight)
		}

		textY := b.y + tableRowHeight - 2.5
		if line.IsTextOnly {
			b.text(pdfMargin+tableCellPadding, textY, line.Description)
			b.y += tableRowHeight
			continue
		}

		x := pdfMargin
		b.text(x+tableCellPadding, textY, line.Description)
		x += widths[0]
		b.textAligned(formatQuantity(line.Quantity), x+widths[1]-tableCellPadding, textY, "right")
		x += widths[1]
		b.textAligned(FormatEUR(line.UnitPrice), x+widths[2]-tableCellPadding, textY, "right")
		x += widths[2]
		b.textAligned(fmt.Sprintf("%.0f%%", line.VATRate), x+widths[3]-tableCellPadding, textY, "right")
		x += widths[3]
		b.textAligned(FormatEUR(LineTotal(line)), x+widths[4]-tableCellPadding, textY, "right")
		b.y += tableRowHeight
	}
	b.y += 6
}

func (b *pdfBuilder) drawTotals(lines []LineInput, vatDisplay string) {
	if b.y+3*tableRowHeight > pdfPageHeight-pdfMargin {
		b.addPage()
	}

	totals := CalculateTotals(lines, vatDisplay)
	labelX := pdfPageWidth - pdfMargin - 60
	valueX := pdfPageWidth - pdfMargin

	b.pdf.SetTextColor(60, 60, 60)
	b.pdf.SetFont(b.font, "", 10)
	b.text(labelX, b.y, "Subtotaal")
	b.textAligned(FormatEUR(totals.Subtotal), valueX, b.y, "right")
	b.y += GetLineSpacing(10, pdfLineHeight)
	b.text(labelX, b.y, "BTW")
	b.textAligned(FormatEUR(totals.VATAmount), valueX, b.y, "right")
	b.y += GetLineSpacing(11, pdfLineHeight)

	r, g, bl := rgbOrFallback(b.tokens.PrimaryColor)
	b.pdf.SetTextColor(r, g, bl)
	b.pdf.SetFont(b.font, "B", 11)
	b.text(labelX, b.y, "Totaal")
	b.textAligned(FormatEUR(totals.Total), valueX, b.y, "right")
	b.y += 12
}

func (b *pdfBuilder) drawNotes(notes string) {
	if notes == "" {
		return
	}
	if b.y > pdfPageHeight-pdfMargin-20 {
		b.addPage()
	}
	b.pdf.SetTextColor(100, 100, 100)
	b.pdf.SetFont(b.font, "I", 9)
	b.pdf.SetXY(pdfMargin, b.y-4)
	b.pdf.MultiCell(b.contentWidth, GetLineSpacing(9, pdfLineHeight), b.tr(notes), "", "L", false)
}
