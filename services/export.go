package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"officeflow_app_go/models"
)

// ExportInvoicesXLSX writes an organization's invoices to an Excel
// workbook: one row per invoice with its stored totals and status.
func ExportInvoicesXLSX(db *gorm.DB, organizationID string) (*bytes.Buffer, error) {
	var invoices []models.Invoice
	if err := db.Where("organization_id = ?", organizationID).
		Order("invoice_date DESC, invoice_number DESC").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Facturen"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Factuurnummer", "Factuurdatum", "Vervaldatum", "Klant", "Status", "Subtotaal", "BTW", "Totaal"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "H1", headerStyle)

	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	dateFormat := "02-01-2006"

	for i, invoice := range invoices {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), invoice.InvoiceNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), invoice.InvoiceDate.Format(dateFormat))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), invoice.DueDate.Format(dateFormat))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), invoice.ClientName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), invoice.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), invoice.Subtotal)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), invoice.VATAmount)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), invoice.TotalAmount)
		f.SetCellStyle(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("H%d", row), amountStyle)
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "C", 14)
	f.SetColWidth(sheet, "D", "D", 32)
	f.SetColWidth(sheet, "E", "E", 10)
	f.SetColWidth(sheet, "F", "H", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ExportQuotesXLSX writes an organization's quotes to an Excel workbook.
func ExportQuotesXLSX(db *gorm.DB, organizationID string) (*bytes.Buffer, error) {
	var quotes []models.Quote
	if err := db.Where("organization_id = ?", organizationID).
		Order("quote_date DESC, quote_number DESC").
		Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("failed to load quotes: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Offertes"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Offertenummer", "Offertedatum", "Geldig tot", "Klant", "Status", "Subtotaal", "BTW", "Totaal"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "H1", headerStyle)

	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	dateFormat := "02-01-2006"

	for i, quote := range quotes {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), quote.QuoteNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), quote.QuoteDate.Format(dateFormat))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), quote.ValidUntil.Format(dateFormat))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), quote.ClientName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), quote.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), quote.Subtotal)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), quote.VATAmount)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), quote.TotalAmount)
		f.SetCellStyle(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("H%d", row), amountStyle)
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "C", 14)
	f.SetColWidth(sheet, "D", "D", 32)
	f.SetColWidth(sheet, "E", "E", 10)
	f.SetColWidth(sheet, "F", "H", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
