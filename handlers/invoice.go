package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"officeflow_app_go/config"
	"officeflow_app_go/db"
	"officeflow_app_go/middleware"
	"officeflow_app_go/models"
	"officeflow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type invoiceRequest struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`

	ContactID        *string `json:"contact_id"`
	ClientName       string  `json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	ClientAddress    string  `json:"client_address"`
	ClientPostalCode string  `json:"client_postal_code"`
	ClientCity       string  `json:"client_city"`
	ClientCountry    string  `json:"client_country"`

	Notes        string `json:"notes"`
	PaymentTerms *int   `json:"payment_terms"`
	Status       string `json:"status"`
	VATDisplay   string `json:"vat_display"`

	LineItems []lineItemRequest `json:"line_items"`
}

const requestDateLayout = "2006-01-02"

func parseRequestDate(value string) (time.Time, error) {
	return time.Parse(requestDateLayout, value)
}

// applyClientSnapshot copies the billing party from a contact unless the
// request carries explicit client fields.
func applyClientSnapshot(c echo.Context, invoice *models.Invoice, req *invoiceRequest) error {
	if req.ContactID != nil && *req.ContactID != "" && req.ClientName == "" {
		var contact models.Contact
		if err := middleware.OrgScoped(c, db.DB).First(&contact, "id = ?", *req.ContactID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Contact not found")
		}
		invoice.ContactID = req.ContactID
		invoice.ClientName = contact.Name
		invoice.ClientEmail = contact.Email
		invoice.ClientAddress = contact.Address
		invoice.ClientPostalCode = contact.PostalCode
		invoice.ClientCity = contact.City
		invoice.ClientCountry = contact.Country
		return nil
	}

	invoice.ContactID = req.ContactID
	invoice.ClientName = req.ClientName
	invoice.ClientEmail = req.ClientEmail
	invoice.ClientAddress = req.ClientAddress
	invoice.ClientPostalCode = req.ClientPostalCode
	invoice.ClientCity = req.ClientCity
	if req.ClientCountry != "" {
		invoice.ClientCountry = req.ClientCountry
	}
	return nil
}

func invoiceLineItems(items []lineItemRequest, defaultVATRate float64) []models.InvoiceLineItem {
	lines := make([]models.InvoiceLineItem, 0, len(items))
	for i, item := range items {
		line := models.InvoiceLineItem{
			Position:    i,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			IsTextOnly:  item.IsTextOnly,
		}
		if line.VATRate == 0 && !line.IsTextOnly {
			line.VATRate = defaultVATRate
		}
		lines = append(lines, line)
	}
	return lines
}

// applyInvoiceTotals recomputes the stored totals triple and line total
// caches from the line items. Totals are never taken from the request.
func applyInvoiceTotals(invoice *models.Invoice) {
	services.ApplyLineTotals(invoice.LineItems)
	totals := services.CalculateTotals(services.InvoiceLineInputs(invoice.LineItems), invoice.VATDisplay)
	invoice.Subtotal = totals.Subtotal
	invoice.VATAmount = totals.VATAmount
	invoice.TotalAmount = totals.Total
}

// CreateInvoiceHandler creates an invoice. Missing fields fall back to the
// organization's invoicing defaults, and an empty number gets the next one
// in this year's sequence.
func CreateInvoiceHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	invoice := models.Invoice{
		OrganizationID: org.ID,
		Status:         models.InvoiceStatusDraft,
		PaymentTerms:   settings.DefaultPaymentTerms,
		VATDisplay:     settings.VATDisplay,
		ClientCountry:  "Nederland",
	}

	if err := applyClientSnapshot(c, &invoice, &req); err != nil {
		return err
	}
	if invoice.ClientName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Client name is required")
	}

	if req.PaymentTerms != nil {
		invoice.PaymentTerms = *req.PaymentTerms
	}
	if req.VATDisplay != "" {
		if !models.IsValidVATDisplay(req.VATDisplay) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid VAT display mode")
		}
		invoice.VATDisplay = req.VATDisplay
	}
	if req.Status != "" {
		if !models.IsValidInvoiceStatus(req.Status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		invoice.Status = req.Status
	}
	invoice.Notes = req.Notes

	invoice.InvoiceDate = time.Now().Truncate(24 * time.Hour)
	if req.InvoiceDate != "" {
		date, err := parseRequestDate(req.InvoiceDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid invoice date")
		}
		invoice.InvoiceDate = date
	}

	if req.DueDate != "" {
		date, err := parseRequestDate(req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid due date")
		}
		invoice.DueDate = date
	} else {
		invoice.DueDate = invoice.InvoiceDate.AddDate(0, 0, invoice.PaymentTerms)
	}

	invoice.InvoiceNumber = req.InvoiceNumber
	if invoice.InvoiceNumber == "" {
		number, err := services.NextInvoiceNumber(db.DB, org.ID, settings.InvoicePrefix)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Error assigning invoice number")
		}
		invoice.InvoiceNumber = number
	}

	invoice.LineItems = invoiceLineItems(req.LineItems, settings.DefaultVATRate)
	applyInvoiceTotals(&invoice)

	if err := db.DB.Create(&invoice).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating invoice")
	}

	return c.JSON(http.StatusCreated, invoice)
}

// ListInvoicesHandler returns the organization's invoices, newest first
func ListInvoicesHandler(c echo.Context) error {
	status := c.QueryParam("status")
	search := c.QueryParam("search")

	query := middleware.OrgScoped(c, db.DB).
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Order("invoice_date DESC, invoice_number DESC")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		likeSearch := "%" + search + "%"
		query = query.Where("invoice_number LIKE ? OR client_name LIKE ?", likeSearch, likeSearch)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching invoices")
	}

	return c.JSON(http.StatusOK, invoices)
}

func loadInvoice(c echo.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := middleware.OrgScoped(c, db.DB).
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	}
	return &invoice, nil
}

// GetInvoiceHandler returns a single invoice with its line items
func GetInvoiceHandler(c echo.Context) error {
	invoice, err := loadInvoice(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoiceHandler updates an invoice and replaces its line items,
// recomputing the stored totals in the same transaction.
func UpdateInvoiceHandler(c echo.Context) error {
	invoice, err := loadInvoice(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := applyClientSnapshot(c, invoice, &req); err != nil {
		return err
	}
	if invoice.ClientName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Client name is required")
	}

	if req.InvoiceNumber != "" {
		invoice.InvoiceNumber = req.InvoiceNumber
	}
	if req.InvoiceDate != "" {
		date, err := parseRequestDate(req.InvoiceDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid invoice date")
		}
		invoice.InvoiceDate = date
	}
	if req.DueDate != "" {
		date, err := parseRequestDate(req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid due date")
		}
		invoice.DueDate = date
	}
	if req.PaymentTerms != nil {
		invoice.PaymentTerms = *req.PaymentTerms
	}
	if req.VATDisplay != "" {
		if !models.IsValidVATDisplay(req.VATDisplay) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid VAT display mode")
		}
		invoice.VATDisplay = req.VATDisplay
	}
	if req.Status != "" {
		if !models.IsValidInvoiceStatus(req.Status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		invoice.Status = req.Status
	}
	invoice.Notes = req.Notes

	settings, err := loadInvoiceSettings(c, invoice.OrganizationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}
	invoice.LineItems = invoiceLineItems(req.LineItems, settings.DefaultVATRate)
	for i := range invoice.LineItems {
		invoice.LineItems[i].InvoiceID = invoice.ID
	}
	applyInvoiceTotals(invoice)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceLineItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoiceHandler soft-deletes an invoice
func DeleteInvoiceHandler(c echo.Context) error {
	invoice, err := loadInvoice(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := db.DB.Delete(invoice).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting invoice")
	}

	return c.NoContent(http.StatusNoContent)
}

// PreviewInvoiceHandler renders the invoice into a styled HTML page using
// the active invoice template, or the built-in one when none is stored.
func PreviewInvoiceHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	invoice, err := loadInvoice(c, c.Param("id"))
	if err != nil {
		return err
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	markup := services.DefaultInvoiceTemplate
	layoutID := settings.DefaultLayoutID
	if template := activeTemplate(c, models.DocumentTypeInvoice); template != nil {
		markup = template.Content
		layoutID = template.LayoutID
	}

	bag := services.BuildInvoiceBag(invoice, org)
	html, err := services.RenderPreviewHTML(markup, bag, layoutID, "Factuur "+invoice.InvoiceNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error rendering preview")
	}

	return c.HTML(http.StatusOK, html)
}

// DownloadInvoicePDFHandler draws the invoice to a PDF and returns it as
// an attachment.
func DownloadInvoicePDFHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	invoice, err := loadInvoice(c, c.Param("id"))
	if err != nil {
		return err
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	pdf, err := services.GenerateInvoicePDF(invoice, org, settings.DefaultLayoutID, services.PDFOptions{
		RepeatHeader: settings.RepeatPDFHeader,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error generating PDF")
	}

	filename := fmt.Sprintf("Factuur-%s.pdf", invoice.InvoiceNumber)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// SendInvoiceHandler emails the invoice PDF to the client and marks a
// draft invoice as sent. A copy of the PDF is archived through the storage
// provider when one is configured.
func SendInvoiceHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	invoice, err := loadInvoice(c, c.Param("id"))
	if err != nil {
		return err
	}

	if invoice.ClientEmail == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invoice has no client email address")
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	pdf, err := services.GenerateInvoicePDF(invoice, org, settings.DefaultLayoutID, services.PDFOptions{
		RepeatHeader: settings.RepeatPDFHeader,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error generating PDF")
	}

	archiveDocumentPDF(c, org.ID, invoice.InvoiceNumber, pdf)

	email, err := services.BuildInvoiceEmail(invoice, org, pdf)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error building email")
	}
	services.SendEmailAsync(cfg, email)

	if invoice.Status == models.InvoiceStatusDraft {
		invoice.Status = models.InvoiceStatusSent
		if err := db.DB.Model(invoice).Update("status", invoice.Status).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Error updating invoice status")
		}
	}

	return c.JSON(http.StatusOK, invoice)
}

// archiveDocumentPDF keeps a copy of a sent document in object storage.
// Failure to archive never blocks the send itself.
func archiveDocumentPDF(c echo.Context, orgID, documentNumber string, pdf []byte) {
	if services.Storage == nil || !services.Storage.IsConfigured() {
		return
	}

	key := services.GenerateDocumentKey(orgID, documentNumber)
	if _, err := services.Storage.UploadReader(c.Request().Context(), bytes.NewReader(pdf), key, "application/pdf", int64(len(pdf))); err != nil {
		c.Logger().Warnf("Failed to archive document %s: %v", documentNumber, err)
	}
}

// ExportInvoicesHandler returns the invoice overview as an XLSX workbook
func ExportInvoicesHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	buf, err := services.ExportInvoicesXLSX(db.DB, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error exporting invoices")
	}

	filename := fmt.Sprintf("facturen-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
