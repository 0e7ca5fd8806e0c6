package handlers

import (
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

type quoteRequest struct {
	QuoteNumber string `json:"quote_number"`
	QuoteDate   string `json:"quote_date"`
	ValidUntil  string `json:"valid_until"`

	ContactID        *string `json:"contact_id"`
	ClientName       string  `json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	ClientAddress    string  `json:"client_address"`
	ClientPostalCode string  `json:"client_postal_code"`
	ClientCity       string  `json:"client_city"`
	ClientCountry    string  `json:"client_country"`

	Notes      string `json:"notes"`
	Status     string `json:"status"`
	VATDisplay string `json:"vat_display"`

	LineItems []lineItemRequest `json:"line_items"`
}

func isValidQuoteStatus(status string) bool {
	switch status {
	case models.QuoteStatusDraft, models.QuoteStatusSent, models.QuoteStatusAccepted,
		models.QuoteStatusRejected, models.QuoteStatusExpired:
		return true
	}
	return false
}

func quoteLineItems(items []lineItemRequest, defaultVATRate float64) []models.QuoteLineItem {
	lines := make([]models.QuoteLineItem, 0, len(items))
	for i, item := range items {
		line := models.QuoteLineItem{
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

func applyQuoteTotals(quote *models.Quote) {
	services.ApplyQuoteLineTotals(quote.LineItems)
	totals := services.CalculateTotals(services.QuoteLineInputs(quote.LineItems), quote.VATDisplay)
	quote.Subtotal = totals.Subtotal
	quote.VATAmount = totals.VATAmount
	quote.TotalAmount = totals.Total
}

func applyQuoteClientSnapshot(c echo.Context, quote *models.Quote, req *quoteRequest) error {
	if req.ContactID != nil && *req.ContactID != "" && req.ClientName == "" {
		var contact models.Contact
		if err := middleware.OrgScoped(c, db.DB).First(&contact, "id = ?", *req.ContactID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Contact not found")
		}
		quote.ContactID = req.ContactID
		quote.ClientName = contact.Name
		quote.ClientEmail = contact.Email
		quote.ClientAddress = contact.Address
		quote.ClientPostalCode = contact.PostalCode
		quote.ClientCity = contact.City
		quote.ClientCountry = contact.Country
		return nil
	}

	quote.ContactID = req.ContactID
	quote.ClientName = req.ClientName
	quote.ClientEmail = req.ClientEmail
	quote.ClientAddress = req.ClientAddress
	quote.ClientPostalCode = req.ClientPostalCode
	quote.ClientCity = req.ClientCity
	if req.ClientCountry != "" {
		quote.ClientCountry = req.ClientCountry
	}
	return nil
}

// CreateQuoteHandler creates a quote. An empty validity date defaults to
// thirty days after the quote date.
func CreateQuoteHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	quote := models.Quote{
		OrganizationID: org.ID,
		Status:         models.QuoteStatusDraft,
		VATDisplay:     settings.VATDisplay,
		ClientCountry:  "Nederland",
	}

	if err := applyQuoteClientSnapshot(c, &quote, &req); err != nil {
		return err
	}
	if quote.ClientName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Client name is required")
	}

	if req.VATDisplay != "" {
		if !models.IsValidVATDisplay(req.VATDisplay) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid VAT display mode")
		}
		quote.VATDisplay = req.VATDisplay
	}
	if req.Status != "" {
		if !isValidQuoteStatus(req.Status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		quote.Status = req.Status
	}
	quote.Notes = req.Notes

	quote.QuoteDate = time.Now().Truncate(24 * time.Hour)
	if req.QuoteDate != "" {
		date, err := parseRequestDate(req.QuoteDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid quote date")
		}
		quote.QuoteDate = date
	}

	if req.ValidUntil != "" {
		date, err := parseRequestDate(req.ValidUntil)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid validity date")
		}
		quote.ValidUntil = date
	} else {
		quote.ValidUntil = quote.QuoteDate.AddDate(0, 0, 30)
	}

	quote.QuoteNumber = req.QuoteNumber
	if quote.QuoteNumber == "" {
		number, err := services.NextQuoteNumber(db.DB, org.ID, settings.QuotePrefix)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Error assigning quote number")
		}
		quote.QuoteNumber = number
	}

	quote.LineItems = quoteLineItems(req.LineItems, settings.DefaultVATRate)
	applyQuoteTotals(&quote)

	if err := db.DB.Create(&quote).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating quote")
	}

	return c.JSON(http.StatusCreated, quote)
}

// ListQuotesHandler returns the organization's quotes, newest first
func ListQuotesHandler(c echo.Context) error {
	status := c.QueryParam("status")
	search := c.QueryParam("search")

	query := middleware.OrgScoped(c, db.DB).
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Order("quote_date DESC, quote_number DESC")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		likeSearch := "%" + search + "%"
		query = query.Where("quote_number LIKE ? OR client_name LIKE ?", likeSearch, likeSearch)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching quotes")
	}

	return c.JSON(http.StatusOK, quotes)
}

func loadQuote(c echo.Context, id string) (*models.Quote, error) {
	var quote models.Quote
	err := middleware.OrgScoped(c, db.DB).
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Quote not found")
	}
	return &quote, nil
}

// GetQuoteHandler returns a single quote with its line items
func GetQuoteHandler(c echo.Context) error {
	quote, err := loadQuote(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quote)
}

// UpdateQuoteHandler updates a quote and replaces its line items
func UpdateQuoteHandler(c echo.Context) error {
	quote, err := loadQuote(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := applyQuoteClientSnapshot(c, quote, &req); err != nil {
		return err
	}
	if quote.ClientName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Client name is required")
	}

	if req.QuoteNumber != "" {
		quote.QuoteNumber = req.QuoteNumber
	}
	if req.QuoteDate != "" {
		date, err := parseRequestDate(req.QuoteDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid quote date")
		}
		quote.QuoteDate = date
	}
	if req.ValidUntil != "" {
		date, err := parseRequestDate(req.ValidUntil)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid validity date")
		}
		quote.ValidUntil = date
	}
	if req.VATDisplay != "" {
		if !models.IsValidVATDisplay(req.VATDisplay) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid VAT display mode")
		}
		quote.VATDisplay = req.VATDisplay
	}
	if req.Status != "" {
		if !isValidQuoteStatus(req.Status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
		}
		quote.Status = req.Status
	}
	quote.Notes = req.Notes

	settings, err := loadInvoiceSettings(c, quote.OrganizationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}
	quote.LineItems = quoteLineItems(req.LineItems, settings.DefaultVATRate)
	for i := range quote.LineItems {
		quote.LineItems[i].QuoteID = quote.ID
	}
	applyQuoteTotals(quote)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteLineItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(quote).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating quote")
	}

	return c.JSON(http.StatusOK, quote)
}

// DeleteQuoteHandler soft-deletes a quote
func DeleteQuoteHandler(c echo.Context) error {
	quote, err := loadQuote(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := db.DB.Delete(quote).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting quote")
	}

	return c.NoContent(http.StatusNoContent)
}

// PreviewQuoteHandler renders the quote into a styled HTML page
func PreviewQuoteHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	quote, err := loadQuote(c, c.Param("id"))
	if err != nil {
		return err
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	markup := services.DefaultQuoteTemplate
	layoutID := settings.DefaultLayoutID
	if template := activeTemplate(c, models.DocumentTypeQuote); template != nil {
		markup = template.Content
		layoutID = template.LayoutID
	}

	bag := services.BuildQuoteBag(quote, org)
	html, err := services.RenderPreviewHTML(markup, bag, layoutID, "Offerte "+quote.QuoteNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error rendering preview")
	}

	return c.HTML(http.StatusOK, html)
}

// DownloadQuotePDFHandler draws the quote to a PDF attachment
func DownloadQuotePDFHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	quote, err := loadQuote(c, c.Param("id"))
	if err != nil {
		return err
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	pdf, err := services.GenerateQuotePDF(quote, org, settings.DefaultLayoutID, services.PDFOptions{
		RepeatHeader: settings.RepeatPDFHeader,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error generating PDF")
	}

	filename := fmt.Sprintf("Offerte-%s.pdf", quote.QuoteNumber)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// SendQuoteHandler emails the quote PDF to the client and marks a draft
// quote as sent.
func SendQuoteHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	quote, err := loadQuote(c, c.Param("id"))
	if err != nil {
		return err
	}

	if quote.ClientEmail == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Quote has no client email address")
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	pdf, err := services.GenerateQuotePDF(quote, org, settings.DefaultLayoutID, services.PDFOptions{
		RepeatHeader: settings.RepeatPDFHeader,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error generating PDF")
	}

	archiveDocumentPDF(c, org.ID, quote.QuoteNumber, pdf)

	email, err := services.BuildQuoteEmail(quote, org, pdf)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error building email")
	}
	services.SendEmailAsync(cfg, email)

	if quote.Status == models.QuoteStatusDraft {
		quote.Status = models.QuoteStatusSent
		if err := db.DB.Model(quote).Update("status", quote.Status).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Error updating quote status")
		}
	}

	return c.JSON(http.StatusOK, quote)
}

// ConvertQuoteToInvoiceHandler turns an accepted quote into a draft
// invoice, carrying the client block and line items across unchanged. The
// quote is marked accepted in the same transaction.
func ConvertQuoteToInvoiceHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	quote, err := loadQuote(c, c.Param("id"))
	if err != nil {
		return err
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	number, err := services.NextInvoiceNumber(db.DB, org.ID, settings.InvoicePrefix)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error assigning invoice number")
	}

	invoiceDate := time.Now().Truncate(24 * time.Hour)
	invoice := models.Invoice{
		OrganizationID:   org.ID,
		InvoiceNumber:    number,
		InvoiceDate:      invoiceDate,
		DueDate:          invoiceDate.AddDate(0, 0, settings.DefaultPaymentTerms),
		ContactID:        quote.ContactID,
		ClientName:       quote.ClientName,
		ClientEmail:      quote.ClientEmail,
		ClientAddress:    quote.ClientAddress,
		ClientPostalCode: quote.ClientPostalCode,
		ClientCity:       quote.ClientCity,
		ClientCountry:    quote.ClientCountry,
		Notes:            quote.Notes,
		PaymentTerms:     settings.DefaultPaymentTerms,
		Status:           models.InvoiceStatusDraft,
		VATDisplay:       quote.VATDisplay,
	}

	for _, line := range quote.LineItems {
		invoice.LineItems = append(invoice.LineItems, models.InvoiceLineItem{
			Position:    line.Position,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATRate:     line.VATRate,
			IsTextOnly:  line.IsTextOnly,
		})
	}
	applyInvoiceTotals(&invoice)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return tx.Model(quote).Update("status", models.QuoteStatusAccepted).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error converting quote")
	}

	return c.JSON(http.StatusCreated, invoice)
}

// ExportQuotesHandler returns the quote overview as an XLSX workbook
func ExportQuotesHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	buf, err := services.ExportQuotesXLSX(db.DB, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error exporting quotes")
	}

	filename := fmt.Sprintf("offertes-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
