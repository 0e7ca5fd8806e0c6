package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"officeflow_app_go/config"
	"officeflow_app_go/db"
	"officeflow_app_go/middleware"
	"officeflow_app_go/models"
	"officeflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetOrganizationHandler returns the current organization profile
func GetOrganizationHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}
	return c.JSON(http.StatusOK, org)
}

type organizationRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Website    string `json:"website"`
	KvKNumber  string `json:"kvk_number"`
	VATNumber  string `json:"vat_number"`
	IBAN       string `json:"iban"`
	BIC        string `json:"bic"`
}

// UpdateOrganizationHandler updates the company profile printed on documents
func UpdateOrganizationHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	var req organizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	org.Name = req.Name
	org.Address = req.Address
	org.PostalCode = req.PostalCode
	org.City = req.City
	if req.Country != "" {
		org.Country = req.Country
	}
	org.Phone = req.Phone
	org.Email = req.Email
	org.Website = req.Website
	org.KvKNumber = req.KvKNumber
	org.VATNumber = req.VATNumber
	org.IBAN = req.IBAN
	org.BIC = req.BIC

	if err := db.DB.Save(org).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating organization")
	}

	return c.JSON(http.StatusOK, org)
}

var allowedLogoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UploadLogoHandler stores the company logo through the storage provider
// and records its key and public URI on the organization.
func UploadLogoHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Logo file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedLogoExtensions[ext] {
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported logo file type")
	}

	// Fixed key per organization, so a re-upload replaces the old logo
	key := services.GenerateLogoKey(org.ID, file.Filename)
	if org.LogoKey != "" && org.LogoKey != key {
		if err := services.Storage.Delete(c.Request().Context(), org.LogoKey); err != nil {
			c.Logger().Warnf("Failed to delete previous logo %s: %v", org.LogoKey, err)
		}
	}

	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error uploading logo")
	}

	org.LogoKey = result.Key
	org.LogoURI = result.URL
	if err := db.DB.Save(org).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error saving organization")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"logo_key": org.LogoKey,
		"logo_uri": org.LogoURI,
	})
}

// DeleteLogoHandler removes the stored logo
func DeleteLogoHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	if org.LogoKey != "" {
		if err := services.Storage.Delete(c.Request().Context(), org.LogoKey); err != nil {
			c.Logger().Warnf("Failed to delete logo %s: %v", org.LogoKey, err)
		}
	}

	org.LogoKey = ""
	org.LogoURI = ""
	if err := db.DB.Save(org).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error saving organization")
	}

	return c.NoContent(http.StatusNoContent)
}

// loadInvoiceSettings returns the organization's invoicing defaults,
// creating the row on first access. The seed values come from the
// deployment config where set, with model defaults as fallback.
func loadInvoiceSettings(c echo.Context, orgID string) (*models.InvoiceSettings, error) {
	var settings models.InvoiceSettings
	err := db.DB.Where("organization_id = ?", orgID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}

	settings = models.InvoiceSettings{
		OrganizationID:      orgID,
		VATDisplay:          models.VATDisplayExclusive,
		DefaultPaymentTerms: 30,
		DefaultVATRate:      21,
		InvoicePrefix:       "INV",
		QuotePrefix:         "QUO",
		DefaultLayoutID:     services.DefaultLayoutID,
	}
	if cfg, ok := c.Get("config").(*config.Config); ok && cfg != nil {
		if models.IsValidVATDisplay(cfg.DefaultVATDisplay) {
			settings.VATDisplay = cfg.DefaultVATDisplay
		}
		if cfg.DefaultLayout != "" {
			settings.DefaultLayoutID = cfg.DefaultLayout
		}
		settings.RepeatPDFHeader = cfg.PDFRepeatHeader
	}
	if err := db.DB.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetInvoiceSettingsHandler returns the per-organization invoicing defaults
func GetInvoiceSettingsHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}
	return c.JSON(http.StatusOK, settings)
}

type invoiceSettingsRequest struct {
	VATDisplay          string   `json:"vat_display"`
	DefaultPaymentTerms *int     `json:"default_payment_terms"`
	DefaultVATRate      *float64 `json:"default_vat_rate"`
	InvoicePrefix       string   `json:"invoice_prefix"`
	QuotePrefix         string   `json:"quote_prefix"`
	DefaultLayoutID     string   `json:"default_layout_id"`
	RepeatPDFHeader     *bool    `json:"repeat_pdf_header"`
}

// UpdateInvoiceSettingsHandler updates the invoicing defaults
func UpdateInvoiceSettingsHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	settings, err := loadInvoiceSettings(c, org.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error loading settings")
	}

	var req invoiceSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.VATDisplay != "" {
		if !models.IsValidVATDisplay(req.VATDisplay) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid VAT display mode")
		}
		settings.VATDisplay = req.VATDisplay
	}
	if req.DefaultPaymentTerms != nil {
		if *req.DefaultPaymentTerms < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Payment terms must not be negative")
		}
		settings.DefaultPaymentTerms = *req.DefaultPaymentTerms
	}
	if req.DefaultVATRate != nil {
		settings.DefaultVATRate = *req.DefaultVATRate
	}
	if req.InvoicePrefix != "" {
		settings.InvoicePrefix = req.InvoicePrefix
	}
	if req.QuotePrefix != "" {
		settings.QuotePrefix = req.QuotePrefix
	}
	if req.DefaultLayoutID != "" {
		settings.DefaultLayoutID = req.DefaultLayoutID
	}
	if req.RepeatPDFHeader != nil {
		settings.RepeatPDFHeader = *req.RepeatPDFHeader
	}

	if err := db.DB.Save(settings).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error saving settings")
	}

	return c.JSON(http.StatusOK, settings)
}
