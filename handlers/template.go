package handlers

import (
	"net/http"

	"officeflow_app_go/db"
	"officeflow_app_go/middleware"
	"officeflow_app_go/models"
	"officeflow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

// templatePolicy builds the sanitizer for stored template markup. On top
// of the UGC baseline it keeps class attributes and embedded style blocks,
// which the layout engine and the default templates use for styling.
// Script elements and event handler attributes stay stripped.
func templatePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("style")
	p.AllowAttrs("class").Globally()
	return p
}

// ListTemplatesHandler returns the templates of the current organization
func ListTemplatesHandler(c echo.Context) error {
	documentType := c.QueryParam("document_type")
	search := c.QueryParam("search")
	activeOnly := c.QueryParam("active") == "true"

	query := middleware.OrgScoped(c, db.DB).Order("name ASC")

	if documentType != "" {
		query = query.Where("document_type = ?", documentType)
	}
	if search != "" {
		likeSearch := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", likeSearch, likeSearch)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var templates []models.DocumentTemplate
	if err := query.Find(&templates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching templates")
	}

	return c.JSON(http.StatusOK, templates)
}

// GetTemplateHandler returns a single template
func GetTemplateHandler(c echo.Context) error {
	id := c.Param("id")

	var template models.DocumentTemplate
	if err := middleware.OrgScoped(c, db.DB).First(&template, "id = ?", id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}

	return c.JSON(http.StatusOK, template)
}

type templateRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	DocumentType    string  `json:"document_type"`
	Content         string  `json:"content"`
	LayoutID        string  `json:"layout_id"`
	IsActive        *bool   `json:"is_active"`
	PageOrientation string  `json:"page_orientation"`
	PageSize        string  `json:"page_size"`
	MarginTop       *int    `json:"margin_top"`
	MarginBottom    *int    `json:"margin_bottom"`
	MarginLeft      *int    `json:"margin_left"`
	MarginRight     *int    `json:"margin_right"`
}

// CreateTemplateHandler creates a new document template. Template markup is
// user-supplied HTML, so it is sanitized before it is stored.
func CreateTemplateHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if req.DocumentType != "" && !models.IsValidDocumentType(req.DocumentType) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document type")
	}
	if req.PageOrientation != "" && !models.IsValidOrientation(req.PageOrientation) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page orientation")
	}
	if req.PageSize != "" && !models.IsValidPageSize(req.PageSize) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid page size")
	}

	content := req.Content
	if content == "" {
		content = "<p></p>"
	}

	// Sanitize content (XSS protection)
	content = templatePolicy().Sanitize(content)

	template := models.DocumentTemplate{
		OrganizationID:  org.ID,
		Name:            req.Name,
		Description:     req.Description,
		DocumentType:    models.DocumentTypeInvoice,
		Content:         content,
		LayoutID:        services.DefaultLayoutID,
		Version:         1,
		IsActive:        true,
		PageOrientation: models.OrientationPortrait,
		PageSize:        models.PageSizeA4,
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}

	if req.DocumentType != "" {
		template.DocumentType = req.DocumentType
	}
	if req.LayoutID != "" {
		template.LayoutID = req.LayoutID
	}
	if req.PageOrientation != "" {
		template.PageOrientation = req.PageOrientation
	}
	if req.PageSize != "" {
		template.PageSize = req.PageSize
	}
	if req.MarginTop != nil {
		template.MarginTop = *req.MarginTop
	}
	if req.MarginBottom != nil {
		template.MarginBottom = *req.MarginBottom
	}
	if req.MarginLeft != nil {
		template.MarginLeft = *req.MarginLeft
	}
	if req.MarginRight != nil {
		template.MarginRight = *req.MarginRight
	}

	if err := db.DB.Create(&template).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating template")
	}

	return c.JSON(http.StatusCreated, template)
}

// UpdateTemplateHandler updates an existing template. A content change
// bumps the version; metadata-only updates leave it untouched.
func UpdateTemplateHandler(c echo.Context) error {
	id := c.Param("id")

	var template models.DocumentTemplate
	if err := middleware.OrgScoped(c, db.DB).First(&template, "id = ?", id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}

	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != "" {
		template.Name = req.Name
	}
	template.Description = req.Description

	if req.DocumentType != "" {
		if !models.IsValidDocumentType(req.DocumentType) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid document type")
		}
		template.DocumentType = req.DocumentType
	}
	if req.LayoutID != "" {
		template.LayoutID = req.LayoutID
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if req.PageOrientation != "" {
		if !models.IsValidOrientation(req.PageOrientation) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid page orientation")
		}
		template.PageOrientation = req.PageOrientation
	}
	if req.PageSize != "" {
		if !models.IsValidPageSize(req.PageSize) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid page size")
		}
		template.PageSize = req.PageSize
	}
	if req.MarginTop != nil {
		template.MarginTop = *req.MarginTop
	}
	if req.MarginBottom != nil {
		template.MarginBottom = *req.MarginBottom
	}
	if req.MarginLeft != nil {
		template.MarginLeft = *req.MarginLeft
	}
	if req.MarginRight != nil {
		template.MarginRight = *req.MarginRight
	}

	if req.Content != "" {
		// Sanitize content (XSS protection)
		content := templatePolicy().Sanitize(req.Content)

		if template.Content != content {
			template.Version++
		}
		template.Content = content
	}

	if err := db.DB.Save(&template).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating template")
	}

	return c.JSON(http.StatusOK, template)
}

// DeleteTemplateHandler soft-deletes a template
func DeleteTemplateHandler(c echo.Context) error {
	id := c.Param("id")

	var template models.DocumentTemplate
	if err := middleware.OrgScoped(c, db.DB).First(&template, "id = ?", id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}

	if err := db.DB.Delete(&template).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting template")
	}

	return c.NoContent(http.StatusNoContent)
}

// activeTemplate returns the organization's newest active template for the
// given document type, or nil when none is stored.
func activeTemplate(c echo.Context, documentType string) *models.DocumentTemplate {
	var template models.DocumentTemplate
	err := middleware.OrgScoped(c, db.DB).
		Where("document_type = ? AND is_active = ?", documentType, true).
		Order("updated_at DESC").
		First(&template).Error
	if err != nil {
		return nil
	}
	return &template
}
