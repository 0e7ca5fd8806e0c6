package handlers

import (
	"net/http"
	"time"

	"officeflow_app_go/db"
	"officeflow_app_go/middleware"
	"officeflow_app_go/models"
	"officeflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetLayoutsHandler returns the available styling layouts
func GetLayoutsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, services.ListLayouts())
}

// GetLayoutCSSHandler returns the stylesheet of a single layout, so the
// editor can show documents with the same styling the renderer applies.
func GetLayoutCSSHandler(c echo.Context) error {
	tokens := services.GetStyleTokens(c.Param("id"))
	css := services.RenderLayoutCSS(tokens)
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(css))
}

// GetVariablesHandler returns the placeholder dictionary for the editor
func GetVariablesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, services.GetVariableDictionary())
}

type lineItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	VATRate     float64 `json:"vat_rate"`
	IsTextOnly  bool    `json:"is_text_only"`
}

type calculateTotalsRequest struct {
	LineItems  []lineItemRequest `json:"line_items"`
	VATDisplay string            `json:"vat_display"`
}

func lineInputs(items []lineItemRequest) []services.LineInput {
	inputs := make([]services.LineInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, services.LineInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			IsTextOnly:  item.IsTextOnly,
		})
	}
	return inputs
}

// CalculateTotalsHandler computes the totals triple for a set of line
// items without persisting anything. The invoice form calls this on every
// edit to keep the displayed totals in sync with what a save would store.
func CalculateTotalsHandler(c echo.Context) error {
	var req calculateTotalsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	mode := req.VATDisplay
	if mode == "" {
		mode = models.VATDisplayExclusive
	}
	if !models.IsValidVATDisplay(mode) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid VAT display mode")
	}

	totals := services.CalculateTotals(lineInputs(req.LineItems), mode)
	return c.JSON(http.StatusOK, totals)
}

type previewRequest struct {
	Content    string            `json:"content"`
	TemplateID string            `json:"template_id"`
	LayoutID   string            `json:"layout_id"`
	Title      string            `json:"title"`
	Values     map[string]string `json:"values"`
}

// resolvePreviewSource returns the markup and layout to preview, from the
// request body or from a stored template.
func resolvePreviewSource(c echo.Context, req *previewRequest) (markup, layoutID string, err error) {
	markup = req.Content
	layoutID = req.LayoutID

	if req.TemplateID != "" {
		var template models.DocumentTemplate
		if dbErr := middleware.OrgScoped(c, db.DB).First(&template, "id = ?", req.TemplateID).Error; dbErr != nil {
			return "", "", echo.NewHTTPError(http.StatusNotFound, "Template not found")
		}
		markup = template.Content
		if layoutID == "" {
			layoutID = template.LayoutID
		}
	}

	if markup == "" {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "Content or template_id is required")
	}
	return markup, layoutID, nil
}

// previewBag merges company data, sample values and caller-supplied values,
// later sources winning.
func previewBag(org *models.Organization, values map[string]string) services.DataBag {
	userBag := services.DataBag{}
	for key, value := range values {
		userBag.SetText(key, value)
	}
	return services.MergeBags(
		services.SampleBag(),
		services.BuildOrganizationBag(org),
		services.BuildTodayBag(time.Now()),
		userBag,
	)
}

// PreviewDocumentHandler renders markup into a styled A4 preview page.
// Unresolved placeholders are filled from sample data so an empty form
// still produces a representative document.
func PreviewDocumentHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	markup, layoutID, err := resolvePreviewSource(c, &req)
	if err != nil {
		return err
	}

	html, err := services.RenderPreviewHTML(markup, previewBag(org, req.Values), layoutID, req.Title)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error rendering preview")
	}

	return c.HTML(http.StatusOK, html)
}

// GenerateDocumentPDFHandler renders markup (or a stored template) to a PDF
// through headless Chrome, honoring the template's page settings.
func GenerateDocumentPDFHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	options := services.DefaultPrintOptions()
	markup := req.Content
	layoutID := req.LayoutID

	if req.TemplateID != "" {
		var template models.DocumentTemplate
		if err := middleware.OrgScoped(c, db.DB).First(&template, "id = ?", req.TemplateID).Error; err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Template not found")
		}
		markup = template.Content
		if layoutID == "" {
			layoutID = template.LayoutID
		}
		options = services.PrintOptionsFromTemplate(&template)
	}

	if markup == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Content or template_id is required")
	}

	pdf, err := services.PrintDocumentPDF(markup, previewBag(org, req.Values), layoutID, options)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error generating PDF")
	}

	filename := "document.pdf"
	if req.Title != "" {
		filename = req.Title + ".pdf"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
