package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"officeflow_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLayoutsHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/api/layouts", nil)

	require.NoError(t, GetLayoutsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var layouts []services.StyleTokenSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layouts))
	assert.Len(t, layouts, 6)
}

func TestGetLayoutCSSHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/api/layouts/modern-blue/css", nil)
	c.SetParamNames("id")
	c.SetParamValues("modern-blue")

	require.NoError(t, GetLayoutCSSHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), "#2563eb")
}

func TestGetVariablesHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/api/variables", nil)

	require.NoError(t, GetVariablesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var categories []services.VariableCategory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.NotEmpty(t, categories)
}

func TestCalculateTotalsHandler(t *testing.T) {
	body := jsonBody(t, map[string]interface{}{
		"vat_display": "excl_btw",
		"line_items": []map[string]interface{}{
			{"description": "Uren", "quantity": 2, "unit_price": 10, "vat_rate": 21},
			{"description": "Kop", "is_text_only": true},
		},
	})
	_, c, rec := setupEcho(http.MethodPost, "/api/documents/totals", body)

	require.NoError(t, CalculateTotalsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var totals services.Totals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.InDelta(t, 20.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 4.2, totals.VATAmount, 1e-9)
	assert.InDelta(t, 24.2, totals.Total, 1e-9)
}

func TestCalculateTotalsHandlerDefaultsToExclusive(t *testing.T) {
	body := jsonBody(t, map[string]interface{}{
		"line_items": []map[string]interface{}{
			{"description": "Uren", "quantity": 1, "unit_price": 100, "vat_rate": 21},
		},
	})
	_, c, rec := setupEcho(http.MethodPost, "/api/documents/totals", body)

	require.NoError(t, CalculateTotalsHandler(c))

	var totals services.Totals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.InDelta(t, 121.0, totals.Total, 1e-9)
}

func TestCalculateTotalsHandlerInvalidMode(t *testing.T) {
	body := jsonBody(t, map[string]interface{}{"vat_display": "geen_btw"})
	_, c, _ := setupEcho(http.MethodPost, "/api/documents/totals", body)

	err := CalculateTotalsHandler(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestPreviewDocumentHandler(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	body := jsonBody(t, map[string]interface{}{
		"content":   "<h1>{{company.name}}</h1><p>{{custom.greeting}}</p>",
		"layout_id": "minimal-clean",
		"values":    map[string]string{"custom.greeting": "Beste klant"},
	})
	_, c, rec := setupEcho(http.MethodPost, "/api/documents/preview", body)
	setOrganization(c, org)

	require.NoError(t, PreviewDocumentHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Contains(t, html, org.Name)
	assert.Contains(t, html, "Beste klant")
	assert.Contains(t, html, "preview-container")
	assert.NotContains(t, html, "{{")
}

func TestPreviewDocumentHandlerFromTemplate(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)
	template := createTestTemplate(t, org, "<h1>Sjabloon van {{company.name}}</h1>")

	body := jsonBody(t, map[string]interface{}{"template_id": template.ID})
	_, c, rec := setupEcho(http.MethodPost, "/api/documents/preview", body)
	setOrganization(c, org)

	require.NoError(t, PreviewDocumentHandler(c))
	assert.Contains(t, rec.Body.String(), "Sjabloon van "+org.Name)
}

func TestPreviewDocumentHandlerRequiresContent(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	body := jsonBody(t, map[string]interface{}{"values": map[string]string{}})
	_, c, _ := setupEcho(http.MethodPost, "/api/documents/preview", body)
	setOrganization(c, org)

	err := PreviewDocumentHandler(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestPreviewDocumentHandlerUnknownTemplate(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	body := jsonBody(t, map[string]interface{}{"template_id": "does-not-exist"})
	_, c, _ := setupEcho(http.MethodPost, "/api/documents/preview", body)
	setOrganization(c, org)

	err := PreviewDocumentHandler(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}
