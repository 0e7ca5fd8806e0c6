package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"officeflow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTemplate(t *testing.T, org *models.Organization, content string) *models.DocumentTemplate {
	body := jsonBody(t, map[string]interface{}{
		"name":          "Standaard factuur",
		"document_type": "invoice",
		"content":       content,
		"layout_id":     "classic-elegant",
	})
	_, c, rec := setupEcho(http.MethodPost, "/api/templates", body)
	setOrganization(c, org)
	require.NoError(t, CreateTemplateHandler(c))

	var template models.DocumentTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &template))
	return &template
}

func TestCreateTemplateHandler(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	template := createTestTemplate(t, org, "<h1>Factuur {{invoice.number}}</h1>")
	assert.Equal(t, org.ID, template.OrganizationID)
	assert.Equal(t, 1, template.Version)
	assert.True(t, template.IsActive)
	assert.Equal(t, "classic-elegant", template.LayoutID)
	assert.Equal(t, models.PageSizeA4, template.PageSize)
	assert.Contains(t, template.Content, "{{invoice.number}}")
}

func TestCreateTemplateHandlerSanitizesContent(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	template := createTestTemplate(t, org, `<p>Netjes</p><script>alert("xss")</script>`)
	assert.Contains(t, template.Content, "<p>Netjes</p>")
	assert.NotContains(t, template.Content, "<script>")
}

func TestCreateTemplateHandlerKeepsStyling(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	markup := `<style>.header { color: #2563eb; }</style>` +
		`<div class="header"><h1>{{company.name}}</h1></div>` +
		`<p onclick="alert(1)">tekst</p>`
	template := createTestTemplate(t, org, markup)

	// class attributes and style blocks survive, script vectors do not
	assert.Contains(t, template.Content, `class="header"`)
	assert.Contains(t, template.Content, ".header { color: #2563eb; }")
	assert.Contains(t, template.Content, "<style>")
	assert.NotContains(t, template.Content, "onclick")
}

func TestCreateTemplateHandlerRequiresName(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	body := jsonBody(t, map[string]interface{}{"content": "<p>x</p>"})
	_, c, _ := setupEcho(http.MethodPost, "/api/templates", body)
	setOrganization(c, org)

	err := CreateTemplateHandler(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCreateTemplateHandlerRejectsInvalidPageSize(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)

	body := jsonBody(t, map[string]interface{}{"name": "X", "page_size": "A5"})
	_, c, _ := setupEcho(http.MethodPost, "/api/templates", body)
	setOrganization(c, org)

	err := CreateTemplateHandler(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestUpdateTemplateHandlerBumpsVersionOnContentChange(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)
	template := createTestTemplate(t, org, "<p>v1</p>")

	body := jsonBody(t, map[string]interface{}{"content": "<p>v2</p>"})
	_, c, rec := setupEcho(http.MethodPut, "/api/templates/"+template.ID, body)
	setOrganization(c, org)
	c.SetParamNames("id")
	c.SetParamValues(template.ID)

	require.NoError(t, UpdateTemplateHandler(c))

	var updated models.DocumentTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 2, updated.Version)
	assert.Contains(t, updated.Content, "v2")
}

func TestUpdateTemplateHandlerSameContentKeepsVersion(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)
	template := createTestTemplate(t, org, "<p>v1</p>")

	body := jsonBody(t, map[string]interface{}{"content": "<p>v1</p>"})
	_, c, rec := setupEcho(http.MethodPut, "/api/templates/"+template.ID, body)
	setOrganization(c, org)
	c.SetParamNames("id")
	c.SetParamValues(template.ID)

	require.NoError(t, UpdateTemplateHandler(c))

	var updated models.DocumentTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 1, updated.Version)
}

func TestDeleteTemplateHandler(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)
	template := createTestTemplate(t, org, "<p>x</p>")

	_, c, rec := setupEcho(http.MethodDelete, "/api/templates/"+template.ID, nil)
	setOrganization(c, org)
	c.SetParamNames("id")
	c.SetParamValues(template.ID)

	require.NoError(t, DeleteTemplateHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	testDB.Model(&models.DocumentTemplate{}).Where("id = ?", template.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListTemplatesHandlerScopedToOrganization(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)
	other := createTestOrganization(t, testDB)
	createTestTemplate(t, org, "<p>x</p>")

	_, c, rec := setupEcho(http.MethodGet, "/api/templates", nil)
	setOrganization(c, other)

	require.NoError(t, ListTemplatesHandler(c))

	var templates []models.DocumentTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &templates))
	assert.Empty(t, templates)
}

func TestActiveTemplateUsedForInvoicePreview(t *testing.T) {
	testDB := setupTestDB(t)
	org := createTestOrganization(t, testDB)
	createTestTemplate(t, org, "<h1>EIGEN SJABLOON {{invoice.number}}</h1>")
	invoice := createTestInvoice(t, org)

	_, c, rec := setupEcho(http.MethodGet, "/api/invoices/"+invoice.ID+"/preview", nil)
	setOrganization(c, org)
	c.SetParamNames("id")
	c.SetParamValues(invoice.ID)

	require.NoError(t, PreviewInvoiceHandler(c))
	assert.Contains(t, rec.Body.String(), "EIGEN SJABLOON")
	assert.Contains(t, rec.Body.String(), invoice.InvoiceNumber)
}
