package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"officeflow_app_go/config"
	"officeflow_app_go/db"
	"officeflow_app_go/middleware"
	"officeflow_app_go/models"
	"officeflow_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name to isolate tests while allowing shared cache
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	if services.Storage == nil {
		services.Storage = services.NewLocalStorage(t.TempDir())
	}

	err = testDB.AutoMigrate(
		&models.Organization{},
		&models.Contact{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Quote{},
		&models.QuoteLineItem{},
		&models.DocumentTemplate{},
		&models.InvoiceSettings{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
		EmailFrom:     "test@example.com",
		EmailFromName: "Test",
	})

	return e, c, rec
}

func createTestOrganization(t *testing.T, testDB *gorm.DB) *models.Organization {
	org := &models.Organization{
		Name:       "Jansen Advocatuur B.V.",
		Slug:       "jansen-" + uuid.New().String()[:8],
		Address:    "Keizersgracht 123",
		PostalCode: "1015 CJ",
		City:       "Amsterdam",
		Country:    "Nederland",
		Phone:      "+31 20 123 4567",
		Email:      "info@jansen.nl",
		KvKNumber:  "12345678",
		VATNumber:  "NL123456789B01",
		IBAN:       "NL91ABNA0417164300",
	}
	require.NoError(t, testDB.Create(org).Error)
	return org
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func setOrganization(c echo.Context, org *models.Organization) {
	c.Set(middleware.ContextKeyOrganization, org)
}

func httpErrorCode(t *testing.T, err error) int {
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return httpErr.Code
}
