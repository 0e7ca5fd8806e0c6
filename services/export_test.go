package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"officeflow_app_go/models"
)

func TestExportInvoicesXLSX(t *testing.T) {
	db := setupNumberTestDB()
	orgID := uuid.New().String()
	otherOrgID := uuid.New().String()

	db.Create(&models.Invoice{
		OrganizationID: orgID,
		InvoiceNumber:  "INV-2026-0001",
		InvoiceDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ClientName:     "De Vries Holding B.V.",
		Status:         models.InvoiceStatusSent,
		Subtotal:       100,
		VATAmount:      21,
		TotalAmount:    121,
	})
	db.Create(&models.Invoice{
		OrganizationID: otherOrgID,
		InvoiceNumber:  "INV-2026-0099",
		InvoiceDate:    time.Now(),
		DueDate:        time.Now(),
		ClientName:     "Andere Organisatie",
	})

	buf, err := ExportInvoicesXLSX(db, orgID)
	require.NoError(t, err)
	require.NotNil(t, buf)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Facturen")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Factuurnummer", rows[0][0])
	assert.Equal(t, "INV-2026-0001", rows[1][0])
	assert.Equal(t, "01-09-2026", rows[1][1])
	assert.Equal(t, "De Vries Holding B.V.", rows[1][3])
	assert.Equal(t, "sent", rows[1][4])

	// rows from other organizations never leak into the export
	for _, row := range rows[1:] {
		assert.NotEqual(t, "INV-2026-0099", row[0])
	}
}

func TestExportQuotesXLSX(t *testing.T) {
	db := setupNumberTestDB()
	orgID := uuid.New().String()

	db.Create(&models.Quote{
		OrganizationID: orgID,
		QuoteNumber:    "QUO-2026-0001",
		QuoteDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ClientName:     "Bakker & Zonen",
		Status:         models.QuoteStatusDraft,
		Subtotal:       250,
		VATAmount:      52.5,
		TotalAmount:    302.5,
	})

	buf, err := ExportQuotesXLSX(db, orgID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Offertes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "QUO-2026-0001", rows[1][0])
	assert.Equal(t, "Bakker & Zonen", rows[1][3])
}
