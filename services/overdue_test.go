package services

import (
	"testing"
	"time"

	"officeflow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkOverdueInvoices(t *testing.T) {
	testDB := setupNumberTestDB()

	org := models.Organization{Name: "Test BV", Slug: "test-bv"}
	require.NoError(t, testDB.Create(&org).Error)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	invoices := []models.Invoice{
		{OrganizationID: org.ID, InvoiceNumber: "INV-2026-0001", ClientName: "A", InvoiceDate: now.AddDate(0, -2, 0), DueDate: now.AddDate(0, -1, 0), Status: models.InvoiceStatusSent},
		{OrganizationID: org.ID, InvoiceNumber: "INV-2026-0002", ClientName: "B", InvoiceDate: now.AddDate(0, -2, 0), DueDate: now.AddDate(0, -1, 0), Status: models.InvoiceStatusPaid},
		{OrganizationID: org.ID, InvoiceNumber: "INV-2026-0003", ClientName: "C", InvoiceDate: now.AddDate(0, -2, 0), DueDate: now.AddDate(0, -1, 0), Status: models.InvoiceStatusDraft},
		{OrganizationID: org.ID, InvoiceNumber: "INV-2026-0004", ClientName: "D", InvoiceDate: now, DueDate: now.AddDate(0, 1, 0), Status: models.InvoiceStatusSent},
	}
	for i := range invoices {
		require.NoError(t, testDB.Create(&invoices[i]).Error)
	}

	updated, err := MarkOverdueInvoices(testDB, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	var overdue models.Invoice
	require.NoError(t, testDB.First(&overdue, "invoice_number = ?", "INV-2026-0001").Error)
	assert.Equal(t, models.InvoiceStatusOverdue, overdue.Status)

	var future models.Invoice
	require.NoError(t, testDB.First(&future, "invoice_number = ?", "INV-2026-0004").Error)
	assert.Equal(t, models.InvoiceStatusSent, future.Status)
}
