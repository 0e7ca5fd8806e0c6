package services

import (
	"time"

	"officeflow_app_go/models"

	"gorm.io/gorm"
)

// MarkOverdueInvoices flips sent invoices whose due date has passed to the
// overdue status. Drafts and paid invoices are never touched. Returns the
// number of invoices updated.
func MarkOverdueInvoices(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", models.InvoiceStatusSent, now).
		Update("status", models.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}
