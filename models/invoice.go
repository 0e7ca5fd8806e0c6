package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice status constants
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Invoice is a finalized or draft sales invoice. The stored totals triple
// is derived from the line items and the VAT display mode at save time;
// it is never edited independently of its inputs.
type Invoice struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrganizationID string       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"-"`

	InvoiceNumber string    `gorm:"not null;index" json:"invoice_number"`
	InvoiceDate   time.Time `gorm:"not null" json:"invoice_date"`
	DueDate       time.Time `gorm:"not null" json:"due_date"`

	// Billing party snapshot (copied from the contact at creation so a
	// later contact edit never rewrites a sent invoice)
	ContactID        *string `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	Contact          *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	ClientName       string  `gorm:"not null" json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	ClientAddress    string  `json:"client_address"`
	ClientPostalCode string  `json:"client_postal_code"`
	ClientCity       string  `json:"client_city"`
	ClientCountry    string  `gorm:"default:Nederland" json:"client_country"`

	Notes        string `gorm:"type:text" json:"notes"`
	PaymentTerms int    `gorm:"not null;default:30" json:"payment_terms"`
	Status       string `gorm:"not null;default:draft" json:"status"`

	// How the unit prices on the line items are to be read
	VATDisplay string `gorm:"not null;default:excl_btw" json:"vat_display"`

	// Derived totals, recomputed from the line items on every save
	Subtotal    float64 `gorm:"not null;default:0" json:"subtotal"`
	VATAmount   float64 `gorm:"not null;default:0" json:"vat_amount"`
	TotalAmount float64 `gorm:"not null;default:0" json:"total_amount"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
}

// InvoiceLineItem is a single invoice row. LineTotal is a derived cache of
// quantity * unit_price (0 for text-only rows) maintained by the totals
// engine, never entered directly.
type InvoiceLineItem struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InvoiceID string `gorm:"type:uuid;not null;index" json:"invoice_id"`

	Position    int     `gorm:"not null;default:0" json:"position"`
	Description string  `gorm:"type:text" json:"description"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unit_price"`
	VATRate     float64 `gorm:"not null;default:21" json:"vat_rate"`
	IsTextOnly  bool    `gorm:"not null;default:false" json:"is_text_only"`
	LineTotal   float64 `gorm:"not null;default:0" json:"line_total"`
}

// BeforeCreate hook to generate UUID
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// BeforeCreate hook to generate UUID
func (l *InvoiceLineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// TableName specifies the table name for InvoiceLineItem model
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// IsValidInvoiceStatus checks if the status is one of the known values
func IsValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}
