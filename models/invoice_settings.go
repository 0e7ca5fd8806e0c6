package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VAT display constants. The mode is a per-organization (and per-render)
// setting; it is never stored on individual line items.
const (
	VATDisplayExclusive = "excl_btw"
	VATDisplayInclusive = "incl_btw"
)

// InvoiceSettings holds the per-organization invoicing defaults that the
// original product kept in browser storage. They are loaded once per
// request and passed into the render call explicitly.
type InvoiceSettings struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrganizationID string `gorm:"type:uuid;not null;uniqueIndex" json:"organization_id"`

	// excl_btw: line prices are net, VAT is added on top.
	// incl_btw: line prices are gross, VAT is backed out.
	VATDisplay string `gorm:"not null;default:excl_btw" json:"vat_display"`

	DefaultPaymentTerms int    `gorm:"not null;default:30" json:"default_payment_terms"`
	DefaultVATRate      float64 `gorm:"not null;default:21" json:"default_vat_rate"`

	InvoicePrefix string `gorm:"not null;default:INV" json:"invoice_prefix"`
	QuotePrefix   string `gorm:"not null;default:QUO" json:"quote_prefix"`

	// Layout applied when a template does not name one
	DefaultLayoutID string `gorm:"not null;default:modern-blue" json:"default_layout_id"`

	// Repeat the company header on every page of paginated PDFs
	RepeatPDFHeader bool `gorm:"not null;default:false" json:"repeat_pdf_header"`
}

// BeforeCreate hook to generate UUID
func (s *InvoiceSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for InvoiceSettings model
func (InvoiceSettings) TableName() string {
	return "invoice_settings"
}

// IsValidVATDisplay checks if the VAT display mode is valid
func IsValidVATDisplay(mode string) bool {
	return mode == VATDisplayExclusive || mode == VATDisplayInclusive
}
