package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quote status constants
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
	QuoteStatusExpired  = "expired"
)

// Quote mirrors Invoice but with a validity window instead of a due date.
// An accepted quote is converted into an invoice, carrying its line items
// and totals across unchanged.
type Quote struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrganizationID string       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"-"`

	QuoteNumber string    `gorm:"not null;index" json:"quote_number"`
	QuoteDate   time.Time `gorm:"not null" json:"quote_date"`
	ValidUntil  time.Time `gorm:"not null" json:"valid_until"`

	ContactID        *string  `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	Contact          *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	ClientName       string   `gorm:"not null" json:"client_name"`
	ClientEmail      string   `json:"client_email"`
	ClientAddress    string   `json:"client_address"`
	ClientPostalCode string   `json:"client_postal_code"`
	ClientCity       string   `json:"client_city"`
	ClientCountry    string   `gorm:"default:Nederland" json:"client_country"`

	Notes  string `gorm:"type:text" json:"notes"`
	Status string `gorm:"not null;default:draft" json:"status"`

	VATDisplay string `gorm:"not null;default:excl_btw" json:"vat_display"`

	Subtotal    float64 `gorm:"not null;default:0" json:"subtotal"`
	VATAmount   float64 `gorm:"not null;default:0" json:"vat_amount"`
	TotalAmount float64 `gorm:"not null;default:0" json:"total_amount"`

	LineItems []QuoteLineItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
}

// QuoteLineItem is a single quote row, identical in shape to an invoice row.
type QuoteLineItem struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	QuoteID string `gorm:"type:uuid;not null;index" json:"quote_id"`

	Position    int     `gorm:"not null;default:0" json:"position"`
	Description string  `gorm:"type:text" json:"description"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unit_price"`
	VATRate     float64 `gorm:"not null;default:21" json:"vat_rate"`
	IsTextOnly  bool    `gorm:"not null;default:false" json:"is_text_only"`
	LineTotal   float64 `gorm:"not null;default:0" json:"line_total"`
}

// BeforeCreate hook to generate UUID
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// BeforeCreate hook to generate UUID
func (l *QuoteLineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Quote model
func (Quote) TableName() string {
	return "quotes"
}

// TableName specifies the table name for QuoteLineItem model
func (QuoteLineItem) TableName() string {
	return "quote_line_items"
}
