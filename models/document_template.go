package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Page orientation constants
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Page size constants
const (
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
	PageSizeA4     = "A4"
)

// Document type constants
const (
	DocumentTypeInvoice = "invoice"
	DocumentTypeQuote   = "quote"
	DocumentTypeLetter  = "letter"
)

// DocumentTemplate represents a stored HTML template with {{variable}}
// placeholders, rendered into previews and PDFs by the document renderer.
type DocumentTemplate struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Organization relationship (multi-tenant scoping)
	OrganizationID string       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`

	// Template identification
	Name        string  `gorm:"not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// invoice, quote or letter
	DocumentType string `gorm:"not null;default:invoice" json:"document_type"`

	// Content (HTML with {{variable}} placeholders)
	Content string `gorm:"type:text;not null" json:"content"`

	// Styling layout applied at render time; unknown ids fall back to the
	// default layout, so templates referencing removed layouts keep working
	LayoutID string `gorm:"not null;default:modern-blue" json:"layout_id"`

	// Versioning
	Version int `gorm:"not null;default:1" json:"version"`

	// Status
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	// PDF Settings
	PageOrientation string `gorm:"not null;default:portrait" json:"page_orientation"`
	PageSize        string `gorm:"not null;default:A4" json:"page_size"`
	MarginTop       int    `gorm:"not null;default:72" json:"margin_top"` // 72 points = 1 inch
	MarginBottom    int    `gorm:"not null;default:72" json:"margin_bottom"`
	MarginLeft      int    `gorm:"not null;default:72" json:"margin_left"`
	MarginRight     int    `gorm:"not null;default:72" json:"margin_right"`
}

// BeforeCreate hook to generate UUID
func (t *DocumentTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for DocumentTemplate model
func (DocumentTemplate) TableName() string {
	return "document_templates"
}

// IsValidOrientation checks if the orientation is valid
func IsValidOrientation(orientation string) bool {
	return orientation == OrientationPortrait || orientation == OrientationLandscape
}

// IsValidPageSize checks if the page size is valid
func IsValidPageSize(size string) bool {
	return size == PageSizeLetter || size == PageSizeLegal || size == PageSizeA4
}

// IsValidDocumentType checks if the document type is valid
func IsValidDocumentType(docType string) bool {
	return docType == DocumentTypeInvoice || docType == DocumentTypeQuote || docType == DocumentTypeLetter
}
