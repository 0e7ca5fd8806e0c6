package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant boundary: contacts, invoices, quotes and
// templates are all scoped to one organization.
type Organization struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string `gorm:"not null" json:"name"`
	Slug       string `gorm:"uniqueIndex;not null" json:"slug"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `gorm:"default:Nederland" json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Website    string `json:"website"`

	// Registration and banking details printed on invoices
	KvKNumber string `json:"kvk_number"`
	VATNumber string `json:"vat_number"`
	IBAN      string `json:"iban"`
	BIC       string `json:"bic"`

	// Logo stored through the StorageProvider; LogoKey is the storage key,
	// LogoURI an optional externally hosted URI or data URI.
	LogoKey string `json:"logo_key"`
	LogoURI string `gorm:"type:text" json:"logo_uri"`

	// Relationships
	Contacts []Contact `gorm:"foreignKey:OrganizationID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:OrganizationID" json:"-"`
	Quotes   []Quote   `gorm:"foreignKey:OrganizationID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Organization model
func (Organization) TableName() string {
	return "organizations"
}
