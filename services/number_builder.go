package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"officeflow_app_go/models"
)

// DocumentNumberComponents contains the parsed components of a document number
// Format: {prefix}-{year(4)}-{sequence(4)}, e.g. INV-2026-0042
type DocumentNumberComponents struct {
	Prefix   string
	Year     int
	Sequence int
}

// BuildDocumentNumber constructs a document number from its components
func BuildDocumentNumber(prefix string, year, sequence int) string {
	prefix = strings.TrimSpace(prefix)
	if year == 0 {
		year = time.Now().Year()
	}
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, sequence)
}

// ParseDocumentNumber parses a document number string into its components
func ParseDocumentNumber(number string) (*DocumentNumberComponents, error) {
	number = strings.TrimSpace(number)

	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("document number must have 3 parts separated by dashes, got %q", number)
	}

	if parts[0] == "" {
		return nil, fmt.Errorf("document number %q has an empty prefix", number)
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return nil, fmt.Errorf("document number %q has an invalid year part", number)
	}

	sequence, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("document number %q has an invalid sequence part", number)
	}

	return &DocumentNumberComponents{
		Prefix:   parts[0],
		Year:     year,
		Sequence: sequence,
	}, nil
}

// NextInvoiceNumber assigns the next free invoice number for an
// organization. The sequence restarts every year and continues past any
// manually assigned numbers.
func NextInvoiceNumber(db *gorm.DB, organizationID, prefix string) (string, error) {
	year := time.Now().Year()

	var numbers []string
	err := db.Model(&models.Invoice{}).
		Where("organization_id = ? AND invoice_number LIKE ?", organizationID, fmt.Sprintf("%s-%04d-%%", prefix, year)).
		Pluck("invoice_number", &numbers).Error
	if err != nil {
		return "", fmt.Errorf("failed to load invoice numbers: %w", err)
	}

	return BuildDocumentNumber(prefix, year, highestSequence(numbers)+1), nil
}

// NextQuoteNumber assigns the next free quote number for an organization.
func NextQuoteNumber(db *gorm.DB, organizationID, prefix string) (string, error) {
	year := time.Now().Year()

	var numbers []string
	err := db.Model(&models.Quote{}).
		Where("organization_id = ? AND quote_number LIKE ?", organizationID, fmt.Sprintf("%s-%04d-%%", prefix, year)).
		Pluck("quote_number", &numbers).Error
	if err != nil {
		return "", fmt.Errorf("failed to load quote numbers: %w", err)
	}

	return BuildDocumentNumber(prefix, year, highestSequence(numbers)+1), nil
}

func highestSequence(numbers []string) int {
	highest := 0
	for _, number := range numbers {
		components, err := ParseDocumentNumber(number)
		if err != nil {
			continue
		}
		if components.Sequence > highest {
			highest = components.Sequence
		}
	}
	return highest
}
