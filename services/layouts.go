package services

import (
	"fmt"
	"log"
	"strings"

	"officeflow_app_go/models"
)

// DefaultLayoutID is the fallback for unknown or since-removed layout ids
// referenced by historical data.
const DefaultLayoutID = "modern-blue"

// StyleTokenSet is the fixed styling record for one named layout. Records
// are read-only; adding a layout means adding one record here, never
// mutating an existing one.
type StyleTokenSet struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"` // modern, classic, minimal, corporate
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Font           string `json:"font"`
	LogoPosition   string `json:"logo_position"` // left, center, right
	HeaderStyle    string `json:"header_style"`  // simple, colored, bordered
	Spacing        string `json:"spacing"`       // compact, normal, relaxed
	BorderStyle    string `json:"border_style"`  // none, subtle, bold
}

// layoutRegistry is the closed set of available layouts.
var layoutRegistry = []StyleTokenSet{
	{
		ID:             "modern-blue",
		Name:           "Modern Blue",
		Category:       "modern",
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#64748b",
		Font:           "Inter",
		LogoPosition:   "left",
		HeaderStyle:    "colored",
		Spacing:        "normal",
		BorderStyle:    "subtle",
	},
	{
		ID:             "classic-elegant",
		Name:           "Classic Elegant",
		Category:       "classic",
		PrimaryColor:   "#1f2937",
		SecondaryColor: "#6b7280",
		Font:           "Times New Roman",
		LogoPosition:   "center",
		HeaderStyle:    "bordered",
		Spacing:        "relaxed",
		BorderStyle:    "bold",
	},
	{
		ID:             "minimal-clean",
		Name:           "Minimal Clean",
		Category:       "minimal",
		PrimaryColor:   "#000000",
		SecondaryColor: "#737373",
		Font:           "Arial",
		LogoPosition:   "left",
		HeaderStyle:    "simple",
		Spacing:        "compact",
		BorderStyle:    "none",
	},
	{
		ID:             "corporate-formal",
		Name:           "Corporate Formal",
		Category:       "corporate",
		PrimaryColor:   "#0f172a",
		SecondaryColor: "#475569",
		Font:           "Helvetica",
		LogoPosition:   "right",
		HeaderStyle:    "colored",
		Spacing:        "normal",
		BorderStyle:    "bold",
	},
	{
		ID:             "creative-modern",
		Name:           "Creative Modern",
		Category:       "modern",
		PrimaryColor:   "#7c3aed",
		SecondaryColor: "#a855f7",
		Font:           "Roboto",
		LogoPosition:   "center",
		HeaderStyle:    "colored",
		Spacing:        "relaxed",
		BorderStyle:    "subtle",
	},
	{
		ID:             "business-classic",
		Name:           "Business Classic",
		Category:       "classic",
		PrimaryColor:   "#059669",
		SecondaryColor: "#10b981",
		Font:           "Georgia",
		LogoPosition:   "left",
		HeaderStyle:    "bordered",
		Spacing:        "normal",
		BorderStyle:    "subtle",
	},
}

// ListLayouts returns every available layout record.
func ListLayouts() []StyleTokenSet {
	layouts := make([]StyleTokenSet, len(layoutRegistry))
	copy(layouts, layoutRegistry)
	return layouts
}

// GetStyleTokens resolves a layout id to its styling record. Unknown ids
// fall back to the default layout: a layout id stored in historical data
// may reference a since-removed layout and must keep rendering.
func GetStyleTokens(layoutID string) StyleTokenSet {
	for _, layout := range layoutRegistry {
		if layout.ID == layoutID {
			return layout
		}
	}
	log.Printf("[WARNING] Unknown layout %q, falling back to %s", layoutID, DefaultLayoutID)
	for _, layout := range layoutRegistry {
		if layout.ID == DefaultLayoutID {
			return layout
		}
	}
	// Registry always contains the default; this is unreachable
	return layoutRegistry[0]
}

// RenderLayoutCSS generates the injectable stylesheet for a layout.
// Deterministic: the same token set always yields byte-identical CSS.
func RenderLayoutCSS(tokens StyleTokenSet) string {
	contentMargin := "20px"
	switch tokens.Spacing {
	case "compact":
		contentMargin = "10px"
	case "relaxed":
		contentMargin = "30px"
	}

	cellBorder := "1px"
	switch tokens.BorderStyle {
	case "bold":
		cellBorder = "2px"
	case "none":
		cellBorder = "0"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "body { font-family: %s, sans-serif; margin: 40px; background-color: white; color: #333; }\n", tokens.Font)
	fmt.Fprintf(&b, ".header { color: %s; border-bottom: 2px solid %s; padding-bottom: 10px; margin-bottom: 20px; text-align: %s; }\n",
		tokens.PrimaryColor, tokens.SecondaryColor, tokens.LogoPosition)
	fmt.Fprintf(&b, ".content { line-height: 1.6; margin: %s 0; }\n", contentMargin)
	b.WriteString("table { border-collapse: collapse; width: 100%; margin: 20px 0; }\n")
	fmt.Fprintf(&b, "th, td { border: %s solid %s; padding: 12px; text-align: left; }\n", cellBorder, tokens.SecondaryColor)
	fmt.Fprintf(&b, "th { background-color: %s; color: white; }\n", tokens.PrimaryColor)
	fmt.Fprintf(&b, "h1, h2, h3 { color: %s; }\n", tokens.PrimaryColor)
	b.WriteString(".company-logo { max-width: 180px; max-height: 90px; object-fit: contain; display: block; }\n")
	return b.String()
}

// HeaderLine is one absolutely positioned text line in the PDF header.
type HeaderLine struct {
	Text  string
	X     float64 // mm
	Y     float64 // mm
	Align string  // left, center, right
}

// HeaderDrawPlan is the computed geometry for the PDF company header.
type HeaderDrawPlan struct {
	Height float64 // mm, band height from the top margin
	Name   HeaderLine
	Lines  []HeaderLine
}

// RenderHeaderGeometry computes the absolute coordinates for the company
// name and each present contact-detail line. Alignment follows the
// layout's logo position; the horizontal inset mirrors the preview's 16px
// padding. Lines are emitted only for non-empty profile fields, with a
// fixed 4px-converted advance between consecutive emitted lines and no
// trailing gap after the last one.
func RenderHeaderGeometry(tokens StyleTokenSet, org *models.Organization, pageWidth, margin float64) HeaderDrawPlan {
	inset := PxToMm(16)

	var x float64
	var align string
	switch tokens.LogoPosition {
	case "center":
		x = pageWidth / 2
		align = "center"
	case "right":
		x = pageWidth - margin - inset
		align = "right"
	default:
		x = margin + inset
		align = "left"
	}

	plan := HeaderDrawPlan{
		Height: PxToMm(100),
		Name: HeaderLine{
			Text:  org.Name,
			X:     x,
			Y:     margin + PxToMm(60),
			Align: align,
		},
	}
	if plan.Name.Text == "" {
		plan.Name.Text = "Uw Bedrijf"
	}

	details := []string{}
	if org.Address != "" {
		details = append(details, org.Address)
	}
	if org.PostalCode != "" && org.City != "" {
		details = append(details, fmt.Sprintf("%s %s", org.PostalCode, org.City))
	}
	if org.Phone != "" {
		details = append(details, "Tel: "+org.Phone)
	}
	if org.Email != "" {
		details = append(details, "Email: "+org.Email)
	}
	if org.Website != "" {
		details = append(details, "Web: "+org.Website)
	}

	y := plan.Name.Y + PxToMm(32)
	advance := PxToMm(4)
	for i, text := range details {
		plan.Lines = append(plan.Lines, HeaderLine{Text: text, X: x, Y: y, Align: align})
		if i < len(details)-1 {
			y += advance
		}
	}

	return plan
}
