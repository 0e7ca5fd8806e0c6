package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officeflow_app_go/models"
)

func TestGetStyleTokens(t *testing.T) {
	t.Run("known layout", func(t *testing.T) {
		tokens := GetStyleTokens("classic-elegant")
		assert.Equal(t, "classic-elegant", tokens.ID)
		assert.Equal(t, "#1f2937", tokens.PrimaryColor)
		assert.Equal(t, "Times New Roman", tokens.Font)
		assert.Equal(t, "center", tokens.LogoPosition)
		assert.Equal(t, "bordered", tokens.HeaderStyle)
	})

	t.Run("unknown layout falls back to default", func(t *testing.T) {
		tokens := GetStyleTokens("retired-layout")
		assert.Equal(t, DefaultLayoutID, tokens.ID)
	})

	t.Run("empty layout falls back to default", func(t *testing.T) {
		tokens := GetStyleTokens("")
		assert.Equal(t, DefaultLayoutID, tokens.ID)
	})
}

func TestListLayouts(t *testing.T) {
	layouts := ListLayouts()
	require.Len(t, layouts, 6)

	ids := make(map[string]bool)
	for _, l := range layouts {
		ids[l.ID] = true
		assert.NotEmpty(t, l.Name)
		assert.Contains(t, []string{"left", "center", "right"}, l.LogoPosition)
		assert.Contains(t, []string{"simple", "colored", "bordered"}, l.HeaderStyle)
		assert.Contains(t, []string{"compact", "normal", "relaxed"}, l.Spacing)
		assert.Contains(t, []string{"none", "subtle", "bold"}, l.BorderStyle)

		_, _, _, err := HexToRGB(l.PrimaryColor)
		assert.NoError(t, err, "layout %s primary color", l.ID)
		_, _, _, err = HexToRGB(l.SecondaryColor)
		assert.NoError(t, err, "layout %s secondary color", l.ID)
	}
	assert.True(t, ids[DefaultLayoutID])

	// mutating the returned slice must not affect the registry
	layouts[0].PrimaryColor = "#ffffff"
	assert.NotEqual(t, "#ffffff", GetStyleTokens(layouts[0].ID).PrimaryColor)
}

func TestRenderLayoutCSS(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		tokens := GetStyleTokens("modern-blue")
		assert.Equal(t, RenderLayoutCSS(tokens), RenderLayoutCSS(tokens))
	})

	t.Run("token values appear in output", func(t *testing.T) {
		css := RenderLayoutCSS(GetStyleTokens("modern-blue"))
		assert.Contains(t, css, "font-family: Inter, sans-serif")
		assert.Contains(t, css, "border-bottom: 2px solid #64748b")
		assert.Contains(t, css, "text-align: left")
		assert.Contains(t, css, "background-color: #2563eb")
		assert.Contains(t, css, "h1, h2, h3 { color: #2563eb; }")
	})

	t.Run("spacing mapping", func(t *testing.T) {
		compact := RenderLayoutCSS(GetStyleTokens("minimal-clean"))
		assert.Contains(t, compact, "margin: 10px 0")

		relaxed := RenderLayoutCSS(GetStyleTokens("classic-elegant"))
		assert.Contains(t, relaxed, "margin: 30px 0")

		normal := RenderLayoutCSS(GetStyleTokens("modern-blue"))
		assert.Contains(t, normal, "margin: 20px 0")
	})

	t.Run("border mapping", func(t *testing.T) {
		none := RenderLayoutCSS(GetStyleTokens("minimal-clean"))
		assert.Contains(t, none, "border: 0 solid")

		subtle := RenderLayoutCSS(GetStyleTokens("modern-blue"))
		assert.Contains(t, subtle, "border: 1px solid")

		bold := RenderLayoutCSS(GetStyleTokens("corporate-formal"))
		assert.Contains(t, bold, "border: 2px solid")
	})

	t.Run("no unresolved tokens", func(t *testing.T) {
		for _, l := range ListLayouts() {
			css := RenderLayoutCSS(l)
			assert.False(t, strings.Contains(css, "{{"), "layout %s", l.ID)
		}
	})
}

func TestRenderHeaderGeometry(t *testing.T) {
	const (
		pageWidth = 210.0
		margin    = 10.0
	)

	fullOrg := &models.Organization{
		Name:       "Jansen Advocatuur",
		Address:    "Keizersgracht 1",
		PostalCode: "1015 CD",
		City:       "Amsterdam",
		Phone:      "+31 20 123 4567",
		Email:      "info@jansen.nl",
		Website:    "jansen.nl",
	}

	t.Run("left alignment", func(t *testing.T) {
		plan := RenderHeaderGeometry(GetStyleTokens("modern-blue"), fullOrg, pageWidth, margin)
		assert.Equal(t, "left", plan.Name.Align)
		assert.InDelta(t, margin+PxToMm(16), plan.Name.X, 1e-9)
	})

	t.Run("center alignment", func(t *testing.T) {
		plan := RenderHeaderGeometry(GetStyleTokens("classic-elegant"), fullOrg, pageWidth, margin)
		assert.Equal(t, "center", plan.Name.Align)
		assert.InDelta(t, pageWidth/2, plan.Name.X, 1e-9)
	})

	t.Run("right alignment", func(t *testing.T) {
		plan := RenderHeaderGeometry(GetStyleTokens("corporate-formal"), fullOrg, pageWidth, margin)
		assert.Equal(t, "right", plan.Name.Align)
		assert.InDelta(t, pageWidth-margin-PxToMm(16), plan.Name.X, 1e-9)
	})

	t.Run("vertical layout", func(t *testing.T) {
		plan := RenderHeaderGeometry(GetStyleTokens("modern-blue"), fullOrg, pageWidth, margin)
		assert.InDelta(t, margin+PxToMm(60), plan.Name.Y, 1e-9)

		require.Len(t, plan.Lines, 5)
		assert.InDelta(t, plan.Name.Y+PxToMm(32), plan.Lines[0].Y, 1e-9)
		for i := 1; i < len(plan.Lines); i++ {
			assert.InDelta(t, PxToMm(4), plan.Lines[i].Y-plan.Lines[i-1].Y, 1e-9)
		}
	})

	t.Run("empty fields are skipped without gaps", func(t *testing.T) {
		org := &models.Organization{
			Name:  "Kantoor B.V.",
			Phone: "+31 6 1234 5678",
			Email: "mail@kantoor.nl",
		}
		plan := RenderHeaderGeometry(GetStyleTokens("modern-blue"), org, pageWidth, margin)
		require.Len(t, plan.Lines, 2)
		assert.Equal(t, "Tel: +31 6 1234 5678", plan.Lines[0].Text)
		assert.Equal(t, "Email: mail@kantoor.nl", plan.Lines[1].Text)
		assert.InDelta(t, PxToMm(4), plan.Lines[1].Y-plan.Lines[0].Y, 1e-9)
	})

	t.Run("postal and city only emitted together", func(t *testing.T) {
		org := &models.Organization{Name: "X", PostalCode: "1234 AB"}
		plan := RenderHeaderGeometry(GetStyleTokens("modern-blue"), org, pageWidth, margin)
		assert.Empty(t, plan.Lines)
	})

	t.Run("missing name gets default", func(t *testing.T) {
		plan := RenderHeaderGeometry(GetStyleTokens("modern-blue"), &models.Organization{}, pageWidth, margin)
		assert.Equal(t, "Uw Bedrijf", plan.Name.Text)
	})
}
