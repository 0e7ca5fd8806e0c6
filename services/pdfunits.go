package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColorFormat is returned by HexToRGB for anything that is not a
// 6-digit hex color. Callers fall back to a default color explicitly; the
// parser never silently returns black.
var ErrInvalidColorFormat = errors.New("invalid color format")

const (
	// mmPerPx converts CSS pixels (96 dpi reference) to millimetres
	mmPerPx = 0.2646
	// mmPerPt converts typographic points to millimetres
	mmPerPt = 25.4 / 72.0
)

// PxToMm converts a CSS pixel measurement to millimetres. Defined for all
// inputs including zero and negative offsets.
func PxToMm(px float64) float64 {
	return px * mmPerPx
}

// PtToMm converts a point measurement to millimetres.
func PtToMm(pt float64) float64 {
	return pt * mmPerPt
}

// HexToRGB parses a 6-digit hex color like "#2563eb" (leading '#' optional)
// into its 0-255 channels.
func HexToRGB(hex string) (r, g, b int, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	v, parseErr := strconv.ParseUint(s, 16, 32)
	if parseErr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}

// GetLineSpacing returns the vertical advance in millimetres for a text
// baseline at the given point size and line-height multiplier.
func GetLineSpacing(fontSizePt float64, lineHeightMultiplier float64) float64 {
	if lineHeightMultiplier <= 0 {
		lineHeightMultiplier = 1.4
	}
	return PtToMm(fontSizePt * lineHeightMultiplier)
}
