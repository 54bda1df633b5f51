package export

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Saturation and lightness the browser host used for hsl() fills.
const (
	Saturation = 0.70
	Lightness  = 0.60
)

// HueColor maps a particle hue in degrees to its fill colour.
func HueColor(hue float64) colorful.Color {
	return colorful.Hsl(hue, Saturation, Lightness).Clamped()
}

func HueHex(hue float64) string {
	return HueColor(hue).Hex()
}
