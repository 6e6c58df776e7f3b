package badge

import (
	"image/color"
	"strconv"
	"strings"
)

// Luminance above this picks black text, at or below picks white.
const contrastThreshold = 160

// parseHexColor parses "#RRGGBB". The boolean reports whether the input
// was well-formed.
func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, true
}

// contrastColor chooses black or white text for the given badge color
// using the weighted luminance formula (299R + 587G + 114B) / 1000.
// Malformed colors get white text.
func contrastColor(hex string) color.Color {
	c, ok := parseHexColor(hex)
	if !ok {
		return color.White
	}

	brightness := (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
	if brightness > contrastThreshold {
		return color.Black
	}
	return color.White
}
