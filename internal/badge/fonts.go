package badge

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// loadFace loads a TrueType face at the given point size. A missing or
// unreadable font file degrades to the built-in face and never fails;
// fallbacks are resolved once at construction, not per call.
func loadFace(path string, points float64) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}

	face, err := gg.LoadFontFace(path, points)
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
