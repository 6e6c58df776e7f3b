// Package badge composes promotional price badges onto product photos.
package badge

import (
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
)

// Shape selects the badge outline drawn behind the price text.
type Shape string

const (
	ShapeCircle      Shape = "circle"
	ShapeStarburst15 Shape = "starburst_15"
	ShapeNone        Shape = "none"
)

const (
	starburstSpikes      = 15
	starburstOuterFactor = 0.5
	starburstInnerFactor = 0.35
)

// ParseShape matches the name case-insensitively. Unknown names degrade to
// a circle; no error is returned.
func ParseShape(name string) Shape {
	switch strings.ToLower(name) {
	case string(ShapeStarburst15):
		return ShapeStarburst15
	case string(ShapeNone):
		return ShapeNone
	default:
		return ShapeCircle
	}
}

// starburstPoints returns the 30-vertex polygon approximating a 15-point
// star: vertices alternate between the outer and inner radius, evenly
// spaced by angle starting at 0.
func starburstPoints(cx, cy, size float64) []gg.Point {
	n := starburstSpikes * 2
	points := make([]gg.Point, 0, n)
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		r := size * starburstOuterFactor
		if i%2 != 0 {
			r = size * starburstInnerFactor
		}
		points = append(points, gg.Point{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		})
	}
	return points
}

// drawShape fills the badge region with top-left anchor (x, y) and the
// given size. ShapeNone draws nothing.
func drawShape(dc *gg.Context, shape Shape, x, y, size float64, fill color.Color) {
	dc.SetColor(fill)

	switch shape {
	case ShapeStarburst15:
		points := starburstPoints(x+size/2, y+size/2, size)
		dc.MoveTo(points[0].X, points[0].Y)
		for _, p := range points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.Fill()

	case ShapeNone:

	default:
		dc.DrawCircle(x+size/2, y+size/2, size/2)
		dc.Fill()
	}
}
