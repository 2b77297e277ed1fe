// Package geom holds the small value types shared by the layout resolver,
// the annotation collector and the save serializer.
//
// Layout works in a 2D ground plane. A layout coordinate (x, y) maps to the
// world position (X, Z); world Y is elevation above the table.
package geom

// Vec2 is a point on the ground plane.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a world-space vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Color is an RGB colour with channels in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// White is the neutral tint.
var White = Color{R: 1, G: 1, B: 1}

// Rect is an axis-aligned rectangle on the ground plane.
type Rect struct {
	Left, Right float64
	Bottom, Top float64
}

// RectFromCenter builds the rectangle of size w×h centered at (cx, cy).
func RectFromCenter(cx, cy, w, h float64) Rect {
	return Rect{
		Left:   cx - w/2,
		Right:  cx + w/2,
		Bottom: cy - h/2,
		Top:    cy + h/2,
	}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Bottom + r.Top) / 2 }

// Corners returns the four vertices counter-clockwise from the bottom-left.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{X: r.Left, Y: r.Bottom},
		{X: r.Right, Y: r.Bottom},
		{X: r.Right, Y: r.Top},
		{X: r.Left, Y: r.Top},
	}
}
