// Package annotation collects the non-physical markers a layout emits onto a
// table surface: snap points that objects magnetize to, and outlined boxes
// marking the region a layout leaf occupies.
//
// A [Set] is append-only. Markers are kept in emission order and never
// deduplicated; two leaves emitting the same point produce two entries.
package annotation

import "github.com/matzehuels/ttgen/pkg/geom"

// DefaultThickness is the line thickness of a box outline.
const DefaultThickness = 0.02

// Kind distinguishes the two annotation variants.
type Kind int

const (
	// KindSnapPoint is a single ground-plane point.
	KindSnapPoint Kind = iota
	// KindBox is a closed rectangular outline.
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindSnapPoint:
		return "snap_point"
	case KindBox:
		return "box"
	}
	return "unknown"
}

// Annotation is either a snap point or a box. Use Kind to tell them apart;
// only the fields of that variant are meaningful.
type Annotation struct {
	Kind Kind

	// Point is the snap point position (KindSnapPoint).
	Point geom.Vec2

	// Rect, Color and Thickness describe the outline (KindBox).
	Rect      geom.Rect
	Color     geom.Color
	Thickness float64
}

// Polygon returns the closed outline of a box as four ground-plane vertices.
// It returns nil for snap points.
func (a Annotation) Polygon() []geom.Vec2 {
	if a.Kind != KindBox {
		return nil
	}
	c := a.Rect.Corners()
	return c[:]
}

// Set is an ordered, append-only collection of annotations.
// The zero value is ready to use.
type Set struct {
	items []Annotation
}

// New creates an empty set.
func New() *Set {
	return &Set{}
}

// AddSnapPoint appends a snap point at (x, y).
func (s *Set) AddSnapPoint(x, y float64) {
	s.items = append(s.items, Annotation{Kind: KindSnapPoint, Point: geom.Vec2{X: x, Y: y}})
}

// AddBox appends the outline of the w×h rectangle whose lower-left corner
// is (x, y). Its polygon runs (x, y), (x+w, y), (x+w, y+h), (x, y+h).
func (s *Set) AddBox(x, y, w, h float64, color geom.Color) {
	s.AddBoxThickness(x, y, w, h, color, DefaultThickness)
}

// AddBoxThickness is AddBox with an explicit line thickness.
func (s *Set) AddBoxThickness(x, y, w, h float64, color geom.Color, thickness float64) {
	s.items = append(s.items, Annotation{
		Kind:      KindBox,
		Rect:      geom.Rect{Left: x, Right: x + w, Bottom: y, Top: y + h},
		Color:     color,
		Thickness: thickness,
	})
}

// AddCenteredBox appends the outline of the w×h rectangle centered at (x, y).
func (s *Set) AddCenteredBox(x, y, w, h float64, color geom.Color, thickness float64) {
	s.AddBoxThickness(x-w/2, y-h/2, w, h, color, thickness)
}

// Extend appends every annotation of other, keeping its order.
func (s *Set) Extend(other *Set) {
	if other == nil {
		return
	}
	s.items = append(s.items, other.items...)
}

// All returns the annotations in emission order.
func (s *Set) All() []Annotation {
	if s == nil {
		return nil
	}
	out := make([]Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of annotations.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// SnapPoints returns the positions of all snap points in order.
func (s *Set) SnapPoints() []geom.Vec2 {
	var out []geom.Vec2
	for _, a := range s.All() {
		if a.Kind == KindSnapPoint {
			out = append(out, a.Point)
		}
	}
	return out
}

// Boxes returns all box annotations in order.
func (s *Set) Boxes() []Annotation {
	var out []Annotation
	for _, a := range s.All() {
		if a.Kind == KindBox {
			out = append(out, a)
		}
	}
	return out
}
