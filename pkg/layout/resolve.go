package layout

import (
	"github.com/matzehuels/ttgen/pkg/annotation"
	"github.com/matzehuels/ttgen/pkg/geom"
	"github.com/matzehuels/ttgen/pkg/scene"
)

// Placement records where a node was placed.
type Placement struct {
	Path string
	Tag  string
	Rect geom.Rect
	// Key is the registry key placed by the node, if any.
	Key string
}

// Resolver assigns positions to a built tree.
//
// A Resolver is single-use: Resolve writes each referenced component's
// position once, so resolving the same tree again would place it twice.
type Resolver struct {
	Registry     *scene.Registry
	BoxColor     geom.Color
	BoxThickness float64

	annotations *annotation.Set
	placements  []Placement
}

// NewResolver creates a resolver writing positions into reg.
func NewResolver(reg *scene.Registry) *Resolver {
	return &Resolver{Registry: reg, BoxColor: geom.White, BoxThickness: annotation.DefaultThickness}
}

// Resolve centers root at (x, y), places every node top-down and returns the
// emitted annotations together with one placement per node in visit order.
func (r *Resolver) Resolve(root Node, x, y float64) (*annotation.Set, []Placement) {
	r.annotations = annotation.New()
	r.placements = nil
	root.place(r, x, y)
	return r.annotations, r.placements
}

func (r *Resolver) record(n Node, x, y float64, key string) {
	r.placements = append(r.placements, Placement{
		Path: n.Path(),
		Tag:  n.Tag(),
		Rect: geom.RectFromCenter(x, y, n.Width(), n.Height()),
		Key:  key,
	})
}

// component borrows a bound component for the duration of one placement.
// Bound keys always resolve; the registry is not modified between build
// and resolve.
func (r *Resolver) component(key string) scene.Component {
	c, err := r.Registry.Lookup(key)
	if err != nil {
		panic("layout: bound key vanished from registry: " + key)
	}
	return c
}

// place lays the items out from the minimum coordinate so the sequence is
// centered on (x, y); the cross axis uses the box center.
func (b *Box) place(r *Resolver, x, y float64) {
	r.record(b, x, y, "")

	if b.Axis == Horizontal {
		cursor := x - b.Width()/2
		for _, c := range b.Items {
			w := c.Width()
			c.place(r, cursor+w/2, y)
			cursor += w + b.Margin
		}
		return
	}

	cursor := y - b.Height()/2
	for _, c := range b.Items {
		h := c.Height()
		c.place(r, x, cursor+h/2)
		cursor += h + b.Margin
	}
}

// place puts the deck on the first slot, one snap point on every slot
// center, and an outline around the whole row.
func (o *OpenDeck) place(r *Resolver, x, y float64) {
	r.record(o, x, y, o.deckKey)

	w := o.Width()
	first := x - w/2 + SlotWidth/2
	r.component(o.deckKey).SetGroundPosition(first, y)

	for i := 0; i <= o.Count; i++ {
		r.annotations.AddSnapPoint(first+float64(i)*(SlotWidth+o.Margin), y)
	}
	r.annotations.AddCenteredBox(x, y, w, o.Height(), r.BoxColor, r.BoxThickness)
}

func (i *Item) place(r *Resolver, x, y float64) {
	r.record(i, x, y, i.key)
	r.component(i.key).SetGroundPosition(x, y)
}

func (s *Spacer) place(r *Resolver, x, y float64) {
	r.record(s, x, y, "")
}
