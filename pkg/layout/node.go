package layout

import (
	"fmt"

	"github.com/matzehuels/ttgen/pkg/schema"
)

// Layout node tags.
const (
	TagVerticalBox   = "VerticalBox"
	TagHorizontalBox = "HorizontalBox"
	TagOpenDeck      = "OpenDeck"
	TagLayoutItem    = "LayoutItem"
	TagSpacer        = "Spacer"
)

// Slot geometry of an OpenDeck: one card footprint per slot.
const (
	SlotWidth  = 2.2
	SlotHeight = 3.2
)

// DefaultMargin separates siblings when a node declares no margin.
const DefaultMargin = 0.4

// MaxOpenDeckSlots bounds the face-up slots of one OpenDeck.
const MaxOpenDeckSlots = 100

// Node is a built layout node.
type Node interface {
	Tag() string
	// Path locates the node in the document, e.g. "layout[0].items[1]".
	Path() string
	Width() float64
	Height() float64
	// Children returns the child nodes of containers and nil for leaves.
	Children() []Node

	// bind resolves the node's references against the registry.
	bind(b *Builder) error
	// place assigns the node's center and recurses into children.
	place(r *Resolver, x, y float64)
}

type nodeBase struct {
	tag  string
	path string
}

func (n *nodeBase) Tag() string      { return n.tag }
func (n *nodeBase) Path() string     { return n.path }
func (n *nodeBase) Children() []Node { return nil }

// Axis is the stacking direction of a container.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Box stacks its items along one axis, separated by Margin.
type Box struct {
	nodeBase
	Axis   Axis
	Margin float64
	Items  []Node

	raw []any
}

// NewBox creates a container over already built items.
func NewBox(axis Axis, margin float64, items ...Node) *Box {
	tag := TagVerticalBox
	if axis == Horizontal {
		tag = TagHorizontalBox
	}
	return &Box{nodeBase: nodeBase{tag: tag}, Axis: axis, Margin: margin, Items: items}
}

// Children implements Node.
func (b *Box) Children() []Node { return b.Items }

// Width implements Node.
func (b *Box) Width() float64 {
	if b.Axis == Horizontal {
		return b.along(Node.Width)
	}
	return b.across(Node.Width)
}

// Height implements Node.
func (b *Box) Height() float64 {
	if b.Axis == Vertical {
		return b.along(Node.Height)
	}
	return b.across(Node.Height)
}

// along sums the children's extents plus the margins between them.
func (b *Box) along(extent func(Node) float64) float64 {
	if len(b.Items) == 0 {
		return 0
	}
	sum := b.Margin * float64(len(b.Items)-1)
	for _, c := range b.Items {
		sum += extent(c)
	}
	return sum
}

// across is the largest child extent.
func (b *Box) across(extent func(Node) float64) float64 {
	var m float64
	for _, c := range b.Items {
		m = max(m, extent(c))
	}
	return m
}

// OpenDeck is a row of Count+1 card slots. The referenced deck sits on the
// first slot; the remaining slots are where cards are dealt open.
type OpenDeck struct {
	nodeBase
	Deck   string // reference as written
	Count  int
	Margin float64

	deckKey string
}

// DeckKey returns the registry key the reference was bound to.
func (o *OpenDeck) DeckKey() string { return o.deckKey }

// Width implements Node.
func (o *OpenDeck) Width() float64 {
	return SlotWidth*float64(o.Count+1) + o.Margin*float64(o.Count)
}

// Height implements Node.
func (o *OpenDeck) Height() float64 { return SlotHeight }

// Item places one component using its declared width and height.
type Item struct {
	nodeBase
	Ref string // reference as written

	key           string
	width, height float64
}

// Key returns the registry key the reference was bound to.
func (i *Item) Key() string { return i.key }

// Width implements Node.
func (i *Item) Width() float64 { return i.width }

// Height implements Node.
func (i *Item) Height() float64 { return i.height }

// Spacer reserves room and places nothing.
type Spacer struct {
	nodeBase
	W, H float64
}

// Width implements Node.
func (s *Spacer) Width() float64 { return s.W }

// Height implements Node.
func (s *Spacer) Height() float64 { return s.H }

// Nodes resolves raw layout mappings into unbuilt nodes. Container items are
// kept raw until the Builder builds them.
var Nodes = schema.NewResolver[Node]("layout")

var (
	boxSchema = schema.New("Box",
		schema.ListOf("items", schema.Raw("")),
		schema.Float("margin", DefaultMargin),
	)
	openDeckSchema = schema.New(TagOpenDeck,
		schema.Str("deck", "").Require(),
		schema.Int("count", 1),
		schema.Float("margin", DefaultMargin),
	)
	itemSchema = schema.New(TagLayoutItem,
		schema.Str("item", "").Require(),
	)
	spacerSchema = schema.New(TagSpacer,
		schema.Float("width", 0),
		schema.Float("height", 0),
	)
)

func init() {
	Nodes.Register(schema.Variant[Node]{Tag: TagVerticalBox, Schema: boxSchema, New: newBox(Vertical)})
	Nodes.Register(schema.Variant[Node]{Tag: TagHorizontalBox, Schema: boxSchema, New: newBox(Horizontal)})
	Nodes.Register(schema.Variant[Node]{Tag: TagOpenDeck, Schema: openDeckSchema, New: newOpenDeck})
	Nodes.Register(schema.Variant[Node]{Tag: TagLayoutItem, Schema: itemSchema, New: newItem})
	Nodes.Register(schema.Variant[Node]{Tag: TagSpacer, Schema: spacerSchema, New: newSpacer})
}

func newBox(axis Axis) func(schema.Record) (Node, error) {
	return func(rec schema.Record) (Node, error) {
		b := NewBox(axis, rec.Float("margin"))
		if b.Margin < 0 {
			return nil, errNegative("margin", b.Margin)
		}
		b.raw = rec.List("items")
		return b, nil
	}
}

func newOpenDeck(rec schema.Record) (Node, error) {
	o := &OpenDeck{
		nodeBase: nodeBase{tag: TagOpenDeck},
		Deck:     rec.String("deck"),
		Count:    rec.Int("count"),
		Margin:   rec.Float("margin"),
	}
	if o.Count < 0 {
		return nil, errNegative("count", float64(o.Count))
	}
	if o.Count > MaxOpenDeckSlots {
		return nil, fmt.Errorf("count must not exceed %d, got %d", MaxOpenDeckSlots, o.Count)
	}
	if o.Margin < 0 {
		return nil, errNegative("margin", o.Margin)
	}
	return o, nil
}

func newItem(rec schema.Record) (Node, error) {
	return &Item{nodeBase: nodeBase{tag: TagLayoutItem}, Ref: rec.String("item")}, nil
}

func newSpacer(rec schema.Record) (Node, error) {
	s := &Spacer{nodeBase: nodeBase{tag: TagSpacer}, W: rec.Float("width"), H: rec.Float("height")}
	if s.W < 0 || s.H < 0 {
		return nil, errNegative("size", min(s.W, s.H))
	}
	return s, nil
}
