package scene

import (
	"math"

	"github.com/matzehuels/ttgen/pkg/annotation"
	"github.com/matzehuels/ttgen/pkg/geom"
)

// Component tags.
const (
	TagBoard         = "Board"
	TagDeck          = "Deck"
	TagModel         = "Model"
	TagTokenStack    = "TokenStack"
	TagFlexTable     = "FlexTable"
	TagHardwoodTable = "HardwoodTable"

	// TagTable is accepted as an alias of TagFlexTable.
	TagTable = "Table"
)

// Board is a flat custom board showing one image.
type Board struct {
	Base
	ImageURL   string
	SnapPoints []geom.Vec2 // board-local snap points
}

// Deck is a custom card deck cut from a face sheet of NumWidth×NumHeight cards.
type Deck struct {
	Base
	FaceURL      string
	BackURL      string
	Count        int
	NumWidth     int
	NumHeight    int
	BackIsHidden bool
	UniqueBack   bool
	Metadata     []MetaEntry
}

// MetaEntry is one key/value pair of deck metadata, kept in document order.
type MetaEntry struct {
	Key   string
	Value string
}

// Model is a custom 3D model.
type Model struct {
	Base
	MeshURL     string
	DiffuseURL  string
	NormalURL   string
	ColliderURL string
	Convex      bool
}

// TokenStack is a stack of Number identical tokens.
type TokenStack struct {
	Base
	ImageURL  string
	Number    int
	Thickness float64
}

// Table is the play surface. At most one exists per scene; it owns the
// annotations laid out onto its surface.
type Table struct {
	Base
	TableWidth  float64
	TableHeight float64
	SurfaceY    float64 // elevation of the playing surface

	annotations *annotation.Set
}

// Key returns TableKey for every table variant.
func (t *Table) Key() string { return TableKey }

// Flex reports whether the table is the resizable FlexTable.
func (t *Table) Flex() bool { return t.tag == TagFlexTable }

// Attach appends annotations to the table surface.
func (t *Table) Attach(s *annotation.Set) {
	if t.annotations == nil {
		t.annotations = annotation.New()
	}
	t.annotations.Extend(s)
}

// Annotations returns the markers attached to the surface. It never returns nil.
func (t *Table) Annotations() *annotation.Set {
	if t.annotations == nil {
		t.annotations = annotation.New()
	}
	return t.annotations
}

// splitNumDim decodes the legacy num_dim encoding, where 10.7 means a sheet
// 10 cards wide and 7 cards high.
func splitNumDim(v float64) (w, h int) {
	w = int(math.Floor(v))
	h = int(math.Round((v - float64(w)) * 10))
	return w, h
}
