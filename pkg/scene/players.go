package scene

import (
	"fmt"
	"math"

	"github.com/matzehuels/ttgen/pkg/geom"
	"github.com/matzehuels/ttgen/pkg/schema"
)

// TagTwoPlayers selects the two-player hand arrangement.
const TagTwoPlayers = "TwoPlayers"

// DefaultTableSize is the table extent assumed when a scene declares no table.
const DefaultTableSize = 18.0

// Hand is one player's hand zone.
type Hand struct {
	Color    string
	Position geom.Vec3
	RotY     float64
	Scale    geom.Vec3
}

// Players arranges the hand zones of a scene.
type Players interface {
	Tag() string
	// Hands returns one zone per seat for a table of the given size.
	Hands(tableW, tableH float64) []Hand
}

// PlayerLayouts resolves the raw players mapping.
var PlayerLayouts = schema.NewResolver[Players]("players")

// TwoPlayers seats two players along the near edge of the table.
type TwoPlayers struct {
	BoxX, BoxY, BoxZ float64 // hand zone size
	HandY            float64 // hand zone elevation
	Colors           [2]string
}

var twoPlayersSchema = schema.New(TagTwoPlayers,
	schema.Float("box_x", 12),
	schema.Float("box_y", 6),
	schema.Float("box_z", 6),
	schema.Float("hand_y", 3.24),
	schema.ListOf("colors", schema.Str("", "")).WithDefault([]any{"Red", "Blue"}),
)

func init() {
	PlayerLayouts.Register(schema.Variant[Players]{Tag: TagTwoPlayers, Schema: twoPlayersSchema, New: newTwoPlayers})
}

func newTwoPlayers(rec schema.Record) (Players, error) {
	colors := rec.Strings("colors")
	if len(colors) != 2 {
		return nil, fmt.Errorf("colors must name exactly 2 seats, got %d", len(colors))
	}
	return &TwoPlayers{
		BoxX:   rec.Float("box_x"),
		BoxY:   rec.Float("box_y"),
		BoxZ:   rec.Float("box_z"),
		HandY:  rec.Float("hand_y"),
		Colors: [2]string{colors[0], colors[1]},
	}, nil
}

// Tag implements Players.
func (p *TwoPlayers) Tag() string { return TagTwoPlayers }

// Hands places the first seat on the left and the second on the right, both
// pulled in from the table edge by half a zone (rounded down).
func (p *TwoPlayers) Hands(tableW, tableH float64) []Hand {
	x := tableW - math.Floor(p.BoxX/2)
	z := -(tableH - math.Floor(p.BoxZ/2))
	scale := geom.Vec3{X: p.BoxX, Y: p.BoxY, Z: p.BoxZ}
	return []Hand{
		{Color: p.Colors[0], Position: geom.Vec3{X: -x, Y: p.HandY, Z: z}, Scale: scale},
		{Color: p.Colors[1], Position: geom.Vec3{X: x, Y: p.HandY, Z: z}, Scale: scale},
	}
}

// TableSize returns the size hand zones are derived from.
func TableSize(reg *Registry) (w, h float64) {
	if t, ok := reg.Table(); ok {
		return t.TableWidth, t.TableHeight
	}
	return DefaultTableSize, DefaultTableSize
}
