package scene

import (
	"github.com/matzehuels/ttgen/pkg/geom"
	"github.com/matzehuels/ttgen/pkg/schema"
)

// TableKey is the registry key shared by every table variant.
const TableKey = "table"

// Component is a named scene object. Implementations embed *Base.
type Component interface {
	// Tag returns the variant discriminator the component was declared with.
	Tag() string
	// Key returns the registry key.
	Key() string
	// Common exposes the attributes shared by all variants.
	Common() *Base
	// SetGroundPosition places the component on the ground plane. Layout x
	// maps to world X and layout y to world Z.
	SetGroundPosition(x, y float64)
}

// Base holds the attributes common to all components.
type Base struct {
	Name        string
	Position    geom.Vec3
	Rotation    geom.Vec3
	Scale       geom.Vec3
	Width       float64 // declared footprint used when laid out as an item
	Height      float64
	Locked      bool
	Description string

	tag string
}

// Tag returns the variant discriminator.
func (b *Base) Tag() string { return b.tag }

// Key returns "{tag}:{name}".
func (b *Base) Key() string { return b.tag + ":" + b.Name }

// Common returns b.
func (b *Base) Common() *Base { return b }

// SetGroundPosition writes the layout position into the world transform.
// Elevation is left untouched.
func (b *Base) SetGroundPosition(x, y float64) {
	b.Position.X = x
	b.Position.Z = y
}

// Size returns the declared footprint.
func (b *Base) Size() (w, h float64) { return b.Width, b.Height }

var (
	vec2Schema = schema.New("Vec2", schema.Float("x", 0), schema.Float("y", 0))
	vec3Schema = schema.New("Vec3", schema.Float("x", 0), schema.Float("y", 0), schema.Float("z", 0))
	unitSchema = schema.New("Vec3", schema.Float("x", 1), schema.Float("y", 1), schema.Float("z", 1))

	// baseSchema lists the fields every component accepts.
	baseSchema = schema.New("Component",
		schema.RecordOf("position", vec3Schema),
		schema.RecordOf("rotation", vec3Schema),
		schema.RecordOf("scale", unitSchema),
		schema.Float("width", 1),
		schema.Float("height", 1),
		schema.Bool("locked", false),
		schema.Str("description", ""),
	)
)

func readBase(tag string, rec schema.Record) Base {
	return Base{
		Position:    readVec3(rec.Record("position")),
		Rotation:    readVec3(rec.Record("rotation")),
		Scale:       readVec3(rec.Record("scale")),
		Width:       rec.Float("width"),
		Height:      rec.Float("height"),
		Locked:      rec.Bool("locked"),
		Description: rec.String("description"),
		tag:         tag,
	}
}

func readVec3(rec schema.Record) geom.Vec3 {
	return geom.Vec3{X: rec.Float("x"), Y: rec.Float("y"), Z: rec.Float("z")}
}

func readVec2(rec schema.Record) geom.Vec2 {
	return geom.Vec2{X: rec.Float("x"), Y: rec.Float("y")}
}
