package scene

import (
	"fmt"

	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/schema"
)

// Components resolves raw component mappings into typed components.
var Components = schema.NewResolver[Component]("component")

var (
	boardSchema = baseSchema.Extend(TagBoard,
		schema.Str("image_url", ""),
		schema.ListOf("snap_points", schema.RecordOf("", vec2Schema)),
		schema.Float("width", 10),
		schema.Float("height", 10),
	)

	deckSchema = baseSchema.Extend(TagDeck,
		schema.Str("face_url", ""),
		schema.Str("back_url", ""),
		schema.Int("count", 52),
		schema.Int("num_width", 10),
		schema.Int("num_height", 7),
		schema.Float("num_dim", 0),
		schema.Bool("back_is_hidden", false),
		schema.Bool("unique_back", false),
		schema.MapOf("metadata", schema.Str("", "")),
		schema.Float("width", 2.2),
		schema.Float("height", 3.2),
	)

	modelSchema = baseSchema.Extend(TagModel,
		schema.Str("mesh_url", ""),
		schema.Str("diffuse_url", ""),
		schema.Str("normal_url", ""),
		schema.Str("collider_url", ""),
		schema.Str("collide_url", ""),
		schema.Bool("convex", true),
	)

	tokenStackSchema = baseSchema.Extend(TagTokenStack,
		schema.Str("image_url", ""),
		schema.Int("number", 6),
		schema.Float("thickness", 0.1),
	)
)

func tableSchema(name string, surfaceY float64) *schema.Schema {
	return baseSchema.Extend(name,
		schema.Float("table_width", 18),
		schema.Float("table_height", 18),
		schema.Float("surface_y", surfaceY),
	)
}

func init() {
	Components.Register(schema.Variant[Component]{Tag: TagBoard, Schema: boardSchema, New: newBoard})
	Components.Register(schema.Variant[Component]{Tag: TagDeck, Schema: deckSchema, New: newDeck})
	Components.Register(schema.Variant[Component]{Tag: TagModel, Schema: modelSchema, New: newModel})
	Components.Register(schema.Variant[Component]{Tag: TagTokenStack, Schema: tokenStackSchema, New: newTokenStack})

	flex := tableSchema(TagFlexTable, 1.0)
	Components.Register(schema.Variant[Component]{Tag: TagFlexTable, Schema: flex, New: newTable(TagFlexTable)})
	Components.Register(schema.Variant[Component]{Tag: TagTable, Schema: flex, New: newTable(TagFlexTable)})
	Components.Register(schema.Variant[Component]{
		Tag:    TagHardwoodTable,
		Schema: tableSchema(TagHardwoodTable, 0.96),
		New:    newTable(TagHardwoodTable),
	})
}

// Decode resolves the raw mapping of the component declared as name.
//
// Errors:
//   - MALFORMED_FIELD when name is not a valid component name or a field is malformed
//   - UNKNOWN_VARIANT when the discriminator names no component variant
func Decode(d schema.Decoder, name string, raw any, path string) (Component, error) {
	if err := errors.ValidateComponentName(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedField, err, "%s", path)
	}
	c, err := Components.Resolve(d, raw, path)
	if err != nil {
		return nil, err
	}
	c.Common().Name = name
	return c, nil
}

// DecodeAll resolves a components mapping into a new registry. Components
// are registered in the mapping's order.
func DecodeAll(d schema.Decoder, raw any, path string) (*Registry, error) {
	reg := NewRegistry()
	if raw == nil {
		return reg, nil
	}
	m, ok := schema.AsMap(raw)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedField, "%s: expected a mapping of components", path)
	}
	for _, name := range m.Keys() {
		v, _ := m.Get(name)
		c, err := Decode(d, name, v, path+"."+name)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%s: %w", path+"."+name, err)
		}
	}
	return reg, nil
}

func newBoard(rec schema.Record) (Component, error) {
	b := &Board{Base: readBase(TagBoard, rec), ImageURL: rec.String("image_url")}
	for _, p := range rec.Records("snap_points") {
		b.SnapPoints = append(b.SnapPoints, readVec2(p))
	}
	return b, nil
}

// MaxDeckCards bounds a deck's card count. Card ids are numbered
// 100*deck+i, so a deck never spans more than one block of 100.
const MaxDeckCards = 100

func newDeck(rec schema.Record) (Component, error) {
	d := &Deck{
		Base:         readBase(TagDeck, rec),
		FaceURL:      rec.String("face_url"),
		BackURL:      rec.String("back_url"),
		Count:        rec.Int("count"),
		NumWidth:     rec.Int("num_width"),
		NumHeight:    rec.Int("num_height"),
		BackIsHidden: rec.Bool("back_is_hidden"),
		UniqueBack:   rec.Bool("unique_back"),
	}
	if rec.Has("num_dim") {
		nd := rec.Float("num_dim")
		if nd < 0 || nd >= MaxDeckCards+1 {
			return nil, fmt.Errorf("num_dim out of range, got %v", nd)
		}
		d.NumWidth, d.NumHeight = splitNumDim(nd)
	}
	if d.Count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", d.Count)
	}
	if d.NumWidth <= 0 || d.NumHeight <= 0 {
		return nil, fmt.Errorf("sheet dimensions must be positive, got %dx%d", d.NumWidth, d.NumHeight)
	}
	if d.NumWidth > MaxDeckCards || d.NumHeight > MaxDeckCards {
		return nil, fmt.Errorf("sheet dimensions must not exceed %d, got %dx%d", MaxDeckCards, d.NumWidth, d.NumHeight)
	}
	if d.Count > MaxDeckCards {
		return nil, fmt.Errorf("count must not exceed %d, got %d", MaxDeckCards, d.Count)
	}
	if cells := d.NumWidth * d.NumHeight; d.Count > cells {
		return nil, fmt.Errorf("count %d exceeds the %dx%d sheet", d.Count, d.NumWidth, d.NumHeight)
	}
	meta := rec.Map("metadata")
	for _, k := range meta.Keys() {
		v, _ := meta.Get(k)
		s, _ := v.(string)
		d.Metadata = append(d.Metadata, MetaEntry{Key: k, Value: s})
	}
	return d, nil
}

func newModel(rec schema.Record) (Component, error) {
	m := &Model{
		Base:        readBase(TagModel, rec),
		MeshURL:     rec.String("mesh_url"),
		DiffuseURL:  rec.String("diffuse_url"),
		NormalURL:   rec.String("normal_url"),
		ColliderURL: rec.String("collider_url"),
		Convex:      rec.Bool("convex"),
	}
	if m.ColliderURL == "" {
		m.ColliderURL = rec.String("collide_url")
	}
	return m, nil
}

func newTokenStack(rec schema.Record) (Component, error) {
	ts := &TokenStack{
		Base:      readBase(TagTokenStack, rec),
		ImageURL:  rec.String("image_url"),
		Number:    rec.Int("number"),
		Thickness: rec.Float("thickness"),
	}
	if ts.Number < 1 {
		return nil, fmt.Errorf("number must be at least 1, got %d", ts.Number)
	}
	return ts, nil
}

func newTable(tag string) func(schema.Record) (Component, error) {
	return func(rec schema.Record) (Component, error) {
		t := &Table{
			Base:        readBase(tag, rec),
			TableWidth:  rec.Float("table_width"),
			TableHeight: rec.Float("table_height"),
			SurfaceY:    rec.Float("surface_y"),
		}
		if t.TableWidth <= 0 || t.TableHeight <= 0 {
			return nil, fmt.Errorf("table size must be positive, got %gx%g", t.TableWidth, t.TableHeight)
		}
		t.Width, t.Height = t.TableWidth, t.TableHeight
		return t, nil
	}
}
