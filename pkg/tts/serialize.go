package tts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/ttgen/pkg/annotation"
	"github.com/matzehuels/ttgen/pkg/assets"
	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/geom"
	"github.com/matzehuels/ttgen/pkg/ids"
	"github.com/matzehuels/ttgen/pkg/scene"
)

// Asset bundles and meshes of the built-in tables.
const (
	flexLegURL      = "http://cloud-3.steamusercontent.com/ugc/879750610978795929/723C50F43FAB3DE3DC12CB8460536E8CB34B60A3/"
	flexSideURL     = "http://cloud-3.steamusercontent.com/ugc/879750610978796471/14ED0DBD593370733A0309B0950004F33EB9FACA/"
	flexSurfaceMesh = "http://cloud-3.steamusercontent.com/ugc/879750610978796176/4A5A65543B98BCFBF57E910D06EC984208223D38/"
	flexSurfaceTex  = "https://i.imgur.com/N0O6aqj.jpg"
	hardwoodURL     = "chry.me/tts/3droom/hardwood_table.unity3d"

	// flexBaseSize is the extent of the unscaled FlexTable model.
	flexBaseSize = 18.0
	// flexY is the elevation of the FlexTable parts.
	flexY = -9.0
)

var (
	boardTint    = geom.Color{R: 0.7867647, G: 0.7867647, B: 0.7867647}
	hardwoodTint = geom.Color{R: 0.6103, G: 0.4045, B: 0.3860}
)

// Scene is the serializer's input: a resolved registry plus the players.
type Scene struct {
	Name     string
	Registry *scene.Registry
	Players  scene.Players // may be nil
}

// Serializer converts scenes to saves. A Serializer draws identifiers from
// IDs, so use a fresh one (or a fresh issuer) per save.
type Serializer struct {
	IDs    ids.Issuer
	Assets assets.Resolver
}

// NewSerializer creates a serializer. A nil issuer draws random GUIDs; a nil
// asset resolver makes every component without an explicit URL fail.
func NewSerializer(issuer ids.Issuer, resolver assets.Resolver) *Serializer {
	if issuer == nil {
		issuer = ids.NewRandom()
	}
	if resolver == nil {
		resolver = assets.Static{}
	}
	return &Serializer{IDs: issuer, Assets: resolver}
}

// Serialize maps every component in registry order to object states.
//
// Errors:
//   - ASSET_NOT_FOUND when an image URL is neither given nor locatable
func (s *Serializer) Serialize(sc Scene) (*Save, error) {
	save := NewSave(sc.Name)

	for _, c := range sc.Registry.Components() {
		objs, err := s.objects(c)
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", c.Key(), err)
		}
		save.ObjectStates = append(save.ObjectStates, objs...)
	}

	if sc.Players != nil {
		w, h := scene.TableSize(sc.Registry)
		for _, hand := range sc.Players.Hands(w, h) {
			save.Hands.HandTransforms = append(save.Hands.HandTransforms, HandTransform{
				Color: hand.Color,
				Transform: Transform{
					PosX: hand.Position.X, PosY: hand.Position.Y, PosZ: hand.Position.Z,
					RotY:   hand.RotY,
					ScaleX: hand.Scale.X, ScaleY: hand.Scale.Y, ScaleZ: hand.Scale.Z,
				},
			})
		}
	}
	return save, nil
}

func (s *Serializer) objects(c scene.Component) ([]ObjectState, error) {
	switch v := c.(type) {
	case *scene.Board:
		o, err := s.board(v)
		return []ObjectState{o}, err
	case *scene.Deck:
		o, err := s.deck(v)
		return []ObjectState{o}, err
	case *scene.Model:
		return []ObjectState{s.model(v)}, nil
	case *scene.TokenStack:
		o, err := s.tokenStack(v)
		return []ObjectState{o}, err
	case *scene.Table:
		if v.Flex() {
			return s.flexTable(v), nil
		}
		return []ObjectState{s.hardwoodTable(v)}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "no serializer for component type %s", c.Tag())
}

// common fills the attributes shared by every component. Elevation and
// rotation are added to the variant's resting pose.
func (s *Serializer) common(name string, b *scene.Base, restY float64, restRot geom.Vec3) ObjectState {
	o := newObject(name, s.IDs.GUID())
	o.Nickname = b.Name
	o.Description = b.Description
	o.Locked = b.Locked
	o.Transform = Transform{
		PosX: b.Position.X, PosY: restY + b.Position.Y, PosZ: b.Position.Z,
		RotX: restRot.X + b.Rotation.X, RotY: restRot.Y + b.Rotation.Y, RotZ: restRot.Z + b.Rotation.Z,
		ScaleX: b.Scale.X, ScaleY: b.Scale.Y, ScaleZ: b.Scale.Z,
	}
	return o
}

func (s *Serializer) imageURL(explicit, kind, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return s.Assets.ImageURL(kind, name)
}

func (s *Serializer) board(b *scene.Board) (ObjectState, error) {
	url, err := s.imageURL(b.ImageURL, assets.KindBoards, b.Name)
	if err != nil {
		return ObjectState{}, err
	}
	o := s.common(NameCustomBoard, &b.Base, 2, geom.Vec3{Y: 180})
	o.ColorDiffuse = boardTint
	o.HideWhenFaceDown = ptr(false)
	o.CustomImage = &CustomImage{ImageURL: url, WidthScale: 1.58566439}
	for _, p := range b.SnapPoints {
		o.AttachedSnapPoints = append(o.AttachedSnapPoints, AttachedSnapPoint{Position: geom.Vec3{X: p.X, Z: p.Y}})
	}
	return o, nil
}

// deck numbers the deck and its cards: card i of deck d has CardID 100*d+i.
func (s *Serializer) deck(d *scene.Deck) (ObjectState, error) {
	face, err := s.imageURL(d.FaceURL, assets.KindDecks, d.Name)
	if err != nil {
		return ObjectState{}, err
	}
	back, err := s.imageURL(d.BackURL, assets.KindDecks, d.Name+"_back")
	if err != nil {
		return ObjectState{}, err
	}

	deckID := s.IDs.NextDeckID()
	sheet := map[string]CustomDeck{strconv.Itoa(deckID): {
		FaceURL:      face,
		BackURL:      back,
		NumWidth:     d.NumWidth,
		NumHeight:    d.NumHeight,
		BackIsHidden: d.BackIsHidden,
		UniqueBack:   d.UniqueBack,
	}}

	o := s.common(NameDeckCustom, &d.Base, 2, geom.Vec3{Y: 180, Z: 180})
	o.HideWhenFaceDown = ptr(false)
	o.CustomDeck = sheet
	o.GMNotes = metadataNotes(d.Metadata)
	o.DeckIDs = make([]int, 0, d.Count)
	o.ContainedObjects = make([]ObjectState, 0, d.Count)
	for i := range d.Count {
		card := newObject(NameCard, s.IDs.GUID())
		card.CardID = 100*deckID + i
		card.SidewaysCard = ptr(false)
		card.CustomDeck = sheet
		o.DeckIDs = append(o.DeckIDs, card.CardID)
		o.ContainedObjects = append(o.ContainedObjects, card)
	}
	return o, nil
}

func metadataNotes(meta []scene.MetaEntry) string {
	lines := make([]string, len(meta))
	for i, m := range meta {
		lines[i] = m.Key + ": " + m.Value
	}
	return strings.Join(lines, "\n")
}

func (s *Serializer) model(m *scene.Model) ObjectState {
	o := s.common(NameCustomModel, &m.Base, 0, geom.Vec3{})
	o.CustomMesh = &CustomMesh{
		MeshURL:      m.MeshURL,
		DiffuseURL:   m.DiffuseURL,
		NormalURL:    m.NormalURL,
		ColliderURL:  m.ColliderURL,
		Convex:       m.Convex,
		CustomShader: DefaultShader(),
		CastShadows:  true,
	}
	return o
}

func (s *Serializer) tokenStack(t *scene.TokenStack) (ObjectState, error) {
	url, err := s.imageURL(t.ImageURL, assets.KindTokens, t.Name)
	if err != nil {
		return ObjectState{}, err
	}
	o := s.common(NameCustomTokenStack, &t.Base, 0, geom.Vec3{})
	o.MaterialIndex = ptr(-1)
	o.MeshIndex = ptr(1)
	o.Number = t.Number
	o.CustomImage = &CustomImage{
		ImageURL: url,
		CustomToken: &CustomToken{
			Thickness:           t.Thickness,
			MergeDistancePixels: 15,
			Stackable:           true,
		},
	}
	return o, nil
}

// flexTable assembles four legs, four sides and the surface from the stock
// 18×18 model scaled to the table size. Annotations go on the surface.
func (s *Serializer) flexTable(t *scene.Table) []ObjectState {
	ws, ds := t.TableWidth/flexBaseSize, t.TableHeight/flexBaseSize
	wp, dp := (ws-1)*flexBaseSize, (ds-1)*flexBaseSize
	ox, oz := t.Position.X, t.Position.Z

	legs := []Transform{
		{PosX: -wp, PosZ: -dp},
		{PosX: -wp, PosZ: dp, RotY: 90},
		{PosX: wp, PosZ: dp, RotY: 180},
		{PosX: wp, PosZ: -dp, RotY: 270},
	}
	sides := []Transform{
		{PosZ: -dp, ScaleX: ws},
		{PosX: -wp, RotY: 90, ScaleX: ds},
		{PosZ: dp, RotY: 180, ScaleX: ws},
		{PosX: wp, RotY: 270, ScaleX: ds},
	}

	bundle := func(tr Transform, url string, material int) ObjectState {
		o := newObject(NameCustomAssetbundle, s.IDs.GUID())
		o.Locked = true
		tr.PosX += ox
		tr.PosZ += oz
		tr.PosY = flexY
		if tr.ScaleX == 0 {
			tr.ScaleX = 1
		}
		tr.ScaleY, tr.ScaleZ = 1, 1
		o.Transform = tr
		o.CustomAssetbundle = &CustomAssetbundle{AssetbundleURL: url, MaterialIndex: material, TypeIndex: 4}
		return o
	}

	out := make([]ObjectState, 0, 9)
	for i := range 4 {
		out = append(out, bundle(legs[i], flexLegURL, 2), bundle(sides[i], flexSideURL, 1))
	}

	surface := newObject(NameCustomModel, s.IDs.GUID())
	surface.Nickname = t.Name
	surface.Description = t.Description
	surface.Locked = true
	surface.Transform = Transform{PosX: ox, PosY: flexY, PosZ: oz, ScaleX: ws, ScaleY: 1, ScaleZ: ds}
	surface.CustomMesh = &CustomMesh{
		MeshURL:      flexSurfaceMesh,
		DiffuseURL:   flexSurfaceTex,
		Convex:       true,
		CustomShader: DefaultShader(),
		CastShadows:  true,
	}
	attach(&surface, t.Annotations(), t.SurfaceY)
	return append(out, surface)
}

func (s *Serializer) hardwoodTable(t *scene.Table) ObjectState {
	o := newObject(NameCustomAssetbundle, s.IDs.GUID())
	o.Nickname = t.Name
	o.Description = t.Description
	o.Locked = true
	o.ColorDiffuse = hardwoodTint
	o.Transform = Transform{
		PosX: t.Position.X, PosY: -1.9, PosZ: t.Position.Z,
		RotY:   90,
		ScaleX: 7.5, ScaleY: 6.75, ScaleZ: 7,
	}
	o.CustomAssetbundle = &CustomAssetbundle{AssetbundleURL: hardwoodURL, MaterialIndex: 1, TypeIndex: 4}
	attach(&o, t.Annotations(), t.SurfaceY)
	return o
}

// attach converts annotations into snap points and vector lines lying on
// the surface at elevation y. Layout y maps to world Z.
func attach(o *ObjectState, set *annotation.Set, y float64) {
	for _, a := range set.All() {
		switch a.Kind {
		case annotation.KindSnapPoint:
			o.AttachedSnapPoints = append(o.AttachedSnapPoints, AttachedSnapPoint{
				Position: geom.Vec3{X: a.Point.X, Y: y, Z: a.Point.Y},
			})
		case annotation.KindBox:
			poly := a.Polygon()
			points := make([]geom.Vec3, len(poly))
			for i, p := range poly {
				points[i] = geom.Vec3{X: p.X, Y: y, Z: p.Y}
			}
			o.AttachedVectorLines = append(o.AttachedVectorLines, AttachedVectorLine{
				Points3:   points,
				Color:     a.Color,
				Thickness: a.Thickness,
				Loop:      true,
			})
		}
	}
}

// Marshal encodes a save as indented JSON.
func Marshal(save *Save) ([]byte, error) {
	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode save")
	}
	return data, nil
}

// Unmarshal decodes a save written by Marshal.
func Unmarshal(data []byte) (*Save, error) {
	var save Save
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode save")
	}
	return &save, nil
}

func ptr[T any](v T) *T { return &v }
