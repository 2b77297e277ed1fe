package tts

import (
	"strconv"

	"github.com/matzehuels/ttgen/pkg/geom"
)

// Save-level defaults.
const (
	VersionNumber = "v12.0.1"
	DefaultDate   = "2019-05-06T00:00:00"
	DefaultTable  = "Table_None"
	DefaultSky    = "Sky_Museum"

	defaultTableURL = "http://i.imgur.com/NGDZtRM.jpg"
	defaultSkyURL   = "http://cloud-3.steamusercontent.com/ugc/931557769819239972/B4E92C79E65DB06185978CE7F0E1D2A36EF55476/"
)

// Object state names.
const (
	NameCustomBoard       = "Custom_Board"
	NameDeckCustom        = "DeckCustom"
	NameCard              = "Card"
	NameCustomModel       = "Custom_Model"
	NameCustomTokenStack  = "Custom_Token_Stack"
	NameCustomAssetbundle = "Custom_Assetbundle"
)

// Save is a complete Tabletop Simulator save file.
type Save struct {
	SaveName       string              `json:"SaveName"`
	GameMode       string              `json:"GameMode"`
	Gravity        float64             `json:"Gravity"`
	PlayArea       float64             `json:"PlayArea"`
	Date           string              `json:"Date"`
	Table          string              `json:"Table"`
	TableURL       string              `json:"TableURL"`
	Sky            string              `json:"Sky"`
	SkyURL         string              `json:"SkyUrl"`
	Note           string              `json:"Note"`
	Rules          string              `json:"Rules"`
	XMLUI          string              `json:"XmlUI"`
	LuaScript      string              `json:"LuaScript"`
	LuaScriptState string              `json:"LuaScriptState"`
	Grid           Grid                `json:"Grid"`
	Lighting       Lighting            `json:"Lighting"`
	Hands          Hands               `json:"Hands"`
	Turns          Turns               `json:"Turns"`
	ObjectStates   []ObjectState       `json:"ObjectStates"`
	DecalPallet    []string            `json:"DecalPallet"`
	TabStates      map[string]TabState `json:"TabStates"`
	VersionNumber  string              `json:"VersionNumber"`
}

// NewSave returns a save named name with the game's default environment.
func NewSave(name string) *Save {
	return &Save{
		SaveName:      name,
		GameMode:      name,
		Gravity:       0.5,
		PlayArea:      0.5,
		Date:          DefaultDate,
		Table:         DefaultTable,
		TableURL:      defaultTableURL,
		Sky:           DefaultSky,
		SkyURL:        defaultSkyURL,
		Grid:          DefaultGrid(),
		Lighting:      DefaultLighting(),
		Hands:         Hands{Enable: true, HandTransforms: []HandTransform{}},
		Turns:         Turns{TurnOrder: []string{}, PassTurns: true},
		ObjectStates:  []ObjectState{},
		DecalPallet:   []string{},
		TabStates:     DefaultTabStates(),
		VersionNumber: VersionNumber,
	}
}

// ObjectCount returns the number of objects in the save, including objects
// contained in decks.
func (s *Save) ObjectCount() int {
	var count func([]ObjectState) int
	count = func(objs []ObjectState) int {
		n := len(objs)
		for _, o := range objs {
			n += count(o.ContainedObjects)
		}
		return n
	}
	return count(s.ObjectStates)
}

// Grid configures the table grid overlay.
type Grid struct {
	Type         int        `json:"Type"`
	Lines        bool       `json:"Lines"`
	Color        geom.Color `json:"Color"`
	Opacity      float64    `json:"Opacity"`
	ThickLines   bool       `json:"ThickLines"`
	Snapping     bool       `json:"Snapping"`
	Offset       bool       `json:"Offset"`
	BothSnapping bool       `json:"BothSnapping"`
	XSize        float64    `json:"xSize"`
	YSize        float64    `json:"ySize"`
	PosOffset    geom.Vec3  `json:"PosOffset"`
}

// DefaultGrid returns the game's default grid.
func DefaultGrid() Grid {
	return Grid{Opacity: 0.75, XSize: 2, YSize: 2, PosOffset: geom.Vec3{Y: 1}}
}

// Lighting configures the scene lighting.
type Lighting struct {
	LightIntensity      float64    `json:"LightIntensity"`
	LightColor          geom.Color `json:"LightColor"`
	AmbientIntensity    float64    `json:"AmbientIntensity"`
	AmbientType         int        `json:"AmbientType"`
	AmbientSkyColor     geom.Color `json:"AmbientSkyColor"`
	AmbientEquatorColor geom.Color `json:"AmbientEquatorColor"`
	AmbientGroundColor  geom.Color `json:"AmbientGroundColor"`
	ReflectionIntensity float64    `json:"ReflectionIntensity"`
	LutIndex            int        `json:"LutIndex"`
	LutContribution     float64    `json:"LutContribution"`
}

// DefaultLighting returns the game's default lighting.
func DefaultLighting() Lighting {
	grey := geom.Color{R: 0.5, G: 0.5, B: 0.5}
	return Lighting{
		LightIntensity:      0.54,
		LightColor:          geom.Color{R: 1, G: 0.9804, B: 0.8902},
		AmbientIntensity:    1.3,
		AmbientSkyColor:     grey,
		AmbientEquatorColor: grey,
		AmbientGroundColor:  grey,
		ReflectionIntensity: 1,
		LutContribution:     1,
	}
}

// Transform is an object's position, rotation (degrees) and scale.
type Transform struct {
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
	PosZ   float64 `json:"posZ"`
	RotX   float64 `json:"rotX"`
	RotY   float64 `json:"rotY"`
	RotZ   float64 `json:"rotZ"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	ScaleZ float64 `json:"scaleZ"`
}

// IdentityTransform is the origin at unit scale.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1, ScaleZ: 1}
}

// HandTransform is one player's hand zone.
type HandTransform struct {
	Color     string    `json:"Color"`
	Transform Transform `json:"Transform"`
}

// Hands configures the hand zones.
type Hands struct {
	Enable         bool            `json:"Enable"`
	DisableUnused  bool            `json:"DisableUnused"`
	Hiding         int             `json:"Hiding"`
	HandTransforms []HandTransform `json:"HandTransforms"`
}

// Turns configures turn order.
type Turns struct {
	Enable              bool     `json:"Enable"`
	Type                int      `json:"Type"`
	TurnOrder           []string `json:"TurnOrder"`
	Reverse             bool     `json:"Reverse"`
	SkipEmpty           bool     `json:"SkipEmpty"`
	DisableInteractions bool     `json:"DisableInteractions"`
	PassTurns           bool     `json:"PassTurns"`
}

// AttachedSnapPoint is a snap point attached to an object.
type AttachedSnapPoint struct {
	Position geom.Vec3 `json:"Position"`
}

// AttachedVectorLine is a line drawn on an object.
type AttachedVectorLine struct {
	Points3   []geom.Vec3 `json:"points3"`
	Color     geom.Color  `json:"color"`
	Thickness float64     `json:"thickness"`
	Loop      bool        `json:"loop"`
}

// ObjectState is one object in the save. Variant-specific fields are
// omitted when unset.
type ObjectState struct {
	Name           string     `json:"Name"`
	Transform      Transform  `json:"Transform"`
	Nickname       string     `json:"Nickname"`
	Description    string     `json:"Description"`
	GMNotes        string     `json:"GMNotes,omitempty"`
	ColorDiffuse   geom.Color `json:"ColorDiffuse"`
	Locked         bool       `json:"Locked"`
	Grid           bool       `json:"Grid"`
	Snap           bool       `json:"Snap"`
	IgnoreFoW      bool       `json:"IgnoreFoW"`
	Autoraise      bool       `json:"Autoraise"`
	Sticky         bool       `json:"Sticky"`
	Tooltip        bool       `json:"Tooltip"`
	GridProjection bool       `json:"GridProjection"`
	Hands          bool       `json:"Hands"`
	XMLUI          string     `json:"XmlUI"`
	LuaScript      string     `json:"LuaScript"`
	LuaScriptState string     `json:"LuaScriptState"`
	GUID           string     `json:"GUID"`

	AttachedSnapPoints  []AttachedSnapPoint  `json:"AttachedSnapPoints,omitempty"`
	AttachedVectorLines []AttachedVectorLine `json:"AttachedVectorLines,omitempty"`

	// Cards and decks
	CardID           int                   `json:"CardID,omitempty"`
	SidewaysCard     *bool                 `json:"SidewaysCard,omitempty"`
	HideWhenFaceDown *bool                 `json:"HideWhenFaceDown,omitempty"`
	DeckIDs          []int                 `json:"DeckIDs,omitempty"`
	CustomDeck       map[string]CustomDeck `json:"CustomDeck,omitempty"`
	ContainedObjects []ObjectState         `json:"ContainedObjects,omitempty"`

	// Token stacks
	MaterialIndex *int `json:"MaterialIndex,omitempty"`
	MeshIndex     *int `json:"MeshIndex,omitempty"`
	Number        int  `json:"Number,omitempty"`

	CustomImage       *CustomImage       `json:"CustomImage,omitempty"`
	CustomMesh        *CustomMesh        `json:"CustomMesh,omitempty"`
	CustomAssetbundle *CustomAssetbundle `json:"CustomAssetbundle,omitempty"`
}

// newObject returns an object state with the game's defaults.
func newObject(name, guid string) ObjectState {
	return ObjectState{
		Name:         name,
		Transform:    IdentityTransform(),
		ColorDiffuse: geom.White,
		Grid:         true,
		Snap:         true,
		Autoraise:    true,
		Sticky:       true,
		Tooltip:      true,
		GUID:         guid,
	}
}

// CustomDeck describes one card sheet of a deck.
type CustomDeck struct {
	FaceURL      string `json:"FaceURL"`
	BackURL      string `json:"BackURL"`
	NumWidth     int    `json:"NumWidth"`
	NumHeight    int    `json:"NumHeight"`
	BackIsHidden bool   `json:"BackIsHidden"`
	UniqueBack   bool   `json:"UniqueBack"`
}

// CustomImage is the image of a board or token.
type CustomImage struct {
	ImageURL          string       `json:"ImageURL"`
	ImageSecondaryURL string       `json:"ImageSecondaryURL"`
	WidthScale        float64      `json:"WidthScale"`
	CustomToken       *CustomToken `json:"CustomToken,omitempty"`
}

// CustomToken shapes a token cut from an image.
type CustomToken struct {
	Thickness           float64 `json:"Thickness"`
	MergeDistancePixels float64 `json:"MergeDistancePixels"`
	Stackable           bool    `json:"Stackable"`
}

// CustomMesh describes a custom model.
type CustomMesh struct {
	MeshURL       string       `json:"MeshURL"`
	DiffuseURL    string       `json:"DiffuseURL"`
	NormalURL     string       `json:"NormalURL"`
	ColliderURL   string       `json:"ColliderURL"`
	Convex        bool         `json:"Convex"`
	MaterialIndex int          `json:"MaterialIndex"`
	TypeIndex     int          `json:"TypeIndex"`
	CustomShader  CustomShader `json:"CustomShader"`
	CastShadows   bool         `json:"CastShadows"`
}

// CustomShader is the material of a custom model.
type CustomShader struct {
	SpecularColor     geom.Color `json:"SpecularColor"`
	SpecularIntensity float64    `json:"SpecularIntensity"`
	SpecularSharpness float64    `json:"SpecularSharpness"`
	FresnelStrength   float64    `json:"FresnelStrength"`
}

// DefaultShader returns the default custom model material.
func DefaultShader() CustomShader {
	return CustomShader{SpecularColor: geom.White, SpecularSharpness: 2}
}

// CustomAssetbundle references a Unity asset bundle.
type CustomAssetbundle struct {
	AssetbundleURL          string `json:"AssetbundleURL"`
	AssetbundleSecondaryURL string `json:"AssetbundleSecondaryURL"`
	MaterialIndex           int    `json:"MaterialIndex"`
	TypeIndex               int    `json:"TypeIndex"`
	LoopingEffectIndex      int    `json:"LoopingEffectIndex"`
}

// TabState is one notebook tab.
type TabState struct {
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Color        string     `json:"color"`
	VisibleColor geom.Color `json:"visibleColor"`
	ID           int        `json:"id"`
}

var tabColors = []struct {
	title string
	color string
	rgb   geom.Color
}{
	{"Rules", "Grey", geom.Color{R: 0.5, G: 0.5, B: 0.5}},
	{"White", "White", geom.Color{R: 1, G: 1, B: 1}},
	{"Brown", "Brown", geom.Color{R: 0.443, G: 0.231, B: 0.09}},
	{"Red", "Red", geom.Color{R: 0.856, G: 0.1, B: 0.094}},
	{"Orange", "Orange", geom.Color{R: 0.956, G: 0.392, B: 0.113}},
	{"Yellow", "Yellow", geom.Color{R: 0.905, G: 0.898, B: 0.172}},
	{"Green", "Green", geom.Color{R: 0.192, G: 0.701, B: 0.168}},
	{"Blue", "Blue", geom.Color{R: 0.118, G: 0.53, B: 1.0}},
	{"Teal", "Teal", geom.Color{R: 0.129, G: 0.694, B: 0.607}},
	{"Purple", "Purple", geom.Color{R: 0.627, G: 0.125, B: 0.941}},
	{"Pink", "Pink", geom.Color{R: 0.96, G: 0.439, B: 0.807}},
	{"Black", "Black", geom.Color{R: 0.25, G: 0.25, B: 0.25}},
}

// DefaultTabStates returns the twelve default notebook tabs keyed by id.
func DefaultTabStates() map[string]TabState {
	tabs := make(map[string]TabState, len(tabColors))
	for i, c := range tabColors {
		tabs[strconv.Itoa(i)] = TabState{Title: c.title, Color: c.color, VisibleColor: c.rgb, ID: i}
	}
	return tabs
}
