// Package compiler turns a loaded scene document into a resolved scene.
//
// [Compile] is the pure core: it decodes the document envelope, resolves the
// components and players, builds the layout tree, places every referenced
// component and attaches the emitted annotations to the table. It performs
// no I/O and keeps no state between calls.
//
// [Runner] wraps the core with loading, save serialization and an artifact
// cache, and is what the CLI and the HTTP service call:
//
//	runner := compiler.NewRunner(cache.NewNullCache(), nil, logger)
//	out, err := runner.Execute(ctx, src, loader.FormatYAML, compiler.Options{})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(out.Name+".json", out.Save, 0644)
package compiler

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ttgen/pkg/annotation"
	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/geom"
	"github.com/matzehuels/ttgen/pkg/layout"
	"github.com/matzehuels/ttgen/pkg/schema"
	"github.com/matzehuels/ttgen/pkg/scene"
)

// DefaultRootMargin separates the top-level layout entries.
const DefaultRootMargin = 0.8

// Options configures one compilation.
type Options struct {
	// Strict rejects fields a schema does not declare.
	Strict bool `json:"strict,omitempty"`

	// OriginX and OriginY are the table coordinates the layout is centered on.
	OriginX float64 `json:"origin_x,omitempty"`
	OriginY float64 `json:"origin_y,omitempty"`

	// RootMargin separates top-level layout entries. Nil means
	// DefaultRootMargin; an explicit zero stacks them edge to edge.
	RootMargin   *float64    `json:"root_margin,omitempty"`
	BoxColor     *geom.Color `json:"box_color,omitempty"`
	BoxThickness float64     `json:"box_thickness,omitempty"`

	// Seed makes object GUIDs reproducible. Empty draws random GUIDs.
	Seed string `json:"seed,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero values. It is idempotent.
func (o *Options) SetDefaults() {
	if o.RootMargin == nil {
		m := DefaultRootMargin
		o.RootMargin = &m
	}
	if o.BoxColor == nil {
		c := geom.White
		o.BoxColor = &c
	}
	if o.BoxThickness == 0 {
		o.BoxThickness = annotation.DefaultThickness
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// rootMargin returns the effective root margin.
func (o *Options) rootMargin() float64 {
	if o.RootMargin == nil {
		return DefaultRootMargin
	}
	return *o.RootMargin
}

// Validate checks option ranges.
func (o *Options) Validate() error {
	if m := o.RootMargin; m != nil && *m < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "root margin must not be negative, got %g", *m)
	}
	if o.BoxThickness < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "box thickness must not be negative, got %g", o.BoxThickness)
	}
	if c := o.BoxColor; c != nil {
		for _, ch := range []float64{c.R, c.G, c.B} {
			if ch < 0 || ch > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "box color channels must be within [0, 1]")
			}
		}
	}
	return nil
}

// Result is a compiled scene.
type Result struct {
	Name     string
	Registry *scene.Registry
	// Players is nil when the document has no players section.
	Players scene.Players
	Layout  *layout.Box
	// Annotations holds everything the layout emitted. When the scene has a
	// table the same set is attached to it.
	Annotations *annotation.Set
	Placements  []layout.Placement
	Stats       Stats
}

// Stats summarizes a compilation.
type Stats struct {
	Components int
	Nodes      int
	SnapPoints int
	Boxes      int
	Duration   time.Duration
}

// Envelope fields.
const (
	fieldName       = "name"
	fieldComponents = "components"
	fieldPlayers    = "players"
	fieldLayout     = "layout"
)

var documentSchema = schema.New("scene",
	schema.Str(fieldName, "").Require(),
	schema.Raw(fieldComponents),
	schema.Raw(fieldPlayers),
	schema.Raw(fieldLayout),
)

// Compile resolves doc, the raw tree produced by the loader.
//
// Errors (first one wins, nothing is placed on failure):
//   - MALFORMED_FIELD for a missing scene name or a field that fails coercion
//   - UNKNOWN_VARIANT for an unknown component, players or layout tag
//   - DUPLICATE_KEY when two components share a key
//   - UNRESOLVED_REFERENCE for layout references missing from the registry
func Compile(doc any, opts Options) (*Result, error) {
	start := time.Now()
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	d := schema.Decoder{Strict: opts.Strict}

	env, err := d.Decode(documentSchema, doc, "")
	if err != nil {
		return nil, err
	}
	name := env.String(fieldName)
	if err := errors.ValidateSceneName(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedField, err, "%s", fieldName)
	}

	reg, err := scene.DecodeAll(d, env.Value(fieldComponents), fieldComponents)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved components", "count", reg.Len())

	var players scene.Players
	if raw := env.Value(fieldPlayers); raw != nil {
		if players, err = scene.PlayerLayouts.Resolve(d, raw, fieldPlayers); err != nil {
			return nil, err
		}
	}

	root, err := layout.NewBuilder(d, reg).BuildRoot(env.Value(fieldLayout), opts.rootMargin())
	if err != nil {
		return nil, err
	}

	res := layout.NewResolver(reg)
	res.BoxColor = *opts.BoxColor
	res.BoxThickness = opts.BoxThickness
	set, placements := res.Resolve(root, opts.OriginX, opts.OriginY)

	if table, ok := reg.Table(); ok {
		table.Attach(set)
	} else if set.Len() > 0 {
		logger.Warn("scene has no table, annotations are not attached",
			"scene", name, "annotations", set.Len())
	}

	result := &Result{
		Name:        name,
		Registry:    reg,
		Players:     players,
		Layout:      root,
		Annotations: set,
		Placements:  placements,
		Stats: Stats{
			Components: reg.Len(),
			Nodes:      len(placements),
			SnapPoints: len(set.SnapPoints()),
			Boxes:      len(set.Boxes()),
			Duration:   time.Since(start),
		},
	}
	logger.Debug("resolved layout",
		"nodes", result.Stats.Nodes,
		"snap_points", result.Stats.SnapPoints,
		"boxes", result.Stats.Boxes)
	return result, nil
}
