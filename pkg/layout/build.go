package layout

import (
	"fmt"

	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/schema"
	"github.com/matzehuels/ttgen/pkg/scene"
)

// RootPath is the document path of the top-level layout list.
const RootPath = "layout"

// Builder turns raw layout mappings into a bound node tree.
type Builder struct {
	Decoder  schema.Decoder
	Registry *scene.Registry
}

// NewBuilder creates a builder binding references against reg.
func NewBuilder(d schema.Decoder, reg *scene.Registry) *Builder {
	return &Builder{Decoder: d, Registry: reg}
}

// Build resolves raw into a node, builds its children, then binds the
// node's references. Children are complete before their parent is bound.
//
// Errors:
//   - UNKNOWN_VARIANT for an unknown or missing __tag__
//   - MALFORMED_FIELD for fields that fail coercion
//   - UNRESOLVED_REFERENCE for references missing from the registry
func (b *Builder) Build(raw any, path string) (Node, error) {
	n, err := Nodes.Resolve(b.Decoder, raw, path)
	if err != nil {
		return nil, err
	}
	setPath(n, path)

	if box, ok := n.(*Box); ok {
		items := make([]Node, 0, len(box.raw))
		for i, r := range box.raw {
			child, err := b.Build(r, fmt.Sprintf("%s.items[%d]", path, i))
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		box.Items, box.raw = items, nil
	}

	if err := n.bind(b); err != nil {
		return nil, err
	}
	return n, nil
}

// BuildRoot wraps the top-level layout list in a vertical box separated by
// margin. A nil list yields an empty root.
func (b *Builder) BuildRoot(raw any, margin float64) (*Box, error) {
	var list []any
	switch v := raw.(type) {
	case nil:
	case []any:
		list = v
	default:
		return nil, errors.New(errors.ErrCodeMalformedField, "%s: expected a list of layout nodes", RootPath)
	}

	root := NewBox(Vertical, margin)
	root.path = RootPath
	for i, r := range list {
		n, err := b.Build(r, fmt.Sprintf("%s[%d]", RootPath, i))
		if err != nil {
			return nil, err
		}
		root.Items = append(root.Items, n)
	}
	return root, nil
}

func setPath(n Node, path string) {
	switch v := n.(type) {
	case *Box:
		v.path = path
	case *OpenDeck:
		v.path = path
	case *Item:
		v.path = path
	case *Spacer:
		v.path = path
	}
}

func (b *Box) bind(*Builder) error    { return nil }
func (s *Spacer) bind(*Builder) error { return nil }

// bind prefers the deck of that name when other variants share it.
func (o *OpenDeck) bind(b *Builder) error {
	c, err := b.Registry.Lookup(scene.TagDeck + ":" + o.Deck)
	if err != nil {
		c, err = b.Registry.Resolve(o.Deck)
	}
	if err == nil {
		if _, ok := c.(*scene.Deck); !ok {
			err = errors.New(errors.ErrCodeUnresolvedReference, "%q is a %s, not a Deck", o.Deck, c.Tag())
		}
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnresolvedReference, err, "%s: %s references deck %q", o.path, o.tag, o.Deck)
	}
	o.deckKey = c.Key()
	return nil
}

func (i *Item) bind(b *Builder) error {
	c, err := b.Registry.Resolve(i.Ref)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnresolvedReference, err, "%s: %s references item %q", i.path, i.tag, i.Ref)
	}
	i.key = c.Key()
	i.width, i.height = c.Common().Size()
	return nil
}

func errNegative(field string, v float64) error {
	return fmt.Errorf("%s must not be negative, got %g", field, v)
}
