package scene

import (
	"slices"
	"strings"

	"github.com/matzehuels/ttgen/pkg/errors"
)

// Registry owns the components of one compilation. Keys are unique and
// iteration follows registration order.
//
// The zero value is not usable; use NewRegistry. A Registry is not safe for
// concurrent use.
type Registry struct {
	order  []string
	byKey  map[string]Component
	byName map[string][]string // name -> keys declaring it
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[string]Component),
		byName: make(map[string][]string),
	}
}

// Register adds c under c.Key(). On failure the registry is unchanged.
//
// Errors:
//   - DUPLICATE_KEY when the key is already taken (including a second table)
//   - MALFORMED_FIELD when c has no name
func (r *Registry) Register(c Component) error {
	name := c.Common().Name
	if name == "" {
		return errors.New(errors.ErrCodeMalformedField, "component of type %s has no name", c.Tag())
	}
	key := c.Key()
	if prev, dup := r.byKey[key]; dup {
		if key == TableKey {
			return errors.New(errors.ErrCodeDuplicateKey,
				"duplicate component key %q: %q and %q are both tables, a scene has at most one",
				key, prev.Common().Name, name)
		}
		return errors.New(errors.ErrCodeDuplicateKey, "duplicate component key %q", key)
	}
	r.byKey[key] = c
	r.order = append(r.order, key)
	r.byName[name] = append(r.byName[name], key)
	return nil
}

// Lookup returns the component registered under key.
func (r *Registry) Lookup(key string) (Component, error) {
	if c, ok := r.byKey[key]; ok {
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeUnresolvedReference, "no component with key %q", key)
}

// LookupName returns the component declared as name. Names shared by
// components of different variants are ambiguous and must be referenced by key.
func (r *Registry) LookupName(name string) (Component, error) {
	keys := r.byName[name]
	switch len(keys) {
	case 0:
		return nil, errors.New(errors.ErrCodeUnresolvedReference, "no component named %q", name)
	case 1:
		return r.byKey[keys[0]], nil
	}
	return nil, errors.New(errors.ErrCodeUnresolvedReference,
		"component name %q is ambiguous, reference one of: %s", name, strings.Join(keys, ", "))
}

// Resolve looks up ref as a key when it contains ':' or equals TableKey,
// and as a name otherwise.
func (r *Registry) Resolve(ref string) (Component, error) {
	if ref == TableKey || strings.Contains(ref, ":") {
		return r.Lookup(ref)
	}
	return r.LookupName(ref)
}

// Components returns all components in registration order.
func (r *Registry) Components() []Component {
	out := make([]Component, len(r.order))
	for i, k := range r.order {
		out[i] = r.byKey[k]
	}
	return out
}

// Keys returns all keys in registration order.
func (r *Registry) Keys() []string { return slices.Clone(r.order) }

// Len returns the number of registered components.
func (r *Registry) Len() int { return len(r.order) }

// Table returns the scene's table, if one was declared.
func (r *Registry) Table() (*Table, bool) {
	t, ok := r.byKey[TableKey].(*Table)
	return t, ok
}

// Decks returns all decks in registration order.
func (r *Registry) Decks() []*Deck {
	var out []*Deck
	for _, c := range r.Components() {
		if d, ok := c.(*Deck); ok {
			out = append(out, d)
		}
	}
	return out
}
