package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/ttgen/pkg/errors"
)

// Discriminator keys. TagKey is canonical; LegacyTagKey is accepted for
// documents written for earlier releases.
const (
	TagKey       = "__tag__"
	LegacyTagKey = "__class__"
)

// Variant binds a discriminator tag to the schema of its fields and a
// constructor building the typed value from the decoded record.
type Variant[T any] struct {
	Tag    string
	Schema *Schema
	New    func(rec Record) (T, error)
}

// Resolver is a closed registry of variants of T keyed by tag.
//
// Resolvers are populated once at package initialization and are read-only
// afterwards, so concurrent Resolve calls are safe.
type Resolver[T any] struct {
	kind     string
	variants map[string]Variant[T]
}

// NewResolver creates an empty resolver. kind names the family of variants
// ("component", "layout") in error messages.
func NewResolver[T any](kind string) *Resolver[T] {
	return &Resolver[T]{kind: kind, variants: make(map[string]Variant[T])}
}

// Register adds a variant. Registering a tag twice is a programming error and panics.
func (r *Resolver[T]) Register(v Variant[T]) {
	if v.Tag == "" || v.Schema == nil || v.New == nil {
		panic(fmt.Sprintf("%s resolver: incomplete variant %q", r.kind, v.Tag))
	}
	if _, dup := r.variants[v.Tag]; dup {
		panic(fmt.Sprintf("%s resolver: duplicate variant %q", r.kind, v.Tag))
	}
	r.variants[v.Tag] = v
}

// Lookup returns the variant registered under tag.
func (r *Resolver[T]) Lookup(tag string) (Variant[T], bool) {
	v, ok := r.variants[tag]
	return v, ok
}

// Tags returns the registered tags, sorted.
func (r *Resolver[T]) Tags() []string {
	tags := make([]string, 0, len(r.variants))
	for t := range r.variants {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// Resolve reads the discriminator of raw, decodes the remaining fields
// against the variant's schema and builds the typed value.
//
// Errors:
//   - UNKNOWN_VARIANT when the discriminator is missing or names no variant
//   - MALFORMED_FIELD when raw is not a mapping or a field fails coercion
func (r *Resolver[T]) Resolve(d Decoder, raw any, path string) (T, error) {
	var zero T

	m, ok := AsMap(raw)
	if !ok {
		return zero, errors.New(errors.ErrCodeMalformedField,
			"%s: expected a %s mapping, got %s", displayPath(path), r.kind, describe(raw))
	}

	tag, err := Tag(m)
	if err != nil {
		return zero, errors.Wrap(errors.ErrCodeUnknownVariant, err, "%s", displayPath(path))
	}

	v, ok := r.variants[tag]
	if !ok {
		return zero, errors.New(errors.ErrCodeUnknownVariant,
			"%s: unknown %s variant %q (valid: %s)", displayPath(path), r.kind, tag, strings.Join(r.Tags(), ", "))
	}

	rec, err := d.Decode(v.Schema, m.Without(TagKey, LegacyTagKey), path)
	if err != nil {
		return zero, err
	}

	out, err := v.New(rec)
	if err != nil {
		if errors.GetCode(err) != "" {
			return zero, err
		}
		return zero, errors.Wrap(errors.ErrCodeMalformedField, err, "%s", displayPath(path))
	}
	return out, nil
}

// Tag extracts the discriminator from a mapping.
func Tag(m *Map) (string, error) {
	for _, key := range []string{TagKey, LegacyTagKey} {
		v, ok := m.Get(key)
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString || strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("discriminator %s must be a non-empty string, got %s", key, describe(v))
		}
		return strings.TrimSpace(s), nil
	}
	return "", fmt.Errorf("missing %s discriminator", TagKey)
}
