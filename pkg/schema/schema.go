package schema

import (
	"fmt"
	"slices"
)

// Kind identifies how a field's raw value is coerced.
type Kind int

const (
	// KindRaw passes the raw value through untouched.
	KindRaw Kind = iota
	KindString
	KindFloat
	KindInt
	KindBool
	// KindRecord decodes a nested mapping against Field.Schema.
	KindRecord
	// KindList decodes a sequence, coercing each element against Field.Elem.
	KindList
	// KindMap decodes a mapping, coercing each value against Field.Elem.
	KindMap
)

var kindNames = map[Kind]string{
	KindRaw:    "raw",
	KindString: "string",
	KindFloat:  "number",
	KindInt:    "integer",
	KindBool:   "boolean",
	KindRecord: "record",
	KindList:   "list",
	KindMap:    "mapping",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field describes one named field of a record.
type Field struct {
	Name     string
	Kind     Kind
	Elem     *Field  // element descriptor for KindList and KindMap
	Schema   *Schema // nested schema for KindRecord
	Default  any     // value used when the field is absent or null
	Required bool
}

// Require returns a copy of f that must be present in the input.
func (f Field) Require() Field {
	f.Required = true
	return f
}

// WithDefault returns a copy of f with another default value. List and map
// defaults are coerced like input when the field is absent.
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// Str describes a string field.
func Str(name, def string) Field { return Field{Name: name, Kind: KindString, Default: def} }

// Float describes a floating-point field.
func Float(name string, def float64) Field { return Field{Name: name, Kind: KindFloat, Default: def} }

// Int describes an integer field.
func Int(name string, def int) Field { return Field{Name: name, Kind: KindInt, Default: def} }

// Bool describes a boolean field.
func Bool(name string, def bool) Field { return Field{Name: name, Kind: KindBool, Default: def} }

// RecordOf describes a nested record field. An absent record decodes to the
// schema's defaults.
func RecordOf(name string, s *Schema) Field {
	return Field{Name: name, Kind: KindRecord, Schema: s}
}

// ListOf describes a sequence whose elements are coerced against elem.
// The element's Name is ignored.
func ListOf(name string, elem Field) Field {
	return Field{Name: name, Kind: KindList, Elem: &elem}
}

// MapOf describes a mapping whose values are coerced against elem.
func MapOf(name string, elem Field) Field {
	return Field{Name: name, Kind: KindMap, Elem: &elem}
}

// Raw describes a field whose value is kept as loaded. The layout builder uses
// it for child node lists it resolves itself.
func Raw(name string) Field { return Field{Name: name, Kind: KindRaw} }

// Schema is an ordered set of field descriptors for one record type.
type Schema struct {
	Name   string
	Fields []Field
	index  map[string]int
}

// New creates a schema. Duplicate field names are a programming error and panic.
func New(name string, fields ...Field) *Schema {
	s := &Schema{Name: name, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("schema %s: duplicate field %q", name, f.Name))
		}
		s.index[f.Name] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}
	return s
}

// Extend returns a new schema named name holding s's fields followed by fields.
// A field in fields replaces the inherited field of the same name in place,
// which lets a variant override a base default.
func (s *Schema) Extend(name string, fields ...Field) *Schema {
	merged := slices.Clone(s.Fields)
	var extra []Field
	for _, f := range fields {
		if i, ok := s.index[f.Name]; ok {
			merged[i] = f
			continue
		}
		extra = append(extra, f)
	}
	return New(name, append(merged, extra...)...)
}

// Field looks up a field descriptor by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
