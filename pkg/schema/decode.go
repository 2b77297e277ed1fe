package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/ttgen/pkg/errors"
)

// Decoder coerces raw values against field descriptors.
//
// Scalars are accepted either natively typed (JSON, TOML) or as strings
// (YAML scalars are kept as written), so "2.5" decodes into a float field.
type Decoder struct {
	// Strict rejects fields a schema does not declare. It catches typos in
	// scene documents early; lax decoding ignores them.
	Strict bool
}

// Decode decodes a raw mapping into a record of schema s. Absent fields take
// their defaults; missing required fields and failed coercions are
// MALFORMED_FIELD errors naming path.
func (d Decoder) Decode(s *Schema, raw any, path string) (Record, error) {
	rec := Record{schema: s, values: make(map[string]any, len(s.Fields)), set: make(map[string]bool)}

	var m *Map
	if raw != nil {
		var ok bool
		if m, ok = AsMap(raw); !ok {
			return Record{}, errors.New(errors.ErrCodeMalformedField,
				"%s: expected a %s record, got %s", displayPath(path), s.Name, describe(raw))
		}
	} else {
		m = NewMap()
	}

	for _, k := range m.Keys() {
		if _, ok := s.Field(k); !ok && d.Strict {
			return Record{}, errors.New(errors.ErrCodeMalformedField,
				"%s: unknown field %q for %s (valid fields: %s)",
				displayPath(path), k, s.Name, strings.Join(s.Names(), ", "))
		}
	}

	for _, f := range s.Fields {
		v, present := m.Get(f.Name)
		if !present || v == nil {
			if f.Required {
				return Record{}, errors.New(errors.ErrCodeMalformedField,
					"%s: missing required field %q", displayPath(path), f.Name)
			}
			def, err := d.defaultValue(f, join(path, f.Name))
			if err != nil {
				return Record{}, err
			}
			rec.values[f.Name] = def
			continue
		}
		coerced, err := d.Coerce(f, v, join(path, f.Name))
		if err != nil {
			return Record{}, err
		}
		rec.values[f.Name] = coerced
		rec.set[f.Name] = true
	}
	return rec, nil
}

// Coerce converts raw to the Go representation of f's kind:
// string, float64, int, bool, Record, []any or *Map.
func (d Decoder) Coerce(f Field, raw any, path string) (any, error) {
	switch f.Kind {
	case KindRaw:
		return raw, nil
	case KindString:
		return coerceString(raw, path)
	case KindFloat:
		return coerceFloat(raw, path)
	case KindInt:
		return coerceInt(raw, path)
	case KindBool:
		return coerceBool(raw, path)
	case KindRecord:
		return d.Decode(f.Schema, raw, path)
	case KindList:
		items, ok := raw.([]any)
		if !ok {
			if ss, isStrings := raw.([]string); isStrings {
				items = make([]any, len(ss))
				for i, s := range ss {
					items[i] = s
				}
			} else {
				return nil, malformed(path, KindList, raw)
			}
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := d.Coerce(*f.Elem, item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindMap:
		m, ok := AsMap(raw)
		if !ok {
			return nil, malformed(path, KindMap, raw)
		}
		out := NewMap()
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			cv, err := d.Coerce(*f.Elem, v, join(path, k))
			if err != nil {
				return nil, err
			}
			out.Set(k, cv)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "%s: unsupported field kind %s", displayPath(path), f.Kind)
}

func (d Decoder) defaultValue(f Field, path string) (any, error) {
	switch f.Kind {
	case KindRecord:
		return d.Decode(f.Schema, nil, path)
	case KindList:
		if f.Default == nil {
			return []any{}, nil
		}
		return d.Coerce(f, f.Default, path)
	case KindMap:
		if f.Default == nil {
			return NewMap(), nil
		}
		return d.Coerce(f, f.Default, path)
	}
	return f.Default, nil
}

func coerceString(raw any, path string) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int64, float64, json.Number:
		return fmt.Sprint(v), nil
	}
	return nil, malformed(path, KindString, raw)
}

// maxExactInt is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactInt = 1 << 53

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// coerceFloat accepts any numeric form but rejects NaN and the infinities.
func coerceFloat(raw any, path string) (any, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, malformed(path, KindFloat, raw)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, malformed(path, KindFloat, raw)
		}
		f = parsed
	default:
		return nil, malformed(path, KindFloat, raw)
	}
	if !finite(f) {
		return nil, malformed(path, KindFloat, raw)
	}
	return f, nil
}

func coerceInt(raw any, path string) (any, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if finite(v) && v == math.Trunc(v) && math.Abs(v) <= maxExactInt {
			return int(v), nil
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i, nil
		}
	}
	return nil, malformed(path, KindInt, raw)
}

func coerceBool(raw any, path string) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
	}
	return nil, malformed(path, KindBool, raw)
}

func malformed(path string, want Kind, raw any) error {
	return errors.New(errors.ErrCodeMalformedField, "%s: expected %s, got %s", displayPath(path), want, describe(raw))
}

func describe(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case *Map:
		return "mapping"
	case map[string]any:
		return "mapping"
	case []any:
		return "list"
	}
	return fmt.Sprintf("%T %v", raw, raw)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

// Record is a decoded mapping. Accessors return the zero value when a field
// is not declared or holds another kind; schemas guarantee the declared kind.
type Record struct {
	schema *Schema
	values map[string]any
	set    map[string]bool
}

// Schema returns the schema the record was decoded against.
func (r Record) Schema() *Schema { return r.schema }

// Has reports whether the field was given explicitly in the input.
func (r Record) Has(name string) bool { return r.set[name] }

// Value returns the decoded value of a field.
func (r Record) Value(name string) any { return r.values[name] }

// String returns a string field.
func (r Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Float returns a float field.
func (r Record) Float(name string) float64 {
	f, _ := r.values[name].(float64)
	return f
}

// Int returns an integer field.
func (r Record) Int(name string) int {
	i, _ := r.values[name].(int)
	return i
}

// Bool returns a boolean field.
func (r Record) Bool(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

// Record returns a nested record field.
func (r Record) Record(name string) Record {
	rec, _ := r.values[name].(Record)
	return rec
}

// List returns a list field.
func (r Record) List(name string) []any {
	l, _ := r.values[name].([]any)
	return l
}

// Map returns a mapping field.
func (r Record) Map(name string) *Map {
	if m, ok := r.values[name].(*Map); ok {
		return m
	}
	return NewMap()
}

// Strings returns a list field whose elements are strings.
func (r Record) Strings(name string) []string {
	var out []string
	for _, v := range r.List(name) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringMap returns a mapping field whose values are strings.
func (r Record) StringMap(name string) map[string]string {
	m := r.Map(name)
	out := make(map[string]string, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Records returns a list field whose elements are records.
func (r Record) Records(name string) []Record {
	var out []Record
	for _, v := range r.List(name) {
		if rec, ok := v.(Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Fields lists the names of the fields that were given explicitly, in
// schema order.
func (r Record) Fields() []string {
	if r.schema == nil {
		return nil
	}
	var out []string
	for _, n := range r.schema.Names() {
		if r.set[n] {
			out = append(out, n)
		}
	}
	return slices.Clip(out)
}
