package schema

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Map is a mapping that remembers insertion order. Loaders produce it so
// components are registered in the order the author wrote them.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores v under k. A new key is appended; an existing key keeps its slot.
func (m *Map) Set(k string, v any) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get returns the value stored under k.
func (m *Map) Get(k string) (any, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return slices.Clone(m.keys) }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Without returns a copy of m lacking the given keys.
func (m *Map) Without(drop ...string) *Map {
	out := NewMap()
	for _, k := range m.keys {
		if slices.Contains(drop, k) {
			continue
		}
		out.Set(k, m.values[k])
	}
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AsMap views v as an ordered map. A *Map is returned as is; a plain
// map[string]any is copied with its keys sorted, so iteration stays
// deterministic. Any other value reports false.
func AsMap(v any) (*Map, bool) {
	switch m := v.(type) {
	case *Map:
		if m == nil {
			return nil, false
		}
		return m, true
	case map[string]any:
		out := NewMap()
		for _, k := range slices.Sorted(maps.Keys(m)) {
			out.Set(k, m[k])
		}
		return out, true
	default:
		return nil, false
	}
}
