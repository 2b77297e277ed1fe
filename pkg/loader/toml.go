package loader

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/schema"
)

func loadTOML(data []byte) (any, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse toml")
	}

	// MetaData.Keys lists every key path in document order.
	order := make(map[string]int)
	for i, k := range md.Keys() {
		if _, seen := order[k.String()]; !seen {
			order[k.String()] = i
		}
	}
	return fromTOML(raw, nil, order), nil
}

func fromTOML(v any, path toml.Key, order map[string]int) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		pos := func(k string) int {
			if i, ok := order[append(slices.Clone(path), k).String()]; ok {
				return i
			}
			return len(order)
		}
		slices.SortFunc(keys, func(a, b string) int {
			return cmp.Or(cmp.Compare(pos(a), pos(b)), strings.Compare(a, b))
		})
		m := schema.NewMap()
		for _, k := range keys {
			m.Set(k, fromTOML(t[k], append(slices.Clone(path), k), order))
		}
		return m
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromTOML(e, path, order)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromTOML(e, path, order)
		}
		return out
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return v
}
