package loader

import (
	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/schema"
	"gopkg.in/yaml.v3"
)

func loadYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml")
	}
	return fromYAML(&doc)
}

// fromYAML walks the node tree instead of decoding into map[string]any so
// mapping order survives and scalars stay untyped.
func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		m := schema.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: mapping keys must be scalars", k.Line)
			}
			if _, dup := m.Get(k.Value); dup {
				return nil, errors.New(errors.ErrCodeDuplicateKey, "line %d: duplicate key %q", k.Line, k.Value)
			}
			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, val)
		}
		return m, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: unsupported yaml node", n.Line)
}
