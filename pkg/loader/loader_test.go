package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/schema"
)

const sceneYAML = `
name: demo
components:
  zeta:
    __tag__: Deck
    count: 3
  alpha:
    __tag__: Board
    image_url: ~
  table:
    __tag__: FlexTable
layout:
  - __tag__: OpenDeck
    deck: zeta
`

const sceneJSON = `{
  "name": "demo",
  "components": {
    "zeta": {"__tag__": "Deck", "count": 3},
    "alpha": {"__tag__": "Board", "image_url": null},
    "table": {"__tag__": "FlexTable"}
  },
  "layout": [{"__tag__": "OpenDeck", "deck": "zeta"}]
}`

const sceneTOML = `
name = "demo"

[components.zeta]
__tag__ = "Deck"
count = 3

[components.alpha]
__tag__ = "Board"

[components.table]
__tag__ = "FlexTable"

[[layout]]
__tag__ = "OpenDeck"
deck = "zeta"
`

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		format Format
		doc    string
	}{
		{FormatYAML, sceneYAML},
		{FormatJSON, sceneJSON},
		{FormatTOML, sceneTOML},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			tree, err := Load(strings.NewReader(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			root, ok := tree.(*schema.Map)
			if !ok {
				t.Fatalf("root = %T, want *schema.Map", tree)
			}

			raw, _ := root.Get("components")
			comps := raw.(*schema.Map)
			if got := strings.Join(comps.Keys(), ","); got != "zeta,alpha,table" {
				t.Errorf("component order = %s, want zeta,alpha,table", got)
			}

			layout, _ := root.Get("layout")
			if l, ok := layout.([]any); !ok || len(l) != 1 {
				t.Errorf("layout = %#v, want one node", layout)
			}

			zeta, _ := comps.Get("zeta")
			count, _ := zeta.(*schema.Map).Get("count")
			dec := schema.Decoder{}
			n, err := dec.Coerce(schema.Int("count", 0), count, "count")
			if err != nil || n != 3 {
				t.Errorf("count = %#v (%v), want coercible to 3", count, err)
			}
		})
	}
}

func TestLoadYAMLKeepsScalarsUntyped(t *testing.T) {
	tree, err := LoadBytes([]byte("a: 3\nb: yes\nc: ~\nd: 'x'\n"), FormatYAML)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	m := tree.(*schema.Map)
	for key, want := range map[string]any{"a": "3", "b": "yes", "c": nil, "d": "x"} {
		if got, _ := m.Get(key); got != want {
			t.Errorf("%s = %#v, want %#v", key, got, want)
		}
	}
}

func TestLoadYAMLAliases(t *testing.T) {
	doc := "base: &b {count: 2}\ncopy: *b\n"
	tree, err := LoadBytes([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	v, _ := tree.(*schema.Map).Get("copy")
	if c, _ := v.(*schema.Map).Get("count"); c != "2" {
		t.Errorf("copy.count = %#v, want \"2\"", c)
	}
}

func TestLoadJSONNumbers(t *testing.T) {
	tree, err := LoadBytes([]byte(`{"x": 1.5, "ok": true}`), FormatJSON)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	x, _ := tree.(*schema.Map).Get("x")
	if x != json.Number("1.5") {
		t.Errorf("x = %#v, want json.Number(1.5)", x)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
		code   errors.Code
	}{
		{"bad yaml", FormatYAML, "a: [1,", errors.ErrCodeInvalidFormat},
		{"duplicate yaml key", FormatYAML, "a: 1\na: 2\n", errors.ErrCodeDuplicateKey},
		{"bad json", FormatJSON, `{"a": }`, errors.ErrCodeInvalidFormat},
		{"trailing json", FormatJSON, `{} {}`, errors.ErrCodeInvalidFormat},
		{"bad toml", FormatTOML, "a = ", errors.ErrCodeInvalidFormat},
		{"unknown format", Format("xml"), "<a/>", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.doc), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("LoadBytes error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"scene.yaml", FormatYAML, true},
		{"dir/scene.YML", FormatYAML, true},
		{"scene.json", FormatJSON, true},
		{"scene.toml", FormatTOML, true},
		{"scene.txt", "", false},
		{"scene", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(path, []byte(sceneYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, f, err := LoadFile(path)
	if err != nil || f != FormatYAML {
		t.Fatalf("LoadFile = %v, %v", f, err)
	}
	if name, _ := tree.(*schema.Map).Get("name"); name != "demo" {
		t.Errorf("name = %#v", name)
	}

	if _, _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
