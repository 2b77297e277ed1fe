package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/ttgen/pkg/errors"
)

var point = New("Point", Float("x", 0), Float("y", 0))

func TestDecodeSimpleValue(t *testing.T) {
	s := New("Object", Int("value", 5))

	rec, err := Decoder{}.Decode(s, map[string]any{"value": 7}, "obj")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := rec.Int("value"); got != 7 {
		t.Errorf("value = %d, want 7", got)
	}
	if !rec.Has("value") {
		t.Error("Has(value) = false, want true")
	}
}

func TestDecodeDefaults(t *testing.T) {
	s := New("Object",
		Int("value", 5),
		Str("label", "none"),
		RecordOf("origin", point),
		ListOf("tags", Str("", "")),
		MapOf("meta", Str("", "")),
	)

	rec, err := Decoder{Strict: true}.Decode(s, nil, "obj")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Int("value") != 5 || rec.String("label") != "none" {
		t.Errorf("defaults = (%d, %q), want (5, \"none\")", rec.Int("value"), rec.String("label"))
	}
	if got := rec.Record("origin").Float("x"); got != 0 {
		t.Errorf("origin.x = %v, want 0", got)
	}
	if got := len(rec.List("tags")); got != 0 {
		t.Errorf("len(tags) = %d, want 0", got)
	}
	if got := rec.Map("meta").Len(); got != 0 {
		t.Errorf("len(meta) = %d, want 0", got)
	}
	if rec.Has("value") {
		t.Error("Has(value) = true for a defaulted field")
	}
}

func TestDecodeList(t *testing.T) {
	s := New("Alpha", ListOf("items", Str("", "")))

	rec, err := Decoder{}.Decode(s, map[string]any{"items": []any{"alpha"}}, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := rec.Strings("items"); len(got) != 1 || got[0] != "alpha" {
		t.Errorf("items = %v, want [alpha]", got)
	}
}

func TestDecodeMap(t *testing.T) {
	s := New("Alpha", MapOf("items", Str("", "")))

	rec, err := Decoder{}.Decode(s, map[string]any{"items": map[string]any{"a": "alpha"}}, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := rec.StringMap("items"); got["a"] != "alpha" || len(got) != 1 {
		t.Errorf("items = %v, want map[a:alpha]", got)
	}
}

func TestDecodeRecordMap(t *testing.T) {
	obj := New("Object", Int("value", 5))
	s := New("Alpha", MapOf("objects", RecordOf("", obj)))

	raw := map[string]any{"objects": map[string]any{"a": map[string]any{"value": 5}}}
	rec, err := Decoder{}.Decode(s, raw, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	v, ok := rec.Map("objects").Get("a")
	if !ok {
		t.Fatal("objects[a] missing")
	}
	if got := v.(Record).Int("value"); got != 5 {
		t.Errorf("objects[a].value = %d, want 5", got)
	}
}

func TestDecodeRecordList(t *testing.T) {
	s := New("Board", ListOf("snap_points", RecordOf("", point)))

	raw := map[string]any{"snap_points": []any{
		map[string]any{"x": 1.5, "y": "2"},
		map[string]any{"x": -1},
	}}
	rec, err := Decoder{Strict: true}.Decode(s, raw, "board")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	pts := rec.Records("snap_points")
	if len(pts) != 2 {
		t.Fatalf("len(snap_points) = %d, want 2", len(pts))
	}
	if pts[0].Float("x") != 1.5 || pts[0].Float("y") != 2 {
		t.Errorf("snap_points[0] = (%v, %v), want (1.5, 2)", pts[0].Float("x"), pts[0].Float("y"))
	}
	if pts[1].Float("x") != -1 || pts[1].Float("y") != 0 {
		t.Errorf("snap_points[1] = (%v, %v), want (-1, 0)", pts[1].Float("x"), pts[1].Float("y"))
	}
}

func TestDecodeScalarCoercion(t *testing.T) {
	s := New("Scalars", Float("f", 0), Int("i", 0), Bool("b", false), Str("s", ""))

	tests := []struct {
		name string
		raw  map[string]any
		f    float64
		i    int
		b    bool
		s    string
	}{
		{"native", map[string]any{"f": 1.5, "i": 3, "b": true, "s": "x"}, 1.5, 3, true, "x"},
		{"strings", map[string]any{"f": "1.5", "i": " 3 ", "b": "yes", "s": "x"}, 1.5, 3, true, "x"},
		{"int64 from toml", map[string]any{"f": int64(2), "i": int64(4), "b": "off", "s": int64(9)}, 2, 4, false, "9"},
		{"json numbers", map[string]any{"f": json.Number("0.25"), "i": json.Number("8"), "b": false, "s": true}, 0.25, 8, false, "true"},
		{"integral float", map[string]any{"i": 6.0}, 0, 6, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decoder{Strict: true}.Decode(s, tt.raw, "")
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if rec.Float("f") != tt.f || rec.Int("i") != tt.i || rec.Bool("b") != tt.b || rec.String("s") != tt.s {
				t.Errorf("got (%v, %v, %v, %q), want (%v, %v, %v, %q)",
					rec.Float("f"), rec.Int("i"), rec.Bool("b"), rec.String("s"), tt.f, tt.i, tt.b, tt.s)
			}
		})
	}
}

func TestDecodeRejectsNonFinite(t *testing.T) {
	s := New("Scalars", Float("f", 0), Int("i", 0))

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"string inf", map[string]any{"f": "inf"}},
		{"string negative inf", map[string]any{"f": "-Inf"}},
		{"string nan", map[string]any{"f": "NaN"}},
		{"native inf", map[string]any{"f": math.Inf(1)}},
		{"native nan", map[string]any{"f": math.NaN()}},
		{"float32 inf", map[string]any{"f": float32(math.Inf(-1))}},
		{"json overflow", map[string]any{"f": json.Number("1e400")}},
		{"int from inf", map[string]any{"i": math.Inf(1)}},
		{"int beyond exact range", map[string]any{"i": 1e300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decoder{Strict: true}.Decode(s, tt.raw, "layout[0]")
			if !errors.Is(err, errors.ErrCodeMalformedField) {
				t.Errorf("code = %v, want %v (err %v)", errors.GetCode(err), errors.ErrCodeMalformedField, err)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	s := New("Deck",
		Str("deck", "").Require(),
		Int("count", 1),
		ListOf("items", RecordOf("", point)),
	)

	tests := []struct {
		name   string
		strict bool
		raw    any
	}{
		{"not a mapping", true, []any{1}},
		{"missing required", true, map[string]any{"count": 2}},
		{"non-numeric", true, map[string]any{"deck": "x", "count": "many"}},
		{"fractional int", true, map[string]any{"deck": "x", "count": 1.5}},
		{"unknown field strict", true, map[string]any{"deck": "x", "cuont": 2}},
		{"list expected", true, map[string]any{"deck": "x", "items": "nope"}},
		{"nested element", true, map[string]any{"deck": "x", "items": []any{map[string]any{"x": "?"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decoder{Strict: tt.strict}.Decode(s, tt.raw, "layout[0]")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeMalformedField) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeMalformedField)
			}
		})
	}
}

func TestDecodeLaxIgnoresUnknownFields(t *testing.T) {
	s := New("Deck", Int("count", 1))

	rec, err := Decoder{Strict: false}.Decode(s, map[string]any{"cuont": 2}, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := rec.Int("count"); got != 1 {
		t.Errorf("count = %d, want default 1", got)
	}
}

func TestDecodeErrorNamesPath(t *testing.T) {
	s := New("Board", ListOf("snap_points", RecordOf("", point)))
	raw := map[string]any{"snap_points": []any{map[string]any{}, map[string]any{"y": "up"}}}

	_, err := Decoder{}.Decode(s, raw, "components.board")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "components.board.snap_points[1].y: expected number, got \"up\""
	if got := errors.UserMessage(err); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestSchemaExtend(t *testing.T) {
	base := New("Base", Float("width", 1), Float("height", 1))
	deck := base.Extend("Deck", Float("width", 2.2), Int("count", 52))

	if got := deck.Names(); len(got) != 3 || got[0] != "width" || got[2] != "count" {
		t.Errorf("Names() = %v, want [width height count]", got)
	}
	f, _ := deck.Field("width")
	if f.Default != 2.2 {
		t.Errorf("width default = %v, want 2.2", f.Default)
	}
	if f, _ := base.Field("width"); f.Default != 1.0 {
		t.Errorf("base width default changed to %v", f.Default)
	}
}

func TestSchemaDuplicateFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New("Bad", Int("a", 0), Int("a", 1))
}
