package scene

import (
	"testing"

	"github.com/matzehuels/ttgen/pkg/errors"
)

func deck(name string) *Deck {
	return &Deck{Base: Base{Name: name, tag: TagDeck}, Count: 1}
}

func board(name string) *Board {
	return &Board{Base: Base{Name: name, tag: TagBoard}}
}

func table(name string) *Table {
	return &Table{Base: Base{Name: name, tag: TagFlexTable}, TableWidth: 18, TableHeight: 18}
}

func TestRegisterKeys(t *testing.T) {
	r := NewRegistry()
	for _, c := range []Component{deck("draw"), board("draw"), table("surface")} {
		if err := r.Register(c); err != nil {
			t.Fatalf("Register(%s): %v", c.Key(), err)
		}
	}

	want := []string{"Deck:draw", "Board:draw", "table"}
	got := r.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		first  Component
		second Component
	}{
		{"same deck", deck("draw"), deck("draw")},
		{"two tables", table("a"), &Table{Base: Base{Name: "b", tag: TagHardwoodTable}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(tt.first); err != nil {
				t.Fatalf("Register first: %v", err)
			}
			err := r.Register(tt.second)
			if !errors.Is(err, errors.ErrCodeDuplicateKey) {
				t.Fatalf("Register second = %v, want DUPLICATE_KEY", err)
			}
			if r.Len() != 1 {
				t.Errorf("registry changed on failure: Len() = %d, want 1", r.Len())
			}
			c, _ := r.Lookup(tt.first.Key())
			if c != tt.first {
				t.Error("first component replaced")
			}
		})
	}
}

func TestRegisterUnnamed(t *testing.T) {
	err := NewRegistry().Register(deck(""))
	if !errors.Is(err, errors.ErrCodeMalformedField) {
		t.Errorf("Register unnamed = %v, want MALFORMED_FIELD", err)
	}
}

func TestResolve(t *testing.T) {
	r := NewRegistry()
	d, b, tb, solo := deck("draw"), board("draw"), table("surface"), deck("discard")
	for _, c := range []Component{d, b, tb, solo} {
		if err := r.Register(c); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		ref  string
		want Component
		code errors.Code
	}{
		{"Deck:draw", d, ""},
		{"Board:draw", b, ""},
		{"table", tb, ""},
		{"discard", solo, ""},
		{"surface", tb, ""},
		{"draw", nil, errors.ErrCodeUnresolvedReference},
		{"missing", nil, errors.ErrCodeUnresolvedReference},
		{"Deck:missing", nil, errors.ErrCodeUnresolvedReference},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("Resolve(%q) error = %v, want %s", tt.ref, err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.ref, got.Key(), tt.want.Key())
			}
		})
	}
}

func TestTableAndDecks(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Table(); ok {
		t.Error("Table() reported a table in an empty registry")
	}

	a, b := deck("a"), deck("b")
	for _, c := range []Component{a, board("x"), table("t"), b} {
		if err := r.Register(c); err != nil {
			t.Fatal(err)
		}
	}
	if tb, ok := r.Table(); !ok || tb.Name != "t" {
		t.Errorf("Table() = %v, %v", tb, ok)
	}
	decks := r.Decks()
	if len(decks) != 2 || decks[0] != a || decks[1] != b {
		t.Errorf("Decks() = %v, want [a b]", decks)
	}
}

func TestSetGroundPosition(t *testing.T) {
	d := deck("draw")
	d.Position.Y = 2
	d.SetGroundPosition(1.5, -3)

	if d.Position.X != 1.5 || d.Position.Y != 2 || d.Position.Z != -3 {
		t.Errorf("Position = %+v, want {1.5 2 -3}", d.Position)
	}
}
