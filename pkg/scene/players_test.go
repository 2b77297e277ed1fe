package scene

import (
	"testing"

	"github.com/matzehuels/ttgen/pkg/errors"
)

func TestTwoPlayersHands(t *testing.T) {
	p, err := PlayerLayouts.Resolve(strict, map[string]any{"__tag__": "TwoPlayers"}, "players")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	hands := p.Hands(DefaultTableSize, DefaultTableSize)
	if len(hands) != 2 {
		t.Fatalf("len(Hands) = %d, want 2", len(hands))
	}

	tests := []struct {
		color   string
		x, y, z float64
	}{
		{"Red", -12, 3.24, -15},
		{"Blue", 12, 3.24, -15},
	}
	for i, tt := range tests {
		h := hands[i]
		if h.Color != tt.color {
			t.Errorf("hands[%d].Color = %q, want %q", i, h.Color, tt.color)
		}
		if h.Position.X != tt.x || h.Position.Y != tt.y || h.Position.Z != tt.z {
			t.Errorf("hands[%d].Position = %+v, want {%v %v %v}", i, h.Position, tt.x, tt.y, tt.z)
		}
		if h.Scale.X != 12 || h.Scale.Y != 6 || h.Scale.Z != 6 {
			t.Errorf("hands[%d].Scale = %+v, want {12 6 6}", i, h.Scale)
		}
	}
}

func TestTwoPlayersIntegerHalving(t *testing.T) {
	p := &TwoPlayers{BoxX: 5, BoxZ: 3, Colors: [2]string{"Green", "Teal"}}

	hands := p.Hands(20, 10)
	// floor(5/2) = 2, floor(3/2) = 1
	if hands[1].Position.X != 18 || hands[1].Position.Z != -9 {
		t.Errorf("Position = %+v, want X 18 Z -9", hands[1].Position)
	}
}

func TestPlayersErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		code errors.Code
	}{
		{"unknown tag", map[string]any{"__tag__": "FourPlayers"}, errors.ErrCodeUnknownVariant},
		{"three colors", map[string]any{"__tag__": "TwoPlayers", "colors": []any{"Red", "Blue", "Green"}}, errors.ErrCodeMalformedField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlayerLayouts.Resolve(strict, tt.raw, "players")
			if !errors.Is(err, tt.code) {
				t.Errorf("Resolve error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestTableSize(t *testing.T) {
	r := NewRegistry()
	if w, h := TableSize(r); w != 18 || h != 18 {
		t.Errorf("TableSize(empty) = %v, %v, want 18, 18", w, h)
	}
	tb := table("t")
	tb.TableWidth, tb.TableHeight = 30, 20
	_ = r.Register(tb)
	if w, h := TableSize(r); w != 30 || h != 20 {
		t.Errorf("TableSize = %v, %v, want 30, 20", w, h)
	}
}
