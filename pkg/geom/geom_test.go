package geom

import "testing"

func TestRectWidth(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want float64
	}{
		{
			name: "positive width",
			rect: Rect{Left: 10, Right: 50},
			want: 40,
		},
		{
			name: "zero width",
			rect: Rect{Left: 10, Right: 10},
			want: 0,
		},
		{
			name: "across origin",
			rect: Rect{Left: -2.5, Right: 2.5},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Width(); got != tt.want {
				t.Errorf("Width() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectHeight(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want float64
	}{
		{
			name: "positive height",
			rect: Rect{Bottom: 20, Top: 80},
			want: 60,
		},
		{
			name: "zero height",
			rect: Rect{Bottom: 50, Top: 50},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Height(); got != tt.want {
				t.Errorf("Height() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectFromCenter(t *testing.T) {
	r := RectFromCenter(1, -2, 4, 6)

	if r.Left != -1 || r.Right != 3 {
		t.Errorf("horizontal span = [%v, %v], want [-1, 3]", r.Left, r.Right)
	}
	if r.Bottom != -5 || r.Top != 1 {
		t.Errorf("vertical span = [%v, %v], want [-5, 1]", r.Bottom, r.Top)
	}
	if r.CenterX() != 1 || r.CenterY() != -2 {
		t.Errorf("center = (%v, %v), want (1, -2)", r.CenterX(), r.CenterY())
	}
	if r.Width() != 4 || r.Height() != 6 {
		t.Errorf("size = %vx%v, want 4x6", r.Width(), r.Height())
	}
}

func TestRectCorners(t *testing.T) {
	r := Rect{Left: 0, Right: 2, Bottom: 0, Top: 1}
	want := [4]Vec2{{0, 0}, {2, 0}, {2, 1}, {0, 1}}

	if got := r.Corners(); got != want {
		t.Errorf("Corners() = %v, want %v", got, want)
	}
}
