package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	tests := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{14, 14, true},
		{15, 10, false},
		{9, 12, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 10, 6).Inset(1)
	if r != (Rect{X: 1, Y: 1, W: 8, H: 4}) {
		t.Errorf("Inset(1) = %+v", r)
	}
	if small := NewRect(0, 0, 1, 1).Inset(2); small.W != 0 || small.H != 0 {
		t.Errorf("Inset should not go negative, got %+v", small)
	}
}

func TestRectProject(t *testing.T) {
	r := NewRect(0, 0, 11, 11)

	tests := []struct {
		name   string
		x, y   float32
		cx, cy int
	}{
		{"center", 0, 0, 5, 5},
		{"top right", 1, 1, 10, 0},
		{"bottom left", -1, -1, 0, 10},
		{"clamped", 5, -5, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := r.Project(tt.x, tt.y)
			if cx != tt.cx || cy != tt.cy {
				t.Errorf("Project(%v, %v) = (%d, %d), expected (%d, %d)", tt.x, tt.y, cx, cy, tt.cx, tt.cy)
			}
		})
	}
}

func TestClampF(t *testing.T) {
	if ClampF(-2, -1, 1) != -1 || ClampF(2, -1, 1) != 1 || ClampF(0.5, -1, 1) != 0.5 {
		t.Error("ClampF returned an unexpected value")
	}
}
