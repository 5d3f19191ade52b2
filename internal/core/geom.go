// Package core holds the types shared across the game core boundary: the
// Output a core returns from a tick and the Screen it draws into.
// It depends on nothing but the input package so cores stay host independent.
package core

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether the cell (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks r by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// Project maps a point in -1..1 (y up) onto a cell inside r.
// Values outside the range are clamped to the edge.
func (r Rect) Project(x, y float32) (int, int) {
	if r.W <= 0 || r.H <= 0 {
		return r.X, r.Y
	}
	fx := (ClampF(float64(x), -1, 1) + 1) / 2
	fy := (1 - ClampF(float64(y), -1, 1)) / 2
	cx := r.X + int(fx*float64(r.W-1)+0.5)
	cy := r.Y + int(fy*float64(r.H-1)+0.5)
	return cx, cy
}

// ClampF restricts val to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
