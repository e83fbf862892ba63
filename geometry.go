package main

// Point is a position in editor-local coordinates.
type Point struct {
	X, Y float64
}

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// LeftEdge is the midpoint of the left side.
func (r Rect) LeftEdge() Point {
	return Point{r.X, r.Y + r.Height/2}
}

// RightEdge is the midpoint of the right side.
func (r Rect) RightEdge() Point {
	return Point{r.X + r.Width, r.Y + r.Height/2}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}
