package core

// Point represents a 2D coordinate
type Point struct {
	X, Y int
}

// Add returns the component-wise sum of two points
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns the component-wise difference of two points
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Size represents 2D dimensions
type Size struct {
	Width, Height int
}

// Pixels returns the total number of elements covered by the size
func (s Size) Pixels() int {
	return s.Width * s.Height
}

// Area represents a rectangular target region
type Area struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions (minimum 1x1)
}

// AreaOf builds an area from a top-left corner and dimensions
func AreaOf(topLeft Point, size Size) Area {
	return Area{X: topLeft.X, Y: topLeft.Y, Width: size.Width, Height: size.Height}
}

// TopLeft returns the top-left corner
func (a Area) TopLeft() Point {
	return Point{a.X, a.Y}
}

// Size returns the area's dimensions
func (a Area) Size() Size {
	return Size{a.Width, a.Height}
}

// BottomRight returns the inclusive bottom-right corner.
// Only meaningful for non-empty areas.
func (a Area) BottomRight() Point {
	return Point{a.X + a.Width - 1, a.Y + a.Height - 1}
}

// IsEmpty reports whether the area covers no pixels
func (a Area) IsEmpty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Contains reports whether the point lies inside the area
func (a Area) Contains(p Point) bool {
	return p.X >= a.X && p.X < a.X+a.Width && p.Y >= a.Y && p.Y < a.Y+a.Height
}

// Intersection returns the overlapping region of two areas.
// The result is empty if the areas do not overlap.
func (a Area) Intersection(b Area) Area {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Area{}
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Envelope returns the smallest area containing both areas.
// An empty operand does not grow the result.
func (a Area) Envelope(b Area) Area {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	x1 := min(a.X, b.X)
	y1 := min(a.Y, b.Y)
	x2 := max(a.X+a.Width, b.X+b.Width)
	y2 := max(a.Y+a.Height, b.Y+b.Height)
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Translate returns the area shifted by the given offset
func (a Area) Translate(offset Point) Area {
	return Area{X: a.X + offset.X, Y: a.Y + offset.Y, Width: a.Width, Height: a.Height}
}
