package core

// Pixel pairs a coordinate with a color to draw there
type Pixel[C any] struct {
	Pos   Point
	Color C
}
