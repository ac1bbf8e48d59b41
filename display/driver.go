package display

import "github.com/lixenwraith/splitscreen/core"

// Driver supplies the device-specific capabilities a shared display needs:
// the screen dimensions, the mapping from drawing colors to stored buffer
// elements, the element layout, and the chunk sink.
//
// MapColor and BufferIndex must be pure. FlushChunk receives decoded
// elements for a full-width horizontal strip and forwards them to the
// device; the chunk slice is reused between calls and must not be retained.
type Driver[C any, E comparable] interface {
	Size() core.Size
	MapColor(c C) E
	BufferIndex(p core.Point, size core.Size) int
	FlushChunk(chunk []E, area core.Area) error
}

// FlushResult tells a flush loop whether to keep running
type FlushResult int

const (
	// Continue proceeds with the next flush cycle
	Continue FlushResult = iota
	// Abort terminates the flush loop (e.g. the simulator window closed)
	Abort
)
