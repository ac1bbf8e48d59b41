package display

import (
	"sync"

	"github.com/lixenwraith/splitscreen/core"
)

// fakeDriver records every flushed chunk, mimicking a byte-per-pixel device
type fakeDriver struct {
	size core.Size

	mu     sync.Mutex
	chunks []flushedChunk
}

type flushedChunk struct {
	area core.Area
	els  []uint8
}

func newFakeDriver(w, h int) *fakeDriver {
	return &fakeDriver{size: core.Size{Width: w, Height: h}}
}

func (d *fakeDriver) Size() core.Size        { return d.size }
func (d *fakeDriver) MapColor(c uint8) uint8 { return c }
func (d *fakeDriver) BufferIndex(p core.Point, size core.Size) int {
	return p.Y*size.Width + p.X
}

func (d *fakeDriver) FlushChunk(chunk []uint8, area core.Area) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chunks = append(d.chunks, flushedChunk{area: area, els: append([]uint8(nil), chunk...)})
	return nil
}

// assemble rebuilds a full screen image from recorded chunks
func (d *fakeDriver) assemble() []uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	img := make([]uint8, d.size.Pixels())
	for _, c := range d.chunks {
		for y := 0; y < c.area.Height; y++ {
			row := (c.area.Y+y)*d.size.Width + c.area.X
			copy(img[row:row+c.area.Width], c.els[y*c.area.Width:(y+1)*c.area.Width])
		}
	}
	return img
}

func (d *fakeDriver) chunkCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.chunks)
}
