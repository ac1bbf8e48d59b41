package display

import (
	"fmt"

	"github.com/lixenwraith/splitscreen/core"
	"github.com/lixenwraith/splitscreen/gate"
	"github.com/lixenwraith/splitscreen/rle"
)

// Partition is one app's exclusively-owned region of a Shared display,
// backed by its own compressed buffer. Drawing coordinates are local to the
// partition; points outside its area are dropped silently.
//
// Every mutation runs under the owning display's FlushGate, so a concurrent
// flush pass never observes a torn run sequence.
type Partition[C any, E comparable] struct {
	id     int
	area   core.Area
	parent core.Size
	buf    *rle.Buffer[E]
	drv    Driver[C, E]
	g      *gate.FlushGate
}

// ID returns the partition's registry identifier
func (p *Partition[C, E]) ID() int {
	return p.id
}

// Area returns the partition's rectangle within the parent screen
func (p *Partition[C, E]) Area() core.Area {
	return p.area
}

// Bounds returns the partition's local drawable rectangle, anchored at the
// origin
func (p *Partition[C, E]) Bounds() core.Area {
	return core.AreaOf(core.Point{}, p.area.Size())
}

// DrawPoints writes individual pixels given in partition-local coordinates
func (p *Partition[C, E]) DrawPoints(pixels []core.Pixel[C]) {
	bounds := p.Bounds()
	p.g.ProtectWrite(func() {
		for _, px := range pixels {
			if !bounds.Contains(px.Pos) {
				continue
			}
			idx := p.drv.BufferIndex(px.Pos, p.area.Size())
			p.buf.SetAt(idx, p.drv.MapColor(px.Color))
		}
		if err := p.buf.CheckIntegrity(); err != nil {
			panic(fmt.Sprintf("display: partition %d corrupt after DrawPoints: %v", p.id, err))
		}
	})
}

// FillArea fills a partition-local rectangle with one color, clipped to the
// partition's bounds
func (p *Partition[C, E]) FillArea(area core.Area, c C) {
	area = p.Bounds().Intersection(area)
	if area.IsEmpty() {
		return
	}
	el := p.drv.MapColor(c)
	p.g.ProtectWrite(func() {
		for y := 0; y < area.Height; y++ {
			start := p.drv.BufferIndex(core.Point{X: area.X, Y: area.Y + y}, p.area.Size())
			p.buf.SetRange(start, el, area.Width)
		}
		if err := p.buf.CheckIntegrity(); err != nil {
			panic(fmt.Sprintf("display: partition %d corrupt after FillArea: %v", p.id, err))
		}
	})
}

// Clear resets the whole partition to one color
func (p *Partition[C, E]) Clear(c C) {
	el := p.drv.MapColor(c)
	p.g.ProtectWrite(func() {
		p.buf.ClearAndRefill(el)
	})
}
