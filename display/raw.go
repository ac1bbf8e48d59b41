package display

import (
	"context"
	"fmt"
	"sync"

	"github.com/lixenwraith/splitscreen/core"
	"github.com/lixenwraith/splitscreen/gate"
)

type rawEntry struct {
	id      int
	area    core.Area
	tracker *DrawTracker
}

// RawShared is the uncompressed shared display: one flat arena sized to the
// whole screen, owned here, with partitions holding only their rectangle
// and an identifier. All element access goes through the owner and is
// bounds-checked; partitions never see the arena directly.
//
// Dirty-rectangle tracking keeps flushes proportional to what was drawn.
type RawShared[C any, E comparable] struct {
	drv  Driver[C, E]
	size core.Size
	cfg  Config
	g    *gate.FlushGate
	buf  []E

	mu         sync.Mutex // guards partitions and nextID
	partitions []rawEntry
	nextID     int
}

// NewRawShared creates an uncompressed shared display over the given driver
func NewRawShared[C any, E comparable](drv Driver[C, E], cfg Config) (*RawShared[C, E], error) {
	size := drv.Size()
	if err := cfg.validate(size, false); err != nil {
		return nil, err
	}
	return &RawShared[C, E]{
		drv:  drv,
		size: size,
		cfg:  cfg,
		g:    gate.New(cfg.RetryDelay),
		buf:  make([]E, size.Pixels()),
	}, nil
}

// Size returns the parent screen dimensions
func (s *RawShared[C, E]) Size() core.Size {
	return s.size
}

// Gate exposes the display's flush gate
func (s *RawShared[C, E]) Gate() *gate.FlushGate {
	return s.g
}

// RawPartition is an index-based view into a RawShared arena. Drawing
// coordinates are local to the partition; points outside are dropped
// silently.
type RawPartition[C any, E comparable] struct {
	id      int
	area    core.Area
	owner   *RawShared[C, E]
	tracker *DrawTracker
}

// ID returns the partition's registry identifier
func (p *RawPartition[C, E]) ID() int {
	return p.id
}

// Area returns the partition's rectangle within the parent screen
func (p *RawPartition[C, E]) Area() core.Area {
	return p.area
}

// Bounds returns the partition's local drawable rectangle
func (p *RawPartition[C, E]) Bounds() core.Area {
	return core.AreaOf(core.Point{}, p.area.Size())
}

// NewPartition registers a new partition covering area
func (s *RawShared[C, E]) NewPartition(area core.Area) (*RawPartition[C, E], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newPartitionLocked(area)
}

func (s *RawShared[C, E]) newPartitionLocked(area core.Area) (*RawPartition[C, E], error) {
	taken := make([]core.Area, len(s.partitions))
	for i, e := range s.partitions {
		taken[i] = e.area
	}
	if err := checkArea(s.size, taken, area); err != nil {
		return nil, err
	}
	if len(s.partitions) >= s.cfg.MaxPartitions {
		return nil, ErrTooManyPartitions
	}

	id := s.nextID
	s.nextID++
	tracker := &DrawTracker{}
	s.partitions = append(s.partitions, rawEntry{id: id, area: area, tracker: tracker})
	return &RawPartition[C, E]{id: id, area: area, owner: s, tracker: tracker}, nil
}

// setElement writes one arena element at an absolute screen position
func (s *RawShared[C, E]) setElement(abs core.Point, v E) {
	idx := s.drv.BufferIndex(abs, s.size)
	if idx < 0 || idx >= len(s.buf) {
		panic(fmt.Sprintf("display: buffer index %d for point %+v outside arena of %d elements", idx, abs, len(s.buf)))
	}
	s.buf[idx] = v
}

// DrawPoints writes individual pixels given in partition-local coordinates
func (p *RawPartition[C, E]) DrawPoints(pixels []core.Pixel[C]) {
	offset := p.area.TopLeft()
	drew := false
	p.owner.g.ProtectWrite(func() {
		for _, px := range pixels {
			abs := px.Pos.Add(offset)
			if !p.area.Contains(abs) {
				continue
			}
			p.owner.setElement(abs, p.owner.drv.MapColor(px.Color))
			drew = true
		}
	})
	if drew {
		p.tracker.markAll()
	}
}

// FillArea fills a partition-local rectangle with one color, clipped to
// the partition's bounds
func (p *RawPartition[C, E]) FillArea(area core.Area, c C) {
	area = p.Bounds().Intersection(area)
	if area.IsEmpty() {
		return
	}
	el := p.owner.drv.MapColor(c)
	offset := p.area.TopLeft()
	p.owner.g.ProtectWrite(func() {
		for y := 0; y < area.Height; y++ {
			for x := 0; x < area.Width; x++ {
				abs := core.Point{X: area.X + x, Y: area.Y + y}.Add(offset)
				p.owner.setElement(abs, el)
			}
		}
	})
	p.tracker.include(area)
}

// Clear resets the whole partition to one color
func (p *RawPartition[C, E]) Clear(c C) {
	p.FillArea(p.Bounds(), c)
	p.tracker.markAll()
}

// SplitVertically divides the partition into two side-by-side partitions,
// retiring the original. The left half's width is rounded up to a multiple
// of 8 so no packed byte spans both halves.
func (p *RawPartition[C, E]) SplitVertically() (*RawPartition[C, E], *RawPartition[C, E], error) {
	leftWidth := (p.area.Width/2 + 7) &^ 7
	if leftWidth < 8 || p.area.Width-leftWidth < 8 {
		return nil, nil, ErrTooNarrow
	}
	leftArea := core.Area{X: p.area.X, Y: p.area.Y, Width: leftWidth, Height: p.area.Height}
	rightArea := core.Area{X: p.area.X + leftWidth, Y: p.area.Y, Width: p.area.Width - leftWidth, Height: p.area.Height}

	s := p.owner
	s.mu.Lock()
	defer s.mu.Unlock()

	// splitting replaces one entry with two; check capacity before touching
	// the registry so a failed split leaves the original partition intact
	if len(s.partitions) >= s.cfg.MaxPartitions {
		return nil, nil, ErrTooManyPartitions
	}

	var removed rawEntry
	for i, e := range s.partitions {
		if e.id == p.id {
			removed = e
			s.partitions = append(s.partitions[:i], s.partitions[i+1:]...)
			break
		}
	}
	left, err := s.newPartitionLocked(leftArea)
	if err != nil {
		s.partitions = append(s.partitions, removed)
		return nil, nil, err
	}
	right, err := s.newPartitionLocked(rightArea)
	if err != nil {
		s.partitions = s.partitions[:len(s.partitions)-1]
		s.partitions = append(s.partitions, removed)
		return nil, nil, err
	}
	return left, right, nil
}

// ClosePartition drops a partition from the registry
func (s *RawShared[C, E]) ClosePartition(p *RawPartition[C, E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.partitions {
		if e.id == p.id {
			s.partitions = append(s.partitions[:i], s.partitions[i+1:]...)
			return
		}
	}
}

// extract copies an absolute screen area out of the arena, row-major
func (s *RawShared[C, E]) extract(area core.Area) []E {
	out := make([]E, area.Size().Pixels())
	i := 0
	for y := 0; y < area.Height; y++ {
		for x := 0; x < area.Width; x++ {
			idx := s.drv.BufferIndex(core.Point{X: area.X + x, Y: area.Y + y}, s.size)
			out[i] = s.buf[idx]
			i++
		}
	}
	return out
}

// FlushLoop repeatedly hands each partition's dirty region to sink, sleeping
// FlushInterval between passes. Exits when sink returns Abort or ctx is
// cancelled. The area passed to sink is in absolute screen coordinates and
// els holds its elements row-major.
func (s *RawShared[C, E]) FlushLoop(ctx context.Context, sink func(area core.Area, els []E) FlushResult) error {
	for {
		s.mu.Lock()
		entries := make([]rawEntry, len(s.partitions))
		copy(entries, s.partitions)
		s.mu.Unlock()

		for _, e := range entries {
			area, all, dirty := e.tracker.takeDirty()
			if !dirty {
				continue
			}
			flushArea := e.area
			if !all {
				flushArea = area.Translate(e.area.TopLeft())
			}

			var els []E
			s.g.ProtectFlush(func() {
				els = s.extract(flushArea)
			})
			if sink(flushArea, els) == Abort {
				return nil
			}
		}

		if err := sleep(ctx, s.cfg.FlushInterval); err != nil {
			return err
		}
	}
}
