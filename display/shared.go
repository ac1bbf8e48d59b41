package display

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lixenwraith/splitscreen/core"
	"github.com/lixenwraith/splitscreen/gate"
	"github.com/lixenwraith/splitscreen/rle"
)

// AppClosed is sent on the events channel when a launched app returns and
// its area becomes available again
type AppClosed struct {
	Area core.Area
}

type sharedEntry[E comparable] struct {
	id   int
	area core.Area
	buf  *rle.Buffer[E] // read only during a flush critical section
}

// Shared is the compressed shared display: a bounded registry of live
// partitions, each holding its own RLE buffer, and a chunked flush
// orchestrator that merges them into screen-wide strips for the driver.
//
// At most one FlushLoop may run per Shared.
type Shared[C any, E comparable] struct {
	drv  Driver[C, E]
	size core.Size
	cfg  Config
	g    *gate.FlushGate

	mu         sync.Mutex // guards partitions and nextID
	partitions []sharedEntry[E]
	nextID     int

	events chan AppClosed
}

// NewShared creates a compressed shared display over the given driver
func NewShared[C any, E comparable](drv Driver[C, E], cfg Config) (*Shared[C, E], error) {
	size := drv.Size()
	if err := cfg.validate(size, true); err != nil {
		return nil, err
	}
	return &Shared[C, E]{
		drv:    drv,
		size:   size,
		cfg:    cfg,
		g:      gate.New(cfg.RetryDelay),
		events: make(chan AppClosed, cfg.MaxPartitions),
	}, nil
}

// Size returns the parent screen dimensions
func (s *Shared[C, E]) Size() core.Size {
	return s.size
}

// Gate exposes the display's flush gate, shared by all partitions
func (s *Shared[C, E]) Gate() *gate.FlushGate {
	return s.g
}

// Events reports closed apps. The channel is buffered; events are dropped
// if nobody listens.
func (s *Shared[C, E]) Events() <-chan AppClosed {
	return s.events
}

func checkArea(parent core.Size, taken []core.Area, area core.Area) error {
	screen := core.AreaOf(core.Point{}, parent)
	if !screen.Contains(area.TopLeft()) || !screen.Contains(area.BottomRight()) {
		return ErrOutsideParent
	}
	for _, t := range taken {
		if !t.Intersection(area).IsEmpty() {
			return ErrOverlaps
		}
	}
	if area.Width < 8 {
		return ErrTooNarrow
	}
	if area.Width%8 != 0 {
		return ErrBadWidth
	}
	return nil
}

// NewPartition registers a new partition covering area.
// The partition starts filled with the zero element.
func (s *Shared[C, E]) NewPartition(area core.Area) (*Partition[C, E], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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

	var zero E
	id := s.nextID
	s.nextID++
	buf := rle.New(area.Size(), zero)
	s.partitions = append(s.partitions, sharedEntry[E]{id: id, area: area, buf: buf})

	return &Partition[C, E]{
		id:     id,
		area:   area,
		parent: s.size,
		buf:    buf,
		drv:    s.drv,
		g:      s.g,
	}, nil
}

// ClosePartition drops a partition from the registry, making its area
// available again. The partition must not be drawn to afterwards.
func (s *Shared[C, E]) ClosePartition(p *Partition[C, E]) {
	s.mu.Lock()
	for i, e := range s.partitions {
		if e.id == p.id {
			s.partitions = append(s.partitions[:i], s.partitions[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	select {
	case s.events <- AppClosed{Area: p.area}:
	default:
	}
}

// LaunchApp creates a partition for area and runs app in its own goroutine.
// When app returns, the partition is closed and an AppClosed event is sent.
func (s *Shared[C, E]) LaunchApp(app func(*Partition[C, E]), area core.Area) error {
	p, err := s.NewPartition(area)
	if err != nil {
		return err
	}
	go func() {
		app(p)
		s.ClosePartition(p)
	}()
	return nil
}

func (s *Shared[C, E]) partitionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.partitions)
}

// FlushLoop runs flush cycles until the completion callback returns Abort,
// the driver sink fails, or ctx is cancelled.
//
// Each cycle decompresses the screen strip by strip. The decompression and
// sink hand-off for one chunk run inside a single exclusive gate section,
// bounding both how long writers stall and peak memory (one chunk, never
// the whole screen). The completion callback runs in its own exclusive
// section once per cycle.
func (s *Shared[C, E]) FlushLoop(ctx context.Context, complete func() FlushResult) error {
	chunkPixels := s.size.Width * s.cfg.ChunkHeight
	chunk := make([]E, chunkPixels)
	numChunks := s.size.Height / s.cfg.ChunkHeight

	for {
		if s.partitionCount() == 0 {
			if err := sleep(ctx, s.cfg.FlushInterval); err != nil {
				return err
			}
			continue
		}

		for i := 0; i < numChunks; i++ {
			chunkArea := core.Area{
				X:      0,
				Y:      i * s.cfg.ChunkHeight,
				Width:  s.size.Width,
				Height: s.cfg.ChunkHeight,
			}
			var sinkErr error
			s.g.ProtectFlush(func() {
				s.decompressChunk(chunk, chunkArea)
				sinkErr = s.drv.FlushChunk(chunk, chunkArea)
			})
			if sinkErr != nil {
				return fmt.Errorf("display: flush chunk at y=%d: %w", chunkArea.Y, sinkErr)
			}
		}

		var res FlushResult
		s.g.ProtectFlush(func() {
			res = complete()
		})
		if res == Abort {
			return nil
		}

		if err := sleep(ctx, s.cfg.FlushInterval); err != nil {
			return err
		}
	}
}

// decompressChunk rebuilds one full-width strip from every partition
// intersecting it. Caller holds the flush side of the gate.
func (s *Shared[C, E]) decompressChunk(dst []E, chunkArea core.Area) {
	var zero E
	for i := range dst {
		dst[i] = zero
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.partitions {
		inter := e.area.Intersection(chunkArea)
		if inter.IsEmpty() {
			continue
		}
		copyIntersection(dst, chunkArea, e, inter)
	}
}

// copyIntersection decodes the part of a partition's buffer that falls
// inside the chunk and scatters it into the chunk row by row. A run that
// straddles output rows is copied in row-sized pieces; every decoded
// element is consumed exactly once.
func copyIntersection[E comparable](dst []E, chunkArea core.Area, e sharedEntry[E], inter core.Area) {
	// chunks span the full screen width, so the intersection is always as
	// wide as the partition itself
	if inter.Width != e.area.Width {
		panic("display: chunk intersection narrower than partition")
	}

	cur := rle.NewCursor(e.buf)
	rel := inter.TopLeft().Sub(e.area.TopLeft())
	cur.Skip(rel.Y*e.area.Width + rel.X)

	total := inter.Width * inter.Height
	dstBase := (inter.Y-chunkArea.Y)*chunkArea.Width + inter.X
	copied := 0
	for copied < total {
		v, n, ok := cur.TakeRun(total - copied)
		if !ok {
			panic(fmt.Sprintf("display: partition %d ran out of runs with %d elements left", e.id, total-copied))
		}
		for n > 0 {
			row := copied / inter.Width
			col := copied % inter.Width
			piece := min(n, inter.Width-col)
			start := dstBase + row*chunkArea.Width + col
			for k := 0; k < piece; k++ {
				dst[start+k] = v
			}
			copied += piece
			n -= piece
		}
	}
}

// sleep waits for d or for ctx cancellation, whichever is first
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
