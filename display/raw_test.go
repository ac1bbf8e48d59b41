package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/splitscreen/core"
)

func newTestRaw(t *testing.T, w, h int) (*RawShared[uint8, uint8], *fakeDriver) {
	t.Helper()
	drv := newFakeDriver(w, h)
	s, err := NewRawShared[uint8, uint8](drv, testConfig())
	if err != nil {
		t.Fatalf("Expected raw shared display, got %v", err)
	}
	return s, drv
}

// collectFlushes runs the raw flush loop until n sinks happened
func collectFlushes(t *testing.T, s *RawShared[uint8, uint8], n int) []flushedChunk {
	t.Helper()
	var got []flushedChunk
	err := s.FlushLoop(context.Background(), func(area core.Area, els []uint8) FlushResult {
		got = append(got, flushedChunk{area: area, els: els})
		if len(got) == n {
			return Abort
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Expected clean abort, got %v", err)
	}
	return got
}

func TestRawFlushesDirtyAreaOnly(t *testing.T) {
	s, _ := newTestRaw(t, 32, 8)
	p, err := s.NewPartition(core.Area{X: 8, Y: 0, Width: 16, Height: 8})
	if err != nil {
		t.Fatalf("Expected partition, got %v", err)
	}

	p.FillArea(core.Area{X: 2, Y: 1, Width: 4, Height: 2}, 9)

	got := collectFlushes(t, s, 1)
	want := core.Area{X: 10, Y: 1, Width: 4, Height: 2}
	if got[0].area != want {
		t.Errorf("Expected dirty area %+v in screen coordinates, got %+v", want, got[0].area)
	}
	for i, v := range got[0].els {
		if v != 9 {
			t.Errorf("Expected element %d to be 9, got %d", i, v)
		}
	}
}

func TestRawDirtyAreaAccumulates(t *testing.T) {
	s, _ := newTestRaw(t, 32, 8)
	p, _ := s.NewPartition(core.Area{X: 0, Y: 0, Width: 16, Height: 8})

	p.FillArea(core.Area{X: 0, Y: 0, Width: 2, Height: 2}, 1)
	p.FillArea(core.Area{X: 6, Y: 5, Width: 2, Height: 2}, 2)

	got := collectFlushes(t, s, 1)
	want := core.Area{X: 0, Y: 0, Width: 8, Height: 7} // envelope of both fills
	if got[0].area != want {
		t.Errorf("Expected enveloped dirty area %+v, got %+v", want, got[0].area)
	}
}

func TestRawDrawPointsFlushesWholePartition(t *testing.T) {
	s, _ := newTestRaw(t, 32, 8)
	area := core.Area{X: 16, Y: 0, Width: 16, Height: 8}
	p, _ := s.NewPartition(area)

	p.DrawPoints([]core.Pixel[uint8]{
		{Pos: core.Point{X: 1, Y: 1}, Color: 4},
		{Pos: core.Point{X: 40, Y: 1}, Color: 4}, // dropped silently
	})

	got := collectFlushes(t, s, 1)
	if got[0].area != area {
		t.Errorf("Expected whole partition %+v dirty after DrawPoints, got %+v", area, got[0].area)
	}
	if got[0].els[1*16+1] != 4 {
		t.Errorf("Expected drawn pixel in flushed elements, got %d", got[0].els[1*16+1])
	}
}

func TestRawNothingDirtyNothingFlushed(t *testing.T) {
	s, _ := newTestRaw(t, 32, 8)
	if _, err := s.NewPartition(core.Area{X: 0, Y: 0, Width: 16, Height: 8}); err != nil {
		t.Fatalf("Expected partition, got %v", err)
	}

	sank := 0
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.FlushLoop(ctx, func(area core.Area, els []uint8) FlushResult {
		sank++
		return Continue
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if sank != 0 {
		t.Errorf("Expected no flushes for a clean partition, got %d", sank)
	}
}

func TestSplitVertically(t *testing.T) {
	s, _ := newTestRaw(t, 48, 8)
	p, _ := s.NewPartition(core.Area{X: 0, Y: 0, Width: 40, Height: 8})

	left, right, err := p.SplitVertically()
	if err != nil {
		t.Fatalf("Expected split, got %v", err)
	}

	// 40/2=20 rounds up to the next multiple of 8
	wantLeft := core.Area{X: 0, Y: 0, Width: 24, Height: 8}
	wantRight := core.Area{X: 24, Y: 0, Width: 16, Height: 8}
	if left.Area() != wantLeft {
		t.Errorf("Expected left %+v, got %+v", wantLeft, left.Area())
	}
	if right.Area() != wantRight {
		t.Errorf("Expected right %+v, got %+v", wantRight, right.Area())
	}

	// halves draw independently
	left.FillArea(core.Area{X: 0, Y: 0, Width: 4, Height: 1}, 3)
	got := collectFlushes(t, s, 1)
	if got[0].area.X != 0 || got[0].area.Y != 0 {
		t.Errorf("Expected left half flush at origin, got %+v", got[0].area)
	}
}

func TestSplitVerticallyTooNarrow(t *testing.T) {
	s, _ := newTestRaw(t, 48, 8)
	p, _ := s.NewPartition(core.Area{X: 0, Y: 0, Width: 8, Height: 8})

	if _, _, err := p.SplitVertically(); !errors.Is(err, ErrTooNarrow) {
		t.Errorf("Expected ErrTooNarrow for an 8-wide split, got %v", err)
	}
}

// A split that would exceed the partition limit must fail without touching
// the registry: the original stays registered and usable.
func TestSplitVerticallyAtCapacityKeepsOriginal(t *testing.T) {
	drv := newFakeDriver(48, 8)
	cfg := testConfig()
	cfg.MaxPartitions = 2
	s, err := NewRawShared[uint8, uint8](drv, cfg)
	if err != nil {
		t.Fatalf("Expected raw shared display, got %v", err)
	}

	orig := core.Area{X: 0, Y: 0, Width: 32, Height: 8}
	p, err := s.NewPartition(orig)
	if err != nil {
		t.Fatalf("Expected partition, got %v", err)
	}
	if _, err := s.NewPartition(core.Area{X: 32, Y: 0, Width: 16, Height: 8}); err != nil {
		t.Fatalf("Expected second partition, got %v", err)
	}

	if _, _, err := p.SplitVertically(); !errors.Is(err, ErrTooManyPartitions) {
		t.Fatalf("Expected ErrTooManyPartitions, got %v", err)
	}

	// the original area is still taken by p, not by an orphan half
	if _, err := s.NewPartition(orig); !errors.Is(err, ErrOverlaps) {
		t.Errorf("Expected original area still registered, got %v", err)
	}
	s.mu.Lock()
	n := len(s.partitions)
	var kept bool
	for _, e := range s.partitions {
		if e.id == p.id && e.area == orig {
			kept = true
		}
	}
	s.mu.Unlock()
	if n != 2 {
		t.Errorf("Expected 2 registered partitions after failed split, got %d", n)
	}
	if !kept {
		t.Error("Expected original partition entry unchanged after failed split")
	}

	// the original still draws and flushes
	p.FillArea(core.Area{X: 0, Y: 0, Width: 2, Height: 1}, 5)
	got := collectFlushes(t, s, 1)
	if want := (core.Area{X: 0, Y: 0, Width: 2, Height: 1}); got[0].area != want {
		t.Errorf("Expected dirty area %+v from the kept partition, got %+v", want, got[0].area)
	}
}

func TestRawPartitionValidationShared(t *testing.T) {
	s, _ := newTestRaw(t, 32, 8)
	if _, err := s.NewPartition(core.Area{X: 0, Y: 0, Width: 16, Height: 8}); err != nil {
		t.Fatalf("Expected partition, got %v", err)
	}
	if _, err := s.NewPartition(core.Area{X: 8, Y: 0, Width: 16, Height: 8}); !errors.Is(err, ErrOverlaps) {
		t.Errorf("Expected ErrOverlaps, got %v", err)
	}
	if _, err := s.NewPartition(core.Area{X: 16, Y: 0, Width: 20, Height: 8}); !errors.Is(err, ErrOutsideParent) {
		t.Errorf("Expected ErrOutsideParent, got %v", err)
	}
}
