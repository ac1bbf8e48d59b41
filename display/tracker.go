package display

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/splitscreen/core"
)

// DrawTracker records which part of a partition changed since the last
// flush. The dirty flag is checked lock-free on the hot flush path; the
// accumulated area is guarded by a mutex.
type DrawTracker struct {
	dirty atomic.Bool

	mu   sync.Mutex
	all  bool
	some bool
	area core.Area // partition-local, valid when some
}

// markAll flags the whole partition as dirty
func (t *DrawTracker) markAll() {
	t.mu.Lock()
	t.all = true
	t.dirty.Store(true)
	t.mu.Unlock()
}

// include grows the dirty region by a partition-local area
func (t *DrawTracker) include(a core.Area) {
	if a.IsEmpty() {
		return
	}
	t.mu.Lock()
	if !t.all {
		if t.some {
			t.area = t.area.Envelope(a)
		} else {
			t.some = true
			t.area = a
		}
	}
	t.dirty.Store(true)
	t.mu.Unlock()
}

// takeDirty returns and resets the accumulated dirty state.
// all takes precedence over the partial area.
func (t *DrawTracker) takeDirty() (area core.Area, all, dirty bool) {
	if !t.dirty.Load() {
		return core.Area{}, false, false
	}
	t.mu.Lock()
	area, all, dirty = t.area, t.all, t.all || t.some
	t.all, t.some = false, false
	t.area = core.Area{}
	// clear the flag under the lock: a concurrent include between the reset
	// and the store would otherwise record an area the flag never reports
	t.dirty.Store(false)
	t.mu.Unlock()
	return area, all, dirty
}
