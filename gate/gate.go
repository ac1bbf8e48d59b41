// Package gate arbitrates many concurrent partition writers against one
// exclusive decompress-and-flush pass over their buffers.
package gate

import (
	"sync/atomic"
	"time"
)

const (
	flushBit    uint32 = 0x80
	counterMask uint32 = 0x7F

	// MaxWriters is the writer admission cap imposed by the 7-bit counter
	MaxWriters = int(counterMask)
)

// DefaultRetryDelay is the poll interval for contended admission
const DefaultRetryDelay = 20 * time.Millisecond

// FlushGate packs a flush-active flag and an active-writer count into one
// atomic word. Any number of writers up to MaxWriters may hold the gate at
// once; a flush pass is exclusive against all of them.
//
// Admission retries forever on contention; misuse (a re-entrant flush, an
// unbalanced release) is a logic defect and panics.
type FlushGate struct {
	state atomic.Uint32
	retry time.Duration
}

// New creates a gate with the given retry delay, or DefaultRetryDelay if
// the delay is not positive.
func New(retry time.Duration) *FlushGate {
	if retry <= 0 {
		retry = DefaultRetryDelay
	}
	return &FlushGate{retry: retry}
}

// ProtectWrite runs fn as one of up to MaxWriters concurrent writers,
// blocking while a flush pass is active
func (g *FlushGate) ProtectWrite(fn func()) {
	g.lockWrite()
	defer g.unlockWrite()
	fn()
}

// ProtectFlush runs fn as the exclusive flush pass, blocking until all
// admitted writers have drained. Panics if a flush is already active.
func (g *FlushGate) ProtectFlush(fn func()) {
	g.lockFlush()
	defer g.unlockFlush()
	fn()
}

// Writers returns the current admitted-writer count
func (g *FlushGate) Writers() int {
	return int(g.state.Load() & counterMask)
}

// Flushing reports whether a flush pass holds the gate
func (g *FlushGate) Flushing() bool {
	return g.state.Load()&flushBit != 0
}

func (g *FlushGate) lockWrite() {
	for {
		cur := g.state.Load()
		if cur&flushBit != 0 {
			// flush in progress
			time.Sleep(g.retry)
			continue
		}
		if cur&counterMask == counterMask {
			// writer cap reached
			time.Sleep(g.retry)
			continue
		}
		if g.state.CompareAndSwap(cur, cur+1) {
			return
		}
		// lost the race to another writer or a flush
		time.Sleep(g.retry)
	}
}

func (g *FlushGate) unlockWrite() {
	before := g.state.Add(^uint32(0)) + 1
	if before == flushBit {
		panic("gate: writer release found only the flush flag set")
	}
	if before&counterMask == 0 {
		panic("gate: writer release with writer count at zero")
	}
}

func (g *FlushGate) lockFlush() {
	prev := g.state.Add(flushBit) - flushBit
	if prev&flushBit != 0 {
		panic("gate: flush requested while a flush is already active")
	}
	for g.state.Load()&counterMask > 0 {
		time.Sleep(g.retry)
	}
}

func (g *FlushGate) unlockFlush() {
	before := g.state.Swap(0)
	if before != flushBit {
		panic("gate: flush release found writers admitted or flag clear")
	}
}
