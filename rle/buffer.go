// Package rle implements the run-length-encoded framebuffer backing one
// display partition, plus a lazy decompressing cursor over it.
package rle

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/splitscreen/core"
)

// MaxRunLength is the capacity of the 8-bit run length field.
// Spans longer than this are encoded as multiple runs.
const MaxRunLength = 255

// Run encodes a contiguous span of identical elements.
// Length is never 0.
type Run[E comparable] struct {
	Value  E
	Length uint8
}

// Buffer is an RLE-encoded framebuffer for one rectangular region.
// The sum of run lengths always equals Size().Pixels().
type Buffer[E comparable] struct {
	runs []Run[E]
	size core.Size
}

// New creates a buffer encoding size.Pixels() elements of the fill value
func New[E comparable](size core.Size, fill E) *Buffer[E] {
	b := &Buffer[E]{size: size}
	b.refill(fill)
	return b
}

// Size returns the decompressed dimensions
func (b *Buffer[E]) Size() core.Size {
	return b.size
}

// Len returns the number of decompressed elements the buffer encodes
func (b *Buffer[E]) Len() int {
	return b.size.Pixels()
}

// Runs exposes the run sequence. The slice is owned by the buffer and must
// not be mutated or retained across mutations.
func (b *Buffer[E]) Runs() []Run[E] {
	return b.runs
}

// CheckIntegrity verifies the run lengths still account for every element
func (b *Buffer[E]) CheckIntegrity() error {
	total := 0
	for _, r := range b.runs {
		total += int(r.Length)
	}
	if total != b.size.Pixels() {
		return fmt.Errorf("rle: buffer encodes %d elements, want %d", total, b.size.Pixels())
	}
	return nil
}

func (b *Buffer[E]) mustBeIntact(op string) {
	if err := b.CheckIntegrity(); err != nil {
		panic(fmt.Sprintf("rle: integrity check failed after %s: %v", op, err))
	}
}

func (b *Buffer[E]) refill(v E) {
	b.runs = b.runs[:0]
	left := b.size.Pixels()
	for left >= MaxRunLength {
		b.runs = append(b.runs, Run[E]{v, MaxRunLength})
		left -= MaxRunLength
	}
	if left > 0 {
		b.runs = append(b.runs, Run[E]{v, uint8(left)})
	}
}

// ClearAndRefill resets the buffer to encode only the given value
func (b *Buffer[E]) ClearAndRefill(v E) {
	b.refill(v)
}

// findRun locates the run containing the decompressed index target.
// Returns the run index and the decompressed index of the run's first element.
func (b *Buffer[E]) findRun(target int) (ri, runStart int) {
	for ri < len(b.runs) {
		if runStart+int(b.runs[ri].Length) > target {
			return ri, runStart
		}
		runStart += int(b.runs[ri].Length)
		ri++
	}
	panic(fmt.Sprintf("rle: no run covers index %d", target))
}

// SetAt writes one element at the decompressed index target.
//
// The containing run is split into up to three pieces. A resulting singleton
// is absorbed into the previous run when possible (cascading into the run
// after if that empties the old run), else into the next run. Merges never
// grow a run past MaxRunLength.
func (b *Buffer[E]) SetAt(target int, v E) {
	ri, runStart := b.findRun(target)

	old := b.runs[ri]
	if old.Value == v {
		return
	}

	beforeLen := target - runStart
	afterLen := runStart + int(old.Length) - (target + 1)

	// absorb into the previous run
	if beforeLen == 0 && ri > 0 {
		prev := &b.runs[ri-1]
		if prev.Value == v && prev.Length < MaxRunLength {
			prev.Length++
			b.runs[ri].Length--
			if b.runs[ri].Length == 0 {
				b.runs = slices.Delete(b.runs, ri, ri+1)
				// the grown run may now touch another run of the same value
				if ri < len(b.runs) {
					next := b.runs[ri]
					combined := int(b.runs[ri-1].Length) + int(next.Length)
					if combined < MaxRunLength && next.Value == v {
						b.runs[ri-1].Length = uint8(combined)
						b.runs = slices.Delete(b.runs, ri, ri+1)
					}
				}
			}
			return
		}
	}

	// absorb into the next run
	if afterLen == 0 && ri < len(b.runs)-1 {
		next := &b.runs[ri+1]
		if next.Value == v && next.Length < MaxRunLength {
			next.Length++
			b.runs[ri].Length--
			if b.runs[ri].Length == 0 {
				b.runs = slices.Delete(b.runs, ri, ri+1)
			}
			return
		}
	}

	// split into prefix, singleton, suffix
	b.runs[ri] = Run[E]{v, 1}
	if beforeLen > 0 {
		b.runs = slices.Insert(b.runs, ri, Run[E]{old.Value, uint8(beforeLen)})
	}
	if afterLen > 0 {
		idx := ri + 1
		if beforeLen > 0 {
			idx++
		}
		b.runs = slices.Insert(b.runs, idx, Run[E]{old.Value, uint8(afterLen)})
	}

	b.mustBeIntact(fmt.Sprintf("SetAt(%d)", target))
}

// SetRange writes count copies of v starting at the decompressed index start.
// Decoded contents match count sequential SetAt calls, in O(runs touched).
func (b *Buffer[E]) SetRange(start int, v E, count int) {
	if count <= 0 {
		return
	}
	if start < 0 || start+count > b.Len() {
		panic(fmt.Sprintf("rle: SetRange(%d, %d) outside buffer of %d elements", start, count, b.Len()))
	}

	// skip leading elements that already hold v
	ri, runStart := 0, 0
	for ri < len(b.runs) {
		r := b.runs[ri]
		runEnd := runStart + int(r.Length)
		if runEnd <= start {
			runStart = runEnd
			ri++
			continue
		}
		if r.Value != v {
			break
		}
		already := runEnd - start
		if already >= count {
			return
		}
		start = runEnd
		count -= already
		runStart = runEnd
		ri++
	}

	old := b.runs[ri]
	prefixLen := start - runStart

	// consume runs fully or partially covered by the span
	covered := prefixLen + count
	consumed := 0
	j := ri
	var suffix Run[E]
	hasSuffix := false
	for j < len(b.runs) {
		rl := int(b.runs[j].Length)
		if consumed+rl > covered {
			suffix = Run[E]{b.runs[j].Value, uint8(consumed + rl - covered)}
			hasSuffix = true
			consumed = covered
			j++
			break
		}
		consumed += rl
		j++
		if consumed == covered {
			break
		}
	}

	// replace with prefix, chunked new runs (remainder first), suffix
	newRuns := make([]Run[E], 0, count/MaxRunLength+3)
	if prefixLen > 0 {
		newRuns = append(newRuns, Run[E]{old.Value, uint8(prefixLen)})
	}
	if rem := count % MaxRunLength; rem > 0 {
		newRuns = append(newRuns, Run[E]{v, uint8(rem)})
	}
	for range count / MaxRunLength {
		newRuns = append(newRuns, Run[E]{v, MaxRunLength})
	}
	if hasSuffix {
		newRuns = append(newRuns, suffix)
	}
	b.runs = slices.Replace(b.runs, ri, j, newRuns...)

	// the splice boundaries may have created mergeable neighbors
	b.normalize(max(ri-1, 0), ri+len(newRuns))

	b.mustBeIntact(fmt.Sprintf("SetRange(%d, %d)", start, count))
}

// normalize merges adjacent equal-value runs within [lo, hi) whose combined
// length fits the cap. Runs at the cap stay unmerged.
func (b *Buffer[E]) normalize(lo, hi int) {
	i := lo
	for i < len(b.runs)-1 && i < hi {
		cur, next := b.runs[i], b.runs[i+1]
		combined := int(cur.Length) + int(next.Length)
		if cur.Value == next.Value && combined <= MaxRunLength {
			b.runs[i].Length = uint8(combined)
			b.runs = slices.Delete(b.runs, i+1, i+2)
			hi--
			continue
		}
		i++
	}
}
