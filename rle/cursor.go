package rle

// Cursor is a forward-only decoded view over a Buffer. It borrows the
// buffer's runs and must not outlive a mutation; re-creating one is cheap.
type Cursor[E comparable] struct {
	runs []Run[E]
	run  int
	left int // elements left in the current run
}

// NewCursor starts a cursor at the first decompressed element
func NewCursor[E comparable](b *Buffer[E]) *Cursor[E] {
	c := &Cursor[E]{runs: b.runs}
	if len(c.runs) > 0 {
		c.left = int(c.runs[0].Length)
	}
	return c
}

// advance moves to the next non-empty run if the current one is spent
func (c *Cursor[E]) advance() bool {
	for c.left == 0 {
		c.run++
		if c.run >= len(c.runs) {
			return false
		}
		c.left = int(c.runs[c.run].Length)
	}
	return true
}

// Next returns the next decoded element
func (c *Cursor[E]) Next() (E, bool) {
	if !c.advance() {
		var zero E
		return zero, false
	}
	c.left--
	return c.runs[c.run].Value, true
}

// Skip advances past n elements, consuming whole runs without decoding them
func (c *Cursor[E]) Skip(n int) {
	for n > 0 {
		if !c.advance() {
			return
		}
		take := min(n, c.left)
		c.left -= take
		n -= take
	}
}

// TakeRun consumes up to limit elements of the current run, returning the
// run's value and how many elements were taken
func (c *Cursor[E]) TakeRun(limit int) (E, int, bool) {
	if limit <= 0 || !c.advance() {
		var zero E
		return zero, 0, false
	}
	take := min(limit, c.left)
	c.left -= take
	return c.runs[c.run].Value, take, true
}
