package bufferpool

// Replacer picks the frame to reuse when the pool is full.
type Replacer interface {
	RecordAccess(frameID int)
	SetEvictable(frameID int, evictable bool)
	Evict() (frameID int, ok bool)
	Remove(frameID int)
	Size() int
}

var _ Replacer = (*clock)(nil)

// clock implements CLOCK (second-chance) replacement over frame ids
// [0..capacity). Only frames that are tracked and evictable are candidates.
type clock struct {
	ref       []bool
	evictable []bool
	tracked   []bool
	hand      int
	size      int // evictable frames
}

func newClock(capacity int) *clock {
	if capacity <= 0 {
		capacity = 1
	}
	return &clock{
		ref:       make([]bool, capacity),
		evictable: make([]bool, capacity),
		tracked:   make([]bool, capacity),
	}
}

func (c *clock) valid(id int) bool { return id >= 0 && id < len(c.ref) }

// RecordAccess starts tracking the frame and sets its reference bit.
func (c *clock) RecordAccess(id int) {
	if !c.valid(id) {
		return
	}
	c.tracked[id] = true
	c.ref[id] = true
}

// SetEvictable toggles whether a tracked frame may be chosen (pin == 0).
func (c *clock) SetEvictable(id int, evictable bool) {
	if !c.valid(id) || !c.tracked[id] || c.evictable[id] == evictable {
		return
	}
	c.evictable[id] = evictable
	if evictable {
		c.size++
	} else {
		c.size--
	}
}

// Evict returns a victim and stops tracking it.
func (c *clock) Evict() (int, bool) {
	n := len(c.ref)
	if c.size == 0 {
		return -1, false
	}

	// two sweeps: the first may only clear reference bits
	for range 2 * n {
		idx := c.hand
		c.hand = (c.hand + 1) % n

		if !c.tracked[idx] || !c.evictable[idx] {
			continue
		}
		if c.ref[idx] {
			c.ref[idx] = false
			continue
		}
		c.untrack(idx)
		return idx, true
	}
	return -1, false
}

// Remove stops tracking the frame.
func (c *clock) Remove(id int) {
	if !c.valid(id) || !c.tracked[id] {
		return
	}
	c.untrack(id)
}

func (c *clock) untrack(id int) {
	if c.evictable[id] {
		c.size--
	}
	c.tracked[id] = false
	c.evictable[id] = false
	c.ref[id] = false
}

func (c *clock) Size() int { return c.size }
