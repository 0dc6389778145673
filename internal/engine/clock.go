package engine

import "sync/atomic"

// Clock stamps check outcomes with logical seq numbers.
//
// A run reserves one contiguous block of seqs for its whole batch before
// any step is checked, so a run's outcomes are numbered in enqueue order
// and never interleave with another run sharing the clock. Wall time is
// never consulted.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock whose first seq is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock whose first seq is last+1, for continuing
// the numbering of an existing log.
func NewClockAt(last int64) *Clock {
	c := &Clock{}
	c.seq.Store(last)
	return c
}

// Next reserves a single seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Reserve claims n consecutive seqs and returns the first. Reserving zero
// returns the seq the next reservation would start at and claims nothing.
func (c *Clock) Reserve(n int) int64 {
	if n <= 0 {
		return c.seq.Load() + 1
	}
	return c.seq.Add(int64(n)) - int64(n) + 1
}

// Current returns the last seq handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
