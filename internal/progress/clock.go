package progress

import "sync/atomic"

// Sequencer hands out strictly increasing sequence numbers.
// Implemented by Clock (production) and testutil.DeterministicClock (tests).
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock stamping every pushed snapshot.
//
// Snapshots are ordered by seq, never by wall-clock time, so display sinks
// that receive updates asynchronously can still order them.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// NewClockAt creates a clock that resumes after seq.
// The next call to Next returns seq+1.
func NewClockAt(seq int64) *Clock {
	c := &Clock{}
	c.seq.Store(seq)
	return c
}
