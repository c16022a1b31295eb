package verify

import (
	"sync"

	"github.com/sarchlab/vtb/sim"
)

// An ExpectedEntry is the prediction enqueued for one in-flight stimulus.
// Entries pair with observed responses in FIFO order.
type ExpectedEntry struct {
	StimulusID uint64
	Payload    uint64
	ExpectTick sim.VTick
}

// An ExpectedQueue is the bounded FIFO of predictions shared by the driver
// and the scoreboard.
type ExpectedQueue struct {
	lock    sync.Mutex
	bound   int
	entries []ExpectedEntry
}

// NewExpectedQueue creates an ExpectedQueue holding at most bound entries.
func NewExpectedQueue(bound int) *ExpectedQueue {
	if bound <= 0 {
		panic("expected queue bound must be positive")
	}

	return &ExpectedQueue{bound: bound}
}

// Push appends an entry. It returns ErrBackpressureOverflow when the queue
// is full.
func (q *ExpectedQueue) Push(e ExpectedEntry) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.entries) >= q.bound {
		return ErrBackpressureOverflow
	}

	q.entries = append(q.entries, e)

	return nil
}

// Pop removes and returns the oldest entry. The second return value is false
// when the queue is empty.
func (q *ExpectedQueue) Pop() (ExpectedEntry, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.entries) == 0 {
		return ExpectedEntry{}, false
	}

	e := q.entries[0]
	q.entries = q.entries[1:]

	return e, true
}

// Len returns the number of in-flight entries.
func (q *ExpectedQueue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return len(q.entries)
}
