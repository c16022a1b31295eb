package coverage

import (
	"sync"

	"github.com/sarchlab/vtb/xact"
)

// A BinReport is the read-only view of one bin after or during a run.
type BinReport struct {
	Name     string
	HitCount uint64
	Hit      bool
}

// A Report is a snapshot of the coverage state. It is a value and does not
// change after being taken.
type Report struct {
	Bins []BinReport

	// OverallPercent is hit bins over total bins, in percent. An empty bin
	// set is vacuously 100% covered.
	OverallPercent float64
}

// MeetsThreshold tells if the overall coverage reaches the given threshold
// percentage.
func (r Report) MeetsThreshold(threshold float64) bool {
	return r.OverallPercent >= threshold
}

// A Tracker records which bins have been hit by sampled transactions. The
// bin set is fixed at construction. Sampling from the driver side and the
// monitor side is serialized by a single lock.
type Tracker struct {
	lock      sync.Mutex
	bins      []*Bin
	hitCounts []uint64
}

// NewTracker creates a Tracker over the given bins.
func NewTracker(bins []*Bin) *Tracker {
	t := &Tracker{
		bins:      make([]*Bin, len(bins)),
		hitCounts: make([]uint64, len(bins)),
	}
	copy(t.bins, bins)

	return t
}

// Sample evaluates every bin's predicate against the transaction and
// increments the hit count of every bin that matches.
func (t *Tracker) Sample(txn xact.Transaction) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for i, bin := range t.bins {
		if bin.Predicate(txn) {
			t.hitCounts[i]++
		}
	}
}

// Report takes a snapshot of the current coverage state. It does not modify
// the tracker.
func (t *Tracker) Report() Report {
	t.lock.Lock()
	defer t.lock.Unlock()

	r := Report{
		Bins: make([]BinReport, len(t.bins)),
	}

	numHit := 0
	for i, bin := range t.bins {
		hit := t.hitCounts[i] > 0
		if hit {
			numHit++
		}

		r.Bins[i] = BinReport{
			Name:     bin.Name,
			HitCount: t.hitCounts[i],
			Hit:      hit,
		}
	}

	if len(t.bins) == 0 {
		r.OverallPercent = 100.0
		return r
	}

	r.OverallPercent = float64(numHit) / float64(len(t.bins)) * 100.0

	return r
}

// UnhitHints returns the payload hints of the bins that have not been hit
// yet. The closure controller feeds them back to the sequencer to bias
// generation.
func (t *Tracker) UnhitHints() []uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	var hints []uint64
	for i, bin := range t.bins {
		if t.hitCounts[i] == 0 && bin.HasHint {
			hints = append(hints, bin.Hint)
		}
	}

	return hints
}
