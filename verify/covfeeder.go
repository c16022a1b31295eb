package verify

import (
	"github.com/sarchlab/vtb/coverage"
	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A coverageFeeder is the monitor subscriber that samples observed response
// transactions into the coverage tracker. Stimulus-side sampling happens in
// the driver; this feeder covers the observation side of the fan-out.
type coverageFeeder struct {
	*sim.TickingComponent

	inbox    sim.Buffer
	tracker  *coverage.Tracker
	onSample func()
}

func newCoverageFeeder(
	name string,
	engine sim.Engine,
	tracker *coverage.Tracker,
) *coverageFeeder {
	f := new(coverageFeeder)
	f.TickingComponent = sim.NewTickingComponent(name, engine, f)
	f.tracker = tracker

	return f
}

func (f *coverageFeeder) Tick() bool {
	item := f.inbox.Pop()
	if item == nil {
		return false
	}

	f.tracker.Sample(item.(xact.Transaction))

	if f.onSample != nil {
		f.onSample()
	}

	return true
}

func (f *coverageFeeder) inboxEmpty() bool {
	return f.inbox.Size() == 0
}
