package verify

import (
	"sync"

	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A Scoreboard pairs each observed response with the oldest expected entry
// and records the comparison outcome. Pairing is strictly FIFO; the design
// assumes the DUT preserves input-to-output ordering.
type Scoreboard struct {
	*sim.TickingComponent

	inbox    sim.Buffer
	expected *ExpectedQueue

	// onCheck wakes the controller after every check so it can re-evaluate
	// convergence and drain.
	onCheck func()

	lock        sync.Mutex
	failures    []Failure
	numChecked  uint64
	numPassed   uint64
	numSpurious uint64
}

// NewScoreboard creates a Scoreboard draining the given monitor inbox.
func NewScoreboard(
	name string,
	engine sim.Engine,
	expected *ExpectedQueue,
) *Scoreboard {
	s := new(Scoreboard)
	s.TickingComponent = sim.NewTickingComponent(name, engine, s)
	s.expected = expected

	return s
}

// Tick checks at most one observed transaction.
func (s *Scoreboard) Tick() bool {
	item := s.inbox.Pop()
	if item == nil {
		return false
	}

	txn := item.(xact.Transaction)
	now := s.CurrentTick()

	s.lock.Lock()

	entry, ok := s.expected.Pop()
	switch {
	case !ok:
		s.numSpurious++
		s.failures = append(s.failures, Failure{
			Kind:       FailureSpuriousResponse,
			ObservedID: txn.ID,
			Actual:     txn.Payload,
			Tick:       now,
		})
	case txn.Payload == entry.Payload:
		s.numChecked++
		s.numPassed++
	default:
		s.numChecked++
		s.failures = append(s.failures, Failure{
			Kind:       FailureMismatch,
			StimulusID: entry.StimulusID,
			ObservedID: txn.ID,
			Expected:   entry.Payload,
			Actual:     txn.Payload,
			Tick:       now,
		})
	}

	s.lock.Unlock()

	if s.onCheck != nil {
		s.onCheck()
	}

	return true
}

// InboxEmpty tells if all published responses have been checked.
func (s *Scoreboard) InboxEmpty() bool {
	return s.inbox.Size() == 0
}

// Counts returns the checked, passed, and spurious counters.
func (s *Scoreboard) Counts() (checked, passed, spurious uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.numChecked, s.numPassed, s.numSpurious
}

// Failures returns a copy of the failure log in recording order.
func (s *Scoreboard) Failures() []Failure {
	s.lock.Lock()
	defer s.lock.Unlock()

	failures := make([]Failure, len(s.failures))
	copy(failures, s.failures)

	return failures
}
