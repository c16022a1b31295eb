package verify

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/vtb/xact"
)

// runState is the mutable state shared by the environment's components. It
// owns the global counters, the fatal error slot, and the listener fan-out.
// All mutation goes through its methods.
type runState struct {
	issued   atomic.Uint64
	observed atomic.Uint64

	lock     sync.Mutex
	fatal    error
	listener TransactionListener

	// onFatal wakes the controller so the abort is noticed promptly.
	onFatal func()
}

// fail records a fatal error. Only the first error is kept; later ones are
// logged and discarded.
func (s *runState) fail(err error) {
	s.lock.Lock()

	if s.fatal != nil {
		s.lock.Unlock()
		log.Printf("ignoring fatal error after abort: %v", err)
		return
	}

	s.fatal = err
	s.lock.Unlock()

	log.Printf("aborting run: %v", err)

	if s.onFatal != nil {
		s.onFatal()
	}
}

func (s *runState) fatalError() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.fatal
}

func (s *runState) noteIssued(txn xact.Transaction) {
	s.issued.Add(1)

	if s.listener != nil {
		s.listener.TransactionIssued(txn)
	}
}

func (s *runState) noteObserved(txn xact.Transaction) {
	s.observed.Add(1)

	if s.listener != nil {
		s.listener.TransactionObserved(txn)
	}
}
