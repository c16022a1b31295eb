// Package xact defines the transaction-level data unit that flows between
// the verification components and the device under test.
package xact

import (
	"fmt"
	"sync/atomic"

	"github.com/sarchlab/vtb/sim"
)

// Kind tells whether a transaction is a stimulus or an observed response.
type Kind int

// The possible kinds of transactions.
const (
	KindStimulus Kind = iota
	KindResponse
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindStimulus:
		return "stimulus"
	case KindResponse:
		return "response"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// A Transaction is one discrete unit of stimulus or observed response. It is
// a value and is never mutated after creation.
type Transaction struct {
	// ID is a run-wide monotonic sequence number, assigned at creation.
	ID uint64

	// Payload is the opaque fixed-width data value carried by the
	// transaction.
	Payload uint64

	Kind Kind

	// Timestamp is the tick at which the transaction was issued or observed.
	Timestamp sim.VTick
}

// String formats the transaction for diagnostics.
func (t Transaction) String() string {
	return fmt.Sprintf("txn %d, %s, payload 0x%02X @ tick %d",
		t.ID, t.Kind, t.Payload, t.Timestamp)
}

// An IDAllocator hands out transaction IDs that are unique and strictly
// increasing within a run.
type IDAllocator struct {
	nextID uint64
}

// NewIDAllocator creates a new IDAllocator.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Allocate returns the next transaction ID.
func (a *IDAllocator) Allocate() uint64 {
	return atomic.AddUint64(&a.nextID, 1)
}
