// Package coverage tracks which functional scenarios a run has exercised.
package coverage

import (
	"github.com/sarchlab/vtb/xact"
)

// A Predicate decides whether a transaction falls into a bin.
type Predicate func(txn xact.Transaction) bool

// A Bin names one functional scenario to be exercised. Bins are definitions
// only; hit counts are owned by the Tracker.
type Bin struct {
	Name      string
	Predicate Predicate

	// HasHint tells whether Hint holds a payload that falls into the bin.
	// The coverage-directed sequencer uses hints to bias generation toward
	// unhit bins.
	HasHint bool
	Hint    uint64
}

// NewBin creates a bin from an arbitrary predicate. The bin carries no
// generation hint.
func NewBin(name string, predicate Predicate) *Bin {
	return &Bin{Name: name, Predicate: predicate}
}

// NewEqualsBin creates a bin that is hit when the payload equals value.
func NewEqualsBin(name string, value uint64) *Bin {
	return &Bin{
		Name: name,
		Predicate: func(txn xact.Transaction) bool {
			return txn.Payload == value
		},
		HasHint: true,
		Hint:    value,
	}
}

// NewRangeBin creates a bin that is hit when lo <= payload <= hi.
func NewRangeBin(name string, lo, hi uint64) *Bin {
	return &Bin{
		Name: name,
		Predicate: func(txn xact.Transaction) bool {
			return txn.Payload >= lo && txn.Payload <= hi
		},
		HasHint: true,
		Hint:    lo,
	}
}

// NewSetBin creates a bin that is hit when the payload is one of values.
func NewSetBin(name string, values ...uint64) *Bin {
	if len(values) == 0 {
		panic("set bin needs at least one value")
	}

	valueTable := make(map[uint64]bool, len(values))
	for _, v := range values {
		valueTable[v] = true
	}

	return &Bin{
		Name: name,
		Predicate: func(txn xact.Transaction) bool {
			return valueTable[txn.Payload]
		},
		HasHint: true,
		Hint:    values[0],
	}
}

// NewKindBin creates a bin that is hit by any transaction of the given kind.
func NewKindBin(name string, kind xact.Kind) *Bin {
	return &Bin{
		Name: name,
		Predicate: func(txn xact.Transaction) bool {
			return txn.Kind == kind
		},
	}
}
