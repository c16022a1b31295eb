package verify

import (
	"errors"
	"fmt"

	"github.com/sarchlab/vtb/sim"
)

// ErrConstraintUnsatisfiable is returned when the sequencer cannot produce a
// payload that satisfies all constraints within the retry cap. It is fatal
// and aborts the run.
var ErrConstraintUnsatisfiable = errors.New("constraint unsatisfiable")

// ErrBackpressureOverflow is returned when a bounded queue or subscriber
// buffer exceeds its configured bound. It is fatal and aborts the run, as it
// signals a design or configuration error rather than a DUT bug.
var ErrBackpressureOverflow = errors.New("backpressure overflow")

// FailureKind tells what kind of non-fatal failure was recorded.
type FailureKind int

// The possible kinds of recorded failures.
const (
	// FailureMismatch means an observed payload did not equal the
	// predicted payload.
	FailureMismatch FailureKind = iota

	// FailureSpuriousResponse means the DUT produced an output with no
	// corresponding stimulus.
	FailureSpuriousResponse
)

// String returns the name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureMismatch:
		return "mismatch"
	case FailureSpuriousResponse:
		return "spurious response"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// A Failure is one recorded non-fatal check failure. Failures accumulate in
// the scoreboard's failure log and fail the final verdict, but do not stop
// the run.
type Failure struct {
	Kind FailureKind

	// StimulusID is the ID of the originating stimulus transaction. It is
	// zero for spurious responses.
	StimulusID uint64

	// ObservedID is the ID of the monitor-reconstructed response
	// transaction.
	ObservedID uint64

	Expected uint64
	Actual   uint64
	Tick     sim.VTick
}

// String formats the failure for diagnostics.
func (f Failure) String() string {
	switch f.Kind {
	case FailureMismatch:
		return fmt.Sprintf(
			"mismatch for stimulus %d: expected 0x%02X, got 0x%02X @ tick %d",
			f.StimulusID, f.Expected, f.Actual, f.Tick)
	case FailureSpuriousResponse:
		return fmt.Sprintf(
			"spurious response 0x%02X with no pending stimulus @ tick %d",
			f.Actual, f.Tick)
	default:
		return fmt.Sprintf("%s @ tick %d", f.Kind, f.Tick)
	}
}
