package verify

import (
	"fmt"

	"github.com/sarchlab/vtb/coverage"
	"github.com/sarchlab/vtb/sim"
)

// A State is the closure controller's state.
type State int

// The controller states. A run starts in StateRunning and ends in exactly
// one of the terminal states.
const (
	StateRunning State = iota

	// StateConverged means the coverage threshold was reached.
	StateConverged

	// StateBudgetExhausted means the iteration budget or the stimulus
	// sequence ran out before convergence.
	StateBudgetExhausted

	// StateAborted means a fatal error unwound the run.
	StateAborted
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateBudgetExhausted:
		return "budget-exhausted"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// A RunResult is the immutable outcome of one verification run, produced
// once at the end of the run.
type RunResult struct {
	// Passed is the final verdict. A run passes iff no failure was
	// recorded, no fatal error occurred, and either the run converged or
	// convergence was not required.
	Passed bool

	State State

	Seed   int64
	Policy Policy

	Issued     uint64
	Observed   uint64
	Checked    uint64
	Passes     uint64
	Mismatches uint64
	Spurious   uint64

	Coverage coverage.Report
	Failures []Failure

	// FatalErr is the error that aborted the run, if any.
	FatalErr error

	// EndTick is the tick at which the run terminated.
	EndTick sim.VTick
}
