// Package verify implements a coverage-driven functional verification
// environment for transaction-oriented devices. A run wires a sequencer, a
// driver, a monitor, a scoreboard, a reference model, and a coverage
// tracker around a device under test, drives stimulus until coverage closes
// or a budget runs out, and produces a single immutable run result.
package verify

import (
	"log"

	"github.com/sarchlab/vtb/coverage"
	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A DUT is the device-under-test contract the environment drives. The
// environment treats the device purely as a message-level black box:
// stimulus messages go into the top port, response messages come out of it
// toward the observer port.
type DUT interface {
	sim.Component

	TopPort() sim.Port
	SetObserver(dst sim.RemotePort)
}

// An Env is one fully wired verification environment. Build it with a
// Builder, then call Run once.
type Env struct {
	id     string
	engine sim.Engine
	conn   *sim.DirectConnection
	cfg    Config

	ids      *xact.IDAllocator
	tracker  *coverage.Tracker
	expected *ExpectedQueue
	run      *runState

	seq        Sequencer
	driver     *Driver
	monitor    *Monitor
	scoreboard *Scoreboard
	feeder     *coverageFeeder
	controller *Controller
	dut        DUT
}

// ID returns the unique ID of the environment instance.
func (e *Env) ID() string {
	return e.id
}

// Engine returns the engine the environment runs on.
func (e *Env) Engine() sim.Engine {
	return e.engine
}

// State returns the controller's current state. It is safe to read from
// another goroutine, for progress views, as it lags at most one tick.
func (e *Env) State() State {
	return e.controller.State()
}

// Issued returns the number of stimulus transactions applied so far.
func (e *Env) Issued() uint64 {
	return e.run.issued.Load()
}

// Observed returns the number of response transactions observed so far.
func (e *Env) Observed() uint64 {
	return e.run.observed.Load()
}

// CoverageReport takes a snapshot of the current coverage state.
func (e *Env) CoverageReport() coverage.Report {
	return e.tracker.Report()
}

// Run executes the verification run to completion and returns the run
// result. The returned error is non-nil iff the run was aborted by a fatal
// error; a failed verdict without a fatal error is reported through the
// result only.
func (e *Env) Run() (RunResult, error) {
	log.Printf("env %s: starting run, policy %s, seed %d",
		e.id, e.cfg.Policy, e.cfg.Seed)

	e.controller.TickNow()

	if err := e.engine.Run(); err != nil {
		return RunResult{}, err
	}

	e.engine.Finished()

	res := e.controller.finalize(e.engine.CurrentTick(), e.cfg.Seed)

	if e.run.listener != nil {
		e.run.listener.RunCompleted(res)
	}

	log.Printf("env %s: run ended %s @ tick %d, %d issued, %d observed",
		e.id, res.State, res.EndTick, res.Issued, res.Observed)

	if res.FatalErr != nil {
		return res, res.FatalErr
	}

	return res, nil
}
