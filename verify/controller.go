package verify

import (
	"github.com/sarchlab/vtb/coverage"
	"github.com/sarchlab/vtb/sim"
)

// A Controller orchestrates a run. It pulls transactions from the sequencer
// one at a time, hands them to the driver, and watches coverage after each
// scoreboard check. It leaves StateRunning when the run converges, the
// budget runs out, or a fatal error unwinds the run. A terminal state is
// entered only after the pipeline has drained, so no suspended operation is
// left unresolved.
type Controller struct {
	*sim.TickingComponent

	cfg        sequencingConfig
	seq        Sequencer
	driver     *Driver
	scoreboard *Scoreboard
	feeder     *coverageFeeder
	expected   *ExpectedQueue
	tracker    *coverage.Tracker
	run        *runState

	phase       State
	iterations  int
	issuingDone bool
}

// sequencingConfig is the slice of the run config the controller acts on.
type sequencingConfig struct {
	policy             Policy
	coverageThreshold  float64
	maxIterations      int
	requireConvergence bool
}

func newController(
	name string,
	engine sim.Engine,
	cfg Config,
	seq Sequencer,
	driver *Driver,
	scoreboard *Scoreboard,
	feeder *coverageFeeder,
	expected *ExpectedQueue,
	tracker *coverage.Tracker,
	run *runState,
) *Controller {
	c := new(Controller)
	c.TickingComponent = sim.NewTickingComponent(name, engine, c)
	c.cfg = sequencingConfig{
		policy:             cfg.Policy,
		coverageThreshold:  cfg.CoverageThreshold,
		maxIterations:      cfg.MaxIterations,
		requireConvergence: cfg.RequireConvergence,
	}
	c.seq = seq
	c.driver = driver
	c.scoreboard = scoreboard
	c.feeder = feeder
	c.expected = expected
	c.tracker = tracker
	c.run = run

	return c
}

// State returns the controller's current state.
func (c *Controller) State() State {
	return c.phase
}

// Iterations returns how many transactions have been pulled from the
// sequencer.
func (c *Controller) Iterations() int {
	return c.iterations
}

// Tick advances the run by at most one decision.
func (c *Controller) Tick() bool {
	if c.phase != StateRunning {
		return false
	}

	if c.run.fatalError() == nil && !c.issuingDone {
		if c.issue() {
			return true
		}
	}

	if c.readyToFinish() {
		c.finish()
		return true
	}

	return false
}

// issue pulls the next transaction from the sequencer and hands it to the
// driver, or decides that issuing is over.
func (c *Controller) issue() bool {
	if c.iterations > 0 && c.cfg.policy != PolicyDirected && c.converged() {
		c.issuingDone = true
		return true
	}

	if c.iterations >= c.cfg.maxIterations {
		c.issuingDone = true
		return true
	}

	if !c.driver.CanAccept() {
		return false
	}

	// Coverage-directed feedback flows through here: the tracker's unhit
	// hints are handed to the sequencer before every pull.
	if hinted, ok := c.seq.(HintedSequencer); ok {
		hinted.SetHints(c.tracker.UnhitHints())
	}

	txn, ok, err := c.seq.Next()
	if err != nil {
		c.run.fail(err)
		c.issuingDone = true

		return true
	}

	if !ok {
		c.issuingDone = true
		return true
	}

	c.iterations++
	c.driver.Accept(txn)

	return true
}

func (c *Controller) converged() bool {
	return c.tracker.Report().MeetsThreshold(c.cfg.coverageThreshold)
}

func (c *Controller) readyToFinish() bool {
	if !c.issuingDone && c.run.fatalError() == nil {
		return false
	}

	return c.drained()
}

// drained tells if no transaction is still in flight between the driver and
// the scoreboard.
func (c *Controller) drained() bool {
	return c.driver.Idle() &&
		c.expected.Len() == 0 &&
		c.scoreboard.InboxEmpty() &&
		c.feeder.inboxEmpty()
}

func (c *Controller) finish() {
	c.phase = c.terminalState()
}

func (c *Controller) terminalState() State {
	switch {
	case c.run.fatalError() != nil:
		return StateAborted
	case c.converged():
		return StateConverged
	default:
		return StateBudgetExhausted
	}
}

// finalize produces the run result. The environment calls it once, after
// the engine has quiesced. If the controller never reached a terminal state
// on its own, for example because the DUT swallowed a response and the
// pipeline could not drain, the terminal state is decided here.
func (c *Controller) finalize(
	now sim.VTick,
	seed int64,
) RunResult {
	if c.phase == StateRunning {
		c.phase = c.terminalState()
	}

	checked, passed, spurious := c.scoreboard.Counts()
	failures := c.scoreboard.Failures()
	fatal := c.run.fatalError()

	res := RunResult{
		State:      c.phase,
		Seed:       seed,
		Policy:     c.cfg.policy,
		Issued:     c.run.issued.Load(),
		Observed:   c.run.observed.Load(),
		Checked:    checked,
		Passes:     passed,
		Mismatches: checked - passed,
		Spurious:   spurious,
		Coverage:   c.tracker.Report(),
		Failures:   failures,
		FatalErr:   fatal,
		EndTick:    now,
	}

	res.Passed = fatal == nil &&
		len(failures) == 0 &&
		(c.phase == StateConverged || !c.cfg.requireConvergence)

	return res
}
