package verify

import (
	"fmt"

	"github.com/sarchlab/vtb/coverage"
	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A Driver applies stimulus transactions to the DUT-facing port. It holds at
// most one transaction at a time; the controller hands it the next one only
// after the previous one went out, which models DUT back-pressure.
//
// Before a stimulus is physically sent, its prediction is pushed to the
// expected queue. The enqueue must happen first so that even an
// instantaneous response finds its entry in place.
type Driver struct {
	*sim.TickingComponent

	toDUT     sim.Port
	dutRemote sim.RemotePort
	predictor Predictor
	expected  *ExpectedQueue
	tracker   *coverage.Tracker
	run       *runState

	// onIssue wakes the controller once the stimulus went out.
	onIssue func()

	pending *xact.Transaction
}

// NewDriver creates a Driver. The DUT-facing port is registered under the
// local name "ToDUT".
func NewDriver(
	name string,
	engine sim.Engine,
	predictor Predictor,
	expected *ExpectedQueue,
	tracker *coverage.Tracker,
	run *runState,
) *Driver {
	d := new(Driver)
	d.TickingComponent = sim.NewTickingComponent(name, engine, d)
	d.predictor = predictor
	d.expected = expected
	d.tracker = tracker
	d.run = run

	d.toDUT = sim.NewPort(d, 1, 1, name+".ToDUT")
	d.AddPort("ToDUT", d.toDUT)

	return d
}

// CanAccept tells if the driver is ready for the next transaction.
func (d *Driver) CanAccept() bool {
	return d.pending == nil
}

// Accept hands the driver one stimulus transaction to apply. The caller must
// check CanAccept first.
func (d *Driver) Accept(txn xact.Transaction) {
	if d.pending != nil {
		panic("driver is busy")
	}

	d.pending = &txn
	d.TickLater()
}

// Idle tells if the driver holds no transaction. The controller uses it for
// drain detection.
func (d *Driver) Idle() bool {
	return d.pending == nil
}

// Tick tries to apply the pending transaction.
func (d *Driver) Tick() bool {
	if d.pending == nil {
		return false
	}

	if d.run.fatalError() != nil {
		d.pending = nil
		return true
	}

	if !d.toDUT.CanSend() {
		return false
	}

	txn := *d.pending
	entry := ExpectedEntry{
		StimulusID: txn.ID,
		Payload:    d.predictor.Predict(txn),
		ExpectTick: d.CurrentTick() + d.predictor.Latency(),
	}

	if err := d.expected.Push(entry); err != nil {
		d.pending = nil
		d.run.fail(fmt.Errorf("expected queue: %w", err))

		return true
	}

	msg := xact.StimulusMsgBuilder{}.
		WithSrc(d.toDUT.AsRemote()).
		WithDst(d.dutRemote).
		WithTransaction(txn).
		Build()

	sendErr := d.toDUT.Send(msg)
	if sendErr != nil {
		panic("send must succeed after CanSend")
	}

	d.tracker.Sample(txn)
	d.run.noteIssued(txn)
	d.pending = nil

	if d.onIssue != nil {
		d.onIssue()
	}

	return true
}
