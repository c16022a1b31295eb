package verify

import (
	"fmt"

	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

type subscription struct {
	buf  sim.Buffer
	wake func()
}

// A Monitor observes DUT output messages and reconstructs one response
// transaction per output event. It publishes every reconstructed transaction
// to all subscribers through their bounded inboxes; a full inbox is a fatal
// backpressure error, never a silent drop.
type Monitor struct {
	*sim.TickingComponent

	fromDUT sim.Port
	ids     *xact.IDAllocator
	run     *runState
	subs    []subscription
}

// NewMonitor creates a Monitor. The DUT-facing port is registered under the
// local name "FromDUT".
func NewMonitor(
	name string,
	engine sim.Engine,
	ids *xact.IDAllocator,
	run *runState,
) *Monitor {
	m := new(Monitor)
	m.TickingComponent = sim.NewTickingComponent(name, engine, m)
	m.ids = ids
	m.run = run

	m.fromDUT = sim.NewPort(m, 4, 1, name+".FromDUT")
	m.AddPort("FromDUT", m.fromDUT)

	return m
}

// Subscribe registers a subscriber and returns the bounded inbox the monitor
// will publish into. The wake function is called after each publish so the
// subscriber can schedule itself to drain the inbox.
func (m *Monitor) Subscribe(
	name string,
	bound int,
	wake func(),
) sim.Buffer {
	buf := sim.NewBuffer(name+".Inbox", bound)
	m.subs = append(m.subs, subscription{buf: buf, wake: wake})

	return buf
}

// FromDUTPort returns the port DUT outputs arrive at.
func (m *Monitor) FromDUTPort() sim.Port {
	return m.fromDUT
}

// Tick observes at most one DUT output event.
func (m *Monitor) Tick() bool {
	if m.run.fatalError() != nil {
		// Drain the port so the link does not stay clogged after abort.
		return m.fromDUT.RetrieveIncoming() != nil
	}

	msg := m.fromDUT.PeekIncoming()
	if msg == nil {
		return false
	}

	for _, sub := range m.subs {
		if !sub.buf.CanPush() {
			m.run.fail(fmt.Errorf("%s: %w",
				sub.buf.Name(), ErrBackpressureOverflow))
			return true
		}
	}

	m.fromDUT.RetrieveIncoming()

	rsp := msg.(*xact.ResponseMsg)
	txn := xact.Transaction{
		ID:        m.ids.Allocate(),
		Payload:   rsp.Payload,
		Kind:      xact.KindResponse,
		Timestamp: m.CurrentTick(),
	}

	m.run.noteObserved(txn)

	for _, sub := range m.subs {
		sub.buf.Push(txn)
	}

	for _, sub := range m.subs {
		sub.wake()
	}

	return true
}
