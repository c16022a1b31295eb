// Package loopback provides a device under test that echoes every stimulus
// payload back after a fixed latency. It is the reference device for
// environment bring-up and for fault-injection tests, which install a
// respond function that corrupts or swallows selected payloads.
package loopback

import (
	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A RespondFunc maps a received stimulus payload to the payload the device
// sends back. Returning false makes the device swallow the stimulus and
// produce no response at all.
type RespondFunc func(payload uint64) (uint64, bool)

// Echo responds with the stimulus payload unchanged.
func Echo(payload uint64) (uint64, bool) {
	return payload, true
}

type respondEvent struct {
	*sim.EventBase

	payload uint64
}

// Comp is the loopback device. It consumes stimulus messages on its top port
// and sends one response message per stimulus, latency ticks later, to the
// configured observer port.
type Comp struct {
	*sim.TickingComponent

	topPort  sim.Port
	observer sim.RemotePort
	latency  sim.VTick
	respond  RespondFunc
}

// TopPort returns the port stimulus messages arrive at.
func (c *Comp) TopPort() sim.Port {
	return c.topPort
}

// SetObserver sets the port responses are sent to. It must be called before
// the first stimulus arrives.
func (c *Comp) SetObserver(dst sim.RemotePort) {
	c.observer = dst
}

// Handle processes respond events and tick events.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *respondEvent:
		return c.handleRespondEvent(e)
	default:
		return c.TickingComponent.Handle(e)
	}
}

func (c *Comp) handleRespondEvent(e *respondEvent) error {
	if c.observer == "" {
		panic("observer port is not set")
	}

	msg := xact.ResponseMsgBuilder{}.
		WithSrc(c.topPort.AsRemote()).
		WithDst(c.observer).
		WithPayload(e.payload).
		Build()

	sendErr := c.topPort.Send(msg)
	if sendErr != nil {
		// The link is congested. Retry next tick.
		retry := &respondEvent{
			EventBase: sim.NewEventBase(c.CurrentTick()+1, c),
			payload:   e.payload,
		}
		c.Engine.Schedule(retry)
	}

	return nil
}

// Tick consumes at most one stimulus message.
func (c *Comp) Tick() bool {
	msg := c.topPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	stim := msg.(*xact.StimulusMsg)

	payload, ok := c.respond(stim.Transaction.Payload)
	if !ok {
		return true
	}

	evt := &respondEvent{
		EventBase: sim.NewEventBase(c.CurrentTick()+c.latency, c),
		payload:   payload,
	}
	c.Engine.Schedule(evt)

	return true
}
