package loopback

import (
	"github.com/sarchlab/vtb/sim"
)

// A Builder can build loopback devices.
type Builder struct {
	engine  sim.Engine
	latency sim.VTick
	respond RespondFunc
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		latency: 1,
		respond: Echo,
	}
}

// WithEngine sets the engine the device runs on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithLatency sets the stimulus-to-response latency in ticks.
func (b Builder) WithLatency(latency sim.VTick) Builder {
	b.latency = latency
	return b
}

// WithRespondFunc replaces the echo behavior, for fault injection.
func (b Builder) WithRespondFunc(f RespondFunc) Builder {
	b.respond = f
	return b
}

// Build creates the device. The stimulus-facing port is registered under the
// local name "Top".
func (b Builder) Build(name string) *Comp {
	b.engineMustBeGiven()
	b.latencyMustNotBeNegative()

	c := new(Comp)
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, c)
	c.latency = b.latency
	c.respond = b.respond

	c.topPort = sim.NewPort(c, 4, 4, name+".Top")
	c.AddPort("Top", c.topPort)

	return c
}

func (b Builder) engineMustBeGiven() {
	if b.engine == nil {
		panic("engine is not given")
	}
}

func (b Builder) latencyMustNotBeNegative() {
	if b.latency < 0 {
		panic("latency must not be negative")
	}
}
