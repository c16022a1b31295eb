package verify

import (
	"fmt"

	"github.com/sarchlab/vtb/sim"
)

// A Policy selects how the sequencer generates stimulus payloads.
type Policy string

// The supported generation policies.
const (
	// PolicyDirected replays a fixed payload list in order.
	PolicyDirected Policy = "directed"

	// PolicyRandom draws payloads from a seeded uniform distribution,
	// subject to the configured constraints, for a fixed iteration count.
	PolicyRandom Policy = "random"

	// PolicyCoverageDirected is like PolicyRandom, but biases generation
	// toward payloads that would hit not-yet-covered bins, and keeps
	// generating until the run converges or the iteration budget runs out.
	PolicyCoverageDirected Policy = "coverage-directed"
)

// A Constraint restricts the payloads the sequencer may emit. A payload is
// admissible only if every constraint returns true for it.
type Constraint func(payload uint64) bool

// InSetConstraint admits only the given payload values.
func InSetConstraint(values ...uint64) Constraint {
	set := make(map[uint64]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	return func(payload uint64) bool {
		return set[payload]
	}
}

// InRangeConstraint admits payloads in the inclusive range [lo, hi].
func InRangeConstraint(lo, hi uint64) Constraint {
	return func(payload uint64) bool {
		return payload >= lo && payload <= hi
	}
}

// A Config carries all run parameters of a verification environment.
type Config struct {
	// Seed seeds the sequencer's random source. Two runs with the same
	// seed, policy, and constraints produce the same stimulus sequence.
	Seed int64

	// Policy selects the generation policy.
	Policy Policy

	// DirectedPayloads is the payload list replayed by PolicyDirected. It
	// is ignored by the other policies.
	DirectedPayloads []uint64

	// PayloadMax is the inclusive upper bound of the randomized payload
	// domain [0, PayloadMax].
	PayloadMax uint64

	// Constraints restricts randomized generation. Directed payloads are
	// not checked against constraints.
	Constraints []Constraint

	// RetryCap bounds how many redraws the sequencer attempts before
	// declaring the constraints unsatisfiable.
	RetryCap int

	// BiasCap bounds how many consecutive hint-biased emissions the
	// coverage-directed policy performs before falling back to a uniform
	// draw.
	BiasCap int

	// CoverageThreshold is the overall coverage percentage at which the
	// run converges.
	CoverageThreshold float64

	// MaxIterations bounds how many transactions the controller requests
	// from the sequencer.
	MaxIterations int

	// ExpectedQueueBound bounds the number of in-flight expected entries.
	ExpectedQueueBound int

	// MonitorBufferBound bounds each monitor subscriber's inbox.
	MonitorBufferBound int

	// PredictLatency is the reference model's fixed latency, in ticks,
	// from stimulus issue to expected response.
	PredictLatency sim.VTick

	// DUTLatency is the latency of the default loopback DUT. It is
	// ignored when a DUT is injected through the builder.
	DUTLatency sim.VTick

	// RequireConvergence makes the final verdict fail when the terminal
	// state is not Converged, even if no failure was recorded.
	RequireConvergence bool
}

// DefaultConfig returns a config with the defaults every run starts from.
func DefaultConfig() Config {
	return Config{
		Seed:               1,
		Policy:             PolicyRandom,
		PayloadMax:         0xFF,
		RetryCap:           100,
		BiasCap:            16,
		CoverageThreshold:  100.0,
		MaxIterations:      1000,
		ExpectedQueueBound: 16,
		MonitorBufferBound: 16,
		PredictLatency:     1,
		DUTLatency:         1,
		RequireConvergence: true,
	}
}

func (c Config) mustBeValid() {
	if err := c.Validate(); err != nil {
		panic(err)
	}
}

// Validate reports whether the config describes a runnable setup. The
// builder panics on an invalid config; callers that assemble a config from
// external input can call Validate first to keep the error on their own
// error path.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyDirected:
		if len(c.DirectedPayloads) == 0 {
			return fmt.Errorf("directed policy needs at least one payload")
		}
	case PolicyRandom, PolicyCoverageDirected:
	default:
		return fmt.Errorf("unknown policy %q", c.Policy)
	}

	if c.RetryCap <= 0 {
		return fmt.Errorf("retry cap must be positive, got %d", c.RetryCap)
	}

	if c.CoverageThreshold < 0 || c.CoverageThreshold > 100 {
		return fmt.Errorf("coverage threshold must be in [0, 100], got %f",
			c.CoverageThreshold)
	}

	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d",
			c.MaxIterations)
	}

	if c.ExpectedQueueBound <= 0 {
		return fmt.Errorf("expected queue bound must be positive, got %d",
			c.ExpectedQueueBound)
	}

	if c.MonitorBufferBound <= 0 {
		return fmt.Errorf("monitor buffer bound must be positive, got %d",
			c.MonitorBufferBound)
	}

	if c.PredictLatency < 0 {
		return fmt.Errorf("predict latency must not be negative, got %d",
			c.PredictLatency)
	}

	if c.DUTLatency < 0 {
		return fmt.Errorf("DUT latency must not be negative, got %d",
			c.DUTLatency)
	}

	return nil
}
