package verify

import (
	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A Predictor computes, for each stimulus, the payload the DUT is expected
// to produce and how many ticks after issue the response is expected.
// Predictors must be pure with respect to simulated time.
type Predictor interface {
	Predict(txn xact.Transaction) uint64
	Latency() sim.VTick
}

// A LoopbackPredictor expects the DUT to echo the stimulus payload after a
// fixed latency.
type LoopbackPredictor struct {
	latency sim.VTick
}

// NewLoopbackPredictor creates a LoopbackPredictor with the given latency.
func NewLoopbackPredictor(latency sim.VTick) *LoopbackPredictor {
	return &LoopbackPredictor{latency: latency}
}

// Predict returns the stimulus payload unchanged.
func (p *LoopbackPredictor) Predict(txn xact.Transaction) uint64 {
	return txn.Payload
}

// Latency returns the fixed stimulus-to-response latency.
func (p *LoopbackPredictor) Latency() sim.VTick {
	return p.latency
}

// A FuncPredictor wraps a plain function as a Predictor. It is mainly useful
// for modeling DUT variants in tests.
type FuncPredictor struct {
	F   func(txn xact.Transaction) uint64
	Lat sim.VTick
}

// Predict applies the wrapped function.
func (p FuncPredictor) Predict(txn xact.Transaction) uint64 {
	return p.F(txn)
}

// Latency returns the configured latency.
func (p FuncPredictor) Latency() sim.VTick {
	return p.Lat
}
