package verify

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A Sequencer generates the stimulus transactions of a run. Next returns the
// next transaction, or ok=false when the sequence is exhausted, or an error
// when no admissible payload can be generated. Reset rewinds the sequencer
// to the start of a reproducible sequence for the given seed.
type Sequencer interface {
	Next() (txn xact.Transaction, ok bool, err error)
	Reset(seed int64)
}

// A HintedSequencer additionally accepts payload hints for bins that have
// not been hit yet. The controller refreshes the hints before each Next
// call.
type HintedSequencer interface {
	Sequencer
	SetHints(hints []uint64)
}

// NewSequencer creates the sequencer selected by the config's policy.
func NewSequencer(
	cfg Config,
	ids *xact.IDAllocator,
	tt sim.TimeTeller,
) Sequencer {
	switch cfg.Policy {
	case PolicyDirected:
		return NewDirectedSequencer(ids, tt, cfg.DirectedPayloads)
	case PolicyRandom:
		return NewRandomSequencer(cfg, ids, tt)
	case PolicyCoverageDirected:
		return NewCoverageSequencer(cfg, ids, tt)
	default:
		panic(fmt.Sprintf("unknown policy %q", cfg.Policy))
	}
}

// A DirectedSequencer replays a fixed payload list in order, then ends the
// sequence.
type DirectedSequencer struct {
	ids      *xact.IDAllocator
	tt       sim.TimeTeller
	payloads []uint64
	next     int
}

// NewDirectedSequencer creates a DirectedSequencer over the given payloads.
func NewDirectedSequencer(
	ids *xact.IDAllocator,
	tt sim.TimeTeller,
	payloads []uint64,
) *DirectedSequencer {
	s := &DirectedSequencer{
		ids:      ids,
		tt:       tt,
		payloads: make([]uint64, len(payloads)),
	}
	copy(s.payloads, payloads)

	return s
}

// Next returns the next directed transaction, or ok=false past the end of
// the list.
func (s *DirectedSequencer) Next() (xact.Transaction, bool, error) {
	if s.next >= len(s.payloads) {
		return xact.Transaction{}, false, nil
	}

	payload := s.payloads[s.next]
	s.next++

	return newStimulus(s.ids, s.tt, payload), true, nil
}

// Reset rewinds the sequence to the first payload. The seed is ignored, as
// directed sequences are not randomized.
func (s *DirectedSequencer) Reset(_ int64) {
	s.next = 0
}

// A RandomSequencer draws payloads uniformly from [0, PayloadMax], subject
// to the constraints, for a fixed iteration count.
type RandomSequencer struct {
	ids         *xact.IDAllocator
	tt          sim.TimeTeller
	rng         *rand.Rand
	count       int
	payloadMax  uint64
	constraints []Constraint
	retryCap    int
	emitted     int
}

// NewRandomSequencer creates a RandomSequencer from the config.
func NewRandomSequencer(
	cfg Config,
	ids *xact.IDAllocator,
	tt sim.TimeTeller,
) *RandomSequencer {
	return &RandomSequencer{
		ids:         ids,
		tt:          tt,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		count:       cfg.MaxIterations,
		payloadMax:  cfg.PayloadMax,
		constraints: cfg.Constraints,
		retryCap:    cfg.RetryCap,
	}
}

// Next draws the next admissible payload, or ok=false once the iteration
// count is reached, or ErrConstraintUnsatisfiable when the retry cap is
// exceeded.
func (s *RandomSequencer) Next() (xact.Transaction, bool, error) {
	if s.emitted >= s.count {
		return xact.Transaction{}, false, nil
	}

	payload, err := drawAdmissible(
		s.rng, s.payloadMax, s.constraints, s.retryCap)
	if err != nil {
		return xact.Transaction{}, false, err
	}

	s.emitted++

	return newStimulus(s.ids, s.tt, payload), true, nil
}

// Reset reseeds the random source and rewinds the iteration count.
func (s *RandomSequencer) Reset(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
	s.emitted = 0
}

// A CoverageSequencer draws payloads like a RandomSequencer, but biases
// generation toward hint payloads of not-yet-hit bins. It never ends its
// sequence on its own; the controller stops pulling once the run converges
// or the iteration budget is spent.
type CoverageSequencer struct {
	ids         *xact.IDAllocator
	tt          sim.TimeTeller
	rng         *rand.Rand
	payloadMax  uint64
	constraints []Constraint
	retryCap    int
	biasCap     int

	hints      []uint64
	nextHint   int
	biasedRuns int
}

// NewCoverageSequencer creates a CoverageSequencer from the config.
func NewCoverageSequencer(
	cfg Config,
	ids *xact.IDAllocator,
	tt sim.TimeTeller,
) *CoverageSequencer {
	return &CoverageSequencer{
		ids:         ids,
		tt:          tt,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		payloadMax:  cfg.PayloadMax,
		constraints: cfg.Constraints,
		retryCap:    cfg.RetryCap,
		biasCap:     cfg.BiasCap,
	}
}

// SetHints replaces the hint payloads the sequencer biases toward.
func (s *CoverageSequencer) SetHints(hints []uint64) {
	s.hints = hints
	s.nextHint = 0
}

// Next emits a hint payload when hints are pending and the bias cap allows,
// and an admissible uniform draw otherwise.
func (s *CoverageSequencer) Next() (xact.Transaction, bool, error) {
	if payload, ok := s.nextBiased(); ok {
		s.biasedRuns++
		return newStimulus(s.ids, s.tt, payload), true, nil
	}

	s.biasedRuns = 0

	payload, err := drawAdmissible(
		s.rng, s.payloadMax, s.constraints, s.retryCap)
	if err != nil {
		return xact.Transaction{}, false, err
	}

	return newStimulus(s.ids, s.tt, payload), true, nil
}

// nextBiased returns the next hint payload that satisfies the constraints,
// or ok=false when no hint is usable or the bias cap is reached.
func (s *CoverageSequencer) nextBiased() (uint64, bool) {
	if s.biasedRuns >= s.biasCap {
		return 0, false
	}

	for s.nextHint < len(s.hints) {
		payload := s.hints[s.nextHint]
		s.nextHint++

		if payload <= s.payloadMax && admissible(payload, s.constraints) {
			return payload, true
		}
	}

	return 0, false
}

// Reset reseeds the random source and clears the hint state.
func (s *CoverageSequencer) Reset(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
	s.hints = nil
	s.nextHint = 0
	s.biasedRuns = 0
}

func newStimulus(
	ids *xact.IDAllocator,
	tt sim.TimeTeller,
	payload uint64,
) xact.Transaction {
	return xact.Transaction{
		ID:        ids.Allocate(),
		Payload:   payload,
		Kind:      xact.KindStimulus,
		Timestamp: tt.CurrentTick(),
	}
}

func admissible(payload uint64, constraints []Constraint) bool {
	for _, c := range constraints {
		if !c(payload) {
			return false
		}
	}

	return true
}

func drawAdmissible(
	rng *rand.Rand,
	payloadMax uint64,
	constraints []Constraint,
	retryCap int,
) (uint64, error) {
	for i := 0; i < retryCap; i++ {
		payload := rng.Uint64()
		if payloadMax != math.MaxUint64 {
			// payloadMax+1 would wrap to 0 on the full domain.
			payload %= payloadMax + 1
		}

		if admissible(payload, constraints) {
			return payload, nil
		}
	}

	return 0, fmt.Errorf("%w: no admissible payload in %d draws",
		ErrConstraintUnsatisfiable, retryCap)
}
