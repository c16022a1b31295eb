package verify

import (
	"github.com/rs/xid"

	"github.com/sarchlab/vtb/coverage"
	"github.com/sarchlab/vtb/dut/loopback"
	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

// A Builder can build verification environments.
type Builder struct {
	engine    sim.Engine
	cfg       Config
	bins      []*coverage.Bin
	dut       DUT
	predictor Predictor
	seq       Sequencer
	listener  TransactionListener
}

// MakeBuilder creates a Builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg: DefaultConfig(),
	}
}

// WithEngine sets the engine the environment runs on. Without it, a fresh
// serial engine is created.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithConfig sets the run configuration.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithBins sets the resolved coverage plan.
func (b Builder) WithBins(bins []*coverage.Bin) Builder {
	b.bins = bins
	return b
}

// WithDUT replaces the default loopback device.
func (b Builder) WithDUT(dut DUT) Builder {
	b.dut = dut
	return b
}

// WithPredictor replaces the default loopback reference model.
func (b Builder) WithPredictor(p Predictor) Builder {
	b.predictor = p
	return b
}

// WithSequencer replaces the policy-selected sequencer.
func (b Builder) WithSequencer(seq Sequencer) Builder {
	b.seq = seq
	return b
}

// WithListener sets the transaction listener, for recording.
func (b Builder) WithListener(l TransactionListener) Builder {
	b.listener = l
	return b
}

// Build wires the environment. All components hang off the given name.
func (b Builder) Build(name string) *Env {
	b.cfg.mustBeValid()

	e := new(Env)
	e.id = xid.New().String()
	e.cfg = b.cfg

	e.engine = b.engine
	if e.engine == nil {
		e.engine = sim.NewSerialEngine()
	}

	e.ids = xact.NewIDAllocator()
	e.tracker = coverage.NewTracker(b.bins)
	e.expected = NewExpectedQueue(b.cfg.ExpectedQueueBound)
	e.run = &runState{listener: b.listener}

	b.buildComponents(name, e)
	b.connectComponents(name, e)

	e.run.onFatal = e.controller.TickLater
	e.driver.onIssue = e.controller.TickLater
	e.scoreboard.onCheck = e.controller.TickLater
	e.feeder.onSample = e.controller.TickLater

	return e
}

func (b Builder) buildComponents(name string, e *Env) {
	predictor := b.predictor
	if predictor == nil {
		predictor = NewLoopbackPredictor(b.cfg.PredictLatency)
	}

	e.driver = NewDriver(name+".Driver", e.engine,
		predictor, e.expected, e.tracker, e.run)
	e.monitor = NewMonitor(name+".Monitor", e.engine, e.ids, e.run)

	e.scoreboard = NewScoreboard(name+".Scoreboard", e.engine, e.expected)
	e.scoreboard.inbox = e.monitor.Subscribe(
		name+".Scoreboard", b.cfg.MonitorBufferBound,
		e.scoreboard.TickLater)

	e.feeder = newCoverageFeeder(name+".CoverageFeeder", e.engine, e.tracker)
	e.feeder.inbox = e.monitor.Subscribe(
		name+".CoverageFeeder", b.cfg.MonitorBufferBound,
		e.feeder.TickLater)

	e.seq = b.seq
	if e.seq == nil {
		e.seq = NewSequencer(b.cfg, e.ids, e.engine)
	}

	e.controller = newController(name+".Controller", e.engine, b.cfg,
		e.seq, e.driver, e.scoreboard, e.feeder,
		e.expected, e.tracker, e.run)

	e.dut = b.dut
	if e.dut == nil {
		e.dut = loopback.MakeBuilder().
			WithEngine(e.engine).
			WithLatency(b.cfg.DUTLatency).
			Build(name + ".DUT")
	}
}

func (b Builder) connectComponents(name string, e *Env) {
	e.conn = sim.NewDirectConnection(name+".Conn", e.engine)
	e.conn.PlugIn(e.driver.toDUT)
	e.conn.PlugIn(e.monitor.fromDUT)
	e.conn.PlugIn(e.dut.TopPort())

	e.driver.dutRemote = e.dut.TopPort().AsRemote()
	e.dut.SetObserver(e.monitor.fromDUT.AsRemote())
}
