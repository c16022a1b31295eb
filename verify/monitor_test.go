package verify

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

var _ = Describe("Monitor", func() {
	var (
		engine  sim.Engine
		run     *runState
		monitor *Monitor
		inbox   sim.Buffer
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		run = &runState{}
		monitor = NewMonitor("Monitor", engine, xact.NewIDAllocator(), run)

		conn := sim.NewDirectConnection("Conn", engine)
		conn.PlugIn(monitor.FromDUTPort())
	})

	deliver := func(payload uint64) {
		msg := xact.ResponseMsgBuilder{}.
			WithSrc("DUT.Top").
			WithDst(monitor.FromDUTPort().AsRemote()).
			WithPayload(payload).
			Build()

		sendErr := monitor.FromDUTPort().Deliver(msg)
		Expect(sendErr).To(BeNil())
	}

	It("should do nothing without DUT output", func() {
		inbox = monitor.Subscribe("Sub", 4, func() {})

		Expect(monitor.Tick()).To(BeFalse())
	})

	It("should reconstruct one response transaction per output", func() {
		inbox = monitor.Subscribe("Sub", 4, func() {})

		deliver(0x55)

		Expect(monitor.Tick()).To(BeTrue())
		Expect(run.observed.Load()).To(Equal(uint64(1)))

		txn := inbox.Pop().(xact.Transaction)
		Expect(txn.Kind).To(Equal(xact.KindResponse))
		Expect(txn.Payload).To(Equal(uint64(0x55)))
	})

	It("should publish the same transaction to every subscriber", func() {
		inbox = monitor.Subscribe("Sub1", 4, func() {})
		inbox2 := monitor.Subscribe("Sub2", 4, func() {})

		deliver(0x55)
		monitor.Tick()

		txn1 := inbox.Pop().(xact.Transaction)
		txn2 := inbox2.Pop().(xact.Transaction)
		Expect(txn1).To(Equal(txn2))
	})

	It("should wake subscribers after publishing", func() {
		woken := 0
		inbox = monitor.Subscribe("Sub", 4, func() { woken++ })

		deliver(0x55)
		monitor.Tick()

		Expect(woken).To(Equal(1))
	})

	It("should fail the run when a subscriber inbox overflows", func() {
		inbox = monitor.Subscribe("Sub", 1, func() {})

		deliver(0x01)
		deliver(0x02)

		Expect(monitor.Tick()).To(BeTrue())
		Expect(monitor.Tick()).To(BeTrue())

		Expect(run.fatalError()).To(MatchError(ErrBackpressureOverflow))
		Expect(run.observed.Load()).To(Equal(uint64(1)))
	})
})
