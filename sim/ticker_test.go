package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("TickingComponent", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		ticker   *MockTicker
		comp     *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
		ticker = NewMockTicker(mockCtrl)
		comp = NewTickingComponent("Comp", engine, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should keep ticking while progress is made", func() {
		ticker.EXPECT().Tick().Return(true).Times(3)
		ticker.EXPECT().Tick().Return(false)

		comp.TickNow()

		_ = engine.Run()

		Expect(engine.CurrentTick()).To(Equal(VTick(3)))
	})

	It("should not double schedule the same tick", func() {
		ticker.EXPECT().Tick().Return(false)

		comp.TickNow()
		comp.TickNow()

		_ = engine.Run()

		Expect(engine.CurrentTick()).To(Equal(VTick(0)))
	})

	It("should resume ticking when notified", func() {
		ticker.EXPECT().Tick().Return(false).Times(2)

		comp.TickNow()
		_ = engine.Run()

		comp.NotifyRecv(nil)
		_ = engine.Run()

		Expect(engine.CurrentTick()).To(Equal(VTick(1)))
	})
})
