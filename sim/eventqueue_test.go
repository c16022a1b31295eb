package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("EventQueue", func() {
	var (
		mockCtrl *gomock.Controller
		queue    EventQueue
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	newEventAt := func(t VTick) Event {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		return evt
	}

	It("should pop events in time order", func() {
		evt1 := newEventAt(3)
		evt2 := newEventAt(1)
		evt3 := newEventAt(2)

		queue.Push(evt1)
		queue.Push(evt2)
		queue.Push(evt3)

		Expect(queue.Len()).To(Equal(3))
		Expect(queue.Pop().Time()).To(Equal(VTick(1)))
		Expect(queue.Pop().Time()).To(Equal(VTick(2)))
		Expect(queue.Pop().Time()).To(Equal(VTick(3)))
	})

	It("should peek the earliest event", func() {
		queue.Push(newEventAt(9))
		queue.Push(newEventAt(4))

		Expect(queue.Peek().Time()).To(Equal(VTick(4)))
		Expect(queue.Len()).To(Equal(2))
	})
})
