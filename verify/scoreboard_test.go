package verify

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vtb/sim"
	"github.com/sarchlab/vtb/xact"
)

var _ = Describe("Scoreboard", func() {
	var (
		engine     sim.Engine
		expected   *ExpectedQueue
		scoreboard *Scoreboard
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		expected = NewExpectedQueue(4)
		scoreboard = NewScoreboard("Scoreboard", engine, expected)
		scoreboard.inbox = sim.NewBuffer("Scoreboard.Inbox", 4)
	})

	observe := func(id, payload uint64) {
		scoreboard.inbox.Push(xact.Transaction{
			ID:      id,
			Payload: payload,
			Kind:    xact.KindResponse,
		})
	}

	It("should do nothing without observations", func() {
		Expect(scoreboard.Tick()).To(BeFalse())
	})

	It("should record a pass on a matching payload", func() {
		expected.Push(ExpectedEntry{StimulusID: 1, Payload: 0x55})
		observe(10, 0x55)

		Expect(scoreboard.Tick()).To(BeTrue())

		checked, passed, spurious := scoreboard.Counts()
		Expect(checked).To(Equal(uint64(1)))
		Expect(passed).To(Equal(uint64(1)))
		Expect(spurious).To(Equal(uint64(0)))
		Expect(scoreboard.Failures()).To(BeEmpty())
	})

	It("should record a mismatch with both values", func() {
		expected.Push(ExpectedEntry{StimulusID: 1, Payload: 0x55})
		observe(10, 0x56)

		Expect(scoreboard.Tick()).To(BeTrue())

		failures := scoreboard.Failures()
		Expect(failures).To(HaveLen(1))
		Expect(failures[0].Kind).To(Equal(FailureMismatch))
		Expect(failures[0].StimulusID).To(Equal(uint64(1)))
		Expect(failures[0].Expected).To(Equal(uint64(0x55)))
		Expect(failures[0].Actual).To(Equal(uint64(0x56)))
	})

	It("should keep checking after a mismatch", func() {
		expected.Push(ExpectedEntry{StimulusID: 1, Payload: 0x01})
		expected.Push(ExpectedEntry{StimulusID: 2, Payload: 0x02})
		observe(10, 0xEE)
		observe(11, 0x02)

		Expect(scoreboard.Tick()).To(BeTrue())
		Expect(scoreboard.Tick()).To(BeTrue())

		checked, passed, _ := scoreboard.Counts()
		Expect(checked).To(Equal(uint64(2)))
		Expect(passed).To(Equal(uint64(1)))
	})

	It("should record a spurious response on an empty queue", func() {
		observe(10, 0x55)

		Expect(scoreboard.Tick()).To(BeTrue())

		checked, _, spurious := scoreboard.Counts()
		Expect(checked).To(Equal(uint64(0)))
		Expect(spurious).To(Equal(uint64(1)))

		failures := scoreboard.Failures()
		Expect(failures).To(HaveLen(1))
		Expect(failures[0].Kind).To(Equal(FailureSpuriousResponse))
		Expect(failures[0].Actual).To(Equal(uint64(0x55)))
	})

	It("should pair strictly in FIFO order", func() {
		expected.Push(ExpectedEntry{StimulusID: 1, Payload: 0x01})
		expected.Push(ExpectedEntry{StimulusID: 2, Payload: 0x02})
		observe(10, 0x02)
		observe(11, 0x01)

		scoreboard.Tick()
		scoreboard.Tick()

		// Swapped arrival order against a FIFO queue is two mismatches.
		Expect(scoreboard.Failures()).To(HaveLen(2))
	})
})
