package verify

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExpectedQueue", func() {
	var q *ExpectedQueue

	BeforeEach(func() {
		q = NewExpectedQueue(2)
	})

	It("should pop entries in push order", func() {
		Expect(q.Push(ExpectedEntry{StimulusID: 1})).To(Succeed())
		Expect(q.Push(ExpectedEntry{StimulusID: 2})).To(Succeed())

		e1, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(e1.StimulusID).To(Equal(uint64(1)))

		e2, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(e2.StimulusID).To(Equal(uint64(2)))
	})

	It("should report emptiness through Pop", func() {
		_, ok := q.Pop()
		Expect(ok).To(BeFalse())
	})

	It("should reject pushes beyond the bound", func() {
		Expect(q.Push(ExpectedEntry{StimulusID: 1})).To(Succeed())
		Expect(q.Push(ExpectedEntry{StimulusID: 2})).To(Succeed())

		err := q.Push(ExpectedEntry{StimulusID: 3})
		Expect(err).To(MatchError(ErrBackpressureOverflow))
		Expect(q.Len()).To(Equal(2))
	})

	It("should free space after a pop", func() {
		q.Push(ExpectedEntry{StimulusID: 1})
		q.Push(ExpectedEntry{StimulusID: 2})
		q.Pop()

		Expect(q.Push(ExpectedEntry{StimulusID: 3})).To(Succeed())
	})
})
