package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("EventQueue", func() {
	var queue *eventQueue

	BeforeEach(func() {
		queue = newEventQueue()
	})

	It("should pop in time order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			queue.Push(&event{
				time: VTimeInSec(rand.Float64()),
				seq:  uint64(i),
			})
		}

		now := VTimeInSec(-1)
		for i := 0; i < numEvents; i++ {
			evt := queue.Pop()
			Expect(evt.time >= now).To(BeTrue())
			now = evt.time
		}
	})

	It("should pop larger priorities first at equal times", func() {
		queue.Push(&event{time: 2.0, priority: 0, seq: 0})
		queue.Push(&event{time: 2.0, priority: 1, seq: 1})
		queue.Push(&event{time: 1.0, priority: 0, seq: 2})

		Expect(queue.Pop().time).To(Equal(VTimeInSec(1.0)))
		Expect(queue.Pop().priority).To(Equal(1))
		Expect(queue.Pop().priority).To(Equal(0))
	})

	It("should keep scheduling order within an equal key", func() {
		for i := 0; i < 10; i++ {
			queue.Push(&event{time: 3.0, seq: uint64(i)})
		}

		for i := 0; i < 10; i++ {
			Expect(queue.Pop().seq).To(Equal(uint64(i)))
		}
	})

	It("should peek without removing", func() {
		queue.Push(&event{time: 5.0})

		Expect(queue.Peek().time).To(Equal(VTimeInSec(5.0)))
		Expect(queue.Len()).To(Equal(1))
	})

	It("should remove the event of a process", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		p1 := NewMockProcess(mockCtrl)
		p2 := NewMockProcess(mockCtrl)
		queue.Push(&event{time: 1.0, process: p1, seq: 0})
		queue.Push(&event{time: 2.0, process: p2, seq: 1})

		t, found := queue.Remove(p2)

		Expect(found).To(BeTrue())
		Expect(t).To(Equal(VTimeInSec(2.0)))
		Expect(queue.Len()).To(Equal(1))
		Expect(queue.Peek().process).To(BeIdenticalTo(Process(p1)))

		_, found = queue.Remove(p2)
		Expect(found).To(BeFalse())
	})
})
