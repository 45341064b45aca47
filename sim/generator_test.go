package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Generator", func() {
	var (
		s    *Simulator
		sink *sinkRecorder
	)

	BeforeEach(func() {
		s = NewSimulator("test", false)
		sink = &sinkRecorder{}
		s.AcceptHook(sink)
	})

	It("should name arrivals with a monotonic counter", func() {
		n := 3
		s.AddGenerator("job", NewTimeout(1), func() float64 {
			n--
			if n < 0 {
				return -1
			}
			return 2
		}, 1)

		s.Run(100)

		Expect(sink.starts).To(HaveLen(3))
		Expect(sink.starts[0].Name).To(Equal("job0"))
		Expect(sink.starts[1].Name).To(Equal("job1"))
		Expect(sink.starts[2].Name).To(Equal("job2"))
		Expect(s.GetGenerator("job").Count()).To(Equal(3))
	})

	It("should space arrivals by the inter-arrival delay", func() {
		n := 2
		s.AddGenerator("job", NewTimeout(0), func() float64 {
			n--
			if n < 0 {
				return -1
			}
			return 4
		}, 1)

		s.Run(100)

		Expect(sink.starts[0].Time).To(Equal(VTimeInSec(0)))
		Expect(sink.starts[1].Time).To(Equal(VTimeInSec(4)))
	})

	It("should stop on a negative delay without creating an arrival", func() {
		s.AddGenerator("job", NewTimeout(1), func() float64 {
			return -1
		}, 1)

		s.Run(100)

		Expect(sink.starts).To(BeEmpty())
		Expect(s.CreatedCount()).To(Equal(0))
	})

	It("should stay silent at monitoring level 0", func() {
		n := 1
		s.AddGenerator("job", NewTimeout(1), func() float64 {
			n--
			if n < 0 {
				return -1
			}
			return 1
		}, 0)

		s.Run(100)

		Expect(sink.starts).To(BeEmpty())
		Expect(sink.ends).To(BeEmpty())
		Expect(s.CreatedCount()).To(Equal(1))
	})
})
