package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Activities", func() {
	var (
		s    *Simulator
		sink *sinkRecorder
	)

	BeforeEach(func() {
		s = NewSimulator("test", false)
		sink = &sinkRecorder{}
		s.AcceptHook(sink)
	})

	Describe("Timeout", func() {
		It("should coerce negative delays positive", func() {
			a := NewArrival(s, "A", 0, nil)

			Expect(NewTimeout(-3).Run(a)).To(Equal(3.0))
			Expect(NewTimeoutFunc(func(Attributes) float64 {
				return -7
			}, false).Run(a)).To(Equal(7.0))
		})

		It("should pass the attribute snapshot when asked", func() {
			a := NewArrival(s, "A", 0, nil)
			a.SetAttribute("k", 2)

			var seen Attributes
			t := NewTimeoutFunc(func(attrs Attributes) float64 {
				seen = attrs
				return 1
			}, true)
			t.Run(a)

			Expect(seen.Get("k")).To(Equal(2.0))
		})

		It("should call without attributes by default", func() {
			a := NewArrival(s, "A", 0, nil)
			a.SetAttribute("k", 2)

			var seen Attributes
			t := NewTimeoutFunc(func(attrs Attributes) float64 {
				seen = attrs
				return 1
			}, false)
			t.Run(a)

			Expect(seen).To(BeNil())
		})
	})

	Describe("SetAttribute", func() {
		It("should store the value and advance immediately", func() {
			a := NewArrival(s, "A", 0, nil)

			Expect(NewSetAttribute("k", 5).Run(a)).To(Equal(0.0))
			Expect(a.Attributes().Get("k")).To(Equal(5.0))
		})

		It("should publish attribute writes at monitoring level 2", func() {
			quiet := NewArrival(s, "quiet", 1, nil)
			loud := NewArrival(s, "loud", 2, nil)

			NewSetAttribute("k", 1).Run(quiet)
			NewSetAttribute("k", 1).Run(loud)

			Expect(sink.attributes).To(HaveLen(1))
			Expect(sink.attributes[0].Name).To(Equal("loud"))
		})

		It("should evaluate the value on every visit", func() {
			a := NewArrival(s, "A", 0, nil)

			calls := 0.0
			act := NewSetAttributeFunc("k", func(Attributes) float64 {
				calls++
				return calls
			}, false)

			act.Run(a)
			act.Run(a)

			Expect(a.Attributes().Get("k")).To(Equal(2.0))
		})
	})

	Describe("Seize and Release", func() {
		It("should evaluate dynamic amounts", func() {
			s.AddResource("r", 10, -1, false, false, "")
			r := s.GetResource("r")

			amount := func(attrs Attributes) int {
				return int(attrs.Get("want"))
			}
			traj := Chain(
				NewSetAttribute("want", 4),
				NewSeizeFunc("r", amount, true, 0, true, false),
				NewTimeout(1),
				NewReleaseFunc("r", amount, true),
			)

			a := NewArrival(s, "A", 0, traj)
			s.Schedule(0, a, 0)

			for s.Peek() == 0 {
				s.Step()
			}
			Expect(r.ServerCount()).To(Equal(4))

			s.Run(10)
			Expect(r.ServerCount()).To(Equal(0))
		})

		It("should snapshot attributes, not share them", func() {
			a := NewArrival(s, "A", 0, nil)
			a.SetAttribute("k", 1)

			snapshot := a.Attributes()
			snapshot["k"] = 99

			Expect(a.Attributes().Get("k")).To(Equal(1.0))
		})
	})

	Describe("Chain", func() {
		It("should link next and prev pairwise", func() {
			a := NewTimeout(1)
			b := NewTimeout(2)
			c := NewTimeout(3)

			head := Chain(a, b, c)

			Expect(head).To(BeIdenticalTo(Activity(a)))
			Expect(a.Next()).To(BeIdenticalTo(Activity(b)))
			Expect(b.Prev()).To(BeIdenticalTo(Activity(a)))
			Expect(c.Prev()).To(BeIdenticalTo(Activity(b)))
			Expect(c.Next()).To(BeNil())
		})

		It("should return nil for an empty chain", func() {
			Expect(Chain()).To(BeNil())
		})
	})
})
