package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Branch", func() {
	var (
		s    *Simulator
		sink *sinkRecorder
	)

	BeforeEach(func() {
		s = NewSimulator("test", false)
		sink = &sinkRecorder{}
		s.AcceptHook(sink)
	})

	It("should route to the selected path", func() {
		path1 := NewSetAttribute("path", 1)
		path2 := NewSetAttribute("path", 2)
		branch := NewBranch(
			func(Attributes) int { return 2 },
			false,
			[]Activity{path1, path2},
			[]bool{false, false},
		)

		a := NewArrival(s, "A", 2, branch)
		s.Schedule(0, a, 0)
		s.Run(10)

		Expect(sink.attributes).To(HaveLen(1))
		Expect(sink.attributes[0].Value).To(Equal(2.0))
	})

	It("should merge back to the activity after the branch", func() {
		path := Chain(
			NewSetAttribute("visited", 1),
			NewTimeout(2),
		)
		branch := NewBranch(
			func(Attributes) int { return 1 },
			false,
			[]Activity{path},
			[]bool{true},
		)
		after := NewSetAttribute("after", 1)
		Chain(branch, after)
		path.Next().SetNext(branch)

		a := NewArrival(s, "A", 2, branch)
		s.Schedule(0, a, 0)
		s.Run(10)

		Expect(sink.attributes).To(HaveLen(2))
		Expect(sink.attributes[0].Key).To(Equal("visited"))
		Expect(sink.attributes[1].Key).To(Equal("after"))
		Expect(sink.attributes[1].Time).To(Equal(VTimeInSec(2)))

		end, ok := sink.endOf("A")
		Expect(ok).To(BeTrue())
		Expect(end.Finished).To(BeTrue())
	})

	It("should let a non-merging path diverge", func() {
		path := NewSetAttribute("diverged", 1)
		branch := NewBranch(
			func(Attributes) int { return 1 },
			false,
			[]Activity{path},
			[]bool{false},
		)
		after := NewSetAttribute("after", 1)
		Chain(branch, after)

		a := NewArrival(s, "A", 2, branch)
		s.Schedule(0, a, 0)
		s.Run(10)

		Expect(sink.attributes).To(HaveLen(1))
		Expect(sink.attributes[0].Key).To(Equal("diverged"))
	})

	It("should pass the attribute snapshot to the selector", func() {
		var seen Attributes
		branch := NewBranch(
			func(attrs Attributes) int {
				seen = attrs
				return 1
			},
			true,
			[]Activity{NewTimeout(0)},
			[]bool{false},
		)
		traj := Chain(NewSetAttribute("k", 4), branch)

		a := NewArrival(s, "A", 0, traj)
		s.Schedule(0, a, 0)
		s.Run(10)

		Expect(seen.Get("k")).To(Equal(4.0))
	})

	It("should panic on an out-of-range selection", func() {
		branch := NewBranch(
			func(Attributes) int { return 3 },
			false,
			[]Activity{NewTimeout(0)},
			[]bool{false},
		)

		a := NewArrival(s, "A", 0, branch)
		s.Schedule(0, a, 0)

		Expect(func() { s.Run(10) }).To(Panic())
	})

	It("should require one merge flag per path", func() {
		Expect(func() {
			NewBranch(func(Attributes) int { return 1 },
				false, []Activity{NewTimeout(0)}, nil)
		}).To(Panic())
	})
})
