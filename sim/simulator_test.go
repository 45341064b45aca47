package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

// A selfScheduler reschedules itself on every run, which keeps the event
// queue non-empty forever.
type selfScheduler struct {
	sim  *Simulator
	runs int
}

func (p *selfScheduler) Name() string { return "selfScheduler" }
func (p *selfScheduler) Reset()       { p.runs = 0 }

func (p *selfScheduler) Run() {
	p.runs++
	p.sim.Schedule(1, p, 0)
}

var _ = Describe("Simulator", func() {
	var (
		mockCtrl *gomock.Controller
		s        *Simulator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		s = NewSimulator("test", false)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should dispatch events in time order", func() {
		p1 := NewMockProcess(mockCtrl)
		p2 := NewMockProcess(mockCtrl)

		first := p2.EXPECT().Run().Do(func() {
			Expect(s.Now()).To(Equal(VTimeInSec(1.0)))
		})
		p1.EXPECT().Run().Do(func() {
			Expect(s.Now()).To(Equal(VTimeInSec(2.0)))
		}).After(first)

		s.Schedule(2.0, p1, 0)
		s.Schedule(1.0, p2, 0)

		Expect(s.Step()).To(BeTrue())
		Expect(s.Step()).To(BeTrue())
		Expect(s.Step()).To(BeFalse())
	})

	It("should dispatch larger priorities first at equal times", func() {
		p1 := NewMockProcess(mockCtrl)
		p2 := NewMockProcess(mockCtrl)

		first := p2.EXPECT().Run()
		p1.EXPECT().Run().After(first)

		s.Schedule(1.0, p1, 0)
		s.Schedule(1.0, p2, 1)

		s.Run(2.0)
	})

	It("should peek the next event time", func() {
		Expect(s.Peek()).To(Equal(VTimeInSec(-1)))

		p := NewMockProcess(mockCtrl)
		s.Schedule(3.0, p, 0)

		Expect(s.Peek()).To(Equal(VTimeInSec(3.0)))
	})

	It("should refuse negative delays", func() {
		p := NewMockProcess(mockCtrl)
		p.EXPECT().Name().Return("p").AnyTimes()

		Expect(func() { s.Schedule(-1.0, p, 0) }).To(Panic())
	})

	It("should poll the cancellation check", func() {
		polls := 0
		s.SetCancellationCheck(func() bool {
			polls++
			return true
		})

		p := &selfScheduler{sim: s}
		s.Schedule(0, p, 0)
		s.Run(VTimeInSec(interruptInterval * 10))

		Expect(polls).To(Equal(1))
		Expect(p.runs).To(Equal(interruptInterval))
		Expect(s.Peek()).ToNot(Equal(VTimeInSec(-1)))
	})

	It("should warn and refuse duplicate registrations", func() {
		Expect(s.AddResource("r", 1, -1, false, false, "")).To(BeTrue())
		Expect(s.AddResource("r", 2, -1, false, false, "")).To(BeFalse())
		Expect(s.GetResource("r").Capacity()).To(Equal(1))

		dist := func() float64 { return -1 }
		Expect(s.AddGenerator("g", nil, dist, 0)).To(BeTrue())
		Expect(s.AddGenerator("g", nil, dist, 0)).To(BeFalse())
	})

	It("should panic on lookup misses", func() {
		Expect(func() { s.GetResource("nope") }).To(Panic())
		Expect(func() { s.GetGenerator("nope") }).To(Panic())
	})

	It("should require the resource of a manager to exist", func() {
		Expect(func() {
			s.AddResourceManager("nope", "capacity",
				[]VTimeInSec{1}, []int{1})
		}).To(Panic())
	})

	It("should reset to a reproducible initial state", func() {
		traj := Chain(
			NewSeize("r", 1, 0, true, false),
			NewTimeout(5),
			NewRelease("r", 1),
		)
		s.AddResource("r", 1, -1, false, false, "")
		every := 2.0
		s.AddGenerator("g", traj, func() float64 { return every }, 0)

		s.Run(20)
		Expect(s.Now()).To(BeNumerically(">", 0))
		Expect(s.CreatedCount()).To(BeNumerically(">", 0))

		s.Reset()
		firstPeek := s.Peek()
		Expect(s.Now()).To(Equal(VTimeInSec(0)))
		Expect(s.GetResource("r").ServerCount()).To(Equal(0))
		Expect(s.GetGenerator("g").Count()).To(BeNumerically(">", 0))

		s.Reset()
		Expect(s.Now()).To(Equal(VTimeInSec(0)))
		Expect(s.Peek()).To(Equal(firstPeek))
	})

	It("should keep created equal to finished plus active", func() {
		traj := Chain(
			NewSeize("r", 1, 0, true, false),
			NewTimeout(1),
			NewRelease("r", 1),
		)
		s.AddResource("r", 1, -1, false, false, "")

		remaining := 10
		s.AddGenerator("g", traj, func() float64 {
			remaining--
			if remaining < 0 {
				return -1
			}
			return 0.5
		}, 0)

		for s.Step() {
			Expect(s.FinishedCount()).To(BeNumerically("<=", s.CreatedCount()))
		}

		Expect(s.CreatedCount()).To(Equal(s.FinishedCount()))
	})
})
