package sim

import "log"

// interruptInterval is the number of dispatched events between two polls of
// the host cancellation check during Run.
const interruptInterval = 100000

// A Simulator owns the virtual clock, the event queue, and the registries
// of named processes and resources. It is the single logical executor:
// every state change happens inside the Run of the process dispatched by
// Step.
type Simulator struct {
	HookableBase

	name    string
	verbose bool

	now     VTimeInSec
	queue   *eventQueue
	nextSeq uint64

	processes    map[string]Process
	processOrder []string
	resources    map[string]*Resource

	interrupt CancellationCheck

	created  int
	finished int
}

// NewSimulator creates a simulator. With verbose set, every dispatched
// event is logged.
func NewSimulator(name string, verbose bool) *Simulator {
	return &Simulator{
		name:      name,
		verbose:   verbose,
		queue:     newEventQueue(),
		processes: make(map[string]Process),
		resources: make(map[string]*Resource),
	}
}

// Name returns the name of the simulator.
func (s *Simulator) Name() string {
	return s.name
}

// Now returns the current virtual time.
func (s *Simulator) Now() VTimeInSec {
	return s.now
}

// SetCancellationCheck installs the host callback that Run polls every
// 100000 steps. A true result aborts Run, leaving the state inspectable.
func (s *Simulator) SetCancellationCheck(check CancellationCheck) {
	s.interrupt = check
}

// Schedule pushes a future invocation of a process. The priority is an
// additional key so that releases dispatch before seizes when they
// coincide; 0 is the default for everything else.
func (s *Simulator) Schedule(delay VTimeInSec, p Process, priority int) {
	if delay < 0 {
		log.Panicf("scheduling %s with negative delay %f", p.Name(), delay)
	}

	s.queue.Push(&event{
		time:     s.now + delay,
		priority: priority,
		seq:      s.nextSeq,
		process:  p,
	})
	s.nextSeq++
}

// Peek returns the time of the next scheduled event, or -1 when the queue
// is empty.
func (s *Simulator) Peek() VTimeInSec {
	if s.queue.Len() == 0 {
		return -1
	}
	return s.queue.Peek().time
}

// Step dispatches the next event. It advances the clock to the event time,
// runs the process the event carries, and reports whether an event was
// consumed.
func (s *Simulator) Step() bool {
	if s.queue.Len() == 0 {
		return false
	}

	evt := s.queue.Pop()
	s.now = evt.time

	if s.verbose {
		log.Printf("%s: t=%g running %s", s.name, s.now, evt.process.Name())
	}

	ctx := HookCtx{Domain: s, Pos: HookPosBeforeEvent, Item: evt.process}
	s.InvokeHook(ctx)

	evt.process.Run()

	ctx.Pos = HookPosAfterEvent
	s.InvokeHook(ctx)

	return true
}

// Run dispatches events while the clock is below until and the queue is
// non-empty. Every 100000 steps it polls the host cancellation check; a
// positive result aborts the run with all state intact.
func (s *Simulator) Run(until VTimeInSec) {
	nsteps := 0
	for s.now < until && s.Step() {
		nsteps++
		if nsteps%interruptInterval == 0 &&
			s.interrupt != nil && s.interrupt() {
			return
		}
	}
}

// Reset restores the simulation to time zero: queued arrivals are dropped,
// resources are cleared, and every registered generator and manager is
// reset and re-run so that it reseeds the event queue.
func (s *Simulator) Reset() {
	s.now = 0
	s.queue = newEventQueue()
	s.nextSeq = 0
	s.created = 0
	s.finished = 0

	for _, r := range s.resources {
		r.Reset()
	}

	for _, name := range s.processOrder {
		p := s.processes[name]
		p.Reset()
		p.Run()
	}
}

// AddGenerator registers a generator that feeds arrivals into the first
// activity of a trajectory and runs it immediately. Registering a process
// name twice warns and returns false.
func (s *Simulator) AddGenerator(name string, first Activity,
	dist DistFunc, mon int) bool {
	if _, ok := s.processes[name]; ok {
		log.Printf("process %s already defined", name)
		return false
	}

	g := NewGenerator(s, name, mon, first, dist)
	s.registerProcess(name, g)
	g.Run()

	return true
}

// AddResource registers a resource. Registering a resource name twice
// warns and returns false.
func (s *Simulator) AddResource(name string, capacity, queueSize int,
	mon, preemptive bool, order PreemptOrder) bool {
	if _, ok := s.resources[name]; ok {
		log.Printf("resource %s already defined", name)
		return false
	}

	if preemptive {
		s.resources[name] = NewPreemptiveResource(
			s, name, mon, capacity, queueSize, order)
	} else {
		s.resources[name] = NewResource(s, name, mon, capacity, queueSize)
	}

	return true
}

// AddResourceManager registers a manager that drives the capacity or the
// queue size of an existing resource through a schedule and runs it
// immediately. The resource must already be registered.
func (s *Simulator) AddResourceManager(name, param string,
	durations []VTimeInSec, values []int) bool {
	processName := name + "_" + param
	if _, ok := s.processes[processName]; ok {
		log.Printf("process %s already defined", processName)
		return false
	}

	res := s.GetResource(name)

	var setter func(int)
	switch param {
	case "capacity":
		setter = res.SetCapacity
	case "queue_size":
		setter = res.SetQueueSize
	default:
		log.Panicf("unknown resource parameter %q", param)
	}

	m := NewManager(s, processName, durations, values, setter)
	s.registerProcess(processName, m)
	m.Run()

	return true
}

// GetGenerator returns a registered generator. A miss is fatal.
func (s *Simulator) GetGenerator(name string) *Generator {
	p, ok := s.processes[name]
	if !ok {
		log.Panicf("generator %q not found", name)
	}

	g, ok := p.(*Generator)
	if !ok {
		log.Panicf("process %q is not a generator", name)
	}

	return g
}

// GetResource returns a registered resource. A miss is fatal.
func (s *Simulator) GetResource(name string) *Resource {
	r, ok := s.resources[name]
	if !ok {
		log.Panicf("resource %q not found", name)
	}
	return r
}

// Resources returns the registered resources keyed by name.
func (s *Simulator) Resources() map[string]*Resource {
	return s.resources
}

// CreatedCount returns the number of arrivals created since the last
// reset.
func (s *Simulator) CreatedCount() int {
	return s.created
}

// FinishedCount returns the number of arrivals terminated since the last
// reset, whether they finished their trajectory or were dropped.
func (s *Simulator) FinishedCount() int {
	return s.finished
}

func (s *Simulator) registerProcess(name string, p Process) {
	s.processes[name] = p
	s.processOrder = append(s.processOrder, name)
}

// unschedule withdraws the pending event of a process and reports the time
// it was scheduled for. Resources use this when they preempt an arrival.
func (s *Simulator) unschedule(p Process) (VTimeInSec, bool) {
	return s.queue.Remove(p)
}

func (s *Simulator) countCreation() {
	s.created++
}

func (s *Simulator) countTermination() {
	s.finished++
}
