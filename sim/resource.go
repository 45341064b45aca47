package sim

import "log"

// A resourceRecord tracks one arrival inside a resource, whether it is
// being served, waiting in the queue, or preempted. The same record moves
// between the three sets so the seize parameters survive the transitions.
type resourceRecord struct {
	arrival     *Arrival
	amount      int
	priority    int
	preemptible bool
	restart     bool

	// seizedAt is the Seize node that admitted the arrival. A preempted
	// seize with restart set rolls the arrival back to the node after it.
	seizedAt Activity

	// remaining is the residual delay of a preempted arrival, withdrawn
	// from the event queue at preemption time.
	remaining VTimeInSec

	// seq is the server insertion order, which the preempt-order policies
	// select victims by.
	seq uint64
}

// A Resource is a bounded server with a queue. Arrivals seize and release
// units of it; a preemptive resource can evict lower-priority occupants to
// admit a higher-priority seize.
//
// A capacity or queue size of -1 means infinity.
type Resource struct {
	sim  *Simulator
	name string
	mon  bool

	capacity  int
	queueSize int

	serverCount int
	server      []*resourceRecord
	queue       []*resourceRecord
	preempted   []*resourceRecord

	preemptive   bool
	preemptOrder PreemptOrder

	nextSeq uint64
}

// NewResource creates a non-preemptive resource.
func NewResource(s *Simulator, name string, mon bool,
	capacity, queueSize int) *Resource {
	return &Resource{
		sim:       s,
		name:      name,
		mon:       mon,
		capacity:  capacity,
		queueSize: queueSize,
	}
}

// NewPreemptiveResource creates a resource that evicts lower-priority
// occupants when a higher-priority seize does not fit. The order selects
// victims among the occupants.
func NewPreemptiveResource(s *Simulator, name string, mon bool,
	capacity, queueSize int, order PreemptOrder) *Resource {
	r := NewResource(s, name, mon, capacity, queueSize)
	r.preemptive = true
	r.preemptOrder = order
	return r
}

// Name returns the name of the resource.
func (r *Resource) Name() string {
	return r.name
}

// Capacity returns the server capacity. -1 means infinity.
func (r *Resource) Capacity() int {
	return r.capacity
}

// QueueSize returns the room in the queue. -1 means infinity.
func (r *Resource) QueueSize() int {
	return r.queueSize
}

// ServerCount returns the sum of the amounts currently being served.
func (r *Resource) ServerCount() int {
	return r.serverCount
}

// QueueLength returns the number of arrivals waiting in the queue.
func (r *Resource) QueueLength() int {
	return len(r.queue)
}

// PreemptedLength returns the number of preempted arrivals waiting to
// re-enter the server.
func (r *Resource) PreemptedLength() int {
	return len(r.preempted)
}

// Seize tries to acquire amount units for an arrival. It returns 0 when the
// arrival is admitted and may advance immediately, and a negative status
// when the arrival queues or is rejected. Re-running a seize for an arrival
// that a release already admitted returns 0 without touching any state.
func (r *Resource) Seize(a *Arrival, amount, priority int,
	preemptible, restart bool) float64 {
	if amount < 0 {
		log.Panicf("resource %s: negative seize amount %d", r.name, amount)
	}

	if r.findServer(a) != nil {
		return 0
	}

	rec := &resourceRecord{
		arrival:     a,
		amount:      amount,
		priority:    priority,
		preemptible: preemptible,
		restart:     restart,
		seizedAt:    a.Activity(),
	}

	if r.fits(amount) {
		r.admit(rec)
		r.notify()
		return 0
	}

	if r.preemptive && r.tryPreempt(rec) {
		r.notify()
		return 0
	}

	if r.queueSize < 0 || len(r.queue) < r.queueSize {
		r.enqueue(rec)
		r.notify()
		return statusBlocked
	}

	return statusRejected
}

// Release gives back amount units held by an arrival. Releasing less than
// the held amount reduces the record in place. After the release, waiting
// arrivals are admitted while they fit, preempted ones first. A woken queued
// arrival is scheduled at the current time, a woken preempted one after its
// residual delay, both ahead of fresh seizes at the same instant.
func (r *Resource) Release(a *Arrival, amount int) float64 {
	if amount < 0 {
		log.Panicf("resource %s: negative release amount %d", r.name, amount)
	}

	rec := r.findServer(a)
	if rec == nil {
		log.Panicf("resource %s: arrival %s holds nothing to release",
			r.name, a.Name())
	}

	released := amount
	if released >= rec.amount {
		released = rec.amount
		r.removeServer(rec)
	} else {
		rec.amount -= released
	}
	r.serverCount -= released

	r.notify()
	r.drain()
	return 0
}

// SetCapacity adjusts the server capacity. Growth admits waiting arrivals
// under the same rule as a release. Shrinking below the current server
// count evicts nobody; the overage persists until natural releases.
func (r *Resource) SetCapacity(capacity int) {
	r.capacity = capacity
	r.notify()
	r.drain()
}

// SetQueueSize adjusts the room in the queue. Shrinking rejects queued
// arrivals from the tail until the queue fits.
func (r *Resource) SetQueueSize(queueSize int) {
	r.queueSize = queueSize

	for r.queueSize >= 0 && len(r.queue) > r.queueSize {
		rec := r.queue[len(r.queue)-1]
		r.queue = r.queue[:len(r.queue)-1]
		rec.arrival.terminate(r.sim.Now(), false)
	}

	r.notify()
}

// Reset clears the server, the queue, and the preempted set.
func (r *Resource) Reset() {
	r.serverCount = 0
	r.server = nil
	r.queue = nil
	r.preempted = nil
	r.nextSeq = 0
}

func (r *Resource) fits(amount int) bool {
	return r.capacity < 0 || r.serverCount+amount <= r.capacity
}

func (r *Resource) admit(rec *resourceRecord) {
	rec.seq = r.nextSeq
	r.nextSeq++
	r.serverCount += rec.amount
	r.server = append(r.server, rec)
}

func (r *Resource) findServer(a *Arrival) *resourceRecord {
	for _, rec := range r.server {
		if rec.arrival == a {
			return rec
		}
	}
	return nil
}

func (r *Resource) removeServer(rec *resourceRecord) {
	for i, s := range r.server {
		if s == rec {
			r.server = append(r.server[:i], r.server[i+1:]...)
			return
		}
	}
}

// enqueue inserts in descending priority order, behind equal priorities.
func (r *Resource) enqueue(rec *resourceRecord) {
	i := len(r.queue)
	for ; i > 0; i-- {
		if r.queue[i-1].priority >= rec.priority {
			break
		}
	}

	r.queue = append(r.queue, nil)
	copy(r.queue[i+1:], r.queue[i:])
	r.queue[i] = rec
}

// drain admits waiting arrivals while they fit. Preempted arrivals re-enter
// ahead of the queue, preserving their order among themselves, and are
// scheduled after their residual delay (zero for a restarted seize). Queued
// arrivals are scheduled at the current time. Both use the release priority
// so that they run before fresh seizes at the same instant.
func (r *Resource) drain() {
	for len(r.preempted) > 0 && r.fits(r.preempted[0].amount) {
		rec := r.preempted[0]
		r.preempted = r.preempted[1:]
		r.admit(rec)
		r.sim.Schedule(rec.remaining, rec.arrival, releasePriority)
		rec.remaining = 0
		r.notify()
	}

	for len(r.queue) > 0 && r.fits(r.queue[0].amount) {
		rec := r.queue[0]
		r.queue = r.queue[1:]
		r.admit(rec)
		r.sim.Schedule(0, rec.arrival, releasePriority)
		r.notify()
	}
}

func (r *Resource) notify() {
	if !r.mon {
		return
	}

	r.sim.InvokeHook(HookCtx{
		Domain: r.sim,
		Pos:    HookPosResourceChange,
		Item: ResourceInfo{
			Name:     r.name,
			Time:     r.sim.Now(),
			Server:   r.serverCount,
			Queue:    len(r.queue),
			Capacity: r.capacity,
		},
	})
}
