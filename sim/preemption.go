package sim

import "sort"

// PreemptOrder selects which occupants a preemptive resource evicts first.
type PreemptOrder string

const (
	// PreemptFIFO evicts the oldest admitted occupants first.
	PreemptFIFO PreemptOrder = "fifo"

	// PreemptLIFO evicts the most recently admitted occupants first.
	PreemptLIFO PreemptOrder = "lifo"
)

// tryPreempt evicts enough lower-priority occupants to admit rec. It
// returns false, leaving the server untouched, when the preemptible
// occupants below rec's priority cannot free enough room.
func (r *Resource) tryPreempt(rec *resourceRecord) bool {
	candidates := make([]*resourceRecord, 0, len(r.server))
	for _, s := range r.server {
		if s.preemptible && s.priority < rec.priority {
			candidates = append(candidates, s)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if r.preemptOrder == PreemptLIFO {
			return candidates[i].seq > candidates[j].seq
		}
		return candidates[i].seq < candidates[j].seq
	})

	freed := 0
	victims := make([]*resourceRecord, 0, len(candidates))
	for _, c := range candidates {
		if r.capacity >= 0 && r.serverCount-freed+rec.amount <= r.capacity {
			break
		}
		victims = append(victims, c)
		freed += c.amount
	}

	if r.capacity < 0 || r.serverCount-freed+rec.amount > r.capacity {
		return false
	}

	for _, v := range victims {
		r.preemptOut(v)
	}
	r.admit(rec)

	return true
}

// preemptOut moves an occupant from the server to the preempted set. The
// occupant's pending event is withdrawn from the event queue; the residual
// delay is kept so the occupant resumes where it left off, unless its seize
// asked for a restart, in which case the arrival is rolled back to the
// activity after the seize and re-runs its timeout from scratch.
func (r *Resource) preemptOut(v *resourceRecord) {
	r.removeServer(v)
	r.serverCount -= v.amount

	if t, ok := r.sim.unschedule(v.arrival); ok {
		v.remaining = t - r.sim.Now()
	} else {
		v.remaining = 0
	}

	if v.restart {
		v.arrival.SetActivity(v.seizedAt.Next())
		v.remaining = 0
	}

	r.preempted = append(r.preempted, v)
}
