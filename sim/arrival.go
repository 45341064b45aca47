package sim

// An Arrival is a simulated entity flowing through a trajectory. Arrivals
// are created by generators and destroyed when they run off the end of
// their trajectory or when a policy drops them.
//
// A live arrival is in exactly one place: the event queue, a resource
// server, a resource queue, or a resource preempted set.
type Arrival struct {
	sim          *Simulator
	name         string
	mon          int
	creationTime VTimeInSec
	attributes   map[string]float64
	activity     Activity
}

// NewArrival creates an arrival bound to the first activity of a
// trajectory. Monitoring levels: 0 reports nothing, 1 reports the arrival
// lifecycle, 2 additionally reports attribute writes.
func NewArrival(s *Simulator, name string, mon int, first Activity) *Arrival {
	return &Arrival{
		sim:          s,
		name:         name,
		mon:          mon,
		creationTime: s.Now(),
		attributes:   make(map[string]float64),
		activity:     first,
	}
}

// Name returns the name of the arrival.
func (a *Arrival) Name() string {
	return a.name
}

// Sim returns the simulator the arrival lives in.
func (a *Arrival) Sim() *Simulator {
	return a.sim
}

// CreationTime returns the time the arrival entered the simulation.
func (a *Arrival) CreationTime() VTimeInSec {
	return a.creationTime
}

// Activity returns the activity the arrival executes next.
func (a *Arrival) Activity() Activity {
	return a.activity
}

// SetActivity moves the activity pointer. Resources use this when a
// preempted seize must restart its timeout from scratch.
func (a *Arrival) SetActivity(act Activity) {
	a.activity = act
}

// Run executes the current activity. A negative status hands the arrival
// off: a blocked arrival stays parked in a resource, a rejected one is
// dropped. Otherwise the arrival advances, rescheduling itself after the
// returned delay, and terminates when the trajectory ends.
func (a *Arrival) Run() {
	if a.activity == nil {
		a.terminate(a.sim.Now(), true)
		return
	}

	delay := a.activity.Run(a)
	switch {
	case delay == statusRejected:
		a.terminate(a.sim.Now(), false)
		return
	case delay < 0:
		return
	}

	current := a.activity
	a.activity = current.TakeNext()
	if a.activity == nil {
		a.terminate(a.sim.Now()+VTimeInSec(delay), true)
		return
	}

	a.sim.Schedule(VTimeInSec(delay), a, 0)
}

// Reset is a no-op. Arrivals in the event queue are dropped wholesale when
// the simulation resets.
func (a *Arrival) Reset() {}

// SetAttribute stores an attribute and returns the stored value.
func (a *Arrival) SetAttribute(key string, value float64) float64 {
	a.attributes[key] = value

	if a.mon >= 2 {
		a.sim.InvokeHook(HookCtx{
			Domain: a.sim,
			Pos:    HookPosAttribute,
			Item: AttributeInfo{
				Name:  a.name,
				Time:  a.sim.Now(),
				Key:   key,
				Value: value,
			},
		})
	}

	return value
}

// Attributes returns a snapshot of the attribute map.
func (a *Arrival) Attributes() Attributes {
	snapshot := make(Attributes, len(a.attributes))
	for k, v := range a.attributes {
		snapshot[k] = v
	}
	return snapshot
}

func (a *Arrival) terminate(t VTimeInSec, finished bool) {
	a.sim.countTermination()

	if a.mon >= 1 {
		a.sim.InvokeHook(HookCtx{
			Domain: a.sim,
			Pos:    HookPosArrivalEnd,
			Item:   ArrivalInfo{Name: a.name, Time: t, Finished: finished},
		})
	}
}
