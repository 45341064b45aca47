package sim

import (
	"fmt"
	"math"
)

// Activity run statuses, returned in place of a delay. Blocked arrivals are
// owned by a resource that will wake them later. Rejected arrivals are
// dropped unless the seize carries a rejection edge.
const (
	statusBlocked  float64 = -1
	statusRejected float64 = -2
)

// Timeout delays an arrival for a fixed or host-computed amount of virtual
// time. Negative inputs are coerced positive.
type Timeout struct {
	ActivityBase
	delay        float64
	fn           ValueFunc
	provideAttrs bool
}

// NewTimeout creates a Timeout with a literal delay.
func NewTimeout(delay float64) *Timeout {
	return &Timeout{ActivityBase: NewActivityBase("Timeout"), delay: delay}
}

// NewTimeoutFunc creates a Timeout whose delay is computed by the host on
// every visit.
func NewTimeoutFunc(fn ValueFunc, provideAttrs bool) *Timeout {
	return &Timeout{
		ActivityBase: NewActivityBase("Timeout"),
		fn:           fn,
		provideAttrs: provideAttrs,
	}
}

// Run returns the delay to wait.
func (t *Timeout) Run(a *Arrival) float64 {
	if t.fn != nil {
		return math.Abs(t.fn(callAttrs(a, t.provideAttrs)))
	}
	return math.Abs(t.delay)
}

func (t *Timeout) String() string {
	if t.fn != nil {
		return "Timeout { delay: function() }"
	}
	return fmt.Sprintf("Timeout { delay: %g }", t.delay)
}

// SetAttribute writes one attribute of the running arrival.
type SetAttribute struct {
	ActivityBase
	key          string
	value        float64
	fn           ValueFunc
	provideAttrs bool
}

// NewSetAttribute creates a SetAttribute with a literal value.
func NewSetAttribute(key string, value float64) *SetAttribute {
	return &SetAttribute{
		ActivityBase: NewActivityBase("SetAttribute"),
		key:          key,
		value:        value,
	}
}

// NewSetAttributeFunc creates a SetAttribute whose value is computed by the
// host on every visit.
func NewSetAttributeFunc(key string, fn ValueFunc, provideAttrs bool) *SetAttribute {
	return &SetAttribute{
		ActivityBase: NewActivityBase("SetAttribute"),
		key:          key,
		fn:           fn,
		provideAttrs: provideAttrs,
	}
}

// Run stores the attribute and advances immediately.
func (s *SetAttribute) Run(a *Arrival) float64 {
	v := s.value
	if s.fn != nil {
		v = s.fn(callAttrs(a, s.provideAttrs))
	}
	a.SetAttribute(s.key, v)
	return 0
}

func (s *SetAttribute) String() string {
	if s.fn != nil {
		return fmt.Sprintf("SetAttribute { key: %s, value: function() }", s.key)
	}
	return fmt.Sprintf("SetAttribute { key: %s, value: %g }", s.key, s.value)
}

// Seize acquires an amount of a named resource. When the resource is full,
// the arrival either queues, preempts a lower-priority occupant, or is
// rejected, depending on the resource configuration.
type Seize struct {
	ActivityBase
	resource     string
	amount       int
	amountFn     CountFunc
	provideAttrs bool
	priority     int
	preemptible  bool
	restart      bool
	onReject     Activity
}

// NewSeize creates a Seize with a literal amount.
func NewSeize(resource string, amount, priority int, preemptible, restart bool) *Seize {
	return &Seize{
		ActivityBase: NewActivityBase("Seize"),
		resource:     resource,
		amount:       amount,
		priority:     priority,
		preemptible:  preemptible,
		restart:      restart,
	}
}

// NewSeizeFunc creates a Seize whose amount is computed by the host.
func NewSeizeFunc(resource string, fn CountFunc, provideAttrs bool,
	priority int, preemptible, restart bool) *Seize {
	s := NewSeize(resource, 0, priority, preemptible, restart)
	s.amountFn = fn
	s.provideAttrs = provideAttrs
	return s
}

// WithOnReject routes arrivals that the resource rejects to the given
// activity instead of dropping them. It returns the Seize for chaining.
func (s *Seize) WithOnReject(a Activity) *Seize {
	s.onReject = a
	return s
}

// Run delegates to the resource. Re-running a Seize for an arrival that a
// release already admitted out of band returns 0 so the arrival advances.
func (s *Seize) Run(a *Arrival) float64 {
	n := s.amount
	if s.amountFn != nil {
		n = s.amountFn(callAttrs(a, s.provideAttrs))
	}

	d := a.Sim().GetResource(s.resource).Seize(a, n, s.priority, s.preemptible, s.restart)
	if d == statusRejected && s.onReject != nil {
		s.selectNext(s.onReject)
		return 0
	}
	return d
}

func (s *Seize) String() string {
	if s.amountFn != nil {
		return fmt.Sprintf("Seize { resource: %s, amount: function() }", s.resource)
	}
	return fmt.Sprintf("Seize { resource: %s, amount: %d }", s.resource, s.amount)
}

// Release gives back an amount of a named resource and advances
// immediately.
type Release struct {
	ActivityBase
	resource     string
	amount       int
	amountFn     CountFunc
	provideAttrs bool
}

// NewRelease creates a Release with a literal amount.
func NewRelease(resource string, amount int) *Release {
	return &Release{
		ActivityBase: NewActivityBase("Release"),
		resource:     resource,
		amount:       amount,
	}
}

// NewReleaseFunc creates a Release whose amount is computed by the host.
func NewReleaseFunc(resource string, fn CountFunc, provideAttrs bool) *Release {
	r := NewRelease(resource, 0)
	r.amountFn = fn
	r.provideAttrs = provideAttrs
	return r
}

// Run delegates to the resource.
func (r *Release) Run(a *Arrival) float64 {
	n := r.amount
	if r.amountFn != nil {
		n = r.amountFn(callAttrs(a, r.provideAttrs))
	}
	return a.Sim().GetResource(r.resource).Release(a, n)
}

func (r *Release) String() string {
	if r.amountFn != nil {
		return fmt.Sprintf("Release { resource: %s, amount: function() }", r.resource)
	}
	return fmt.Sprintf("Release { resource: %s, amount: %d }", r.resource, r.amount)
}
