package sim

import "fmt"

// An Activity is a node of a trajectory. Executing an activity for an
// arrival yields a delay. A non-negative delay asks the arrival to advance
// to the following node after that much virtual time. A negative delay
// means the arrival has been handed off, typically parked inside a
// resource, and must not advance on its own.
//
// Activities are owned by the trajectory that links them and outlive any
// arrival that traverses them.
type Activity interface {
	// Name returns the kind of the activity, for trajectory descriptions.
	Name() string

	// Run executes the activity for an arrival and returns the delay until
	// the arrival advances.
	Run(a *Arrival) float64

	// Next returns the statically linked following activity.
	Next() Activity

	// SetNext links the following activity.
	SetNext(n Activity)

	// Prev returns the statically linked preceding activity.
	Prev() Activity

	// SetPrev links the preceding activity.
	SetPrev(p Activity)

	// TakeNext returns the node the arrival advances to. When the last Run
	// selected an override, TakeNext consumes and returns it; otherwise it
	// returns the static next node.
	TakeNext() Activity

	fmt.Stringer
}

// ActivityBase carries the linkage shared by all activities.
type ActivityBase struct {
	name     string
	next     Activity
	prev     Activity
	selected Activity
}

// NewActivityBase creates an ActivityBase with the given kind name.
func NewActivityBase(name string) ActivityBase {
	return ActivityBase{name: name}
}

// Name returns the kind of the activity.
func (b *ActivityBase) Name() string {
	return b.name
}

// Next returns the statically linked following activity.
func (b *ActivityBase) Next() Activity {
	return b.next
}

// SetNext links the following activity.
func (b *ActivityBase) SetNext(n Activity) {
	b.next = n
}

// Prev returns the statically linked preceding activity.
func (b *ActivityBase) Prev() Activity {
	return b.prev
}

// SetPrev links the preceding activity.
func (b *ActivityBase) SetPrev(p Activity) {
	b.prev = p
}

// TakeNext consumes the selection override if one is pending, and falls back
// to the static next node. The override lives on the activity rather than
// the arrival; the event loop is single threaded and the override is always
// consumed by the advance that immediately follows the Run that set it.
func (b *ActivityBase) TakeNext() Activity {
	if b.selected != nil {
		s := b.selected
		b.selected = nil
		return s
	}
	return b.next
}

func (b *ActivityBase) selectNext(a Activity) {
	b.selected = a
}

// Chain links the given activities in sequence, setting the next and prev
// pointers of each pair, and returns the first one. It is a convenience for
// hosts and tests; any linking that produces the same pointer structure is
// equally valid.
func Chain(activities ...Activity) Activity {
	if len(activities) == 0 {
		return nil
	}

	for i := 1; i < len(activities); i++ {
		activities[i-1].SetNext(activities[i])
		activities[i].SetPrev(activities[i-1])
	}

	return activities[0]
}
