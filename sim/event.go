package sim

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// A Process is anything the event loop can dispatch. Arrivals, generators,
// and resource managers are all processes. When the clock reaches the time
// of a scheduled event, the event loop calls Run on the process the event
// carries.
type Process interface {
	// Name returns the name of the process.
	Name() string

	// Run executes the process at its scheduled time.
	Run()

	// Reset restores the process to its initial state so that the
	// simulation can be restarted.
	Reset()
}

// An event is a future invocation of a process. Events are ordered by time
// first. At the same time, events with a larger priority run first, which is
// how releases are dispatched before seizes that coincide with them. Within
// an equal (time, priority) key, events dispatch in scheduling order.
type event struct {
	time     VTimeInSec
	priority int
	seq      uint64
	process  Process
}

// releasePriority is the event priority that resources use when they wake a
// waiting or preempted arrival. It is larger than the default priority 0 so
// that a release-driven admission at time t runs before any fresh seize
// scheduled at the same t.
const releasePriority = 1
