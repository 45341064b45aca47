package sim

import "container/heap"

// An eventQueue is a priority queue of events. The front of the queue is
// always the event to dispatch next.
type eventQueue struct {
	events eventHeap
}

func newEventQueue() *eventQueue {
	q := new(eventQueue)
	q.events = make(eventHeap, 0)
	heap.Init(&q.events)
	return q
}

// Push adds an event to the event queue.
func (q *eventQueue) Push(evt *event) {
	heap.Push(&q.events, evt)
}

// Pop returns the next event to dispatch.
func (q *eventQueue) Pop() *event {
	return heap.Pop(&q.events).(*event)
}

// Len returns the number of events in the queue.
func (q *eventQueue) Len() int {
	return len(q.events)
}

// Peek returns the event at the front of the queue without removing it.
func (q *eventQueue) Peek() *event {
	return q.events[0]
}

// Remove takes the event that carries the given process out of the queue.
// It returns the time the event was scheduled for. Resources use this when
// they preempt an arrival whose pending timeout must be withdrawn. A
// process is never in the queue twice, so the first match is the only one.
func (q *eventQueue) Remove(p Process) (VTimeInSec, bool) {
	for i, evt := range q.events {
		if evt.process == p {
			heap.Remove(&q.events, i)
			return evt.time, true
		}
	}
	return 0, false
}

type eventHeap []*event

// Len returns the length of the event queue.
func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Earlier events dispatch
// first. At equal times, the event with the larger priority dispatches
// first. Within an equal (time, priority) key, scheduling order wins.
func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

// Swap changes the position of two events in the event queue.
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds an event into the event queue.
func (h *eventHeap) Push(x interface{}) {
	evt := x.(*event)
	*h = append(*h, evt)
}

// Pop removes and returns the next event to happen.
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	evt := old[n-1]
	*h = old[0 : n-1]
	return evt
}
