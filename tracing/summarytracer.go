package tracing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/trajsim/sim"
)

// resourceSummary aggregates the snapshots of one resource.
type resourceSummary struct {
	peakServer int
	peakQueue  int
	capacity   int
	changes    int
}

// A SummaryTracer aggregates the monitoring records into per-run counters:
// arrivals created, finished, and dropped, and per-resource peaks. It backs
// the report of the CLI.
type SummaryTracer struct {
	created   int
	finished  int
	dropped   int
	lastEnd   sim.VTimeInSec
	resources map[string]*resourceSummary
}

// NewSummaryTracer creates a SummaryTracer.
func NewSummaryTracer() *SummaryTracer {
	return &SummaryTracer{
		resources: make(map[string]*resourceSummary),
	}
}

// ArrivalStart counts one created arrival.
func (t *SummaryTracer) ArrivalStart(info sim.ArrivalInfo) {
	t.created++
}

// ArrivalEnd counts one finished or dropped arrival.
func (t *SummaryTracer) ArrivalEnd(info sim.ArrivalInfo) {
	if info.Finished {
		t.finished++
	} else {
		t.dropped++
	}

	if info.Time > t.lastEnd {
		t.lastEnd = info.Time
	}
}

// ResourceChange folds one snapshot into the per-resource peaks.
func (t *SummaryTracer) ResourceChange(info sim.ResourceInfo) {
	r, ok := t.resources[info.Name]
	if !ok {
		r = &resourceSummary{}
		t.resources[info.Name] = r
	}

	if info.Server > r.peakServer {
		r.peakServer = info.Server
	}
	if info.Queue > r.peakQueue {
		r.peakQueue = info.Queue
	}
	r.capacity = info.Capacity
	r.changes++
}

// Attribute is ignored by the summary.
func (t *SummaryTracer) Attribute(info sim.AttributeInfo) {}

// Created returns the number of arrivals created.
func (t *SummaryTracer) Created() int {
	return t.created
}

// Finished returns the number of arrivals that completed their trajectory.
func (t *SummaryTracer) Finished() int {
	return t.finished
}

// Dropped returns the number of arrivals rejected or dropped by policy.
func (t *SummaryTracer) Dropped() int {
	return t.dropped
}

// Report renders the summary as a human-readable block.
func (t *SummaryTracer) Report() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "arrivals: %d created, %d finished, %d dropped\n",
		t.created, t.finished, t.dropped)
	if t.finished+t.dropped > 0 {
		fmt.Fprintf(&sb, "last arrival ended at t=%g\n", float64(t.lastEnd))
	}

	names := make([]string, 0, len(t.resources))
	for name := range t.resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := t.resources[name]
		fmt.Fprintf(&sb,
			"resource %s: peak server %d, peak queue %d, capacity %d, %d changes\n",
			name, r.peakServer, r.peakQueue, r.capacity, r.changes)
	}

	return sb.String()
}
