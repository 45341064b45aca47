package sim

import (
	"fmt"
	"log"
)

// Branch forks the trajectory into one of several sub-paths. The host
// callback selects a path with a 1-indexed result. A path marked as merging
// rejoins the activity after the Branch when its last activity links back
// to the Branch.
type Branch struct {
	ActivityBase
	option       OptionFunc
	provideAttrs bool
	paths        []Activity
	merge        []bool
	pending      map[*Arrival]struct{}
}

// NewBranch creates a Branch. paths and merge must have the same length.
// For every merging path, the caller links the tail of the path back to the
// Branch so that the arrival revisits it and proceeds to the Branch's next
// activity.
func NewBranch(option OptionFunc, provideAttrs bool,
	paths []Activity, merge []bool) *Branch {
	if len(paths) != len(merge) {
		log.Panic("branch needs one merge flag per path")
	}

	return &Branch{
		ActivityBase: NewActivityBase("Branch"),
		option:       option,
		provideAttrs: provideAttrs,
		paths:        paths,
		merge:        merge,
		pending:      make(map[*Arrival]struct{}),
	}
}

// Run selects a path on the first visit. On the return visit of a merging
// arrival it consumes the pending entry so the arrival advances to the
// Branch's next activity.
func (b *Branch) Run(a *Arrival) float64 {
	if _, ok := b.pending[a]; ok {
		delete(b.pending, a)
		return 0
	}

	i := b.option(callAttrs(a, b.provideAttrs))
	if i < 1 || i > len(b.paths) {
		log.Panicf("branch index %d out of range 1..%d", i, len(b.paths))
	}

	b.selectNext(b.paths[i-1])
	if b.merge[i-1] {
		b.pending[a] = struct{}{}
	}

	return 0
}

func (b *Branch) String() string {
	return fmt.Sprintf("Branch { paths: %d }", len(b.paths))
}
