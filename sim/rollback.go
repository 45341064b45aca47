package sim

import "fmt"

// Rollback sends an arrival a number of activities back along the
// trajectory. In counter mode the rollback fires a bounded number of times
// per arrival; a negative bound never stops firing. In predicate mode a
// host callback decides on every visit.
type Rollback struct {
	ActivityBase
	amount       int
	times        int
	check        CheckFunc
	provideAttrs bool
	pending      map[*Arrival]int
	cached       Activity
}

// NewRollback creates a counter-mode Rollback that goes back amount
// activities up to times times per arrival. A negative times rolls back
// forever.
func NewRollback(amount, times int) *Rollback {
	return &Rollback{
		ActivityBase: NewActivityBase("Rollback"),
		amount:       amount,
		times:        times,
		pending:      make(map[*Arrival]int),
	}
}

// NewRollbackFunc creates a predicate-mode Rollback that goes back amount
// activities whenever the host callback returns true.
func NewRollbackFunc(amount int, check CheckFunc, provideAttrs bool) *Rollback {
	r := NewRollback(amount, 0)
	r.check = check
	r.provideAttrs = provideAttrs
	return r
}

// Run decides whether to roll back and, if so, selects the target node. The
// target is resolved on first use by walking the prev links and cached for
// all later visits.
func (r *Rollback) Run(a *Arrival) float64 {
	if r.check != nil {
		if !r.check(callAttrs(a, r.provideAttrs)) {
			return 0
		}
		r.selectNext(r.target())
		return 0
	}

	if r.times >= 0 {
		if _, ok := r.pending[a]; !ok {
			r.pending[a] = r.times
		}
		if r.pending[a] == 0 {
			delete(r.pending, a)
			return 0
		}
		r.pending[a]--
	}

	r.selectNext(r.target())
	return 0
}

func (r *Rollback) target() Activity {
	if r.cached != nil {
		return r.cached
	}

	var node Activity = r
	for i := 0; i < r.amount; i++ {
		if node.Prev() == nil {
			break
		}
		node = node.Prev()
	}

	r.cached = node
	return node
}

func (r *Rollback) String() string {
	if r.check != nil {
		return fmt.Sprintf("Rollback { amount: %d, check: function() }", r.amount)
	}
	if r.times < 0 {
		return fmt.Sprintf("Rollback { amount: %d, times: Inf }", r.amount)
	}
	return fmt.Sprintf("Rollback { amount: %d, times: %d }", r.amount, r.times)
}
