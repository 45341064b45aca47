package sim

import "fmt"

// A Generator is a process that feeds arrivals into a trajectory. The host
// supplies the inter-arrival delays; a negative delay stops the generator.
type Generator struct {
	sim   *Simulator
	name  string
	mon   int
	first Activity
	dist  DistFunc
	count int
}

// NewGenerator creates a generator. Arrivals are named by appending a
// monotonic counter to the generator name.
func NewGenerator(s *Simulator, name string, mon int,
	first Activity, dist DistFunc) *Generator {
	return &Generator{
		sim:   s,
		name:  name,
		mon:   mon,
		first: first,
		dist:  dist,
	}
}

// Name returns the name prefix of the generator.
func (g *Generator) Name() string {
	return g.name
}

// Count returns the number of arrivals created so far.
func (g *Generator) Count() int {
	return g.count
}

// Run creates one arrival, schedules it immediately, and reschedules the
// generator after the next inter-arrival delay.
func (g *Generator) Run() {
	delay := g.dist()
	if delay < 0 {
		return
	}

	a := NewArrival(g.sim, fmt.Sprintf("%s%d", g.name, g.count), g.mon, g.first)
	g.count++
	g.sim.countCreation()

	if g.mon >= 1 {
		g.sim.InvokeHook(HookCtx{
			Domain: g.sim,
			Pos:    HookPosArrivalStart,
			Item:   ArrivalInfo{Name: a.Name(), Time: g.sim.Now()},
		})
	}

	g.sim.Schedule(0, a, 0)
	g.sim.Schedule(VTimeInSec(delay), g, 0)
}

// Reset restarts the arrival counter.
func (g *Generator) Reset() {
	g.count = 0
}
