package sim

// Attributes is a snapshot of the attribute map of an arrival. Missing keys
// read as 0.
type Attributes map[string]float64

// Get reads an attribute. Absent keys read as 0.
func (a Attributes) Get(key string) float64 {
	return a[key]
}

// The host supplies the randomness and the decision logic of a model through
// the callback types below. All of them are pure from the engine's point of
// view. Activities configured with provideAttrs=true receive a snapshot of
// the running arrival's attributes; otherwise they are called with nil.

// DistFunc produces inter-arrival delays for a generator. A negative return
// value stops the generator.
type DistFunc func() float64

// ValueFunc produces a dynamic value for Timeout delays and SetAttribute
// values.
type ValueFunc func(attrs Attributes) float64

// CountFunc produces a dynamic amount for Seize and Release.
type CountFunc func(attrs Attributes) int

// OptionFunc selects a branch path. The result is 1-indexed.
type OptionFunc func(attrs Attributes) int

// CheckFunc decides whether a Rollback fires.
type CheckFunc func(attrs Attributes) bool

// CancellationCheck is polled periodically by Simulator.Run. Returning true
// aborts the run without corrupting the simulation state.
type CancellationCheck func() bool

func callAttrs(a *Arrival, provideAttrs bool) Attributes {
	if provideAttrs {
		return a.Attributes()
	}
	return nil
}
