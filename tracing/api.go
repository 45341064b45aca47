// Package tracing turns the monitoring hooks of a simulator into trace
// records that tracers can store or aggregate. The engine publishes arrival
// lifecycles, resource state changes, and attribute writes; a tracer
// attached with CollectTrace receives each of them as it happens.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/trajsim/sim"
)

// A Tracer receives the monitoring records of a simulation.
type Tracer interface {
	// ArrivalStart is called when a generator creates an arrival.
	ArrivalStart(info sim.ArrivalInfo)

	// ArrivalEnd is called when an arrival terminates. Finished tells
	// whether it ran off the end of its trajectory or was dropped.
	ArrivalEnd(info sim.ArrivalInfo)

	// ResourceChange is called with a snapshot of a monitored resource after
	// every state change.
	ResourceChange(info sim.ResourceInfo)

	// Attribute is called when a monitored arrival writes an attribute.
	Attribute(info sim.AttributeInfo)
}

// NamedHookable represents something that has a name and can be hooked.
type NamedHookable interface {
	Name() string
	sim.Hookable
	InvokeHook(sim.HookCtx)
}

// CollectTrace lets the tracer collect the monitoring records of a domain,
// typically a Simulator. Attaching the same tracer twice is a programming
// error.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer}
	domain.AcceptHook(&h)
}

// A traceHook forwards monitoring hook invocations to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosArrivalStart:
		h.t.ArrivalStart(ctx.Item.(sim.ArrivalInfo))
	case sim.HookPosArrivalEnd:
		h.t.ArrivalEnd(ctx.Item.(sim.ArrivalInfo))
	case sim.HookPosResourceChange:
		h.t.ResourceChange(ctx.Item.(sim.ResourceInfo))
	case sim.HookPosAttribute:
		h.t.Attribute(ctx.Item.(sim.AttributeInfo))
	}
}
