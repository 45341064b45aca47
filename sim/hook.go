package sim

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered
	NumHooks() int

	// Hooks returns the hooks registered
	Hooks() []Hook
}

// HookPosBeforeEvent is a hook position that triggers before dispatching an
// event
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after dispatching an
// event
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosArrivalStart triggers when a generator creates an arrival. The Item
// is an ArrivalInfo.
var HookPosArrivalStart = &HookPos{Name: "ArrivalStart"}

// HookPosArrivalEnd triggers when an arrival terminates, either by finishing
// its trajectory or by being dropped. The Item is an ArrivalInfo.
var HookPosArrivalEnd = &HookPos{Name: "ArrivalEnd"}

// HookPosResourceChange triggers whenever the server count, the queue
// length, or the capacity of a monitored resource changes. Unmonitored
// resources never trigger it. The Item is a ResourceInfo.
var HookPosResourceChange = &HookPos{Name: "ResourceChange"}

// HookPosAttribute triggers when an arrival writes an attribute. The Item is
// an AttributeInfo.
var HookPosAttribute = &HookPos{Name: "Attribute"}

// ArrivalInfo describes an arrival lifecycle edge.
type ArrivalInfo struct {
	Name     string
	Time     VTimeInSec
	Finished bool
}

// ResourceInfo is a snapshot of a resource taken right after a state change.
type ResourceInfo struct {
	Name     string
	Time     VTimeInSec
	Server   int
	Queue    int
	Capacity int
}

// AttributeInfo describes one attribute write of one arrival.
type AttributeInfo struct {
	Name  string
	Time  VTimeInSec
	Key   string
	Value float64
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.hooks = make([]Hook, 0)
	return h
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// AcceptHook registers a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook triggers the registered Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
