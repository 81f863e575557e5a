package wcmp

import "go.uber.org/zap"

// Mode selects where an instance renders.
type Mode uint8

const (
	// Shadow renders into an attached shadow root, isolated from the
	// host page. It is the default.
	Shadow Mode = iota
	// Inline renders into the element itself. The view is built into a
	// detached fragment at construction and attached on connection.
	Inline
)

func (m Mode) String() string {
	if m == Inline {
		return "inline"
	}
	return "shadow"
}

// Definition describes a component class. It is read once by Define and
// must not be modified afterwards.
type Definition struct {
	// Init is the initial state (OK) or a transition producing it
	// (Invoke). The zero value starts from an empty state.
	Init Result
	// View renders the state into the instance's anchor.
	View View
	// Subscriptions lists the subscriptions wanted for a state.
	Subscriptions func(State) []Subscription
	// WrapDispatch wraps the runtime's native dispatch. The interceptor
	// sits outside it and still sees every transition.
	WrapDispatch func(NativeDispatch) NativeDispatch

	Fields  []Field
	Methods map[string]Action

	Mode Mode
	// Extends names a native tag to customize. Instances are created as
	// <Extends is="tag">.
	Extends string
	// InlineHandlers allows string values in event fields to be compiled
	// into sandboxed Lua listeners. When false, strings are rejected and
	// the field stays inert.
	InlineHandlers bool

	// Runtime starts the application runtime. Defaults to DefaultRuntime.
	Runtime RuntimeFactory
	// Logger overrides the package logger for this class.
	Logger *zap.Logger
	// OnError receives errors raised inside an instance: failed
	// transitions, panicking effects, render failures.
	OnError func(in *Instance, err error)
}
