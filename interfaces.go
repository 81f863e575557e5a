package wcmp

import (
	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/app"
	"github.com/pthm/wcmp/lib/dom"
)

// Host is the element surface transitions and effects may touch: attribute
// access, listener registration and event dispatch. *dom.Element
// implements it.
type Host interface {
	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	AddEventListener(typ string, l *dom.Listener)
	RemoveEventListener(typ string, l *dom.Listener)
	DispatchEvent(ev *dom.Event) bool
}

// Context is passed explicitly to every transition, effect and
// subscription of an instance. It replaces receiver binding: code that
// needs the element reaches it through Host.
type Context interface {
	// Tag returns the element's tag name.
	Tag() string
	// Host returns the element.
	Host() Host
	// State returns the current snapshot. Inside an effect this is the
	// snapshot produced by the transition that scheduled the effect.
	State() State
	// Dispatch queues a transition on the instance.
	Dispatch(r Result) error
	// Logger returns the instance logger.
	Logger() *zap.Logger
}

// Action is a transition function: it maps the current state and a
// payload to a Result.
type Action func(ctx Context, s State, payload any) Result

// EffectFunc performs a side effect described by props.
type EffectFunc func(ctx Context, props any)

// Effect pairs an effect function with its data.
type Effect struct {
	Run   EffectFunc
	Props any
}

// View renders a state. Views are pure: they read the state and produce
// markup.
type View func(s State) templ.Component

// Subscription is a long-running source of transitions, such as a timer
// or a socket. Start is called once when Key first appears in the
// subscription list and must return a function that stops the source.
type Subscription struct {
	Key   string
	Start func(ctx Context) (stop func())
}

// NativeDispatch is the runtime entry point after results have been
// normalized to a state and a list of bound effects.
type NativeDispatch func(state State, effects []app.Effect)

// Runtime is the reactive application runtime an instance drives.
// *app.App[State] implements it.
type Runtime interface {
	Dispatch(state State, effects []app.Effect)
	Stop()
}

// RuntimeConfig is what an instance hands to a RuntimeFactory.
type RuntimeConfig struct {
	// Node is the anchor the view renders into.
	Node          *dom.Element
	View          View
	Subscriptions func(State) []app.Subscription
	OnError       func(error)
}

// RuntimeFactory starts a runtime for one instance.
type RuntimeFactory func(cfg RuntimeConfig) Runtime

// DefaultRuntime starts the lib/app runtime.
func DefaultRuntime(cfg RuntimeConfig) Runtime {
	return app.Start(app.Config[State]{
		Node:          cfg.Node,
		View:          cfg.View,
		Subscriptions: cfg.Subscriptions,
		OnError:       cfg.OnError,
	})
}
