// Package wcmp turns a state/action application into an embeddable
// element: a host creates it by tag name, configures it through
// attributes and properties, commands it through methods and listens to
// its events, without knowing anything about its state model.
//
// # Core Concepts
//
// A Definition describes the application: an initial state, a templ view
// of the state, optional subscriptions and the fields it exposes on the
// element surface.
//
//	def := wcmp.Definition{
//	    Init: wcmp.OK(wcmp.State{"countX": 0}),
//	    View: counterView,
//	    Fields: []wcmp.Field{
//	        {Attr: "count-x", Prop: "countX"},
//	        {Attr: "hidden", Prop: "hidden"},
//	        {Attr: "onfoo", Prop: "onfoo", Event: "Foo"},
//	    },
//	    Methods: map[string]wcmp.Action{"increment": increment},
//	}
//
// Define compiles it into a Class. Each element created from the class
// hosts one Instance that owns the state snapshot.
//
// # Transitions
//
// Every change is a transition: an Action receives an explicit Context,
// the current State and a payload, and returns a Result.
//
//	func increment(ctx wcmp.Context, s wcmp.State, _ any) wcmp.Result {
//	    n, _ := s["countX"].(int)
//	    next := s.With("countX", n+1)
//	    return wcmp.OK(next).With(wcmp.DispatchEvent, wcmp.EventProps{Type: "change"})
//	}
//
// Results are a bare state (OK), a state with effects (With, Effect), a
// deferred transition (Next, Invoke) or a failure (Err). Every Result
// passes through the instance before it reaches the runtime: the snapshot
// is installed first, effects then run against it, and finally the
// element's attributes are reconciled with it.
//
// # Attributes and Properties
//
// Fields with an Attr are reflected outward after every transition: true
// becomes an empty attribute, false, nil and "" remove it, and other
// values are written in their string form or through the field's Codec.
// Host writes come back through the field setter. Booleans are recognised
// by shape ("" or the attribute's own name). Other values take the type
// of the field's current value when it is a number or a bool and the
// string parses; anything else arrives as a raw string, which
// State.Decode converts for typed consumers.
//
// Fields with a Prop are readable and writable through Instance.Get and
// Instance.Set. Methods are called with Instance.Call. Both tables are
// fixed when the class is defined.
//
// # Events
//
// The DispatchEvent effect fires an event on the element and can react
// to cancellation. An Event field is a handler slot: assigning a listener
// replaces the previous one through the SyncListener effect. With
// InlineHandlers enabled a string is compiled into a sandboxed Lua
// handler:
//
//	el.SetAttribute("onfoo", `this.setAttribute("seen", event.type)`)
//
// # Lifecycle
//
// Removing an element from its document disconnects the instance: its
// runtime and subscriptions stop, handler resources are released and all
// later calls return ErrStaleInstance. An element hosts one instance at
// a time; InstanceOf returns it.
//
// # Code Generation
//
// Run 'wcmp generate' on *.wcmp.yaml manifests to produce typed wrappers
// (CountX, SetCountX, Increment) over an Instance.
package wcmp
