package wcmp

import "fmt"

// Get reads a property. The value is the field getter applied to the
// current snapshot.
func (in *Instance) Get(prop string) (any, error) {
	if in.Stale() {
		return nil, ErrStaleInstance
	}
	f, ok := in.class.tables.props[prop]
	if !ok {
		return nil, fmt.Errorf("%w: %q on <%s>", ErrUnknownProperty, prop, in.class.tag)
	}
	return f.get(in.State()), nil
}

// Set writes a property by dispatching the field setter with {prop: v}.
// Reflected attributes are updated before Set returns, unless the call
// was queued behind another job.
func (in *Instance) Set(prop string, v any) error {
	if in.Stale() {
		return ErrStaleInstance
	}
	f, ok := in.class.tables.props[prop]
	if !ok {
		return fmt.Errorf("%w: %q on <%s>", ErrUnknownProperty, prop, in.class.tag)
	}
	return in.run(func() error {
		return in.dispatch(Next(f.set, Props{f.name: v}))
	})
}

// Call invokes a method. Methods take no arguments; the transition
// receives a nil payload.
func (in *Instance) Call(method string) error {
	if in.Stale() {
		return ErrStaleInstance
	}
	a, ok := in.class.def.Methods[method]
	if !ok {
		return fmt.Errorf("%w: %q on <%s>", ErrUnknownMethod, method, in.class.tag)
	}
	return in.run(func() error { return in.dispatch(Invoke(a)) })
}

// Snapshot returns the property values of the current state, keyed by
// property name.
func (in *Instance) Snapshot() map[string]any {
	s := in.State()
	out := make(map[string]any, len(in.class.tables.propList))
	for _, name := range in.class.tables.propList {
		out[name] = in.class.tables.props[name].get(s)
	}
	return out
}
