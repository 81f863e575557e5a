package wcmp

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/dom"
)

// Field exposes one state field on the element surface.
//
// A field with Attr is reflected to and from that attribute; a field with
// Prop gets a property accessor. At least one of them is required. The
// field's state key is Prop when set, Attr otherwise.
//
//	wcmp.Field{Attr: "count-x", Prop: "countX"}   // attribute + property
//	wcmp.Field{Attr: "disabled"}                  // attribute only
//	wcmp.Field{Prop: "items"}                     // property only
//	wcmp.Field{Attr: "onfoo", Prop: "onfoo", Event: "Foo"}
//
// Set defaults to merging {name: value} into the state; Get defaults to
// reading state[name]. An Event field is an event-handler slot: its value
// is a listener for events of that type and it cannot have a custom Get
// or Set. Functions and inline handler strings assigned to it are stored
// as the *dom.Listener built from them, so reading the field back returns
// that listener rather than the assigned value. A *dom.Listener assigned
// directly reads back as itself.
type Field struct {
	Attr  string
	Prop  string
	Set   Action
	Get   func(State) any
	Event string
	// Codec encodes non-scalar values into the attribute and decodes them
	// back. Without a Codec values are reflected in their fmt form and
	// read back as strings or as the type of the current number or bool.
	Codec Codec
}

// Name returns the state key of the field.
func (f Field) Name() string {
	if f.Prop != "" {
		return f.Prop
	}
	return f.Attr
}

// field is a Field with its defaults filled in.
type field struct {
	Field
	name string
	attr string // lowercased
	set  Action
	get  func(State) any
}

// tables are the lookup structures built once per class.
type tables struct {
	fields   []*field
	byName   map[string]*field // state key -> field, drives outward sync
	props    map[string]*field // property name -> field
	attrs    map[string]*field // lowercased attribute -> field
	propList []string
	observed []string
	// derived are reflected fields with a custom Get. Their value need
	// not live under their own state key.
	derived []*field
}

// buildTables validates fields and fills in default accessors.
func buildTables(fields []Field, inline bool) (*tables, error) {
	t := &tables{
		byName: make(map[string]*field, len(fields)),
		props:  make(map[string]*field, len(fields)),
		attrs:  make(map[string]*field, len(fields)),
	}

	for i, fd := range fields {
		if fd.Attr == "" && fd.Prop == "" {
			return nil, fmt.Errorf("%w: field %d has neither Attr nor Prop", ErrConfig, i)
		}
		if fd.Event != "" && (fd.Get != nil || fd.Set != nil) {
			return nil, fmt.Errorf("%w: event field %q cannot have a custom Get or Set", ErrConfig, fd.Name())
		}

		f := &field{Field: fd, name: fd.Name(), attr: strings.ToLower(fd.Attr)}
		if _, dup := t.byName[f.name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrConfig, f.name)
		}

		switch {
		case fd.Set != nil:
			f.set = fd.Set
		case fd.Event != "":
			f.set = eventSetter(f.name, fd.Event, inline)
		default:
			f.set = mergeSetter
		}
		if fd.Get != nil {
			f.get = fd.Get
		} else {
			name := f.name
			f.get = func(s State) any { return s[name] }
		}

		t.fields = append(t.fields, f)
		t.byName[f.name] = f
		if fd.Prop != "" {
			t.props[fd.Prop] = f
			t.propList = append(t.propList, fd.Prop)
		}
		if f.attr != "" {
			if _, dup := t.attrs[f.attr]; dup {
				return nil, fmt.Errorf("%w: duplicate attribute %q", ErrConfig, f.attr)
			}
			t.attrs[f.attr] = f
			t.observed = append(t.observed, f.attr)
			if fd.Get != nil {
				t.derived = append(t.derived, f)
			}
		}
	}
	return t, nil
}

// patchOf reads a setter payload.
func patchOf(payload any) map[string]any {
	switch p := payload.(type) {
	case Props:
		return p
	case map[string]any:
		return p
	case State:
		return p
	}
	return nil
}

// mergeSetter is the default setter: a shallow patch of the payload.
func mergeSetter(_ Context, s State, payload any) Result {
	return OK(s.Merge(patchOf(payload)))
}

// eventSetter builds the setter of an event-handler field. The stored
// value is always a *dom.Listener or nil.
func eventSetter(name, typ string, inline bool) Action {
	return func(ctx Context, s State, payload any) Result {
		old, _ := s[name].(*dom.Listener)
		next, err := toListener(ctx, patchOf(payload)[name], inline)
		if err != nil {
			ctx.Logger().Warn("event handler left inert",
				zap.String("field", name),
				zap.String("event", typ),
				zap.Error(err))
			next = nil
		}

		var stored any
		if next != nil {
			stored = next
		}
		return OK(s.With(name, stored)).With(SyncListener, ListenerProps{Type: typ, Old: old, New: next})
	}
}

// toListener turns an event-field value into a listener.
func toListener(ctx Context, v any, inline bool) (*dom.Listener, error) {
	switch h := v.(type) {
	case nil:
		return nil, nil
	case *dom.Listener:
		return h, nil
	case func(*dom.Event):
		if h == nil {
			return nil, nil
		}
		return dom.NewListener(h), nil
	case bool:
		if !h {
			return nil, nil
		}
	case string:
		if strings.TrimSpace(h) == "" {
			return nil, nil
		}
		if !inline {
			return nil, fmt.Errorf("%w: inline handlers are disabled for <%s>", ErrHandlerCompile, ctx.Tag())
		}
		return compileHandler(h, ctx.Host(), ctx.Logger())
	}
	return nil, fmt.Errorf("%w: %T is not a listener", ErrHandlerCompile, v)
}
