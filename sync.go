package wcmp

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/dom"
)

// syncAttributes reflects the current snapshot onto the element.
//
// Top-level state keys that belong to a field with an attribute are
// reflected in key order, followed by derived fields whose key is not in
// the state. Event fields are never reflected: writing a handler back
// into its attribute would feed the inward path again.
func (in *Instance) syncAttributes() {
	s := in.State()
	for _, key := range s.Keys() {
		f, ok := in.class.tables.byName[key]
		if !ok || f.attr == "" || f.Event != "" {
			continue
		}
		in.reflect(f, f.get(s))
	}
	for _, f := range in.class.tables.derived {
		if _, inState := s[f.name]; !inState {
			in.reflect(f, f.get(s))
		}
	}
}

// reflect writes one field value to its attribute. Writes that would not
// change the attribute are skipped, which makes reconciliation
// idempotent. Every write is remembered so the change notification it
// triggers is recognised as our own.
func (in *Instance) reflect(f *field, v any) {
	want, err := outwardValue(f, v)
	if err != nil {
		in.log.Warn("attribute not reflected", zap.String("attr", f.attr), zap.Error(err))
		return
	}

	cur, present := in.el.GetAttribute(f.attr)
	if present == want.Present && (!present || cur == want.Value) {
		return
	}

	in.echo[f.attr] = append(in.echo[f.attr], want)
	if want.Present {
		in.el.SetAttribute(f.attr, want.Value)
		in.class.metrics.attributeWrite(in.class.tag, "set")
		return
	}
	in.el.RemoveAttribute(f.attr)
	in.class.metrics.attributeWrite(in.class.tag, "remove")
}

// outwardValue encodes a field value as an attribute:
// true is present and empty, false, nil and "" are absent, anything else
// is its codec or fmt form.
func outwardValue(f *field, v any) (dom.Attr, error) {
	switch x := v.(type) {
	case nil:
		return dom.Absent, nil
	case bool:
		if x {
			return dom.Value(""), nil
		}
		return dom.Absent, nil
	case string:
		if x == "" {
			return dom.Absent, nil
		}
		if f.Codec == nil {
			return dom.Value(x), nil
		}
	}
	if f.Codec != nil {
		s, err := f.Codec.EncodeAttr(v)
		if err != nil {
			return dom.Absent, err
		}
		return dom.Value(s), nil
	}
	return dom.Value(fmt.Sprint(v)), nil
}

// attributeChanged is the inward path: it turns an attribute write into a
// setter transition.
func (in *Instance) attributeChanged(name string, old, new dom.Attr) error {
	if in.native == nil {
		return ErrStaleInstance
	}
	if old == new {
		return nil
	}

	key := strings.ToLower(name)
	f, ok := in.class.tables.attrs[key]
	if !ok {
		return fmt.Errorf("%w: %q on <%s>", ErrUnknownAttribute, name, in.class.tag)
	}
	if pending := in.echo[key]; len(pending) > 0 && pending[0] == new {
		if len(pending) == 1 {
			delete(in.echo, key)
		} else {
			in.echo[key] = pending[1:]
		}
		return nil
	}

	v, err := inwardValue(f, key, old, new, f.get(in.State()))
	if err != nil {
		return fmt.Errorf("attribute %q: %w", key, err)
	}
	return in.dispatch(Next(f.set, Props{f.name: v}))
}

// inwardValue decodes an attribute change. Hosts only supply strings, so
// flag transitions are recognised by their shape: appearing as "" or as
// the attribute's own name means true, disappearing from "" or from the
// name means false. Removal yields nil. Other values are decoded by the
// field codec when one is set, converted to the type of the field's
// current value when that is a number or a bool, and kept as strings
// otherwise.
func inwardValue(f *field, key string, old, new dom.Attr, current any) (any, error) {
	switch {
	case !old.Present && new.Present && new.Value == "":
		return true, nil
	case old.Present && old.Value == "" && !new.Present:
		return false, nil
	case old.Present && strings.EqualFold(old.Value, key) && !new.Present:
		return false, nil
	case !old.Present && new.Present && strings.EqualFold(new.Value, key):
		return true, nil
	}

	if !new.Present {
		return nil, nil
	}
	if f.Codec != nil {
		v, err := f.Codec.DecodeAttr(new.Value)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return convertScalar(new.Value, current), nil
}

// convertScalar decodes raw into the type of current when current is a
// number or a bool. Values that do not parse stay strings.
func convertScalar(raw string, current any) any {
	if current == nil {
		return raw
	}
	t := reflect.TypeOf(current)
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return raw
	}
	if raw == "" {
		return raw
	}
	out := reflect.New(t)
	if err := mapstructure.WeakDecode(raw, out.Interface()); err != nil {
		return raw
	}
	return out.Elem().Interface()
}
