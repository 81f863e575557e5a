package wcmp

import (
	"sort"

	"github.com/mitchellh/mapstructure"
)

// State is an application state snapshot. A State is never modified after
// it has been dispatched; transitions build new snapshots with Merge or
// With, which copy the top level and share every value.
type State map[string]any

// Props is the payload handed to field setters: the field name mapped to
// the incoming value.
type Props map[string]any

// Get returns the value stored under key.
func (s State) Get(key string) any {
	return s[key]
}

// Merge returns a new snapshot with patch applied over s.
func (s State) Merge(patch map[string]any) State {
	out := make(State, len(s)+len(patch))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// With returns a new snapshot with key set to v.
func (s State) With(key string, v any) State {
	return s.Merge(map[string]any{key: v})
}

// Without returns a new snapshot without key.
func (s State) Without(key string) State {
	out := make(State, len(s))
	for k, v := range s {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// Keys returns the top-level keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode decodes the snapshot into out, which must be a pointer to a
// struct or map. Input is weakly typed, so attribute strings such as "7"
// or "true" decode into numeric and boolean fields. Struct fields are
// matched by name or by a `wcmp` tag.
func (s State) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "wcmp",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(s))
}
