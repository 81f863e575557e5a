package wcmp

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/dom"
)

// reservedTags cannot be used as custom element names.
var reservedTags = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// Class is a compiled Definition: the field tables, the observed
// attribute list and the property/method surface. A Class is immutable
// and shared by all of its instances.
type Class struct {
	tag     string
	def     Definition
	tables  *tables
	methods []string
	log     *zap.Logger
	metrics *Metrics
	onError func(*Instance, error)
}

// Define compiles a definition. All configuration errors are reported
// here, before any instance exists.
func Define(tag string, def Definition) (*Class, error) {
	return define(tag, def, nil, nil)
}

func define(tag string, def Definition, m *Metrics, onError func(*Instance, error)) (*Class, error) {
	if err := ValidateTag(tag); err != nil {
		return nil, err
	}

	t, err := buildTables(def.Fields, def.InlineHandlers)
	if err != nil {
		return nil, fmt.Errorf("<%s>: %w", tag, err)
	}

	methods := make([]string, 0, len(def.Methods))
	for name, fn := range def.Methods {
		if name == "" {
			return nil, fmt.Errorf("<%s>: %w: empty method name", tag, ErrConfig)
		}
		if fn == nil {
			return nil, fmt.Errorf("<%s>: %w: method %q has no transition", tag, ErrConfig, name)
		}
		if _, clash := t.props[name]; clash {
			return nil, fmt.Errorf("<%s>: %w: method %q collides with a property", tag, ErrConfig, name)
		}
		methods = append(methods, name)
	}
	sort.Strings(methods)

	if def.Extends != "" && strings.Contains(def.Extends, "-") {
		return nil, fmt.Errorf("<%s>: %w: extends %q is not a native tag", tag, ErrConfig, def.Extends)
	}
	if def.Mode != Shadow && def.Mode != Inline {
		return nil, fmt.Errorf("<%s>: %w: unknown mode %d", tag, ErrConfig, def.Mode)
	}

	log := def.Logger
	if log == nil {
		log = Logger()
	}
	if def.OnError != nil {
		onError = def.OnError
	}

	return &Class{
		tag:     tag,
		def:     def,
		tables:  t,
		methods: methods,
		log:     log.With(zap.String("tag", tag)),
		metrics: m,
		onError: onError,
	}, nil
}

// ValidateTag checks that tag is a valid custom element name: lowercase,
// starting with a letter, containing a hyphen and not reserved.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty tag name", ErrConfig)
	}
	if tag[0] < 'a' || tag[0] > 'z' {
		return fmt.Errorf("%w: tag %q must start with a lowercase letter", ErrConfig, tag)
	}
	if !strings.Contains(tag, "-") {
		return fmt.Errorf("%w: tag %q must contain a hyphen", ErrConfig, tag)
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
		default:
			return fmt.Errorf("%w: tag %q contains %q", ErrConfig, tag, r)
		}
	}
	if reservedTags[tag] {
		return fmt.Errorf("%w: tag %q is reserved", ErrConfig, tag)
	}
	return nil
}

// Tag returns the tag name.
func (c *Class) Tag() string { return c.tag }

// Mode returns the rendering mode.
func (c *Class) Mode() Mode { return c.def.Mode }

// Extends returns the customized native tag, or "".
func (c *Class) Extends() string { return c.def.Extends }

// ObservedAttributes returns the lowercased names of every reflected
// attribute, in field order.
func (c *Class) ObservedAttributes() []string {
	out := make([]string, len(c.tables.observed))
	copy(out, c.tables.observed)
	return out
}

// Properties returns the property names, in field order.
func (c *Class) Properties() []string {
	out := make([]string, len(c.tables.propList))
	copy(out, c.tables.propList)
	return out
}

// Methods returns the method names, sorted.
func (c *Class) Methods() []string {
	out := make([]string, len(c.methods))
	copy(out, c.methods)
	return out
}

// Field returns the field exposed as property prop.
func (c *Class) Field(prop string) (Field, bool) {
	f, ok := c.tables.props[prop]
	if !ok {
		return Field{}, false
	}
	return f.Field, true
}

// AttributeField returns the field reflected to attribute name. The
// lookup is case-insensitive.
func (c *Class) AttributeField(name string) (Field, bool) {
	f, ok := c.tables.attrs[strings.ToLower(name)]
	if !ok {
		return Field{}, false
	}
	return f.Field, true
}

// New constructs an instance on el: it builds the render anchor, starts
// the runtime, dispatches Init and starts observing el's attributes and
// lifecycle. An element hosts at most one live instance; constructing a
// second one on it is a configuration error.
func (c *Class) New(el *dom.Element) (_ *Instance, err error) {
	if el == nil {
		return nil, fmt.Errorf("<%s>: %w: nil element", c.tag, ErrConfig)
	}

	in := &Instance{
		class: c,
		el:    el,
		log:   c.log,
		state: State{},
		echo:  make(map[string][]dom.Attr),
	}
	if !el.Claim(in) {
		return nil, fmt.Errorf("<%s>: %w: element already hosts an instance", c.tag, ErrConfig)
	}
	defer func() {
		if err != nil {
			el.Unclaim(in)
		}
	}()

	in.anchor = dom.NewElement("div")
	switch c.def.Mode {
	case Shadow:
		root, err := el.AttachShadow()
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", c.tag, err)
		}
		if err := root.AppendChild(in.anchor); err != nil {
			return nil, fmt.Errorf("<%s>: %w", c.tag, err)
		}
	case Inline:
		in.fragment = dom.NewFragment()
		if err := in.fragment.AppendChild(in.anchor); err != nil {
			return nil, fmt.Errorf("<%s>: %w", c.tag, err)
		}
	}

	factory := c.def.Runtime
	if factory == nil {
		factory = DefaultRuntime
	}
	in.runtime = factory(RuntimeConfig{
		Node:          in.anchor,
		View:          c.def.View,
		Subscriptions: in.subscriptions(),
		OnError:       func(err error) { in.report(err) },
	})
	native := NativeDispatch(in.runtime.Dispatch)
	if c.def.WrapDispatch != nil {
		native = c.def.WrapDispatch(native)
		if native == nil {
			in.runtime.Stop()
			return nil, fmt.Errorf("<%s>: %w: WrapDispatch returned nil", c.tag, ErrConfig)
		}
	}
	in.native = native

	// Markup attributes configure the instance and win over Init.
	markup := make(map[string]string)
	for _, name := range c.tables.observed {
		if v, ok := el.GetAttribute(name); ok {
			markup[name] = v
		}
	}

	init := c.def.Init
	if init.IsZero() {
		init = OK(State{})
	}
	if err := in.run(func() error { return in.dispatch(init) }); err != nil {
		in.runtime.Stop()
		return nil, fmt.Errorf("<%s>: init: %w", c.tag, err)
	}

	c.metrics.instanceUp(c.tag)
	el.SetLifecycle(
		func() { _ = in.Connected() },
		func() { _ = in.Disconnected() },
	)
	el.Observe(c.tables.observed, func(name string, old, new dom.Attr) {
		_ = in.AttributeChanged(name, old, new)
	})
	// Removals made by Init had no observer to report them.
	in.echo = make(map[string][]dom.Attr)
	for _, name := range c.tables.observed {
		v, ok := markup[name]
		if !ok {
			continue
		}
		if cur, present := el.GetAttribute(name); !present || cur != v {
			el.SetAttribute(name, v)
		}
	}
	if el.IsConnected() {
		if err := in.Connected(); err != nil {
			return nil, err
		}
	}
	return in, nil
}
