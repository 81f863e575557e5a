package wcmp

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/dom"
)

// Registry maps tag names to classes, in the role of a document's custom
// element registry.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
	metrics *Metrics
	log     *zap.Logger

	// OnError is called for errors raised inside instances of classes
	// defined after it is set, unless the definition has its own OnError.
	OnError func(in *Instance, err error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records instance metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(reg *Registry) { reg.metrics = m }
}

// WithLogger sets the logger for classes defined without their own.
func WithLogger(l *zap.Logger) Option {
	return func(reg *Registry) { reg.log = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{classes: make(map[string]*Class)}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// Define compiles def and registers it under tag. Defining a tag twice is
// a configuration error.
func (reg *Registry) Define(tag string, def Definition) (*Class, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.classes[tag]; exists {
		return nil, fmt.Errorf("%w: <%s> is already defined", ErrConfig, tag)
	}
	if def.Logger == nil && reg.log != nil {
		def.Logger = reg.log
	}
	c, err := define(tag, def, reg.metrics, reg.OnError)
	if err != nil {
		return nil, err
	}
	reg.classes[tag] = c
	c.log.Debug("defined",
		zap.Stringer("mode", c.Mode()),
		zap.Strings("observed", c.ObservedAttributes()),
		zap.Strings("methods", c.Methods()))
	return c, nil
}

// MustDefine is like Define but panics on error.
func (reg *Registry) MustDefine(tag string, def Definition) *Class {
	c, err := reg.Define(tag, def)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the class registered under tag.
func (reg *Registry) Lookup(tag string) (*Class, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	c, ok := reg.classes[tag]
	return c, ok
}

// Tags returns the registered tag names, sorted.
func (reg *Registry) Tags() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	tags := make([]string, 0, len(reg.classes))
	for tag := range reg.classes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Create builds a detached element for tag and constructs an instance on
// it. A class that extends a native tag is created as that tag with an
// "is" attribute.
func (reg *Registry) Create(tag string) (*Instance, error) {
	c, ok := reg.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: <%s> is not defined", ErrConfig, tag)
	}
	var el *dom.Element
	if c.Extends() != "" {
		el = dom.NewElement(c.Extends())
		el.SetAttribute("is", tag)
	} else {
		el = dom.NewElement(tag)
	}
	return c.New(el)
}

// Upgrade constructs an instance on an existing element, resolving the
// class from the "is" attribute or the tag name.
func (reg *Registry) Upgrade(el *dom.Element) (*Instance, error) {
	if el == nil {
		return nil, fmt.Errorf("%w: nil element", ErrConfig)
	}
	tag := el.TagName()
	if is, ok := el.GetAttribute("is"); ok {
		tag = is
	}
	c, ok := reg.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: <%s> is not defined", ErrConfig, tag)
	}
	if ext := c.Extends(); ext != "" && el.TagName() != ext {
		return nil, fmt.Errorf("%w: <%s> extends <%s>, got <%s>", ErrConfig, tag, ext, el.TagName())
	}
	return c.New(el)
}

// InstanceOf returns the live instance hosted by el.
func InstanceOf(el *dom.Element) (*Instance, bool) {
	if el == nil {
		return nil, false
	}
	in, ok := el.Owner().(*Instance)
	return in, ok
}
