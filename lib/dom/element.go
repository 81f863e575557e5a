// Package dom is a small in-memory model of the host element surface:
// attributes, event listeners, custom events, shadow roots and fragments.
//
// It is the surface wcmp instances reflect state onto. Applications use it
// directly in tests and in non-browser hosts; a browser binding implements
// the same operations against the real document.
package dom

import (
	"errors"
	"html"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Node kinds.
const (
	KindElement  = "element"
	KindFragment = "#document-fragment"
	KindShadow   = "#shadow-root"
)

var (
	ErrShadowAttached = errors.New("dom: shadow root already attached")
	ErrHierarchy      = errors.New("dom: invalid hierarchy")
)

// Attr is an attribute value as seen by change notifications.
// The zero value is an absent attribute.
type Attr struct {
	Value   string
	Present bool
}

// Absent is the value of an attribute that is not set.
var Absent = Attr{}

// Value returns a present attribute value.
func Value(v string) Attr {
	return Attr{Value: v, Present: true}
}

func (a Attr) String() string {
	if !a.Present {
		return "<absent>"
	}
	return strconv.Quote(a.Value)
}

// Attribute is a name/value pair in document order.
type Attribute struct {
	Name  string
	Value string
}

// AttributeObserver is notified after an observed attribute is written.
// It is called for every write, including writes that keep the value.
type AttributeObserver func(name string, old, new Attr)

// Element is a node in the in-memory tree. Fragments and shadow roots are
// Elements of a different kind.
type Element struct {
	kind string
	tag  string

	mu        sync.Mutex
	attrs     []Attribute
	listeners map[string][]*Listener
	children  []*Element
	parent    *Element
	host      *Element // set on shadow roots
	shadow    *Element
	inner     string
	connected bool

	observed     map[string]bool
	observer     AttributeObserver
	onConnect    func()
	onDisconnect func()
	owner        any
}

// NewElement creates an element. Tag names are case-insensitive and are
// stored lowercased.
func NewElement(tag string) *Element {
	return &Element{kind: KindElement, tag: strings.ToLower(tag)}
}

// NewFragment creates a detached document fragment.
func NewFragment() *Element {
	return &Element{kind: KindFragment, tag: KindFragment}
}

// Kind returns the node kind.
func (e *Element) Kind() string { return e.kind }

// TagName returns the lowercased tag name.
func (e *Element) TagName() string { return e.tag }

// GetAttribute returns the attribute value and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

// Attributes returns a copy of the attributes in insertion order.
func (e *Element) Attributes() []Attribute {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Attribute, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// SetAttribute sets an attribute and notifies the observer when the
// attribute is observed.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	e.mu.Lock()
	old := Absent
	found := false
	for i, a := range e.attrs {
		if a.Name == name {
			old = Value(a.Value)
			e.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		e.attrs = append(e.attrs, Attribute{Name: name, Value: value})
	}
	obs := e.observerFor(name)
	e.mu.Unlock()

	if obs != nil {
		obs(name, old, Value(value))
	}
}

// RemoveAttribute removes an attribute. Removing an absent attribute does
// not notify the observer.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	e.mu.Lock()
	old := Absent
	for i, a := range e.attrs {
		if a.Name == name {
			old = Value(a.Value)
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			break
		}
	}
	obs := e.observerFor(name)
	e.mu.Unlock()

	if obs != nil && old.Present {
		obs(name, old, Absent)
	}
}

// observerFor must be called with e.mu held.
func (e *Element) observerFor(name string) AttributeObserver {
	if e.observer == nil || !e.observed[name] {
		return nil
	}
	return e.observer
}

// Observe registers fn for changes to the named attributes, replacing any
// previous observer. Attributes already present are reported as changes
// from Absent, the way a parser upgrade reports them.
func (e *Element) Observe(names []string, fn AttributeObserver) {
	e.mu.Lock()
	e.observed = make(map[string]bool, len(names))
	for _, n := range names {
		e.observed[strings.ToLower(n)] = true
	}
	e.observer = fn
	var initial []Attribute
	for _, a := range e.attrs {
		if e.observed[a.Name] {
			initial = append(initial, a)
		}
	}
	e.mu.Unlock()

	if fn == nil {
		return
	}
	for _, a := range initial {
		fn(a.Name, Absent, Value(a.Value))
	}
}

// AddEventListener registers l for events of type typ. Adding the same
// listener twice has no effect.
func (e *Element) AddEventListener(typ string, l *Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	for _, existing := range e.listeners[typ] {
		if existing == l {
			return
		}
	}
	e.listeners[typ] = append(e.listeners[typ], l)
}

// RemoveEventListener unregisters l for events of type typ.
func (e *Element) RemoveEventListener(typ string, l *Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ls := e.listeners[typ]
	for i, existing := range ls {
		if existing == l {
			e.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (e *Element) ListenerCount(typ string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[typ])
}

// DispatchEvent fires ev at e, then bubbles it to ancestors when it
// bubbles. Composed events cross shadow boundaries. It returns false when
// a listener cancelled the event.
func (e *Element) DispatchEvent(ev *Event) bool {
	ev.Target = e
	for cur := e; cur != nil && !ev.stopped; {
		cur.fire(ev)
		if !ev.Bubbles {
			break
		}
		cur = cur.propagationParent(ev)
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

func (e *Element) fire(ev *Event) {
	e.mu.Lock()
	ls := make([]*Listener, len(e.listeners[ev.Type]))
	copy(ls, e.listeners[ev.Type])
	e.mu.Unlock()

	ev.CurrentTarget = e
	for _, l := range ls {
		if ev.stoppedNow {
			return
		}
		l.HandleEvent(ev)
	}
}

func (e *Element) propagationParent(ev *Event) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.parent != nil {
		return e.parent
	}
	if e.kind == KindShadow && ev.Composed {
		return e.host
	}
	return nil
}

// AttachShadow attaches an encapsulated subtree to e.
func (e *Element) AttachShadow() (*Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shadow != nil {
		return nil, ErrShadowAttached
	}
	e.shadow = &Element{kind: KindShadow, tag: KindShadow, host: e, connected: e.connected}
	return e.shadow, nil
}

// ShadowRoot returns the attached shadow root, or nil.
func (e *Element) ShadowRoot() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shadow
}

// Parent returns the parent node, or nil.
func (e *Element) Parent() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// AppendChild appends child to e. Appending a fragment moves the
// fragment's children instead. Elements entering a connected tree have
// their connected callbacks invoked in tree order.
func (e *Element) AppendChild(child *Element) error {
	if child == nil || child == e || child.kind == KindShadow {
		return ErrHierarchy
	}

	var moved []*Element
	if child.kind == KindFragment {
		child.mu.Lock()
		moved = child.children
		child.children = nil
		child.mu.Unlock()
	} else {
		if p := child.Parent(); p != nil {
			p.RemoveChild(child)
		}
		moved = []*Element{child}
	}

	e.mu.Lock()
	connected := e.connected
	for _, c := range moved {
		c.mu.Lock()
		c.parent = e
		c.mu.Unlock()
	}
	e.children = append(e.children, moved...)
	e.mu.Unlock()

	if connected {
		for _, c := range moved {
			c.setConnected(true)
		}
	}
	return nil
}

// RemoveChild detaches child from e. Disconnected callbacks run for the
// detached subtree.
func (e *Element) RemoveChild(child *Element) bool {
	e.mu.Lock()
	idx := -1
	for i, c := range e.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return false
	}
	e.children = append(e.children[:idx:idx], e.children[idx+1:]...)
	connected := e.connected
	e.mu.Unlock()

	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()

	if connected {
		child.setConnected(false)
	}
	return true
}

// Claim records owner as the object upgraded onto e. It reports false,
// leaving e unchanged, when e is already claimed.
func (e *Element) Claim(owner any) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.owner != nil {
		return false
	}
	e.owner = owner
	return true
}

// Unclaim clears the claim made by owner.
func (e *Element) Unclaim(owner any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.owner == owner {
		e.owner = nil
	}
}

// Owner returns the object that claimed e, or nil.
func (e *Element) Owner() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.owner
}

// IsConnected reports whether e is part of a document.
func (e *Element) IsConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// SetLifecycle registers callbacks for insertion into and removal from a
// connected tree.
func (e *Element) SetLifecycle(connected, disconnected func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onConnect = connected
	e.onDisconnect = disconnected
}

func (e *Element) setConnected(v bool) {
	e.mu.Lock()
	if e.connected == v {
		e.mu.Unlock()
		return
	}
	e.connected = v
	cb := e.onDisconnect
	if v {
		cb = e.onConnect
	}
	children := make([]*Element, len(e.children))
	copy(children, e.children)
	shadow := e.shadow
	e.mu.Unlock()

	if cb != nil {
		cb()
	}
	if shadow != nil {
		shadow.setConnected(v)
	}
	for _, c := range children {
		c.setConnected(v)
	}
}

// SetInnerHTML replaces the rendered content of e. Rendered content is
// opaque markup, separate from child elements.
func (e *Element) SetInnerHTML(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inner = s
}

// InnerHTML returns the rendered content followed by the markup of the
// child elements.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	e.writeInner(&sb)
	return sb.String()
}

// OuterHTML serializes e, its attributes and its children. Shadow roots
// serialize as a <template shadowrootmode="open"> child.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	e.writeOuter(&sb)
	return sb.String()
}

func (e *Element) writeOuter(sb *strings.Builder) {
	if e.kind != KindElement {
		e.writeInner(sb)
		return
	}
	attrs := e.Attributes()
	sb.WriteString("<")
	sb.WriteString(e.tag)
	for _, a := range attrs {
		sb.WriteString(" ")
		sb.WriteString(a.Name)
		if a.Value != "" {
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Value))
			sb.WriteString(`"`)
		}
	}
	sb.WriteString(">")
	if shadow := e.ShadowRoot(); shadow != nil {
		sb.WriteString(`<template shadowrootmode="open">`)
		shadow.writeInner(sb)
		sb.WriteString("</template>")
	}
	e.writeInner(sb)
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteString(">")
}

func (e *Element) writeInner(sb *strings.Builder) {
	e.mu.Lock()
	inner := e.inner
	children := make([]*Element, len(e.children))
	copy(children, e.children)
	e.mu.Unlock()

	sb.WriteString(inner)
	for _, c := range children {
		c.writeOuter(sb)
	}
}

// ObservedAttributes returns the sorted names e reports changes for.
func (e *Element) ObservedAttributes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.observed))
	for n := range e.observed {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
