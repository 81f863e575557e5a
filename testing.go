package wcmp

import (
	"strings"
	"sync"

	"github.com/pthm/wcmp/lib/dom"
)

// Mount is a component mounted into an in-memory document for testing.
//
// It gives direct access to the element's attributes, records events
// fired on the element and exposes the rendered view:
//
//	m, err := wcmp.TestMount("count-x", def)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer m.Unmount()
//
//	m.Record("change")
//	_ = m.Instance.Set("countX", 5)
//	if v, _ := m.Attr("count-x"); v != "5" {
//	    t.Fatalf("count-x = %q", v)
//	}
type Mount struct {
	Document *Document
	Element  *dom.Element
	Instance *Instance

	mu     sync.Mutex
	events []*dom.Event
}

// Document is an alias for dom.Document for convenience.
type Document = dom.Document

// TestMount defines tag on a fresh registry, creates an element for it
// and connects it to a new document.
func TestMount(tag string, def Definition) (*Mount, error) {
	return TestMountWith(NewRegistry(), tag, def)
}

// TestMountWith is TestMount on a caller-supplied registry, for tests
// that need metrics, a logger or several tags.
func TestMountWith(reg *Registry, tag string, def Definition) (*Mount, error) {
	if _, err := reg.Define(tag, def); err != nil {
		return nil, err
	}
	in, err := reg.Create(tag)
	if err != nil {
		return nil, err
	}
	doc := dom.NewDocument()
	if err := doc.Append(in.Element()); err != nil {
		return nil, err
	}
	return &Mount{Document: doc, Element: in.Element(), Instance: in}, nil
}

// Attr returns an attribute of the element.
func (m *Mount) Attr(name string) (string, bool) {
	return m.Element.GetAttribute(name)
}

// SetAttr writes an attribute as the host would.
func (m *Mount) SetAttr(name, value string) {
	m.Element.SetAttribute(name, value)
}

// RemoveAttr removes an attribute as the host would.
func (m *Mount) RemoveAttr(name string) {
	m.Element.RemoveAttribute(name)
}

// Record starts recording events of the given types fired on the
// element.
func (m *Mount) Record(types ...string) {
	for _, typ := range types {
		m.Element.AddEventListener(typ, dom.NewListener(func(ev *dom.Event) {
			m.mu.Lock()
			m.events = append(m.events, ev)
			m.mu.Unlock()
		}))
	}
}

// Events returns the recorded events in firing order.
func (m *Mount) Events() []*dom.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*dom.Event, len(m.events))
	copy(out, m.events)
	return out
}

// HasEvent checks if an event of type typ was recorded.
func (m *Mount) HasEvent(typ string) bool {
	for _, ev := range m.Events() {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

// HTML returns the markup rendered by the view.
func (m *Mount) HTML() string {
	return m.Instance.Anchor().InnerHTML()
}

// HTMLContains checks if the rendered markup contains a substring.
func (m *Mount) HTMLContains(substr string) bool {
	return strings.Contains(m.HTML(), substr)
}

// HTMLContainsAll checks if the rendered markup contains all the given
// substrings.
func (m *Mount) HTMLContainsAll(substrs ...string) bool {
	html := m.HTML()
	for _, s := range substrs {
		if !strings.Contains(html, s) {
			return false
		}
	}
	return true
}

// Unmount removes the element from the document, disconnecting the
// instance.
func (m *Mount) Unmount() {
	m.Document.Remove(m.Element)
}
