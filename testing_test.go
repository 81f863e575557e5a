package wcmp

import (
	"testing"

	"github.com/pthm/wcmp/lib/dom"
)

func harnessDef() Definition {
	return Definition{
		Init:   OK(State{"label": "hello"}),
		View:   textView("label"),
		Fields: []Field{{Attr: "label"}},
		Methods: map[string]Action{
			"announce": func(_ Context, s State, _ any) Result {
				return OK(s).Effect(
					Fire("first", dom.EventInit{Detail: 1}),
					Fire("second", dom.EventInit{Detail: 2}),
					Fire("ignored", dom.EventInit{}),
				)
			},
		},
	}
}

func TestTestMount(t *testing.T) {
	m, err := TestMount("harness-x", harnessDef())
	if err != nil {
		t.Fatalf("TestMount() error = %v", err)
	}
	defer m.Unmount()

	if !m.Element.IsConnected() {
		t.Error("element is not connected")
	}
	if m.Document.Body().Children()[0] != m.Element {
		t.Error("element is not in the document body")
	}
	if v, ok := m.Attr("label"); !ok || v != "hello" {
		t.Errorf("Attr(label) = %q, %v", v, ok)
	}
}

func TestTestMount_DefineError(t *testing.T) {
	if _, err := TestMount("nohyphen", Definition{}); !IsConfigError(err) {
		t.Errorf("TestMount() error = %v, want a configuration error", err)
	}
}

func TestMount_Record(t *testing.T) {
	m, err := TestMount("harness-x", harnessDef())
	if err != nil {
		t.Fatal(err)
	}
	m.Record("first", "second")

	if err := m.Instance.Call("announce"); err != nil {
		t.Fatal(err)
	}

	events := m.Events()
	if len(events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events))
	}
	if events[0].Type != "first" || events[1].Type != "second" {
		t.Errorf("events out of order: %s, %s", events[0].Type, events[1].Type)
	}
	if !m.HasEvent("second") {
		t.Error("HasEvent(second) = false")
	}
	if m.HasEvent("ignored") {
		t.Error("HasEvent(ignored) = true for an unrecorded type")
	}
}

func TestMount_HTML(t *testing.T) {
	m, err := TestMount("harness-x", harnessDef())
	if err != nil {
		t.Fatal(err)
	}

	if got := m.HTML(); got != "<p>hello</p>" {
		t.Errorf("HTML() = %q", got)
	}
	m.SetAttr("label", "bye")
	if !m.HTMLContains("bye") {
		t.Errorf("HTMLContains(bye) = false, html = %q", m.HTML())
	}
	if !m.HTMLContainsAll("<p>", "bye", "</p>") {
		t.Error("HTMLContainsAll() = false")
	}
	if m.HTMLContainsAll("bye", "hello") {
		t.Error("HTMLContainsAll() = true with a missing substring")
	}

	m.RemoveAttr("label")
	if !m.HTMLContains("<p><nil></p>") {
		t.Errorf("HTML() after removal = %q", m.HTML())
	}
}

func TestMount_Unmount(t *testing.T) {
	m, err := TestMount("harness-x", harnessDef())
	if err != nil {
		t.Fatal(err)
	}
	m.Unmount()

	if !m.Instance.Stale() {
		t.Error("instance is not stale after Unmount")
	}
	if err := m.Instance.Call("announce"); !IsStale(err) {
		t.Errorf("Call() after Unmount = %v", err)
	}
}
