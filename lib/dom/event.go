package dom

import "sync"

// EventInit carries the options used to construct an Event.
type EventInit struct {
	Detail     any
	Bubbles    bool
	Cancelable bool
	Composed   bool
}

// Event is a custom event fired on an Element.
type Event struct {
	Type       string
	Detail     any
	Bubbles    bool
	Cancelable bool
	Composed   bool

	// Target is the element the event was dispatched on.
	Target *Element
	// CurrentTarget is the element whose listeners are running.
	CurrentTarget *Element

	defaultPrevented bool
	stopped          bool
	stoppedNow       bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, init EventInit) *Event {
	return &Event{
		Type:       typ,
		Detail:     init.Detail,
		Bubbles:    init.Bubbles,
		Cancelable: init.Cancelable,
		Composed:   init.Composed,
	}
}

// PreventDefault cancels the event's default action. It has no effect on
// events that are not cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called on a
// cancelable event.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation also skips the remaining listeners on the
// current element.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// Listener is an event listener. Listeners are compared by identity, so
// the same *Listener must be passed to RemoveEventListener that was
// passed to AddEventListener.
type Listener struct {
	fn func(*Event)

	mu       sync.Mutex
	release  []func()
	released bool
}

// NewListener wraps fn as a Listener.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{fn: fn}
}

// HandleEvent invokes the listener. Released listeners are inert.
func (l *Listener) HandleEvent(e *Event) {
	if l == nil || l.fn == nil {
		return
	}
	l.mu.Lock()
	released := l.released
	l.mu.Unlock()
	if released {
		return
	}
	l.fn(e)
}

// OnRelease registers f to run when the listener is released.
func (l *Listener) OnRelease(f func()) *Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		f()
		return l
	}
	l.release = append(l.release, f)
	return l
}

// Release frees resources held by the listener and makes it inert.
// Calling Release more than once is safe.
func (l *Listener) Release() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return
	}
	l.released = true
	fns := l.release
	l.release = nil
	l.mu.Unlock()

	for _, f := range fns {
		f()
	}
}

// Releasable reports whether release hooks are registered. Listeners
// without hooks hold nothing and stay usable after being removed.
func (l *Listener) Releasable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.release) > 0
}

// Released reports whether Release has been called.
func (l *Listener) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}
