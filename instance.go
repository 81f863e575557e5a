package wcmp

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/app"
	"github.com/pthm/wcmp/lib/dom"
)

type phase uint8

const (
	phaseConstructed phase = iota
	phaseConnected
	phaseDisconnected
)

// Instance is one live component bound to one element.
//
// All work on an instance is serialized: a call that arrives while
// another is in flight is queued and runs once the current one has
// finished, so every transition sees the state left by the previous one.
// The caller that finds the instance idle runs its own job and then
// drains the queue before returning; a queued call returns nil and its
// errors are reported to the logger and OnError. Snapshot reads are safe
// from any goroutine.
type Instance struct {
	class    *Class
	el       *dom.Element
	anchor   *dom.Element
	fragment *dom.Element
	log      *zap.Logger
	runtime  Runtime

	stateMu sync.RWMutex
	state   State
	phase   phase

	// Owned by the job currently running.
	native NativeDispatch
	echo   map[string][]dom.Attr

	mu       sync.Mutex
	queue    []func() error
	draining bool
}

var _ Context = (*Instance)(nil)

// Tag returns the element's tag name.
func (in *Instance) Tag() string { return in.class.tag }

// Class returns the instance's class.
func (in *Instance) Class() *Class { return in.class }

// Host returns the element.
func (in *Instance) Host() Host { return in.el }

// Element returns the element.
func (in *Instance) Element() *dom.Element { return in.el }

// Anchor returns the node the view renders into.
func (in *Instance) Anchor() *dom.Element { return in.anchor }

// Logger returns the instance logger.
func (in *Instance) Logger() *zap.Logger { return in.log }

// State returns the current snapshot.
func (in *Instance) State() State {
	in.stateMu.RLock()
	defer in.stateMu.RUnlock()
	return in.state
}

func (in *Instance) setState(s State) {
	in.stateMu.Lock()
	in.state = s
	in.stateMu.Unlock()
}

// Stale reports whether the instance has been disconnected.
func (in *Instance) Stale() bool {
	in.stateMu.RLock()
	defer in.stateMu.RUnlock()
	return in.phase == phaseDisconnected
}

// Connected runs when the element is inserted into a document. An inline
// view built at construction is attached on the first connection.
func (in *Instance) Connected() error {
	if in.Stale() {
		return ErrStaleInstance
	}
	return in.run(func() error {
		if in.native == nil {
			return ErrStaleInstance
		}
		if in.fragment != nil {
			frag := in.fragment
			in.fragment = nil
			if err := in.el.AppendChild(frag); err != nil {
				return fmt.Errorf("attach view: %w", err)
			}
		}
		in.stateMu.Lock()
		in.phase = phaseConnected
		in.stateMu.Unlock()
		return nil
	})
}

// Disconnected tears the instance down: the runtime and its subscriptions
// stop, event-field listeners are removed and released, and dispatch is
// released. Every later operation returns ErrStaleInstance; an instance
// cannot be reconnected, but the element may host a new one.
func (in *Instance) Disconnected() error {
	if in.Stale() {
		return ErrStaleInstance
	}
	return in.run(func() error {
		if in.native == nil {
			return ErrStaleInstance
		}
		in.runtime.Stop()

		s := in.State()
		for _, f := range in.class.tables.fields {
			if f.Event == "" {
				continue
			}
			if l, ok := s[f.name].(*dom.Listener); ok && l != nil {
				in.el.RemoveEventListener(f.Event, l)
				if l.Releasable() {
					l.Release()
				}
			}
		}

		in.native = nil
		in.fragment = nil
		in.el.Unclaim(in)
		in.stateMu.Lock()
		in.phase = phaseDisconnected
		in.stateMu.Unlock()
		in.class.metrics.instanceDown(in.class.tag)
		return nil
	})
}

// Dispatch runs a transition on the instance.
func (in *Instance) Dispatch(r Result) error {
	if in.Stale() {
		return ErrStaleInstance
	}
	return in.run(func() error { return in.dispatch(r) })
}

// AttributeChanged converts a host attribute write into a transition. The
// element calls it for every observed attribute write.
func (in *Instance) AttributeChanged(name string, old, new dom.Attr) error {
	if in.Stale() {
		return ErrStaleInstance
	}
	return in.run(func() error { return in.attributeChanged(name, old, new) })
}

// run executes job on the instance's single logical thread.
func (in *Instance) run(job func() error) error {
	in.mu.Lock()
	if in.draining {
		in.queue = append(in.queue, job)
		in.mu.Unlock()
		return nil
	}
	in.draining = true
	in.mu.Unlock()

	err := in.safe(job)
	if err != nil {
		in.report(err)
	}
	for {
		in.mu.Lock()
		if len(in.queue) == 0 {
			in.draining = false
			in.mu.Unlock()
			return err
		}
		next := in.queue[0]
		in.queue[0] = nil
		in.queue = in.queue[1:]
		in.mu.Unlock()

		if qerr := in.safe(next); qerr != nil {
			in.report(qerr)
		}
	}
}

func (in *Instance) safe(job func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrTransitionFailed, p)
		}
	}()
	return job()
}

// report logs err and hands it to OnError.
func (in *Instance) report(err error) {
	if IsStale(err) {
		in.log.Debug("operation on stale instance", zap.Error(err))
	} else {
		in.log.Warn("instance error", zap.Error(err))
	}
	if in.class.onError != nil {
		in.class.onError(in, err)
	}
}

// subscriptions adapts the definition's subscriptions to the runtime.
func (in *Instance) subscriptions() func(State) []app.Subscription {
	subs := in.class.def.Subscriptions
	if subs == nil {
		return nil
	}
	return func(s State) []app.Subscription {
		list := subs(s)
		out := make([]app.Subscription, 0, len(list))
		for _, sub := range list {
			if sub.Start == nil {
				continue
			}
			start := sub.Start
			out = append(out, app.Subscription{
				Key:   sub.Key,
				Start: func() func() { return start(in) },
			})
		}
		return out
	}
}
