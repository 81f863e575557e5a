// Package app is a minimal reactive runtime: it holds a state value,
// renders a templ view of it into a node on every dispatch, keeps
// subscriptions in step with the state and runs effects.
//
// The runtime knows nothing about attributes, properties or transitions.
// Callers hand it already-computed states and already-bound effects.
package app

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/a-h/templ"

	"github.com/pthm/wcmp/lib/dom"
)

// Effect is a side effect bound to its context by the caller.
type Effect func()

// Subscription is a long-running source keyed by Key. A subscription is
// started when its key first appears in the subscription list and stopped
// when the key disappears.
type Subscription struct {
	Key   string
	Start func() (stop func())
}

// Config configures a runtime.
type Config[S any] struct {
	// Node receives the rendered view.
	Node *dom.Element
	// View renders a state. A nil View renders nothing.
	View func(S) templ.Component
	// Subscriptions lists the subscriptions wanted for a state.
	Subscriptions func(S) []Subscription
	// OnError receives render failures.
	OnError func(error)
	// Context is passed to templ renders. Defaults to context.Background.
	Context context.Context
}

// App is a running runtime.
type App[S any] struct {
	cfg Config[S]

	mu      sync.Mutex
	state   S
	subs    map[string]func()
	renders int
	stopped bool
}

// Start creates a runtime. Nothing is rendered until the first Dispatch.
func Start[S any](cfg Config[S]) *App[S] {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	return &App[S]{cfg: cfg, subs: make(map[string]func())}
}

// Dispatch installs state, renders it, reconciles subscriptions and then
// runs effects in order. Dispatching to a stopped runtime does nothing.
func (a *App[S]) Dispatch(state S, effects []Effect) {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.state = state
	a.mu.Unlock()

	a.render(state)
	a.reconcile(state)

	for _, fx := range effects {
		if fx != nil {
			fx()
		}
	}
}

func (a *App[S]) render(state S) {
	if a.cfg.View == nil || a.cfg.Node == nil {
		return
	}
	view := a.cfg.View(state)
	if view == nil {
		a.cfg.Node.SetInnerHTML("")
		return
	}
	var buf bytes.Buffer
	if err := view.Render(a.cfg.Context, &buf); err != nil {
		a.fail(fmt.Errorf("app: render: %w", err))
		return
	}
	a.cfg.Node.SetInnerHTML(buf.String())

	a.mu.Lock()
	a.renders++
	a.mu.Unlock()
}

func (a *App[S]) reconcile(state S) {
	if a.cfg.Subscriptions == nil {
		return
	}
	wanted := a.cfg.Subscriptions(state)
	keep := make(map[string]bool, len(wanted))

	var start []Subscription
	a.mu.Lock()
	for _, s := range wanted {
		if s.Key == "" || s.Start == nil || keep[s.Key] {
			continue
		}
		keep[s.Key] = true
		if _, running := a.subs[s.Key]; !running {
			start = append(start, s)
			a.subs[s.Key] = nil
		}
	}
	var stop []func()
	for key, fn := range a.subs {
		if !keep[key] {
			stop = append(stop, fn)
			delete(a.subs, key)
		}
	}
	a.mu.Unlock()

	for _, fn := range stop {
		if fn != nil {
			fn()
		}
	}
	for _, s := range start {
		fn := s.Start()
		a.mu.Lock()
		if _, still := a.subs[s.Key]; still && !a.stopped {
			a.subs[s.Key] = fn
			fn = nil
		}
		a.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

func (a *App[S]) fail(err error) {
	if a.cfg.OnError != nil {
		a.cfg.OnError(err)
	}
}

// State returns the last dispatched state.
func (a *App[S]) State() S {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Renders returns the number of successful renders.
func (a *App[S]) Renders() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renders
}

// Running returns the keys of running subscriptions.
func (a *App[S]) Running() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys := make([]string, 0, len(a.subs))
	for k := range a.subs {
		keys = append(keys, k)
	}
	return keys
}

// Stop stops every subscription. Later dispatches are ignored.
func (a *App[S]) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	subs := a.subs
	a.subs = make(map[string]func())
	a.mu.Unlock()

	for _, fn := range subs {
		if fn != nil {
			fn()
		}
	}
}
