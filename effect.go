package wcmp

import (
	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/dom"
)

// EventProps describes an event fired by the DispatchEvent effect.
type EventProps struct {
	Type string
	Init dom.EventInit
	// OnPrevented, when set, is dispatched with the *dom.Event as payload
	// if a listener cancelled the event.
	OnPrevented Action
}

// DispatchEvent is an effect that fires a custom event on the element.
//
//	return wcmp.OK(next).With(wcmp.DispatchEvent, wcmp.EventProps{
//	    Type: "change",
//	    Init: dom.EventInit{Detail: next["value"], Cancelable: true},
//	    OnPrevented: revert,
//	})
func DispatchEvent(ctx Context, props any) {
	var p EventProps
	switch v := props.(type) {
	case EventProps:
		p = v
	case *EventProps:
		if v != nil {
			p = *v
		}
	}
	if p.Type == "" {
		ctx.Logger().Warn("dispatch effect without event type")
		return
	}

	ev := dom.NewEvent(p.Type, p.Init)
	if fire(ctx, ev) || p.OnPrevented == nil {
		return
	}
	if err := ctx.Dispatch(Next(p.OnPrevented, ev)); err != nil {
		ctx.Logger().Warn("prevented-event transition failed", zap.String("event", p.Type), zap.Error(err))
	}
}

// Emit fires an event on the element immediately and reports whether it
// was not cancelled. Use it from effects that need the outcome inline.
func Emit(ctx Context, typ string, init dom.EventInit) bool {
	return fire(ctx, dom.NewEvent(typ, init))
}

// Fire returns a DispatchEvent effect.
func Fire(typ string, init dom.EventInit) Effect {
	return Effect{Run: DispatchEvent, Props: EventProps{Type: typ, Init: init}}
}

func fire(ctx Context, ev *dom.Event) bool {
	if in, ok := ctx.(*Instance); ok {
		in.class.metrics.event(in.class.tag, ev.Type)
	}
	return ctx.Host().DispatchEvent(ev)
}

// ListenerProps describes a listener swap for the SyncListener effect.
type ListenerProps struct {
	Type string
	Old  *dom.Listener
	New  *dom.Listener
}

// SyncListener is an effect that replaces one listener with another. A
// replaced listener that holds resources, such as a compiled inline
// handler, is released.
func SyncListener(ctx Context, props any) {
	p, ok := props.(ListenerProps)
	if !ok || p.Type == "" {
		ctx.Logger().Warn("listener effect without event type")
		return
	}
	host := ctx.Host()
	if p.Old != nil {
		host.RemoveEventListener(p.Type, p.Old)
	}
	if p.New != nil {
		host.AddEventListener(p.Type, p.New)
	}
	if p.Old != nil && p.Old != p.New && p.Old.Releasable() {
		p.Old.Release()
	}
}
