package wcmp

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/dom"
)

// handlerTimeout bounds a single inline handler invocation.
const handlerTimeout = 250 * time.Millisecond

// removedGlobals are base library entries an inline handler never gets.
var removedGlobals = []string{
	"dofile", "loadfile", "load", "loadstring", "require", "module",
	"getfenv", "setfenv", "collectgarbage", "newproxy", "_printregs",
}

// compileHandler turns inline handler source into a listener.
//
// The source is the body of a Lua function taking one argument, event.
// The sandbox has the base, string, table and math libraries minus code
// loading, plus:
//
//	event.type, event.detail, event.preventDefault()
//	this.getAttribute(name), this.setAttribute(name, value),
//	this.removeAttribute(name), this.dispatch(type[, detail])
//	print(...)  -- debug log
//
// Each handler owns one VM and each call is time-boxed. A call that
// arrives while the handler is running, such as the handler firing its
// own event, is dropped with a warning. Releasing the listener closes the
// VM.
func compileHandler(src string, host Host, log *zap.Logger) (*dom.Listener, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true, CallStackSize: 64})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("%w: open %s: %v", ErrHandlerCompile, lib.name, err)
		}
	}
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		args := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			args = append(args, L.ToStringMeta(L.Get(i)).String())
		}
		log.Debug("inline handler", zap.Strings("args", args))
		return 0
	}))
	L.SetGlobal("this", hostTable(L, host))

	chunk, err := L.LoadString("return function(event)\n" + src + "\nend")
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %v", ErrHandlerCompile, err)
	}
	L.Push(chunk)
	if err := L.PCall(0, 1, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %v", ErrHandlerCompile, err)
	}
	fn, ok := L.Get(-1).(*lua.LFunction)
	L.Pop(1)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%w: handler did not compile to a function", ErrHandlerCompile)
	}

	var (
		mu      sync.Mutex
		running bool
		closed  bool
	)
	l := dom.NewListener(func(ev *dom.Event) {
		mu.Lock()
		if closed {
			mu.Unlock()
			return
		}
		if running {
			mu.Unlock()
			log.Warn("inline handler re-entered", zap.String("event", ev.Type))
			return
		}
		running = true
		mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		L.SetContext(ctx)
		err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, eventTable(L, ev))
		L.RemoveContext()
		cancel()
		if err != nil {
			log.Warn("inline handler failed", zap.String("event", ev.Type), zap.Error(err))
		}

		mu.Lock()
		running = false
		release := closed
		mu.Unlock()
		if release {
			L.Close()
		}
	})
	// A handler may release itself, for example by removing its own
	// attribute. The VM is then closed once the running call returns.
	l.OnRelease(func() {
		mu.Lock()
		closed = true
		busy := running
		mu.Unlock()
		if !busy {
			L.Close()
		}
	})
	return l, nil
}

// hostTable exposes the attribute and event operations of host.
// Functions accept both this.f(...) and this:f(...) call forms.
func hostTable(L *lua.LState, host Host) *lua.LTable {
	t := L.NewTable()
	arg := func(L *lua.LState, n int) int {
		if _, self := L.Get(1).(*lua.LTable); self {
			return n + 1
		}
		return n
	}
	L.SetField(t, "getAttribute", L.NewFunction(func(L *lua.LState) int {
		v, ok := host.GetAttribute(L.CheckString(arg(L, 1)))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(v))
		return 1
	}))
	L.SetField(t, "setAttribute", L.NewFunction(func(L *lua.LState) int {
		host.SetAttribute(L.CheckString(arg(L, 1)), L.ToStringMeta(L.Get(arg(L, 2))).String())
		return 0
	}))
	L.SetField(t, "removeAttribute", L.NewFunction(func(L *lua.LState) int {
		host.RemoveAttribute(L.CheckString(arg(L, 1)))
		return 0
	}))
	L.SetField(t, "dispatch", L.NewFunction(func(L *lua.LState) int {
		typ := L.CheckString(arg(L, 1))
		ev := dom.NewEvent(typ, dom.EventInit{
			Detail:   fromLua(L.Get(arg(L, 2))),
			Bubbles:  true,
			Composed: true,
		})
		L.Push(lua.LBool(host.DispatchEvent(ev)))
		return 1
	}))
	return t
}

func eventTable(L *lua.LState, ev *dom.Event) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "type", lua.LString(ev.Type))
	L.SetField(t, "detail", toLua(L, ev.Detail))
	L.SetField(t, "cancelable", lua.LBool(ev.Cancelable))
	L.SetField(t, "preventDefault", L.NewFunction(func(L *lua.LState) int {
		ev.PreventDefault()
		return 0
	}))
	return t
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case int32:
		return lua.LNumber(x)
	case uint64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case float32:
		return lua.LNumber(x)
	case map[string]any:
		t := L.NewTable()
		for k, e := range x {
			t.RawSetString(k, toLua(L, e))
		}
		return t
	case State:
		return toLua(L, map[string]any(x))
	case []any:
		t := L.NewTable()
		for _, e := range x {
			t.Append(toLua(L, e))
		}
		return t
	case []string:
		t := L.NewTable()
		for _, e := range x {
			t.Append(lua.LString(e))
		}
		return t
	}
	return lua.LString(fmt.Sprint(v))
}

func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(x)
	case lua.LNumber:
		return float64(x)
	case lua.LString:
		return string(x)
	case *lua.LTable:
		if n := x.MaxN(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, fromLua(x.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		x.ForEach(func(k, e lua.LValue) {
			out[k.String()] = fromLua(e)
		})
		return out
	}
	return v.String()
}
