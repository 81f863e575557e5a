package wcmp

import "fmt"

// Kind identifies the shape of a Result.
type Kind uint8

const (
	// KindState is a bare new state.
	KindState Kind = iota + 1
	// KindEffects is a new state plus effects.
	KindEffects
	// KindAction is a deferred transition with its payload.
	KindAction
	// KindError is a failed transition.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindEffects:
		return "effects"
	case KindAction:
		return "action"
	case KindError:
		return "error"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Result is returned from transitions and passed to Dispatch.
//
// It is a tagged union with three shapes, built fluently:
//
//	// Bare state
//	return wcmp.OK(s.With("count", n+1))
//
//	// State plus effects, run after the state is installed
//	return wcmp.OK(next).With(wcmp.DispatchEvent, wcmp.EventProps{Type: "change"})
//
//	// Deferred transition: run another action with a payload
//	return wcmp.Next(save, form)
//
// Err reports a failed transition. The dispatcher logs it and keeps the
// previous snapshot.
type Result struct {
	kind    Kind
	state   State
	effects []Effect
	action  Action
	payload any
	err     error
}

// OK creates a result carrying a new state.
func OK(s State) Result {
	if s == nil {
		s = State{}
	}
	return Result{kind: KindState, state: s}
}

// Next creates a result that runs a with payload against the current
// state.
func Next(a Action, payload any) Result {
	return Result{kind: KindAction, action: a, payload: payload}
}

// Invoke creates a result that runs a with no payload.
func Invoke(a Action) Result {
	return Next(a, nil)
}

// Err creates a failed result.
func Err(err error) Result {
	if err == nil {
		err = fmt.Errorf("%w: nil error", ErrTransitionFailed)
	}
	return Result{kind: KindError, err: err}
}

// With appends an effect. It is ignored on action and error results.
func (r Result) With(fn EffectFunc, props any) Result {
	return r.Effect(Effect{Run: fn, Props: props})
}

// Effect appends effects. It is ignored on action and error results.
func (r Result) Effect(effects ...Effect) Result {
	if r.kind != KindState && r.kind != KindEffects {
		return r
	}
	n := len(r.effects)
	r.effects = append(r.effects[:n:n], effects...)
	if len(r.effects) > 0 {
		r.kind = KindEffects
	}
	return r
}

// Kind returns the shape of the result. The zero Result has kind 0.
func (r Result) Kind() Kind {
	return r.kind
}

// GetState returns the state of a state or effects result.
func (r Result) GetState() State {
	return r.state
}

// GetEffects returns the effects of an effects result.
func (r Result) GetEffects() []Effect {
	return r.effects
}

// GetAction returns the deferred action and its payload.
func (r Result) GetAction() (Action, any) {
	return r.action, r.payload
}

// GetErr returns the error of an error result.
func (r Result) GetErr() error {
	return r.err
}

// IsZero reports whether r was never built.
func (r Result) IsZero() bool {
	return r.kind == 0
}
