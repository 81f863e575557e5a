package wcmp

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pthm/wcmp/lib/app"
)

// maxHops bounds chains of Next results.
const maxHops = 64

// dispatch is the interception point every transition passes through.
//
// Action results are resolved against the current snapshot until a state
// comes out. The state is installed as the snapshot before the runtime
// sees it, so effects run by the runtime read the new state. Attributes
// are reconciled with the snapshot once the runtime returns.
//
// A failed or panicking transition leaves the snapshot untouched.
func (in *Instance) dispatch(r Result) error {
	native := in.native
	if native == nil {
		return ErrStaleInstance
	}
	start := time.Now()
	kind := r.Kind()

	for hops := 0; r.kind == KindAction; hops++ {
		if hops == maxHops {
			in.class.metrics.transitionFailed(in.class.tag)
			return fmt.Errorf("%w: %d hops", ErrTransitionLoop, hops)
		}
		r = in.invoke(r.action, r.payload)
	}

	switch r.kind {
	case KindState, KindEffects:
	case KindError:
		in.class.metrics.transitionFailed(in.class.tag)
		if errors.Is(r.err, ErrTransitionFailed) {
			return r.err
		}
		return fmt.Errorf("%w: %w", ErrTransitionFailed, r.err)
	default:
		in.class.metrics.transitionFailed(in.class.tag)
		return fmt.Errorf("%w: empty result", ErrTransitionFailed)
	}

	in.setState(r.state)
	native(r.state, in.bind(r.effects))
	in.syncAttributes()

	in.class.metrics.transition(in.class.tag, kind, time.Since(start))
	return nil
}

// invoke runs a transition against the current snapshot.
func (in *Instance) invoke(a Action, payload any) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r = Err(fmt.Errorf("%w: panic: %v", ErrTransitionFailed, p))
		}
	}()
	if a == nil {
		return Err(fmt.Errorf("%w: nil action", ErrTransitionFailed))
	}
	return a(in, in.State(), payload)
}

// bind closes effects over the instance. Effects are bound once, here,
// and run with the instance as their context.
func (in *Instance) bind(effects []Effect) []app.Effect {
	if len(effects) == 0 {
		return nil
	}
	out := make([]app.Effect, 0, len(effects))
	for _, fx := range effects {
		if fx.Run == nil {
			continue
		}
		fx := fx
		out = append(out, func() { in.runEffect(fx) })
	}
	return out
}

func (in *Instance) runEffect(fx Effect) {
	defer func() {
		if p := recover(); p != nil {
			in.report(fmt.Errorf("effect panic: %v", p))
		}
	}()
	if in.native == nil {
		in.log.Debug("effect dropped after disconnect", zap.Any("props", fx.Props))
		return
	}
	fx.Run(in, fx.Props)
}
