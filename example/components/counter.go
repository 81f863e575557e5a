package components

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/pthm/wcmp"
	"github.com/pthm/wcmp/lib/dom"
)

//go:generate go run github.com/pthm/wcmp/cmd/wcmp generate counter.wcmp.yaml

//go:embed counter.wcmp.yaml
var counterManifest []byte

// CounterState is the typed form of the counter's state.
type CounterState struct {
	Count  int  `wcmp:"countX"`
	Hidden bool `wcmp:"hidden"`
}

// RegisterCounter defines <counter-x> on reg.
func RegisterCounter(reg *wcmp.Registry) (*wcmp.Class, error) {
	m, err := wcmp.LoadManifest(bytes.NewReader(counterManifest))
	if err != nil {
		return nil, err
	}

	def := wcmp.Definition{
		View: counterView,
		Methods: map[string]wcmp.Action{
			"increment": increment,
			"reset":     reset,
		},
	}
	if err := m.Apply(&def); err != nil {
		return nil, err
	}
	return reg.Define(m.Tag, def)
}

func decodeCounter(s wcmp.State) (CounterState, error) {
	var cs CounterState
	err := s.Decode(&cs)
	return cs, err
}

// increment adds one and announces the new count with a cancelable
// change event. A cancelled change is rolled back.
func increment(ctx wcmp.Context, s wcmp.State, _ any) wcmp.Result {
	cs, err := decodeCounter(s)
	if err != nil {
		return wcmp.Err(fmt.Errorf("decode counter: %w", err))
	}
	next := s.With("countX", cs.Count+1)
	return wcmp.OK(next).With(wcmp.DispatchEvent, wcmp.EventProps{
		Type:        "change",
		Init:        dom.EventInit{Detail: cs.Count + 1, Bubbles: true, Cancelable: true, Composed: true},
		OnPrevented: rollback(cs.Count),
	})
}

func reset(ctx wcmp.Context, s wcmp.State, _ any) wcmp.Result {
	ctx.Logger().Debug("counter reset")
	return wcmp.OK(s.With("countX", 0))
}

func rollback(to int) wcmp.Action {
	return func(ctx wcmp.Context, s wcmp.State, _ any) wcmp.Result {
		ctx.Logger().Info("change cancelled", zap.Int("count", to))
		return wcmp.OK(s.With("countX", to))
	}
}

func counterView(s wcmp.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cs, err := decodeCounter(s)
		if err != nil {
			return err
		}
		if cs.Hidden {
			return nil
		}
		_, err = fmt.Fprintf(w, `<button part="increment">+</button><output>%d</output>`, cs.Count)
		return err
	})
}
