package wcmp

import (
	"errors"
	"testing"
)

func noop(ctx Context, props any) {}

func TestResultOK(t *testing.T) {
	r := OK(State{"count": 1})

	if r.Kind() != KindState {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindState)
	}
	if r.GetState()["count"] != 1 {
		t.Errorf("GetState()[count] = %v, want 1", r.GetState()["count"])
	}
	if len(r.GetEffects()) != 0 {
		t.Errorf("GetEffects() = %d effects, want none", len(r.GetEffects()))
	}
	if r.GetErr() != nil {
		t.Errorf("GetErr() = %v, want nil", r.GetErr())
	}
}

func TestResultOKNilState(t *testing.T) {
	r := OK(nil)

	if r.GetState() == nil {
		t.Fatal("GetState() = nil, want empty state")
	}
	if len(r.GetState()) != 0 {
		t.Errorf("GetState() = %v, want empty", r.GetState())
	}
}

func TestResultWith(t *testing.T) {
	r := OK(State{}).With(noop, "a").With(noop, "b")

	if r.Kind() != KindEffects {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindEffects)
	}
	effects := r.GetEffects()
	if len(effects) != 2 {
		t.Fatalf("GetEffects() = %d effects, want 2", len(effects))
	}
	if effects[0].Props != "a" || effects[1].Props != "b" {
		t.Errorf("effects out of order: %v, %v", effects[0].Props, effects[1].Props)
	}
}

func TestResultWithDoesNotAlias(t *testing.T) {
	base := OK(State{}).With(noop, "base")
	a := base.With(noop, "a")
	b := base.With(noop, "b")

	if a.GetEffects()[1].Props != "a" {
		t.Errorf("a's second effect = %v, want a", a.GetEffects()[1].Props)
	}
	if b.GetEffects()[1].Props != "b" {
		t.Errorf("b's second effect = %v, want b", b.GetEffects()[1].Props)
	}
	if len(base.GetEffects()) != 1 {
		t.Errorf("base has %d effects, want 1", len(base.GetEffects()))
	}
}

func TestResultEffectWithNothing(t *testing.T) {
	r := OK(State{}).Effect()

	if r.Kind() != KindState {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindState)
	}
}

func TestResultNext(t *testing.T) {
	called := false
	act := func(ctx Context, s State, payload any) Result {
		called = true
		return OK(s)
	}
	r := Next(act, 42)

	if r.Kind() != KindAction {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindAction)
	}
	a, payload := r.GetAction()
	if payload != 42 {
		t.Errorf("payload = %v, want 42", payload)
	}
	a(nil, State{}, nil)
	if !called {
		t.Error("GetAction() did not return the action")
	}
}

func TestResultWithIgnoredOnActionAndError(t *testing.T) {
	act := func(ctx Context, s State, payload any) Result { return OK(s) }

	if r := Invoke(act).With(noop, nil); r.Kind() != KindAction || len(r.GetEffects()) != 0 {
		t.Errorf("With on action: kind %v, %d effects", r.Kind(), len(r.GetEffects()))
	}
	if r := Err(errors.New("boom")).With(noop, nil); r.Kind() != KindError || len(r.GetEffects()) != 0 {
		t.Errorf("With on error: kind %v, %d effects", r.Kind(), len(r.GetEffects()))
	}
}

func TestResultErr(t *testing.T) {
	testErr := errors.New("test error")
	r := Err(testErr)

	if r.Kind() != KindError {
		t.Errorf("Kind() = %v, want %v", r.Kind(), KindError)
	}
	if r.GetErr() != testErr {
		t.Errorf("GetErr() = %v, want %v", r.GetErr(), testErr)
	}
}

func TestResultErrNil(t *testing.T) {
	r := Err(nil)

	if !errors.Is(r.GetErr(), ErrTransitionFailed) {
		t.Errorf("GetErr() = %v, want ErrTransitionFailed", r.GetErr())
	}
}

func TestResultZero(t *testing.T) {
	var r Result
	if !r.IsZero() {
		t.Error("IsZero() = false for zero Result")
	}
	if OK(nil).IsZero() {
		t.Error("IsZero() = true for OK result")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindState, "state"},
		{KindEffects, "effects"},
		{KindAction, "action"},
		{KindError, "error"},
		{Kind(0), "kind(0)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
