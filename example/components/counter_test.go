package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/wcmp"
	"github.com/pthm/wcmp/lib/dom"
)

func newCounter(t *testing.T) (*Counter, *dom.Element) {
	t.Helper()
	reg := wcmp.NewRegistry()
	_, err := RegisterCounter(reg)
	require.NoError(t, err)

	in, err := reg.Create(CounterTag)
	require.NoError(t, err)
	require.NoError(t, dom.NewDocument().Append(in.Element()))

	c := NewCounter(in)
	require.NotNil(t, c)
	return c, in.Element()
}

func TestCounterIncrement(t *testing.T) {
	c, el := newCounter(t)

	var seen []any
	require.NoError(t, c.SetOnchange(func(ev *dom.Event) {
		seen = append(seen, ev.Detail)
		if ev.Detail.(int) > 1 {
			ev.PreventDefault()
		}
	}))

	require.NoError(t, c.Increment())
	require.NoError(t, c.Increment())

	assert.Equal(t, []any{1, 2}, seen)
	v, _ := el.GetAttribute("count-x")
	assert.Equal(t, "1", v, "cancelled change rolls back")
	assert.Contains(t, c.Anchor().InnerHTML(), "<output>1</output>")
}

func TestCounterAttributes(t *testing.T) {
	c, el := newCounter(t)

	el.SetAttribute("count-x", "41")
	require.NoError(t, c.Increment())
	got, err := c.CountX()
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	el.SetAttribute("hidden", "")
	hidden, _ := c.Hidden()
	assert.Equal(t, true, hidden)
	assert.Empty(t, c.Anchor().InnerHTML())

	require.NoError(t, c.Reset())
	v, _ := el.GetAttribute("count-x")
	assert.Equal(t, "0", v)
}

func TestNewCounterWrongTag(t *testing.T) {
	reg := wcmp.NewRegistry()
	reg.MustDefine("other-x", wcmp.Definition{})
	in, err := reg.Create("other-x")
	require.NoError(t, err)

	assert.Nil(t, NewCounter(in))
	assert.Nil(t, NewCounter(nil))
}
