package wcmp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codecDef(t *testing.T, codec func(*Encoder) Codec, onError func(*Instance, error)) Definition {
	t.Helper()
	enc, err := NewEncoder([]byte("test-key"))
	require.NoError(t, err)
	return Definition{
		Init:    OK(State{"filter": map[string]any{"q": "go", "page": 2}}),
		Fields:  []Field{{Attr: "filter", Prop: "filter", Codec: codec(enc)}},
		OnError: onError,
	}
}

func TestSignedCodecReflects(t *testing.T) {
	src := mount(t, "filter-x", codecDef(t, SignedCodec, nil))
	attr, ok := src.Attr("filter")
	require.True(t, ok)
	assert.Contains(t, attr, ".")

	// Another instance reading the same attribute gets the value back.
	dst := mount(t, "filter-x", codecDef(t, SignedCodec, nil))
	dst.SetAttr("filter", attr)
	got, err := dst.Instance.Get("filter")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q": "go", "page": int64(2)}, got)
}

func TestSignedCodecRejectsTampering(t *testing.T) {
	var reported []error
	m := mount(t, "filter-x", codecDef(t, SignedCodec, func(_ *Instance, err error) {
		reported = append(reported, err)
	}))
	attr, _ := m.Attr("filter")
	data, sig, _ := strings.Cut(attr, ".")
	tampered := flip(data[0]) + data[1:] + "." + sig

	m.SetAttr("filter", tampered)

	require.Len(t, reported, 1)
	assert.True(t, IsDecodingError(reported[0]), "got %v", reported[0])
	got, _ := m.Instance.Get("filter")
	assert.Equal(t, map[string]any{"q": "go", "page": 2}, got, "state kept on decode failure")
}

func TestSealedCodec(t *testing.T) {
	var reported []error
	src := mount(t, "sealed-x", codecDef(t, SealedCodec, nil))
	attr, _ := src.Attr("filter")
	assert.NotContains(t, attr, ".", "sealed values carry no readable payload")

	dst := mount(t, "sealed-x", codecDef(t, SealedCodec, func(_ *Instance, err error) {
		reported = append(reported, err)
	}))
	dst.SetAttr("filter", attr)
	got, _ := dst.Instance.Get("filter")
	assert.Equal(t, map[string]any{"q": "go", "page": int64(2)}, got)

	dst.SetAttr("filter", "not-sealed")
	require.Len(t, reported, 1)
	assert.True(t, IsDecodingError(reported[0]))
}

func TestCodecRemoval(t *testing.T) {
	m := mount(t, "filter-x", codecDef(t, SignedCodec, nil))
	m.RemoveAttr("filter")
	got, err := m.Instance.Get("filter")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func flip(c byte) string {
	if c == 'A' {
		return "B"
	}
	return "A"
}
