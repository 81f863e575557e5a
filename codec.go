package wcmp

import (
	"github.com/pthm/wcmp/lib/encoding"
)

// Codec converts a field value to and from its attribute form. Fields
// without a Codec reflect scalars in their fmt form and read back strings
// or numbers and bools matching the current value.
type Codec interface {
	EncodeAttr(v any) (string, error)
	DecodeAttr(s string) (any, error)
}

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// NewEncoder creates an encoder keyed with key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// SignedCodec reflects structured values as signed msgpack. The payload
// is readable in the attribute but a tampered value is rejected on the
// way back in.
func SignedCodec(enc *Encoder) Codec { return encoderCodec{enc: enc} }

// SealedCodec reflects structured values encrypted, so the attribute
// reveals nothing about the value.
func SealedCodec(enc *Encoder) Codec { return encoderCodec{enc: enc, sealed: true} }

type encoderCodec struct {
	enc    *Encoder
	sealed bool
}

func (c encoderCodec) EncodeAttr(v any) (string, error) {
	s, err := c.enc.Encode(v, c.sealed)
	return s, wrapEncodingError(err)
}

func (c encoderCodec) DecodeAttr(s string) (any, error) {
	v, err := c.enc.Decode(s, c.sealed)
	if err != nil {
		return nil, wrapEncodingError(err)
	}
	return v, nil
}
