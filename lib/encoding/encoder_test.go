package encoding

import (
	"errors"
	"strings"
	"testing"
)

type filterValue struct {
	Tags  []string `msgpack:"tags"`
	Limit int      `msgpack:"limit"`
	Open  bool     `msgpack:"open"`
}

func TestNewEncoder(t *testing.T) {
	if _, err := NewEncoder([]byte("short")); err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}
	if _, err := NewEncoder([]byte("this-is-a-32-byte-key-for-aes-256!")); err != nil {
		t.Fatalf("NewEncoder with long key failed: %v", err)
	}
}

func TestSignedRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := filterValue{Tags: []string{"a", "b"}, Limit: 20, Open: true}
	encoded, err := enc.Encode(original, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(encoded, ".") {
		t.Fatalf("signed value %q has no signature separator", encoded)
	}

	var decoded filterValue
	if err := enc.DecodeInto(encoded, false, &decoded); err != nil {
		t.Fatalf("DecodeInto failed: %v", err)
	}
	if decoded.Limit != 20 || !decoded.Open || len(decoded.Tags) != 2 || decoded.Tags[1] != "b" {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestSealedRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	encoded, err := enc.Encode(map[string]any{"user": "u-1"}, true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(encoded, "u-1") {
		t.Errorf("sealed value leaks plaintext: %q", encoded)
	}

	v, err := enc.Decode(encoded, true)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Decode returned %T, want map[string]any", v)
	}
	if m["user"] != "u-1" {
		t.Errorf("user = %v, want u-1", m["user"])
	}
}

func TestDecodeNumbersAreLoose(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	encoded, err := enc.Encode(map[string]any{"n": 7, "f": 1.5}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	v, err := enc.Decode(encoded, false)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	m := v.(map[string]any)
	if m["n"] != int64(7) {
		t.Errorf("n = %#v, want int64(7)", m["n"])
	}
	if m["f"] != 1.5 {
		t.Errorf("f = %#v, want 1.5", m["f"])
	}
}

func TestTamperedSignature(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	encoded, err := enc.Encode("value", false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	body, _, _ := strings.Cut(encoded, ".")
	forged, _ := enc.Encode("other", false)
	_, forgedSig, _ := strings.Cut(forged, ".")

	_, err = enc.Decode(body+"."+forgedSig, false)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestTamperedCiphertext(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	encoded, err := enc.Encode("value", true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	raw := []byte(encoded)
	if raw[4] == 'A' {
		raw[4] = 'B'
	} else {
		raw[4] = 'A'
	}

	if _, err := enc.Decode(string(raw), true); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}

func TestInvalidFormat(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	_, err := enc.Decode("nosignatureseparator", false)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}

	_, err = enc.Decode("!!", true)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	enc1, _ := NewEncoder([]byte("key-one"))
	enc2, _ := NewEncoder([]byte("key-two"))

	encoded, err := enc1.Encode("value", false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := enc2.Decode(encoded, false); err == nil {
		t.Error("expected error when decoding with a different key")
	}
}
