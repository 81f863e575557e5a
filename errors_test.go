package wcmp

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pthm/wcmp/lib/encoding"
)

var sentinels = []error{
	ErrConfig,
	ErrStaleInstance,
	ErrHandlerCompile,
	ErrUnknownProperty,
	ErrUnknownMethod,
	ErrUnknownAttribute,
	ErrTransitionFailed,
	ErrTransitionLoop,
	ErrInvalidFormat,
	ErrSignatureInvalid,
	ErrDecryptFailed,
}

func TestSentinelErrors(t *testing.T) {
	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	for _, err := range sentinels {
		if !strings.HasPrefix(err.Error(), "wcmp: ") {
			t.Errorf("Error %q should start with 'wcmp: '", err.Error())
		}
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name  string
		check func(error) bool
		err   error
		want  bool
	}{
		{"config nil", IsConfigError, nil, false},
		{"config wrapped", IsConfigError, fmt.Errorf("<a-b>: %w", ErrConfig), true},
		{"config other", IsConfigError, ErrStaleInstance, false},
		{"stale", IsStale, ErrStaleInstance, true},
		{"stale wrapped", IsStale, fmt.Errorf("op: %w", ErrStaleInstance), true},
		{"stale other", IsStale, ErrConfig, false},
		{"member property", IsUnknownMember, ErrUnknownProperty, true},
		{"member method", IsUnknownMember, ErrUnknownMethod, true},
		{"member attribute", IsUnknownMember, fmt.Errorf("x: %w", ErrUnknownAttribute), true},
		{"member other", IsUnknownMember, ErrTransitionFailed, false},
		{"decoding format", IsDecodingError, ErrInvalidFormat, true},
		{"decoding signature", IsDecodingError, ErrSignatureInvalid, true},
		{"decoding decrypt", IsDecodingError, ErrDecryptFailed, true},
		{"decoding other", IsDecodingError, errors.New("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapEncodingError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"invalid format", encoding.ErrInvalidFormat, ErrInvalidFormat},
		{"signature invalid", encoding.ErrSignatureInvalid, ErrSignatureInvalid},
		{"decrypt failed", encoding.ErrDecryptFailed, ErrDecryptFailed},
		{"wrapped", fmt.Errorf("decode: %w", encoding.ErrSignatureInvalid), ErrSignatureInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapEncodingError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("wrapEncodingError(nil) = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("wrapEncodingError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	other := errors.New("other")
	if got := wrapEncodingError(other); got != other {
		t.Errorf("wrapEncodingError(other) = %v, want passthrough", got)
	}
}
