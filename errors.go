package wcmp

import (
	"errors"

	"github.com/pthm/wcmp/lib/encoding"
)

// Sentinel errors for component operations.
var (
	// ErrConfig marks a definition that cannot be turned into a class.
	ErrConfig = errors.New("wcmp: configuration error")
	// ErrStaleInstance is returned by every operation on a disconnected
	// instance.
	ErrStaleInstance = errors.New("wcmp: stale instance")
	// ErrHandlerCompile is reported when an inline event handler string
	// cannot be turned into a listener. The field is left inert.
	ErrHandlerCompile = errors.New("wcmp: inline handler compile failed")

	ErrUnknownProperty  = errors.New("wcmp: unknown property")
	ErrUnknownMethod    = errors.New("wcmp: unknown method")
	ErrUnknownAttribute = errors.New("wcmp: unknown attribute")

	// ErrTransitionFailed wraps a transition that returned Err or panicked.
	ErrTransitionFailed = errors.New("wcmp: transition failed")
	// ErrTransitionLoop is returned when Next chains do not settle.
	ErrTransitionLoop = errors.New("wcmp: transition chain too long")

	ErrInvalidFormat    = errors.New("wcmp: invalid attribute encoding")
	ErrSignatureInvalid = errors.New("wcmp: attribute signature invalid")
	ErrDecryptFailed    = errors.New("wcmp: attribute decryption failed")
)

// IsConfigError checks if err is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsStale checks if err was caused by a disconnected instance.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleInstance)
}

// IsUnknownMember checks if err names a property, method or attribute the
// class does not expose.
func IsUnknownMember(err error) bool {
	return errors.Is(err, ErrUnknownProperty) ||
		errors.Is(err, ErrUnknownMethod) ||
		errors.Is(err, ErrUnknownAttribute)
}

// IsDecodingError checks if err is an attribute codec failure.
func IsDecodingError(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrDecryptFailed)
}

// wrapEncodingError maps encoding package errors onto wcmp sentinels.
func wrapEncodingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	}
	return err
}
