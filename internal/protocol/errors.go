package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch     = errors.New("protocol: length mismatch")
	ErrBadHeader          = errors.New("protocol: bad header")
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
)

// DecodeError carries the rejected packet kind and the offending value.
type DecodeError struct {
	Kind PacketKind
	Err  error
	Got  string
	Want string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (%s): got %s want %s", e.Err, e.Kind, e.Got, e.Want)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func lengthError(kind PacketKind, got, want int) error {
	return &DecodeError{Kind: kind, Err: ErrLengthMismatch, Got: fmt.Sprint(got), Want: fmt.Sprint(want)}
}

func headerError(kind PacketKind, got []byte, want [4]byte) error {
	return &DecodeError{Kind: kind, Err: ErrBadHeader, Got: fmt.Sprintf("%q", got), Want: fmt.Sprintf("%q", want[:])}
}

func versionError(kind PacketKind, got, want int) error {
	return &DecodeError{Kind: kind, Err: ErrUnsupportedVersion, Got: fmt.Sprint(got), Want: fmt.Sprint(want)}
}

// ErrorReason maps a decode error to a short label for metrics and logs.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrLengthMismatch):
		return "length"
	case errors.Is(err, ErrBadHeader):
		return "header"
	case errors.Is(err, ErrUnsupportedVersion):
		return "version"
	default:
		return "other"
	}
}
