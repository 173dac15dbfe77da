package playback

import (
	"errors"
	"fmt"
)

// Kind classifies playback failures.
type Kind int

const (
	// KindNotReady means the active track has not buffered enough to play yet.
	KindNotReady Kind = iota + 1
	// KindDevice means the platform refused to start output.
	KindDevice
	// KindNetwork means the track could not be fetched. Retryable.
	KindNetwork
	// KindDecode means the track data is corrupt.
	KindDecode
	// KindUnsupportedFormat means the output cannot play this kind of media.
	KindUnsupportedFormat
	// KindAborted marks a load superseded by a newer one. Never shown to the user.
	KindAborted
	// KindInvalidArgument is a caller mistake.
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotReady:
		return "NotReady"
	case KindDevice:
		return "DeviceError"
	case KindNetwork:
		return "NetworkError"
	case KindDecode:
		return "DecodeError"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindAborted:
		return "AbortedBySwitch"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Message is the user-visible text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindNotReady:
		return "Audio is still loading"
	case KindDevice:
		return "Audio output refused to start"
	case KindNetwork:
		return "Network error while loading audio"
	case KindDecode:
		return "Could not decode audio"
	case KindUnsupportedFormat:
		return "Unsupported audio format"
	default:
		return "Audio playback failed"
	}
}

// Error is a playback failure scoped to the locator that produced it.
type Error struct {
	Kind    Kind
	Locator string
	Err     error
}

// NewError builds an Error of kind for locator, wrapping cause when present.
func NewError(kind Kind, locator string, cause error) *Error {
	return &Error{Kind: kind, Locator: locator, Err: cause}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Locator != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Locator)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotReady) works for every locator.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether trying the same locator again can succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindNotReady || e.Kind == KindNetwork
}

// Surfaced reports whether the error is meant to be shown to the user.
func (e *Error) Surfaced() bool {
	switch e.Kind {
	case KindDevice, KindNetwork, KindDecode, KindUnsupportedFormat:
		return true
	default:
		return false
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotReady          = &Error{Kind: KindNotReady}
	ErrDevice            = &Error{Kind: KindDevice}
	ErrNetwork           = &Error{Kind: KindNetwork}
	ErrDecode            = &Error{Kind: KindDecode}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrAborted           = &Error{Kind: KindAborted}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
)
