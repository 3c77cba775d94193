// Package errs implements the crawler's error taxonomy: a small chained
// error type carrying a stable code plus an optional parent, one code per
// failure kind the crawler distinguishes.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies one of the error kinds raised by the crawler.
type Code uint16

const (
	// Unset is the zero value; never returned from a constructor.
	Unset Code = iota
	// AllocationFailure covers buffer/slab/object-pool exhaustion.
	AllocationFailure
	// TransportError covers socket/TLS dial, read and write failures.
	TransportError
	// ProtocolError covers malformed HTTP status lines, headers or bodies.
	ProtocolError
	// PolicyDrop covers a URL rejected by depth, blacklist, or seen-set policy.
	PolicyDrop
	// SignalInterrupt covers cooperative cancellation via context.
	SignalInterrupt
	// ConfigError covers CLI flag and config file validation failures.
	ConfigError
)

func (c Code) String() string {
	switch c {
	case AllocationFailure:
		return "allocation_failure"
	case TransportError:
		return "transport_error"
	case ProtocolError:
		return "protocol_error"
	case PolicyDrop:
		return "policy_drop"
	case SignalInterrupt:
		return "signal_interrupt"
	case ConfigError:
		return "config_error"
	default:
		return "unset"
	}
}

// Error is the chained error type returned by every internal package.
// It pairs a stable Code with a human message and an optional parent.
type Error struct {
	code    Code
	message string
	parent  error
}

func (e *Error) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.parent)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap exposes the parent so errors.Is/errors.As traverse the chain.
func (e *Error) Unwrap() error { return e.parent }

// Code returns the stable error kind.
func (e *Error) Code() Code { return e.code }

// Is reports whether target carries the same Code, so errors.Is compares
// by kind rather than identity.
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.code == e.code
	}
	return false
}

// New constructs a fresh Error with no parent.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf constructs a fresh Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches parent as the cause of a new Error with the given code.
func Wrap(code Code, message string, parent error) *Error {
	return &Error{code: code, message: message, parent: parent}
}

// HasCode reports whether err (or any error in its chain) carries code.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &Error{code: code})
}

// GetCode returns the Code carried by err, or Unset if err is not one of ours.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return Unset
}
