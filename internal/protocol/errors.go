package protocol

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of the peer protocol so callers can decide
// whether to retry, reconnect or give up.
type ErrorKind int

const (
	KindPrecondition ErrorKind = iota + 1
	KindConnectFailed
	KindConnectionLost
	KindUnknownFrameType
	KindUnknownCommand
	KindSocketInit
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition violation"
	case KindConnectFailed:
		return "connect failed"
	case KindConnectionLost:
		return "connection lost"
	case KindUnknownFrameType:
		return "unknown frame type"
	case KindUnknownCommand:
		return "unknown command"
	case KindSocketInit:
		return "socket init failed"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is a classified protocol failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := "protocol: " + e.Kind.String()
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare per-kind sentinels below, so that
// errors.Is(err, ErrConnectionLost) holds for any connection-loss error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Per-kind sentinels for use with errors.Is.
var (
	ErrPrecondition     = &Error{Kind: KindPrecondition}
	ErrConnectFailed    = &Error{Kind: KindConnectFailed}
	ErrConnectionLost   = &Error{Kind: KindConnectionLost}
	ErrUnknownFrameType = &Error{Kind: KindUnknownFrameType}
	ErrUnknownCommand   = &Error{Kind: KindUnknownCommand}
	ErrSocketInit       = &Error{Kind: KindSocketInit}
)

var (
	ErrShortHeader     = errors.New("protocol: short frame header")
	ErrShortPayload    = errors.New("protocol: short message payload")
	ErrPayloadTooLarge = errors.New("protocol: payload too large")
)

// KindOf returns the classification of err, or 0 when err is not a
// protocol error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
