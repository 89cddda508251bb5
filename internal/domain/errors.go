package domain

import (
	"errors"
	"fmt"
)

// Error codes. The HTTP layer maps them to status codes.
const (
	EINVALID     = "invalid"     // malformed form post
	EFORBIDDEN   = "forbidden"   // CSRF mismatch
	ENOTFOUND    = "not_found"   // unknown path
	ERATELIMIT   = "rate_limit"  // too many order posts
	EUNAVAILABLE = "unavailable" // relay or webhook failed
	EINTERNAL    = "internal"    // anything else
)

// genericMessage replaces the message of internal and upstream failures.
const genericMessage = "An internal error occurred. Please try again later."

// Error carries a code for the HTTP layer, the failing operation for logs,
// and a message that is safe to show unless the code is internal or
// unavailable.
type Error struct {
	Code    string
	Op      string // e.g. "relay.send"
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil && msg == "" {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// public reports whether Message may be shown to a visitor.
func (e *Error) public() bool {
	return e.Code != EINTERNAL && e.Code != EUNAVAILABLE
}

// asError finds the outermost *Error in err's chain.
func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Errorf creates an Error with a formatted message.
func Errorf(code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to err.
func Wrap(err error, code, op, message string) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// Invalid reports a request the server cannot read.
func Invalid(op, message string) *Error {
	return &Error{Code: EINVALID, Op: op, Message: message}
}

// Forbidden reports a rejected state-changing request.
func Forbidden(op, message string) *Error {
	return &Error{Code: EFORBIDDEN, Op: op, Message: message}
}

// Unavailable wraps a failed relay or webhook call.
func Unavailable(err error, op, message string) *Error {
	return Wrap(err, EUNAVAILABLE, op, message)
}

// Internal wraps an unexpected failure.
func Internal(err error, op, message string) *Error {
	return Wrap(err, EINTERNAL, op, message)
}

// RateLimit reports a client over its request budget.
func RateLimit(op string) *Error {
	return &Error{Code: ERATELIMIT, Op: op, Message: "Too many requests. Please try again later."}
}

// ErrorCode returns err's code: empty for nil, EINTERNAL for errors that
// carry none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return EINTERNAL
}

// IsCode reports whether err carries code.
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

// ErrorMessage returns the visitor-facing message for err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok && e.public() {
		return e.Message
	}
	return genericMessage
}

// ErrorOp returns the operation recorded on err, if any.
func ErrorOp(err error) string {
	if e, ok := asError(err); ok {
		return e.Op
	}
	return ""
}
