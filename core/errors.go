package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR        int = 0
	EFORMATNOMATCH int = 120 // stream is not of the attempted format
	EFORMAT        int = 121 // stream is of this format, but violates it
	EMISSING       int = 122 // resource does not exist
	EINVALID       int = 123 // validation failed
	EUNSUPPORTED   int = 124 // operation not supported by this resource
	EINTERNAL      int = 125 // internal error
	EIO            int = 126 // underlying stream error
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EFORMATNOMATCH:
		return "format not matched"
	case EFORMAT:
		return "malformed file"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case EUNSUPPORTED:
		return "unsupported"
	case EINTERNAL:
		return "internal error"
	case EIO:
		return "i/o error"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, it is replaced by an error carrying the text of code.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it returns the text of the error's Code.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// FormatError creates a malformed-file error, optionally annotated with a
// byte offset into the stream. A negative offset means "unknown".
func FormatError(offset int64, format string, v ...interface{}) error {
	msg := fmt.Sprintf(format, v...)
	if offset >= 0 {
		msg = fmt.Sprintf("%s (at offset %d)", msg, offset)
	}
	return Error(EFORMAT, "%s", msg)
}

// IsFormatMismatch tells whether an error is the non-fatal signal of a codec
// declining a stream. Format dispatch recovers from these and moves on to
// the next candidate; all other errors propagate.
func IsFormatMismatch(err error) bool {
	return Code(err) == EFORMATNOMATCH
}

func UserError(err error) {
	if e, ok := err.(AppError); ok {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
