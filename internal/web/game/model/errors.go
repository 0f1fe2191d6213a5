package model

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

// ErrorCode identifies a machine-stable failure class.
type ErrorCode string

const (
	// ErrCodeInvalidFileType means the upload's extension is not allowed.
	ErrCodeInvalidFileType ErrorCode = "INVALID_FILE_TYPE"
	// ErrCodeInvalidPayload means a structured payload broke a field constraint.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	// ErrCodePayloadTooLarge means an upload exceeded the configured cap.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeStorage means the persistence layer could not finish.
	ErrCodeStorage ErrorCode = "STORAGE"
)

// FieldError describes one rejected field of a structured payload.
type FieldError struct {
	Field   string
	Message string
	Type    string
}

// Error is the typed failure returned by the service layer.
//
// Message is safe to show to clients for input errors. For storage
// errors the cause is kept for logging only.
type Error struct {
	Code    ErrorCode
	Message string
	Fields  []FieldError
	cause   error
}

// Error returns the error message, including the cause if any.
func (e *Error) Error() string {
	if e == nil {
		return "game error: <nil>"
	}

	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", msg, e.cause.Error())
	}
	return msg
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewInputError constructs a client-side failure.
func NewInputError(code ErrorCode, message string, fields ...FieldError) *Error {
	return &Error{Code: code, Message: message, Fields: fields}
}

// NewUploadTooLargeError reports an upload above limit bytes.
func NewUploadTooLargeError(limit int64) *Error {
	return NewInputError(ErrCodePayloadTooLarge,
		fmt.Sprintf("File exceeds the upload limit of %d bytes", limit))
}

// NewStorageError wraps a persistence failure.
func NewStorageError(op string, cause error) *Error {
	return &Error{Code: ErrCodeStorage, Message: op, cause: cause}
}

// AsError extracts a typed error from the chain.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// IsCode reports whether the chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	typed, ok := AsError(err)
	return ok && typed.Code == code
}

// IsInvalidInput reports whether err was caused by client-supplied data.
func IsInvalidInput(err error) bool {
	typed, ok := AsError(err)
	return ok && typed.Code != ErrCodeStorage
}
