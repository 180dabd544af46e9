package card

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes registry, capture and selection failures.
type ErrorCode string

const (
	// CodeStorageFault indicates the persistence layer failed.
	CodeStorageFault ErrorCode = "STORAGE_FAULT"

	// CodeNotFound indicates an id that does not exist was referenced.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeValidation indicates caller-supplied input was rejected before
	// reaching the store.
	CodeValidation ErrorCode = "VALIDATION"
)

var (
	// ErrEmptyIdentifier is returned when an identifier is required but empty.
	ErrEmptyIdentifier = &Error{Code: CodeValidation, Err: errors.New("identifier must not be empty")}

	// ErrEmptyName is returned when a display name is required but empty.
	ErrEmptyName = &Error{Code: CodeValidation, Err: errors.New("name must not be empty")}
)

// Error is the typed failure surfaced by every fallible card operation.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the failed operation ("insert", "update", ...).
	Op string

	// ID is the record the operation referenced, zero when none.
	ID ID

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.ID != 0 {
		msg += fmt.Sprintf(" (id=%d)", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// StorageFault wraps a persistence failure.
func StorageFault(op string, err error) *Error {
	return &Error{Code: CodeStorageFault, Op: op, Err: err}
}

// NotFound reports that id does not exist.
func NotFound(op string, id ID) *Error {
	return &Error{Code: CodeNotFound, Op: op, ID: id, Err: errors.New("card does not exist")}
}

// IsStorageFault returns true if err is, or wraps, a storage fault.
func IsStorageFault(err error) bool {
	return hasCode(err, CodeStorageFault)
}

// IsNotFound returns true if err is, or wraps, a not-found error.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation returns true if err is, or wraps, a validation error.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
