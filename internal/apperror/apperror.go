// Package apperror classifies failures into the small set of kinds the
// application surfaces: validation problems, invalid engine input, missing
// records and storage faults. Every failure is surfaced once; there is no
// retry policy anywhere.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a missing or invalid field on a submission. The
	// operation aborts with no partial write.
	KindValidation
	// KindInvalidInput is a contract violation on an engine call, e.g. an
	// installment count below 2.
	KindInvalidInput
	// KindNotFound is a lookup of a record that no longer exists.
	KindNotFound
	// KindStorage is a record store failure, fatal to the current operation
	// only; already-loaded views stay usable.
	KindStorage
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, Err: err}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown when none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error chain to the response status the API uses.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidInput:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindStorage:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
