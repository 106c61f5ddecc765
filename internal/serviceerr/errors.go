package serviceerr

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeInvalidRequest Code = "invalid_request"
	CodeDuplicateName  Code = "duplicate_name"
	CodeNotFound       Code = "not_found"
	CodeStorageFailure Code = "storage_failure"
	CodeUnknown        Code = "unknown"
)

// Error is a service level error. Errors compare equal under errors.Is when
// their codes match, so a described variant still matches its sentinel.
type Error struct {
	Err         Code
	Description string
}

var (
	ErrInvalidRequest = &Error{Err: CodeInvalidRequest}
	ErrDuplicateName  = &Error{Err: CodeDuplicateName, Description: "name already in use"}
	ErrNotFound       = &Error{Err: CodeNotFound, Description: "not found"}
	ErrStorage        = &Error{Err: CodeStorageFailure, Description: "storage failure"}
	ErrUnknown        = &Error{Err: CodeUnknown, Description: "unknown error"}
)

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Err == e.Err
}

// HTTPStatus returns the status code the transport layer answers with.
func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest, CodeDuplicateName:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeStorageFailure, CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// InvalidRequest returns an ErrInvalidRequest variant carrying a description.
func InvalidRequest(description string) *Error {
	return &Error{Err: CodeInvalidRequest, Description: description}
}

// NotFound returns an ErrNotFound variant carrying a description.
func NotFound(description string) *Error {
	return &Error{Err: CodeNotFound, Description: description}
}

// DuplicateName returns an ErrDuplicateName variant carrying a description.
func DuplicateName(description string) *Error {
	return &Error{Err: CodeDuplicateName, Description: description}
}

// From extracts the service error from err. Errors that carry no service
// error are reported as ErrUnknown.
func From(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	return ErrUnknown
}
