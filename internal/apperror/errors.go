// Package apperror defines the error taxonomy shared by services and handlers.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeValidation          Code = "VALIDATION"
	CodeConcurrentlyDeleted Code = "CONCURRENTLY_DELETED"
	CodeConflict            Code = "CONFLICT"
	CodeDuplicate           Code = "DUPLICATE"
	CodeInternal            Code = "INTERNAL"
)

// Error is a coded error. Err may be nil.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, format, args...)
}

// ConcurrentlyDeleted reports that an entity vanished between read and write.
func ConcurrentlyDeleted(entity string, id uint) *Error {
	return New(CodeConcurrentlyDeleted, "%s with ID %d was deleted concurrently", entity, id)
}

func Conflict(format string, args ...any) *Error {
	return New(CodeConflict, format, args...)
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return CodeValidation
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

type Violation struct {
	Field   string `json:"field" xml:"field"`
	Tag     string `json:"tag" xml:"tag"`
	Message string `json:"message" xml:"message"`
}

// ValidationError carries the rejected object and every violation found on it.
type ValidationError struct {
	Object     any
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("invalid %T: %s", e.Object, strings.Join(msgs, "; "))
}
