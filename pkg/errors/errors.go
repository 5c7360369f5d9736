package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Scheduling rejections. Every one leaves all entities unchanged; callers
// surface the message and retry with different input.
var (
	ErrQualification        = New("QUALIFICATION_ERROR", http.StatusUnprocessableEntity, "instructor is not qualified for this course")
	ErrCapacity             = New("CAPACITY_ERROR", http.StatusUnprocessableEntity, "instructor has insufficient remaining load")
	ErrInstructorRequired   = New("INSTRUCTOR_REQUIRED", http.StatusUnprocessableEntity, "an instructor must be assigned before scheduling")
	ErrLabAssistantRequired = New("LAB_ASSISTANT_REQUIRED", http.StatusUnprocessableEntity, "a lab assistant must be selected for lab hours")
	ErrSlotOccupied         = New("SLOT_OCCUPIED", http.StatusConflict, "this slot is already occupied")
	ErrHoursExhausted       = New("HOURS_EXHAUSTED", http.StatusConflict, "no remaining hours of this type for the course")
	ErrOwnership            = New("OWNERSHIP_ERROR", http.StatusForbidden, "course is not owned by the acting program")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
