// Package shared contains the error kinds and domain errors used across the
// grade book domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "course", "gradebook"
	Op      string // Operation that failed, e.g., "Add", "Register"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// Student domain errors
var (
	ErrStudentNotFound  = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrDuplicateStudent = NewDomainError("student", "Add", ErrAlreadyExists, "student with this email already exists")
	ErrInvalidEmail     = NewDomainError("student", "Validate", ErrInvalidInput, "invalid email")
	ErrInvalidNames     = NewDomainError("student", "Validate", ErrEmptyValue, "student names cannot be empty")
	ErrInvalidGrade     = NewDomainError("student", "Register", ErrValueOutOfRange, "grade must be a non-negative number")
)

// Course domain errors
var (
	ErrCourseNotFound    = NewDomainError("course", "Find", ErrNotFound, "course not found")
	ErrDuplicateCourse   = NewDomainError("course", "Add", ErrAlreadyExists, "course already exists")
	ErrInvalidCourseName = NewDomainError("course", "Validate", ErrEmptyValue, "course name cannot be empty")
	ErrInvalidCredits    = NewDomainError("course", "Validate", ErrValueOutOfRange, "credits must be positive")
	ErrInvalidMaxScore   = NewDomainError("course", "Validate", ErrValueOutOfRange, "max score must be positive when set")
)

// GPA policy errors
var (
	ErrUnknownPolicy = NewDomainError("gpa", "Resolve", ErrInvalidInput, "unknown GPA policy")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}
