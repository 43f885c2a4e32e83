// Package errs provides standardized error types for the logistics application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Each error kind follows the same shape:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type carrying the error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() back to the sentinel
//
// The sentinels double as the machine-readable taxonomy: boundary layers map
// them to stable error codes and HTTP statuses with errors.Is, never by
// string matching.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrObjectNotFound indicates the requested resource does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrValueIsInvalid indicates a value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")

	// ErrValueIsRequired indicates a required value is missing.
	ErrValueIsRequired = errors.New("value is required")

	// ErrValueIsOutOfRange indicates a numeric value is outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")

	// ErrConcurrentModification indicates an optimistic-lock version conflict:
	// the resource changed between read and write.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvalidTransition indicates a status change not permitted by the
	// resource's state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState indicates a business invariant would be violated,
	// e.g. removing the last administrator.
	ErrInvalidState = errors.New("invalid state")

	// ErrAccessDenied indicates the acting principal is not allowed to
	// perform the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrTokenInvalid indicates an authentication token that is malformed,
	// has a bad signature, or is expired.
	ErrTokenInvalid = errors.New("token is invalid")
)

// sanitize strips newlines from values interpolated into error messages so a
// single log line stays a single line.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ObjectNotFoundError reports that a resource could not be found by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the named parameter and identifier.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports that a named value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the named parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsRequiredError reports that a required value is missing or empty.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the named parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsOutOfRangeError reports a numeric value outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError for the named parameter.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ConcurrentModificationError reports an optimistic-lock conflict on a versioned resource.
// ExpectedVersion is the version the caller read; the stored row no longer matches it.
type ConcurrentModificationError struct {
	ParamName       string
	ID              any
	ExpectedVersion int64
	Cause           error
}

// NewConcurrentModificationError creates a ConcurrentModificationError for the
// named resource, identifier and the version the write was conditioned on.
func NewConcurrentModificationError(paramName string, id any, expectedVersion int64) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id, ExpectedVersion: expectedVersion}
}

// NewConcurrentModificationErrorWithCause creates a ConcurrentModificationError
// wrapping an underlying cause.
func NewConcurrentModificationErrorWithCause(paramName string, id any, expectedVersion int64, cause error) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id, ExpectedVersion: expectedVersion, Cause: cause}
}

func (e *ConcurrentModificationError) Error() string {
	msg := fmt.Sprintf("%s: %s %s was changed concurrently, expected version %d",
		ErrConcurrentModification, e.ParamName, sanitize(e.ID), e.ExpectedVersion)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// InvalidTransitionError reports a status change rejected by a state machine.
type InvalidTransitionError struct {
	ParamName string
	From      string
	To        string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the named
// resource and the rejected from -> to pair.
func NewInvalidTransitionError(paramName, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{ParamName: paramName, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s",
		ErrInvalidTransition, e.ParamName, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvalidStateError reports a violated business invariant.
type InvalidStateError struct {
	Message string
	Cause   error
}

// NewInvalidStateError creates an InvalidStateError with the given message.
func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

// NewInvalidStateErrorWithCause creates an InvalidStateError wrapping an underlying cause.
func NewInvalidStateErrorWithCause(message string, cause error) *InvalidStateError {
	return &InvalidStateError{Message: message, Cause: cause}
}

func (e *InvalidStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrInvalidState, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidState, e.Message)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// AccessDeniedError reports that the acting principal lacks the rights for an operation.
type AccessDeniedError struct {
	Message string
}

// NewAccessDeniedError creates an AccessDeniedError with the given message.
func NewAccessDeniedError(message string) *AccessDeniedError {
	return &AccessDeniedError{Message: message}
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAccessDenied, e.Message)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// TokenInvalidError reports an authentication failure: bad signature, malformed
// token, expired token, or unknown/inactive subject.
type TokenInvalidError struct {
	Message string
	Cause   error
}

// NewTokenInvalidError creates a TokenInvalidError with the given message.
func NewTokenInvalidError(message string) *TokenInvalidError {
	return &TokenInvalidError{Message: message}
}

// NewTokenInvalidErrorWithCause creates a TokenInvalidError wrapping an underlying cause.
func NewTokenInvalidErrorWithCause(message string, cause error) *TokenInvalidError {
	return &TokenInvalidError{Message: message, Cause: cause}
}

func (e *TokenInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrTokenInvalid, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrTokenInvalid, e.Message)
}

func (e *TokenInvalidError) Unwrap() error {
	return ErrTokenInvalid
}
