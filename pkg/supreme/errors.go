package supreme

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of a coordination error for
// recovery and fallback logic.
type ErrorClass string

const (
	// ErrorClassEngine indicates a single provider call failed. The error is
	// isolated to that engine's result slot and never aborts sibling calls.
	ErrorClassEngine ErrorClass = "engine"

	// ErrorClassDispatch indicates the orchestrator's own strategy execution
	// failed. Triggers the adaptive strategy's sequential fallback, or
	// surfaces as an overall failed status.
	ErrorClassDispatch ErrorClass = "dispatch"

	// ErrorClassTimeout indicates a caller-visible wait elapsed. The
	// underlying request may still complete and be cached.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassPermanent indicates a non-recoverable error such as invalid
	// input or an unknown engine kind.
	ErrorClassPermanent ErrorClass = "permanent"
)

// CoordinationError represents a classified error with engine and operation
// context.
type CoordinationError struct {
	// Class is the error classification for recovery logic.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Engine is the engine kind that caused the error, if applicable.
	Engine EngineKind `json:"engine,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *CoordinationError) Error() string {
	if e.Engine != "" && e.Operation != "" {
		return fmt.Sprintf("[%s] %s (engine=%s, operation=%s): %s",
			e.Class, e.Message, e.Engine, e.Operation, e.unwrapMessage())
	}
	if e.Engine != "" {
		return fmt.Sprintf("[%s] %s (engine=%s): %s",
			e.Class, e.Message, e.Engine, e.unwrapMessage())
	}
	return fmt.Sprintf("[%s] %s: %s", e.Class, e.Message, e.unwrapMessage())
}

// Unwrap returns the underlying error for error chain inspection.
func (e *CoordinationError) Unwrap() error {
	return e.Err
}

func (e *CoordinationError) unwrapMessage() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Is implements error equality checking for errors.Is.
func (e *CoordinationError) Is(target error) bool {
	t, ok := target.(*CoordinationError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewEngineError creates a new engine-call error.
func NewEngineError(message string, err error) *CoordinationError {
	return &CoordinationError{
		Class:   ErrorClassEngine,
		Message: message,
		Err:     err,
	}
}

// NewDispatchError creates a new dispatch-level error.
func NewDispatchError(message string, err error) *CoordinationError {
	return &CoordinationError{
		Class:   ErrorClassDispatch,
		Message: message,
		Err:     err,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(message string, err error) *CoordinationError {
	return &CoordinationError{
		Class:   ErrorClassTimeout,
		Message: message,
		Err:     err,
	}
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, err error) *CoordinationError {
	return &CoordinationError{
		Class:   ErrorClassPermanent,
		Message: message,
		Err:     err,
	}
}

// WithEngine adds engine context to an error.
func (e *CoordinationError) WithEngine(kind EngineKind) *CoordinationError {
	e.Engine = kind
	return e
}

// WithOperation adds operation context to an error.
func (e *CoordinationError) WithOperation(operation string) *CoordinationError {
	e.Operation = operation
	return e
}

// WithCode adds an error code to an error.
func (e *CoordinationError) WithCode(code string) *CoordinationError {
	e.Code = code
	return e
}

// IsEngineError returns true if the error is isolated to a single engine.
func IsEngineError(err error) bool {
	var e *CoordinationError
	if errors.As(err, &e) {
		return e.Class == ErrorClassEngine
	}
	return false
}

// IsDispatchError returns true if the error failed the whole dispatch.
func IsDispatchError(err error) bool {
	var e *CoordinationError
	if errors.As(err, &e) {
		return e.Class == ErrorClassDispatch
	}
	return false
}

// IsTimeout returns true if the error is a caller-visible timeout.
func IsTimeout(err error) bool {
	var e *CoordinationError
	if errors.As(err, &e) {
		return e.Class == ErrorClassTimeout
	}
	return false
}

// IsPermanent returns true if the error is non-recoverable.
func IsPermanent(err error) bool {
	var e *CoordinationError
	if errors.As(err, &e) {
		return e.Class == ErrorClassPermanent
	}
	return false
}

// Common error codes.
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotRegistered  = "ENGINE_NOT_REGISTERED"
	ErrCodeNotActive      = "ENGINE_NOT_ACTIVE"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeQueueFull      = "QUEUE_FULL"
	ErrCodeNotRunning     = "NOT_RUNNING"
	ErrCodeProviderFailed = "PROVIDER_FAILED"
	ErrCodeProviderPanic  = "PROVIDER_PANIC"
	ErrCodeNoOptions      = "NO_OPTIONS"
	ErrCodeEmptyPlan      = "EMPTY_PLAN"
)
