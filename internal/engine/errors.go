package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while running a batch.
//
// Runtime errors include:
//   - Step failed: checking a step panicked
//   - Duplicate step: two steps in one batch share a name
//   - Queue closed: the batch already ran
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Step names the affected step, if any.
	Step string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeStepFailed indicates checking a step panicked.
	ErrCodeStepFailed RuntimeErrorCode = "STEP_FAILED"

	// ErrCodeDuplicateStep indicates a step name was enqueued twice.
	ErrCodeDuplicateStep RuntimeErrorCode = "DUPLICATE_STEP"

	// ErrCodeQueueClosed indicates Enqueue or Run after Run.
	ErrCodeQueueClosed RuntimeErrorCode = "QUEUE_CLOSED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: %s (step=%s)", e.Code, e.Message, e.Step)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsStepFailedError returns true if the error is a recovered step failure.
// Uses errors.As to handle wrapped errors.
func IsStepFailedError(err error) bool {
	return hasRuntimeCode(err, ErrCodeStepFailed)
}

// IsDuplicateStepError returns true if the error is a duplicate step error.
func IsDuplicateStepError(err error) bool {
	return hasRuntimeCode(err, ErrCodeDuplicateStep)
}

// IsQueueClosedError returns true if the error is a closed queue error.
func IsQueueClosedError(err error) bool {
	return hasRuntimeCode(err, ErrCodeQueueClosed)
}

func hasRuntimeCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewStepFailedError creates a RuntimeError for a step whose check panicked.
func NewStepFailedError(step string, cause any) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStepFailed,
		Message: fmt.Sprintf("check panicked: %v", cause),
		Step:    step,
	}
}

// NewDuplicateStepError creates a RuntimeError for a repeated step name.
func NewDuplicateStepError(step string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeDuplicateStep,
		Message: "step name already enqueued",
		Step:    step,
	}
}

// NewQueueClosedError creates a RuntimeError for use after Run.
func NewQueueClosedError() *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQueueClosed,
		Message: "engine has already run",
	}
}
