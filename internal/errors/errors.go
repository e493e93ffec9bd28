// Package errors defines the kernel's contract-violation errors. The kernel
// reports precondition violations as fatal, typed errors and never retries
// or swallows them; degenerate-empty inputs are never represented as
// errors (they short-circuit to empty results instead).
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrPreconditionViolation is the umbrella sentinel every contract
	// error below also matches via Is().
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrColumnLengthMismatch is returned when a WordEntityPostings'
	// parallel columns disagree in length.
	ErrColumnLengthMismatch = errors.New("column length mismatch")

	// ErrMissingWordColumn is returned when an operation that requires
	// exactly one word column is given zero or more than one.
	ErrMissingWordColumn = errors.New("missing or ambiguous word column")

	// ErrEmptyInputList is returned when a k-way operation is given zero
	// lists to intersect.
	ErrEmptyInputList = errors.New("empty input list")

	// ErrFanoutExceeded is returned when a multi-variable aggregation's
	// mixed-radix fan-out would exceed the configured cap.
	ErrFanoutExceeded = errors.New("multi-variable fan-out exceeded")
)

// ColumnLengthMismatchError carries the offending column sizes.
type ColumnLengthMismatchError struct {
	Column   string
	Expected int
	Got      int
}

func (e *ColumnLengthMismatchError) Error() string {
	return fmt.Sprintf("column %q has length %d, expected %d", e.Column, e.Got, e.Expected)
}

func (e *ColumnLengthMismatchError) Is(target error) bool {
	return target == ErrColumnLengthMismatch || target == ErrPreconditionViolation
}

// NewColumnLengthMismatchError creates a new ColumnLengthMismatchError.
func NewColumnLengthMismatchError(column string, expected, got int) *ColumnLengthMismatchError {
	return &ColumnLengthMismatchError{Column: column, Expected: expected, Got: got}
}

// MissingWordColumnError carries the number of word columns actually seen.
type MissingWordColumnError struct {
	Got int
}

func (e *MissingWordColumnError) Error() string {
	return fmt.Sprintf("expected exactly 1 word column, got %d", e.Got)
}

func (e *MissingWordColumnError) Is(target error) bool {
	return target == ErrMissingWordColumn || target == ErrPreconditionViolation
}

// NewMissingWordColumnError creates a new MissingWordColumnError.
func NewMissingWordColumnError(got int) *MissingWordColumnError {
	return &MissingWordColumnError{Got: got}
}

// FanoutExceededError carries the context that triggered the overflow and
// the configured limit it broke.
type FanoutExceededError struct {
	ContextSize int
	NofVars     int
	Limit       int
}

func (e *FanoutExceededError) Error() string {
	return fmt.Sprintf("multi-variable fan-out %d^%d exceeds limit %d", e.ContextSize, e.NofVars, e.Limit)
}

func (e *FanoutExceededError) Is(target error) bool {
	return target == ErrFanoutExceeded || target == ErrPreconditionViolation
}

// NewFanoutExceededError creates a new FanoutExceededError.
func NewFanoutExceededError(contextSize, nofVars, limit int) *FanoutExceededError {
	return &FanoutExceededError{ContextSize: contextSize, NofVars: nofVars, Limit: limit}
}

// EmptyInputListError is returned when a k-way operation is asked to
// intersect fewer than one list, which has no well-defined result.
type EmptyInputListError struct {
	Op string
}

func (e *EmptyInputListError) Error() string {
	return fmt.Sprintf("%s: requires at least one input list, got none", e.Op)
}

func (e *EmptyInputListError) Is(target error) bool {
	return target == ErrEmptyInputList || target == ErrPreconditionViolation
}

// NewEmptyInputListError creates a new EmptyInputListError.
func NewEmptyInputListError(op string) *EmptyInputListError {
	return &EmptyInputListError{Op: op}
}
