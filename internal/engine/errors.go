package engine

import (
	"errors"
	"fmt"
)

// SearchError reports a search that could not be started.
//
// Conditions met during the search (dead ends, the reject state, running
// out of budget) are never errors; they are recorded on the Result.
type SearchError struct {
	// Code identifies the error category.
	Code SearchErrorCode

	// Message is a human-readable description.
	Message string
}

// SearchErrorCode categorizes search errors.
type SearchErrorCode string

const (
	// ErrCodeInvalidBudget indicates a step budget below 1.
	ErrCodeInvalidBudget SearchErrorCode = "INVALID_BUDGET"

	// ErrCodeNoMachine indicates the engine was built without a machine.
	ErrCodeNoMachine SearchErrorCode = "NO_MACHINE"
)

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidBudget returns true if err rejects the step budget.
// Uses errors.As to handle wrapped errors.
func IsInvalidBudget(err error) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidBudget
	}
	return false
}

// NewInvalidBudgetError creates a SearchError for a budget below 1.
func NewInvalidBudgetError(maxSteps int) *SearchError {
	return &SearchError{
		Code:    ErrCodeInvalidBudget,
		Message: fmt.Sprintf("max steps must be at least 1, got %d", maxSteps),
	}
}
