package machine

import (
	"errors"
	"fmt"
)

// DefinitionError reports a structural problem in a machine definition.
// It is always fatal: the transition table cannot be built.
type DefinitionError struct {
	// Code identifies the error category.
	Code DefinitionErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the definition file, when known.
	Path string

	// Line is the 1-based line of the offending record, or 0 if unknown.
	Line int
}

// DefinitionErrorCode categorizes definition errors.
type DefinitionErrorCode string

const (
	// ErrCodeMalformedTransition indicates a record with neither 3 nor 5 fields.
	ErrCodeMalformedTransition DefinitionErrorCode = "MALFORMED_TRANSITION"

	// ErrCodeMissingHeader indicates the file ended before all header lines.
	ErrCodeMissingHeader DefinitionErrorCode = "MISSING_HEADER"

	// ErrCodeInvalidSymbol indicates a symbol field that is not one character.
	ErrCodeInvalidSymbol DefinitionErrorCode = "INVALID_SYMBOL"

	// ErrCodeInvalidDirection indicates a direction other than L or R.
	ErrCodeInvalidDirection DefinitionErrorCode = "INVALID_DIRECTION"

	// ErrCodeCUE indicates the CUE source failed to compile or decode.
	ErrCodeCUE DefinitionErrorCode = "CUE_ERROR"
)

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsMalformedDefinition returns true if err is a DefinitionError.
// Uses errors.As to handle wrapped errors.
func IsMalformedDefinition(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}

// HasCode returns true if err is a DefinitionError with the given code.
func HasCode(err error, code DefinitionErrorCode) bool {
	var de *DefinitionError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
