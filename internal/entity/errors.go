package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// External service errors
	ErrConnection        = errors.New("external service unreachable")
	ErrServiceResponse   = errors.New("external service returned an error")
	ErrMalformedResponse = errors.New("malformed external response")
	ErrEmptyCompletion   = errors.New("completion service returned empty text")

	// Pipeline errors
	ErrPromptTooLarge   = errors.New("prompt exceeds model input size")
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrEmptyQuestion    = errors.New("question is empty")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Document errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrEmptyDocument    = errors.New("document has no extractable text")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// TurnError reports the pipeline stage at which a turn failed.
type TurnError struct {
	Stage TurnState
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn failed while %s: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}
