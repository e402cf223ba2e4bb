package recipe

import "errors"

// Domain errors for stored recipe records

var (
	// Validation errors
	ErrEmptyPrompt   = errors.New("prompt is required")
	ErrPromptTooLong = errors.New("prompt must not exceed 500 characters")
	ErrMissingOwner  = errors.New("recipe record must have an owner")
	ErrEmptyContent  = errors.New("recipe record must have content")

	// Lookup errors
	ErrRecordNotFound = errors.New("recipe record not found")
)
