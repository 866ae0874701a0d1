package bible

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the reader core.
var (
	// ErrNotFound indicates a verse or chapter is absent from a version.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReference indicates an unknown book or a non-positive chapter or verse.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrRangeInvalid indicates a scripture range that cannot be saved.
	ErrRangeInvalid = errors.New("invalid scripture range")
	// ErrUnknownVersion indicates a version name outside the supported set.
	ErrUnknownVersion = errors.New("unknown version")
)

// NotFoundError represents an absent verse or chapter with context.
type NotFoundError struct {
	Resource string // "verse" or "chapter"
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError reports a single offending input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidReference
}

// RangeErrors collects per-field problems found while validating a range.
type RangeErrors []*ValidationError

func (e RangeErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return "invalid scripture range: " + strings.Join(msgs, "; ")
}

func (e RangeErrors) Unwrap() error {
	return ErrRangeInvalid
}

// Field returns the message recorded for field, if any.
func (e RangeErrors) Field(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}
