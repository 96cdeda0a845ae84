package savedsearch

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument  = errors.New("search document has no predicates")
	ErrUnknownTimeKey = errors.New("unknown time attribute")
	ErrBadComparison  = errors.New("comparison must look like <op><number>")
)

// DecodeError is returned when a document does not match the expected shape.
type DecodeError struct {
	Source string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid search document: %v", e.Cause)
	}
	return fmt.Sprintf("invalid search document %s: %v", e.Source, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func (e *DecodeError) InvalidInput() bool { return true }

// FieldError reports an invalid value in a decoded document.
type FieldError struct {
	Field string
	Value string
	Cause error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: invalid value %q: %v", e.Field, e.Value, e.Cause)
}

func (e *FieldError) Unwrap() error { return e.Cause }

func (e *FieldError) InvalidInput() bool { return true }
