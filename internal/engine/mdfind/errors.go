package mdfind

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrEmptyExpression = errors.New("query expression is empty")
	ErrNegativeLimit   = errors.New("max result count cannot be negative")
	ErrQueryStopped    = errors.New("query was stopped")
	ErrAlreadyStarted  = errors.New("query already started")
	ErrHomeUnknown     = errors.New("home directory is unknown")
)

// UnsupportedScopeError is returned for scopes mdfind cannot search.
type UnsupportedScopeError struct {
	Scope string
}

func (e *UnsupportedScopeError) Error() string {
	return fmt.Sprintf("unsupported search scope: %s", e.Scope)
}

func (e *UnsupportedScopeError) InvalidInput() bool {
	return true
}

// AttributeParseError is returned when mdls output does not line up with the
// requested paths and attribute names.
type AttributeParseError struct {
	Paths  int
	Fields int
	Reason string
}

func (e *AttributeParseError) Error() string {
	return fmt.Sprintf("cannot parse mdls output for %d paths (%d fields): %s", e.Paths, e.Fields, e.Reason)
}
