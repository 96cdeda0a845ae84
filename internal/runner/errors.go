package runner

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownComparator = errors.New("unknown comparator")
	ErrEngineRequired    = errors.New("runner has no search engine")
)

// CatalogError reports use of a key the attribute or comparator catalog does
// not contain. It is raised as a panic value: it indicates a programming error,
// not a recoverable condition.
type CatalogError struct {
	Kind string // "comparator" or "time key"
	Key  string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Key)
}

// EngineError wraps a failure reported by the search engine while creating or
// starting a query.
type EngineError struct {
	Expression string
	Stage      string // "create" or "start"
	Cause      error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("query %s failed at %s: %v", e.Expression, e.Stage, e.Cause)
}

func (e *EngineError) Unwrap() error { return e.Cause }
