package mdquery

import (
	"context"
	"errors"
)

// ErrQueryRequired is returned when Search is called without an expression.
var ErrQueryRequired = errors.New("query expression is required")

// SearchOptions describes a raw one-shot search.
type SearchOptions struct {
	Query          string
	Scopes         []string // Default: [ScopeHome]
	MaxResultCount int      // Default: ResultCountNoLimit
}

// Search runs a raw query expression once and returns the engine's result
// batch. The query handle is released before returning.
func Search(ctx context.Context, engine Engine, opts SearchOptions) ([]Item, error) {
	if opts.Query == "" {
		return nil, ErrQueryRequired
	}
	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = []string{ScopeHome}
	}

	q, err := engine.NewQuery(opts.Query, scopes, opts.MaxResultCount)
	if err != nil {
		return nil, err
	}
	defer q.Stop()

	type result struct {
		items []Item
		err   error
	}
	done := make(chan result, 1)
	q.Start(func(items []Item, err error) {
		select {
		case done <- result{items: items, err: err}:
		default:
		}
	})

	select {
	case r := <-done:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
