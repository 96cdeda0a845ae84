package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/google/uuid"
)

// RunOptions controls where a query searches and how many results it returns.
type RunOptions struct {
	Scopes         []string
	MaxResultCount int
}

// DefaultRunOptions searches the home directory without a result limit.
func DefaultRunOptions() *RunOptions {
	return &RunOptions{
		Scopes:         []string{mdquery.ScopeHome},
		MaxResultCount: mdquery.ResultCountNoLimit,
	}
}

// State is the lifecycle state of a runner's session.
type State int

const (
	Idle State = iota
	Running
	Watching
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Watching:
		return "watching"
	default:
		return "idle"
	}
}

type startResult struct {
	items []mdquery.Item
	err   error
}

// Run executes the current expression once and returns the normalized result
// batch. Any previous session is released first. A listener registered with
// Watch is re-attached to the new session after the result arrives.
//
// Engine failures are returned as *EngineError. If ctx is done before the
// engine answers, the session is released and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context, opts *RunOptions) ([]mdquery.Item, error) {
	if opts == nil {
		opts = DefaultRunOptions()
	}
	if r.engine == nil {
		return nil, ErrEngineRequired
	}
	expression := r.Expression()

	r.mu.Lock()
	r.releaseLocked()
	q, err := r.engine.NewQuery(expression, opts.Scopes, opts.MaxResultCount)
	if err != nil {
		r.mu.Unlock()
		r.log().Warn("query create failed", "expression", expression, "err", err)
		return nil, &EngineError{Expression: expression, Stage: "create", Cause: err}
	}
	sessionID := uuid.NewString()
	r.query = q
	r.sessionID = sessionID
	r.running = true
	r.mu.Unlock()

	log := r.log().With("session", sessionID)
	log.Debug("query started", "expression", expression, "scopes", opts.Scopes, "max", opts.MaxResultCount)
	started := time.Now()

	done := make(chan startResult, 1)
	q.Start(func(items []mdquery.Item, err error) {
		select {
		case done <- startResult{items: items, err: err}:
		default:
		}
	})

	var res startResult
	select {
	case res = <-done:
	case <-ctx.Done():
		r.mu.Lock()
		if r.query == q {
			r.releaseLocked()
		}
		r.mu.Unlock()
		log.Debug("query abandoned", "err", ctx.Err())
		return nil, ctx.Err()
	}

	r.mu.Lock()
	current := r.query == q
	if current {
		r.running = false
		switch {
		case res.err != nil:
			r.releaseLocked()
		case r.listener != nil:
			q.Watch(r.listener)
		}
	}
	r.mu.Unlock()

	if res.err != nil {
		log.Warn("query failed", "err", res.err)
		return nil, &EngineError{Expression: expression, Stage: "start", Cause: res.err}
	}

	NormalizeItems(res.items)
	log.Debug("query finished", "count", len(res.items), "duration_ms", time.Since(started).Milliseconds())
	return res.items, nil
}

// Watch registers listener for live updates. It is attached to the current
// session immediately and to every session created by later runs.
func (r *Runner) Watch(listener mdquery.UpdateListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = listener
	if r.query != nil {
		r.query.Watch(listener)
	}
}

// StopWatch detaches and forgets the listener. The session itself stays open.
func (r *Runner) StopWatch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.query != nil {
		r.query.StopWatch()
	}
	r.listener = nil
}

// Stop releases the current session. It is safe to call without a session.
// A registered listener is kept and re-attached by the next Run.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

// State reports the session state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.query == nil:
		return Idle
	case r.running:
		return Running
	case r.listener != nil:
		return Watching
	default:
		return Idle
	}
}

// releaseLocked detaches the listener from the current session before
// stopping it. Callers must hold r.mu.
func (r *Runner) releaseLocked() {
	if r.query == nil {
		return
	}
	if r.listener != nil {
		r.query.StopWatch()
	}
	r.query.Stop()
	r.log().Debug("query released", "session", r.sessionID)
	r.query = nil
	r.sessionID = ""
	r.running = false
}

func (r *Runner) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
