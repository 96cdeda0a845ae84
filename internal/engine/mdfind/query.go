package mdfind

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/service/executor"
)

// liveUpdatePrefix starts the line mdfind -live prints whenever the result
// set of a live query changes.
const liveUpdatePrefix = "Query update"

// Query is a compiled mdfind query. It implements mdquery.Query.
type Query struct {
	engine *Engine
	args   []string // -onlyin flags followed by the expression
	limit  int

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	started     bool
	snapshot    map[string]mdquery.Item
	watchCancel context.CancelFunc
}

// Args returns the mdfind arguments after the binary and output flags.
func (q *Query) Args() []string {
	return append([]string(nil), q.args...)
}

// Start runs the query once in the background and reports the result batch
// to callback. A query can be started once; later calls report
// ErrAlreadyStarted, and calls after Stop report ErrQueryStopped.
func (q *Query) Start(callback mdquery.StartCallback) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch {
	case q.ctx.Err() != nil:
		go callback(nil, ErrQueryStopped)
		return
	case q.started:
		go callback(nil, ErrAlreadyStarted)
		return
	}
	q.started = true

	go func() {
		items, err := q.fetch(q.ctx)
		if err != nil {
			if !isStopped(err) {
				q.engine.logger.Warn("query failed", "args", q.args, "err", err)
			}
			callback(nil, err)
			return
		}
		q.mu.Lock()
		q.snapshot = snapshotOf(items)
		q.mu.Unlock()
		callback(items, nil)
	}()
}

// Stop cancels any running fetch and live watch. It is safe to call more
// than once.
func (q *Query) Stop() {
	q.StopWatch()
	q.cancel()
}

// Watch starts a live mdfind process and reports changes to listener until
// StopWatch or Stop. Watching again replaces the previous listener.
func (q *Query) Watch(listener mdquery.UpdateListener) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.watchCancel != nil {
		q.watchCancel()
		q.watchCancel = nil
	}
	if q.ctx.Err() != nil || listener == nil {
		return
	}

	ctx, cancel := context.WithCancel(q.ctx)
	q.watchCancel = cancel
	go q.watchLoop(ctx, listener)
}

// StopWatch ends the live watch, if any. The listener is not invoked after
// StopWatch returns unless a refresh was already delivering events.
func (q *Query) StopWatch() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.watchCancel != nil {
		q.watchCancel()
		q.watchCancel = nil
	}
}

func (q *Query) watchLoop(ctx context.Context, listener mdquery.UpdateListener) {
	e := q.engine
	cmd := append([]string{e.config.Engine.MdfindPath, "-live"}, q.args...)

	// The live process is terminated gracefully below rather than killed
	// through its context.
	proc, stdout, stderr, err := e.executor.Start(context.Background(), cmd, executor.ProcessOptions{})
	if err != nil {
		e.logger.Warn("live query failed to start", "args", q.args, "err", err)
		return
	}
	go func() { _, _ = io.Copy(io.Discard, stderr) }()

	updates := make(chan struct{}, 1)
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if !strings.HasPrefix(scanner.Text(), liveUpdatePrefix) {
				continue
			}
			// Coalesce bursts into a single pending refresh
			select {
			case updates <- struct{}{}:
			default:
			}
		}
		_ = proc.Wait()
	}()

	grace := time.Duration(e.config.Engine.GracefulShutdownMs) * time.Millisecond
	for {
		select {
		case <-ctx.Done():
			executor.Terminate(proc, exited, grace)
			return
		case <-updates:
			q.refresh(ctx, listener)
		case <-exited:
			select {
			case <-updates:
				q.refresh(ctx, listener)
			default:
			}
			e.logger.Debug("live query exited", "args", q.args)
			return
		}
	}
}

// refresh refetches the result set and reports the difference to the last
// snapshot as add, change and remove batches, in that order.
func (q *Query) refresh(ctx context.Context, listener mdquery.UpdateListener) {
	items, err := q.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			q.engine.logger.Warn("live refresh failed", "args", q.args, "err", err)
		}
		return
	}

	q.mu.Lock()
	cs, next := diffSnapshots(q.snapshot, items)
	q.snapshot = next
	q.mu.Unlock()

	emit := func(updateType mdquery.UpdateType, batch []mdquery.Item) {
		if len(batch) == 0 || ctx.Err() != nil {
			return
		}
		listener(updateType, batch)
	}
	emit(mdquery.UpdateAdd, cs.added)
	emit(mdquery.UpdateChange, cs.changed)
	emit(mdquery.UpdateRemove, cs.removed)
}
