package mocks

import (
	"sync"

	"github.com/Cyclone1070/mdq/internal/mdquery"
)

// MockEngine implements mdquery.Engine with canned results.
type MockEngine struct {
	Mu sync.Mutex

	Items      []mdquery.Item // Delivered by every query's Start
	NewErr     error          // Returned from NewQuery
	StartErr   error          // Delivered to the Start callback
	HoldStarts bool           // Start waits for MockQuery.Release before answering

	Queries []*MockQuery
}

// NewMockEngine creates an engine that answers every query with items.
func NewMockEngine(items ...mdquery.Item) *MockEngine {
	return &MockEngine{Items: items}
}

func (e *MockEngine) NewQuery(expression string, scopes []string, maxResultCount int) (mdquery.Query, error) {
	e.Mu.Lock()
	defer e.Mu.Unlock()

	if e.NewErr != nil {
		return nil, e.NewErr
	}
	q := &MockQuery{
		Expression:     expression,
		Scopes:         append([]string(nil), scopes...),
		MaxResultCount: maxResultCount,
		items:          cloneItems(e.Items),
		startErr:       e.StartErr,
	}
	if e.HoldStarts {
		q.release = make(chan struct{})
	}
	e.Queries = append(e.Queries, q)
	return q, nil
}

// LastQuery returns the most recently created query, or nil.
func (e *MockEngine) LastQuery() *MockQuery {
	e.Mu.Lock()
	defer e.Mu.Unlock()
	if len(e.Queries) == 0 {
		return nil
	}
	return e.Queries[len(e.Queries)-1]
}

// MockQuery implements mdquery.Query and records how it was driven.
type MockQuery struct {
	Expression     string
	Scopes         []string
	MaxResultCount int

	items    []mdquery.Item
	startErr error
	release  chan struct{}

	mu             sync.Mutex
	startCalls     int
	stopCalls      int
	watchCalls     int
	stopWatchCalls int
	listener       mdquery.UpdateListener
}

func (q *MockQuery) Start(callback mdquery.StartCallback) {
	q.mu.Lock()
	q.startCalls++
	q.mu.Unlock()

	go func() {
		if q.release != nil {
			<-q.release
		}
		callback(cloneItems(q.items), q.startErr)
	}()
}

func (q *MockQuery) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopCalls++
	q.listener = nil
}

func (q *MockQuery) Watch(listener mdquery.UpdateListener) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.watchCalls++
	q.listener = listener
}

func (q *MockQuery) StopWatch() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopWatchCalls++
	q.listener = nil
}

// Release lets a held Start deliver its result.
func (q *MockQuery) Release() {
	if q.release != nil {
		close(q.release)
	}
}

// Emit delivers an update to the attached listener. It reports whether a
// listener was attached.
func (q *MockQuery) Emit(updateType mdquery.UpdateType, items []mdquery.Item) bool {
	q.mu.Lock()
	listener := q.listener
	q.mu.Unlock()
	if listener == nil {
		return false
	}
	listener(updateType, items)
	return true
}

// Watching reports whether a listener is attached.
func (q *MockQuery) Watching() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.listener != nil
}

// Calls returns how often Start, Stop, Watch and StopWatch were called.
func (q *MockQuery) Calls() (start, stop, watch, stopWatch int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.startCalls, q.stopCalls, q.watchCalls, q.stopWatchCalls
}

func cloneItems(items []mdquery.Item) []mdquery.Item {
	if items == nil {
		return nil
	}
	out := make([]mdquery.Item, len(items))
	copy(out, items)
	return out
}
