package mdquery

// Engine compiles textual query expressions into runnable queries.
type Engine interface {
	NewQuery(expression string, scopes []string, maxResultCount int) (Query, error)
}

// Query is a single compiled query handle owned by the engine.
//
// Start invokes callback exactly once, asynchronously, with the full result
// set. Stop releases the handle and is safe to call multiple times. Watch
// delivers every subsequent add/change/remove event until StopWatch.
type Query interface {
	Start(callback StartCallback)
	Stop()
	Watch(listener UpdateListener)
	StopWatch()
}
