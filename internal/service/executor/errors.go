package executor

import (
	"fmt"
)

// CommandError represents generic command execution failures (start, output, wait).
type CommandError struct {
	Cmd    string
	Cause  error
	Stage  string // "start", "read output", "execution"
	Stderr string
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %s failed at %s: %v: %s", e.Cmd, e.Stage, e.Cause, e.Stderr)
	}
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }
