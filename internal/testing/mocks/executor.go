package mocks

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Cyclone1070/mdq/internal/service/executor"
)

// MockCommandExecutor implements the executor interfaces for testing.
// Calls are recorded in Commands.
type MockCommandExecutor struct {
	RunFunc   func(ctx context.Context, cmd []string) (*executor.Result, error)
	StartFunc func(ctx context.Context, command []string, opts executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error)

	mu       sync.Mutex
	Commands [][]string
}

func (m *MockCommandExecutor) record(cmd []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, append([]string(nil), cmd...))
}

// Recorded returns a copy of every command seen so far.
func (m *MockCommandExecutor) Recorded() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.Commands...)
}

func (m *MockCommandExecutor) Run(ctx context.Context, cmd []string, dir string, env []string) (*executor.Result, error) {
	m.record(cmd)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, cmd)
	}
	return &executor.Result{}, nil
}

func (m *MockCommandExecutor) Start(ctx context.Context, command []string, opts executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error) {
	m.record(command)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, command, opts)
	}
	return nil, nil, nil, fmt.Errorf("not implemented")
}

// MockExitError simulates an exit error with a specific exit code
type MockExitError struct {
	Code int
}

func (e *MockExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *MockExitError) ExitCode() int {
	return e.Code
}

// MockProcess implements executor.Process for testing
type MockProcess struct {
	WaitFunc   func() error
	KillFunc   func() error
	SignalFunc func(sig os.Signal) error
}

func (p *MockProcess) Wait() error {
	if p.WaitFunc != nil {
		return p.WaitFunc()
	}
	return nil
}

func (p *MockProcess) Kill() error {
	if p.KillFunc != nil {
		return p.KillFunc()
	}
	return nil
}

func (p *MockProcess) Signal(sig os.Signal) error {
	if p.SignalFunc != nil {
		return p.SignalFunc(sig)
	}
	return nil
}

// MockFileInfo implements os.FileInfo
type MockFileInfo struct {
	NameVal  string
	SizeVal  int64
	ModeVal  os.FileMode
	IsDirVal bool
}

func (f *MockFileInfo) Name() string       { return f.NameVal }
func (f *MockFileInfo) Size() int64        { return f.SizeVal }
func (f *MockFileInfo) Mode() os.FileMode  { return f.ModeVal }
func (f *MockFileInfo) ModTime() time.Time { return time.Time{} }
func (f *MockFileInfo) IsDir() bool        { return f.IsDirVal }
func (f *MockFileInfo) Sys() any           { return nil }

// MockStater implements Stat over a fixed set of paths.
type MockStater struct {
	Dirs  map[string]bool
	Files map[string]bool
}

func (s *MockStater) Stat(path string) (os.FileInfo, error) {
	if s.Dirs[path] {
		return &MockFileInfo{NameVal: path, IsDirVal: true}, nil
	}
	if s.Files[path] {
		return &MockFileInfo{NameVal: path}, nil
	}
	return nil, os.ErrNotExist
}
