package mdfind

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Cyclone1070/mdq/internal/config"
	"github.com/Cyclone1070/mdq/internal/service/executor"
	"github.com/Cyclone1070/mdq/internal/testing/mocks"
)

const testHome = "/Users/tester"

// mdlsPrefix is the number of mdls arguments before the paths.
var mdlsPrefix = 4 + 2*len(attributeNames)

// fakeIndex answers mdfind and mdls calls from an in-memory result set.
type fakeIndex struct {
	mu       sync.Mutex
	paths    []string
	attrs    map[string][]string
	missing  map[string]bool
	mdlsRuns int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{attrs: make(map[string][]string), missing: make(map[string]bool)}
}

// remove makes mdls fail for path while mdfind still reports it.
func (f *fakeIndex) remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[path] = true
}

// set replaces the result set. Each entry maps a path to its modification
// date in mdls format.
func (f *fakeIndex) set(paths []string, modified map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append([]string(nil), paths...)
	for _, p := range paths {
		values := []string{nullMarker, nullMarker, nullMarker, `"public.data"`, nullMarker, nullMarker}
		if attrs, ok := f.attrs[p]; ok {
			values = attrs
		}
		if m, ok := modified[p]; ok {
			values[attrModified] = m
		}
		f.attrs[p] = values
	}
}

func (f *fakeIndex) setAttrs(path string, values []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attrs[path] = values
}

func (f *fakeIndex) mdfindOutput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b strings.Builder
	for _, p := range f.paths {
		b.WriteString(p)
		b.WriteByte(0)
	}
	return b.String()
}

func (f *fakeIndex) run(_ context.Context, cmd []string) (*executor.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mdlsRuns++
	var fields, stderr []string
	for _, p := range cmd[mdlsPrefix:] {
		if f.missing[p] {
			stderr = append(stderr, p+": could not find "+p+".")
			continue
		}
		fields = append(fields, f.attrs[p]...)
	}
	res := &executor.Result{Stdout: strings.Join(fields, "\x00")}
	if len(stderr) > 0 {
		res.Stderr = strings.Join(stderr, "\n")
		res.ExitCode = 1
		return res, &mocks.MockExitError{Code: 1}
	}
	return res, nil
}

func (f *fakeIndex) runs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mdlsRuns
}

// oneShot returns a StartFunc answering mdfind -0 from the index.
func (f *fakeIndex) oneShot() func(context.Context, []string, executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error) {
	return func(ctx context.Context, cmd []string, opts executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error) {
		return &mocks.MockProcess{}, strings.NewReader(f.mdfindOutput()), strings.NewReader(""), nil
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Engine.GracefulShutdownMs = 50
	return cfg
}

func newTestEngine(t *testing.T, exec *mocks.MockCommandExecutor, stater *mocks.MockStater) *Engine {
	t.Helper()
	if stater == nil {
		stater = &mocks.MockStater{}
	}
	return NewEngine(exec, stater, testConfig(), testHome, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
