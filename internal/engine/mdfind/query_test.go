package mdfind

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/service/executor"
	"github.com/Cyclone1070/mdq/internal/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startResult struct {
	items []mdquery.Item
	err   error
}

func startAndWait(t *testing.T, q mdquery.Query) ([]mdquery.Item, error) {
	t.Helper()
	done := make(chan startResult, 1)
	q.Start(func(items []mdquery.Item, err error) {
		done <- startResult{items, err}
	})
	select {
	case r := <-done:
		return r.items, r.err
	case <-time.After(2 * time.Second):
		t.Fatal("start callback was not invoked")
		return nil, nil
	}
}

func TestStart_ResolvesItems(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/Users/tester/Report.pdf", "/Applications/Notes.app"}, nil)
	index.setAttrs("/Users/tester/Report.pdf", []string{
		nullMarker,
		"2024-01-02 03:04:05 +0000",
		"2024-02-03 04:05:06 +0000",
		`"com.adobe.pdf"`,
		"2024-03-04 05:06:07 +0000",
		nullMarker,
	})
	index.setAttrs("/Applications/Notes.app", []string{
		`"com.apple.Notes"`,
		nullMarker,
		nullMarker,
		`"com.apple.application-bundle"`,
		nullMarker,
		`"4.11"`,
	})

	exec := &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}
	stater := &mocks.MockStater{Dirs: map[string]bool{"/Applications/Notes.app": true}}
	e := newTestEngine(t, exec, stater)

	q, err := e.NewQuery(`kMDItemFSName == "*"`, []string{mdquery.ScopeComputer}, 0)
	require.NoError(t, err)
	items, err := startAndWait(t, q)
	require.NoError(t, err)
	require.Len(t, items, 2)

	used := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC).Unix()
	assert.Equal(t, mdquery.Item{
		Path:           "/Users/tester/Report.pdf",
		Extension:      "pdf",
		CreateTime:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Unix(),
		LastModifyTime: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC).Unix(),
		LastUsedTime:   &used,
	}, items[0])
	assert.Equal(t, mdquery.Item{
		IsDir:            true,
		Path:             "/Applications/Notes.app",
		Extension:        "app",
		BundleIdentifier: "com.apple.Notes",
		Version:          "4.11",
	}, items[1])

	cmds := exec.Recorded()
	require.GreaterOrEqual(t, len(cmds), 2)
	assert.Equal(t, []string{"mdfind", "-0", `kMDItemFSName == "*"`}, cmds[0])
	assert.Equal(t, []string{"mdls", "-raw", "-nullMarker", nullMarker}, cmds[1][:4])
}

func TestStart_DirectoryFromContentType(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/Volumes/Gone/Folder"}, nil)
	index.setAttrs("/Volumes/Gone/Folder", []string{nullMarker, nullMarker, nullMarker, `"public.folder"`, nullMarker, nullMarker})

	e := newTestEngine(t, &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}, nil)
	q, err := e.NewQuery("q", []string{"/Volumes/Gone"}, 0)
	require.NoError(t, err)

	items, err := startAndWait(t, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsDir)
	assert.Equal(t, "", items[0].Extension)
}

func TestStart_StopsAtLimit(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/a", "/b", "/c"}, nil)
	exec := &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", []string{mdquery.ScopeComputer}, 2)
	require.NoError(t, err)
	items, err := startAndWait(t, q)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "/a", items[0].Path)
	assert.Equal(t, "/b", items[1].Path)

	cmds := exec.Recorded()
	assert.Equal(t, []string{"/a", "/b"}, cmds[len(cmds)-1][mdlsPrefix:])
}

func TestStart_BatchesPreserveOrder(t *testing.T) {
	index := newFakeIndex()
	paths := []string{"/1", "/2", "/3", "/4", "/5"}
	index.set(paths, nil)
	exec := &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}
	e := newTestEngine(t, exec, nil)
	e.config.Engine.AttributeBatchSize = 2
	e.config.Engine.AttributeWorkers = 2

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	items, err := startAndWait(t, q)
	require.NoError(t, err)

	var got []string
	for _, item := range items {
		got = append(got, item.Path)
	}
	assert.Equal(t, paths, got)
	assert.Equal(t, 3, index.runs())
}

func TestStart_EmptyResult(t *testing.T) {
	index := newFakeIndex()
	exec := &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	items, err := startAndWait(t, q)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, index.runs())
}

func TestStart_MdfindFailure(t *testing.T) {
	exec := &mocks.MockCommandExecutor{
		StartFunc: func(ctx context.Context, cmd []string, opts executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error) {
			proc := &mocks.MockProcess{WaitFunc: func() error { return &mocks.MockExitError{Code: 1} }}
			return proc, strings.NewReader(""), strings.NewReader("Failed to create query\n"), nil
		},
	}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("bad ==", nil, 0)
	require.NoError(t, err)
	_, err = startAndWait(t, q)

	var cmdErr *executor.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "mdfind", cmdErr.Cmd)
	assert.Equal(t, "execution", cmdErr.Stage)
	assert.Equal(t, "Failed to create query", cmdErr.Stderr)
}

func TestStart_MdfindStartFailure(t *testing.T) {
	exec := &mocks.MockCommandExecutor{}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	_, err = startAndWait(t, q)

	var cmdErr *executor.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "start", cmdErr.Stage)
}

func TestStart_MdlsOutputMismatch(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/a"}, nil)
	exec := &mocks.MockCommandExecutor{
		StartFunc: index.oneShot(),
		RunFunc: func(ctx context.Context, cmd []string) (*executor.Result, error) {
			return &executor.Result{Stdout: "only\x00two"}, nil
		},
	}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	_, err = startAndWait(t, q)

	var parseErr *AttributeParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Paths)
	assert.Equal(t, 2, parseErr.Fields)
}

func TestStart_MdlsFailure(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/a"}, nil)
	exec := &mocks.MockCommandExecutor{
		StartFunc: index.oneShot(),
		RunFunc: func(ctx context.Context, cmd []string) (*executor.Result, error) {
			return nil, &executor.CommandError{Cmd: "mdls", Cause: os.ErrNotExist, Stage: "start"}
		},
	}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	_, err = startAndWait(t, q)

	var cmdErr *executor.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "mdls", cmdErr.Cmd)
	assert.Equal(t, "start", cmdErr.Stage)
}

func TestStart_SkipsVanishedPaths(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		wantRuns  int
	}{
		{"SharedBatch", 64, 4},
		{"OnePathPerBatch", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := newFakeIndex()
			index.set([]string{"/a.txt", "/gone.tmp", "/b.txt"}, nil)
			index.remove("/gone.tmp")
			exec := &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}
			e := newTestEngine(t, exec, nil)
			e.config.Engine.AttributeBatchSize = tt.batchSize

			q, err := e.NewQuery("q", nil, 0)
			require.NoError(t, err)
			items, err := startAndWait(t, q)

			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "/a.txt", items[0].Path)
			assert.Equal(t, "/b.txt", items[1].Path)
			assert.Equal(t, tt.wantRuns, index.runs())
		})
	}
}

func TestStart_KeepsSpacesInPaths(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/Users/tester/notes.txt ", " /Users/tester/draft.md"}, nil)
	exec := &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	items, err := startAndWait(t, q)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "/Users/tester/notes.txt ", items[0].Path)
	assert.Equal(t, " /Users/tester/draft.md", items[1].Path)
}

func TestStart_Lifecycle(t *testing.T) {
	index := newFakeIndex()
	exec := &mocks.MockCommandExecutor{RunFunc: index.run, StartFunc: index.oneShot()}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	_, err = startAndWait(t, q)
	require.NoError(t, err)

	_, err = startAndWait(t, q)
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	q.Stop()
	q.Stop()
	_, err = startAndWait(t, q)
	assert.ErrorIs(t, err, ErrQueryStopped)
}

// livePipe is a fake mdfind -live process whose output the test controls.
type livePipe struct {
	r *io.PipeReader
	w *io.PipeWriter

	mu       sync.Mutex
	signaled bool
}

func newLivePipe() *livePipe {
	r, w := io.Pipe()
	return &livePipe{r: r, w: w}
}

func (p *livePipe) update(t *testing.T) {
	t.Helper()
	_, err := io.WriteString(p.w, "Query update: 1 matches\n")
	require.NoError(t, err)
}

func (p *livePipe) wasSignaled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signaled
}

type event struct {
	updateType mdquery.UpdateType
	paths      []string
}

func TestWatch_EmitsChanges(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/a", "/b"}, map[string]string{"/b": "2024-01-01 00:00:00 +0000"})

	live := newLivePipe()
	exec := &mocks.MockCommandExecutor{RunFunc: index.run}
	exec.StartFunc = func(ctx context.Context, cmd []string, opts executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error) {
		if cmd[1] == "-live" {
			proc := &mocks.MockProcess{
				SignalFunc: func(sig os.Signal) error {
					live.mu.Lock()
					live.signaled = true
					live.mu.Unlock()
					return live.w.Close()
				},
			}
			return proc, live.r, strings.NewReader(""), nil
		}
		return index.oneShot()(ctx, cmd, opts)
	}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	_, err = startAndWait(t, q)
	require.NoError(t, err)

	events := make(chan event, 8)
	q.Watch(func(updateType mdquery.UpdateType, items []mdquery.Item) {
		var paths []string
		for _, item := range items {
			paths = append(paths, item.Path)
		}
		events <- event{updateType, paths}
	})

	index.set([]string{"/b", "/c"}, map[string]string{"/b": "2024-06-01 00:00:00 +0000"})
	live.update(t)

	want := []event{
		{mdquery.UpdateAdd, []string{"/c"}},
		{mdquery.UpdateChange, []string{"/b"}},
		{mdquery.UpdateRemove, []string{"/a"}},
	}
	for _, w := range want {
		select {
		case got := <-events:
			assert.Equal(t, w, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("missing %s event", w.updateType)
		}
	}

	cmds := exec.Recorded()
	var liveCmd []string
	for _, cmd := range cmds {
		if cmd[1] == "-live" {
			liveCmd = cmd
		}
	}
	assert.Equal(t, []string{"mdfind", "-live", "-onlyin", testHome, "q"}, liveCmd)

	q.Stop()
	assert.Eventually(t, live.wasSignaled, time.Second, 5*time.Millisecond)
}

func TestWatch_NoEventsWithoutChanges(t *testing.T) {
	index := newFakeIndex()
	index.set([]string{"/a"}, nil)

	live := newLivePipe()
	exec := &mocks.MockCommandExecutor{RunFunc: index.run}
	exec.StartFunc = func(ctx context.Context, cmd []string, opts executor.ProcessOptions) (executor.Process, io.Reader, io.Reader, error) {
		if cmd[1] == "-live" {
			proc := &mocks.MockProcess{SignalFunc: func(os.Signal) error { return live.w.Close() }}
			return proc, live.r, strings.NewReader(""), nil
		}
		return index.oneShot()(ctx, cmd, opts)
	}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	_, err = startAndWait(t, q)
	require.NoError(t, err)

	var mu sync.Mutex
	calls := 0
	q.Watch(func(mdquery.UpdateType, []mdquery.Item) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	live.update(t)

	// The refresh reruns mdls once for the unchanged result set
	assert.Eventually(t, func() bool { return index.runs() == 2 }, time.Second, 5*time.Millisecond)
	q.StopWatch()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestWatch_AfterStop(t *testing.T) {
	exec := &mocks.MockCommandExecutor{}
	e := newTestEngine(t, exec, nil)

	q, err := e.NewQuery("q", nil, 0)
	require.NoError(t, err)
	q.Stop()
	q.Watch(func(mdquery.UpdateType, []mdquery.Item) {})

	assert.Empty(t, exec.Recorded())
}

func TestIsStopped(t *testing.T) {
	assert.True(t, isStopped(ErrQueryStopped))
	assert.True(t, isStopped(context.Canceled))
	assert.False(t, isStopped(errors.New("other")))
}
