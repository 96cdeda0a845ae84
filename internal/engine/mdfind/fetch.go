package mdfind

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/service/executor"
)

// fetch runs the query once and resolves attributes for every matched path.
func (q *Query) fetch(ctx context.Context) ([]mdquery.Item, error) {
	paths, err := q.fetchPaths(ctx)
	if err != nil {
		return nil, err
	}
	return q.engine.resolve(ctx, paths)
}

// fetchPaths streams NUL separated paths from mdfind, stopping early once the
// query's limit is reached.
func (q *Query) fetchPaths(ctx context.Context) ([]string, error) {
	e := q.engine
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := append([]string{e.config.Engine.MdfindPath, "-0"}, q.args...)
	proc, stdout, stderr, err := e.executor.Start(fetchCtx, cmd, executor.ProcessOptions{})
	if err != nil {
		return nil, &executor.CommandError{Cmd: "mdfind", Cause: err, Stage: "start"}
	}

	var stderrBuf strings.Builder
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&stderrBuf, io.LimitReader(stderr, 4096))
		_, _ = io.Copy(io.Discard, stderr)
	}()

	var paths []string
	limitReached := false
	scanner := bufio.NewScanner(stdout)
	scanner.Split(scanNul)
	for scanner.Scan() {
		// NUL separated paths are exact, spaces included
		path := scanner.Text()
		if path == "" {
			continue
		}
		paths = append(paths, path)
		if len(paths) >= q.limit {
			limitReached = true
			break
		}
	}
	scanErr := scanner.Err()

	if limitReached {
		// mdfind has no limit flag of its own
		cancel()
	}
	wg.Wait()
	waitErr := proc.Wait()

	if ctx.Err() != nil {
		return nil, ErrQueryStopped
	}
	if scanErr != nil && !limitReached {
		return nil, &executor.CommandError{Cmd: "mdfind", Cause: scanErr, Stage: "read output"}
	}
	if waitErr != nil && !limitReached {
		return nil, &executor.CommandError{
			Cmd:    "mdfind",
			Cause:  waitErr,
			Stage:  "execution",
			Stderr: strings.TrimSpace(stderrBuf.String()),
		}
	}

	e.logger.Debug("mdfind finished", "count", len(paths), "limit_reached", limitReached)
	return paths, nil
}

// scanNul is a bufio.SplitFunc for NUL terminated records.
func scanNul(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func isStopped(err error) bool {
	return errors.Is(err, ErrQueryStopped) || errors.Is(err, context.Canceled)
}
