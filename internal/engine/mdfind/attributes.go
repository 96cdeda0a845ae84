package mdfind

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/service/executor"
	"github.com/panjf2000/ants/v2"
)

// attributeNames are requested from mdls in alphabetical order, which is the
// order mdls prints them in.
var attributeNames = []string{
	"kMDItemCFBundleIdentifier",
	"kMDItemContentCreationDate",
	"kMDItemContentModificationDate",
	"kMDItemContentType",
	"kMDItemLastUsedDate",
	"kMDItemVersion",
}

const (
	attrBundleID = iota
	attrCreated
	attrModified
	attrContentType
	attrLastUsed
	attrVersion
)

const (
	nullMarker     = "(null)"
	mdlsDateLayout = "2006-01-02 15:04:05 -0700"
	folderType     = "public.folder"
)

// resolve reads the metadata of every path. Batches of paths are handed to
// mdls concurrently on a bounded worker pool; result order follows paths.
// Paths mdls cannot read are dropped from the result.
func (e *Engine) resolve(ctx context.Context, paths []string) ([]mdquery.Item, error) {
	if len(paths) == 0 {
		return []mdquery.Item{}, nil
	}

	pool, err := ants.NewPool(e.config.Engine.AttributeWorkers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	batchSize := max(e.config.Engine.AttributeBatchSize, 1)
	batches := make([][]mdquery.Item, (len(paths)+batchSize-1)/batchSize)
	for i := range batches {
		start := i * batchSize
		index, batch := i, paths[start:min(start+batchSize, len(paths))]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				fail(ErrQueryStopped)
				return
			}
			resolved, err := e.resolveBatch(ctx, batch)
			if err != nil {
				fail(err)
				return
			}
			batches[index] = resolved
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	items := make([]mdquery.Item, 0, len(paths))
	for _, batch := range batches {
		items = append(items, batch...)
	}
	return items, nil
}

// resolveBatch reads a batch with one mdls call. When mdls exits with an
// error the batch is retried path by path and unreadable paths are skipped.
func (e *Engine) resolveBatch(ctx context.Context, paths []string) ([]mdquery.Item, error) {
	items, err := e.readAttributes(ctx, paths)
	if err == nil || !exitedWithError(err) {
		return items, err
	}
	if len(paths) == 1 {
		e.logger.Debug("skipping unreadable path", "path", paths[0], "err", err)
		return nil, nil
	}

	items = make([]mdquery.Item, 0, len(paths))
	for _, path := range paths {
		resolved, err := e.readAttributes(ctx, []string{path})
		switch {
		case err == nil:
			items = append(items, resolved...)
		case exitedWithError(err):
			e.logger.Debug("skipping unreadable path", "path", path, "err", err)
		default:
			return nil, err
		}
	}
	return items, nil
}

// readAttributes runs one mdls invocation for a batch of paths.
func (e *Engine) readAttributes(ctx context.Context, paths []string) ([]mdquery.Item, error) {
	cmd := []string{e.config.Engine.MdlsPath, "-raw", "-nullMarker", nullMarker}
	for _, name := range attributeNames {
		cmd = append(cmd, "-name", name)
	}
	cmd = append(cmd, paths...)

	res, err := e.executor.Run(ctx, cmd, "", nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrQueryStopped
		}
		var cmdErr *executor.CommandError
		if errors.As(err, &cmdErr) || res == nil {
			// mdls could not be run at all
			return nil, err
		}
		return nil, &executor.CommandError{
			Cmd:    "mdls",
			Cause:  err,
			Stage:  "execution",
			Stderr: strings.TrimSpace(res.Stderr),
		}
	}
	if res.Truncated {
		return nil, &AttributeParseError{Paths: len(paths), Reason: "output truncated"}
	}

	fields := strings.Split(res.Stdout, "\x00")
	want := len(paths) * len(attributeNames)
	if len(fields) == want+1 && strings.TrimSpace(fields[want]) == "" {
		fields = fields[:want]
	}
	if len(fields) != want {
		return nil, &AttributeParseError{Paths: len(paths), Fields: len(fields), Reason: "field count mismatch"}
	}

	items := make([]mdquery.Item, len(paths))
	for i, path := range paths {
		values := fields[i*len(attributeNames) : (i+1)*len(attributeNames)]
		items[i] = e.buildItem(path, values)
	}
	return items, nil
}

// exitedWithError reports whether mdls ran but exited with a failure status,
// which it does when one of its paths no longer exists.
func exitedWithError(err error) bool {
	var cmdErr *executor.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Stage == "execution"
}

func (e *Engine) buildItem(path string, values []string) mdquery.Item {
	item := mdquery.Item{
		Path:             path,
		Extension:        strings.TrimPrefix(filepath.Ext(path), "."),
		BundleIdentifier: attrString(values[attrBundleID]),
		Version:          attrString(values[attrVersion]),
	}
	if t, ok := parseDate(values[attrCreated]); ok {
		item.CreateTime = t
	}
	if t, ok := parseDate(values[attrModified]); ok {
		item.LastModifyTime = t
	}
	if t, ok := parseDate(values[attrLastUsed]); ok {
		item.LastUsedTime = &t
	}

	if info, err := e.fs.Stat(path); err == nil {
		item.IsDir = info.IsDir()
	} else {
		item.IsDir = attrString(values[attrContentType]) == folderType
	}
	return item
}

func attrString(v string) string {
	v = strings.TrimSpace(v)
	if v == nullMarker {
		return ""
	}
	return strings.Trim(v, `"`)
}

func parseDate(v string) (int64, bool) {
	v = attrString(v)
	if v == "" {
		return 0, false
	}
	t, err := time.Parse(mdlsDateLayout, v)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}
