// Package ignore filters search results with gitignore-style exclusion
// patterns.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ReadError is returned when an ignore file exists but cannot be read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read ignore file at %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

// fileSystem defines the filesystem operations needed to load an ignore file.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem implements fileSystem using the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSFileSystem) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }

// Matcher matches absolute result paths against gitignore patterns. A
// pattern with a leading slash is anchored at the filesystem root.
type Matcher struct {
	matcher gitignore.Matcher
	count   int
}

// NewMatcher compiles patterns. Blank lines and # comments are skipped.
// A matcher without patterns never excludes anything.
func NewMatcher(patterns []string) *Matcher {
	var compiled []gitignore.Pattern
	for _, line := range patterns {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		compiled = append(compiled, gitignore.ParsePattern(line, nil))
	}
	if len(compiled) == 0 {
		return &Matcher{}
	}
	return &Matcher{matcher: gitignore.NewMatcher(compiled), count: len(compiled)}
}

// LoadMatcher reads patterns from the ignore file at path, followed by extra.
// Later patterns win, so extra can re-include what the file excludes.
// A missing file is not an error.
func LoadMatcher(path string, fs fileSystem, extra []string) (*Matcher, error) {
	if fs == nil {
		panic("fs is required")
	}
	var patterns []string
	if path != "" {
		if _, err := fs.Stat(path); err == nil {
			data, err := fs.ReadFile(path)
			if err != nil {
				return nil, &ReadError{Path: path, Cause: err}
			}
			patterns = strings.Split(string(data), "\n")
		}
	}
	return NewMatcher(append(patterns, extra...)), nil
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	return m.count
}

// ShouldIgnore reports whether path is excluded.
func (m *Matcher) ShouldIgnore(path string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	return m.matcher.Match(splitPath(path), isDir)
}

// Filter returns the items that are not excluded, preserving order.
func (m *Matcher) Filter(items []mdquery.Item) []mdquery.Item {
	if m.matcher == nil {
		return items
	}
	kept := make([]mdquery.Item, 0, len(items))
	for _, item := range items {
		if !m.ShouldIgnore(item.Path, item.IsDir) {
			kept = append(kept, item)
		}
	}
	return kept
}

// splitPath splits a path into segments for gitignore matching, dropping
// empty and "." segments.
func splitPath(path string) []string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
