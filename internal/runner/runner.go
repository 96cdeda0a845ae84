// Package runner builds Spotlight query expressions through a fluent API and
// executes them against an mdquery.Engine.
//
// A Runner is an explicitly mutable builder: every predicate method appends a
// fragment to the runner's group and returns the same runner. It is not safe
// for concurrent mutation.
package runner

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Cyclone1070/mdq/internal/mdquery"
)

// Runner accumulates predicate fragments and owns at most one engine query.
type Runner struct {
	group []string

	engine mdquery.Engine
	logger *slog.Logger

	mu        sync.Mutex
	query     mdquery.Query
	sessionID string
	listener  mdquery.UpdateListener
	running   bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithEngine sets the engine used by Run.
func WithEngine(engine mdquery.Engine) Option {
	return func(r *Runner) { r.engine = engine }
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New creates an empty Runner.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Expression returns the expression that Run executes: empty when no
// predicate was added, otherwise all fragments conjoined in insertion order.
func (r *Runner) Expression() string {
	if len(r.group) == 0 {
		return ""
	}
	return "(" + strings.Join(r.group, "&&") + ")"
}

// Fragments returns a copy of the accumulated predicate fragments.
func (r *Runner) Fragments() []string {
	return append([]string(nil), r.group...)
}

func (r *Runner) push(fragment string) *Runner {
	r.group = append(r.group, fragment)
	return r
}

// NameLike matches display names containing s. Not case sensitive.
func (r *Runner) NameLike(s string) *Runner {
	return r.push(fmt.Sprintf(`%s == "*%s*"c`, DisplayName, s))
}

// NameIs matches the display name exactly. Not case sensitive.
func (r *Runner) NameIs(name string) *Runner {
	return r.push(fmt.Sprintf(`%s == "%s"c`, DisplayName, name))
}

// Time compares one of the date attributes against a timestamp in seconds.
// It panics if key is not ModificationDate, CreationDate or LastUsedDate.
func (r *Runner) Time(key ItemKey, cmp Comparator, epochSeconds int64) *Runner {
	if !IsTimeKey(key) {
		panic(&CatalogError{Kind: "time key", Key: string(key)})
	}
	return r.push(fmt.Sprintf("%s %s %s", key, cmp.Operator(), TimestampToMDDate(epochSeconds)))
}

// Size limits the file size in bytes.
func (r *Runner) Size(cmp Comparator, bytes int64) *Runner {
	return r.push(fmt.Sprintf("%s %s %d", Size, cmp.Operator(), bytes))
}

// IsDir matches directories when is is true and everything else otherwise.
func (r *Runner) IsDir(is bool) *Runner {
	op := "!="
	if is {
		op = "=="
	}
	return r.push(fmt.Sprintf(`%s %s "%s"`, ContentType, op, FolderContentType))
}

// IsType matches files with the given extension. Not case sensitive.
func (r *Runner) IsType(ext string) *Runner {
	return r.push(typeFragment(ext))
}

// InType matches files with any of the given extensions.
// An empty list adds nothing.
func (r *Runner) InType(exts []string) *Runner {
	if len(exts) == 0 {
		return r
	}
	parts := make([]string, len(exts))
	for i, ext := range exts {
		parts[i] = typeFragment(ext)
	}
	return r.push("(" + strings.Join(parts, "||") + ")")
}

// ContentTypeIs matches the uniform type identifier exactly.
func (r *Runner) ContentTypeIs(contentType string) *Runner {
	return r.push(fmt.Sprintf(`%s == "%s"`, ContentType, contentType))
}

// InRange matches values of key within [min, max].
func (r *Runner) InRange(key ItemKey, min, max int64) *Runner {
	return r.push(RangeExpression(key, min, max))
}

// Raw appends a caller-supplied fragment verbatim.
func (r *Runner) Raw(fragment string) *Runner {
	if fragment == "" {
		return r
	}
	return r.push(fragment)
}

func typeFragment(ext string) string {
	return fmt.Sprintf(`%s == "*.%s"c`, FSName, ext)
}
