package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/runner"
	"github.com/Cyclone1070/mdq/internal/savedsearch"
	"github.com/Cyclone1070/mdq/internal/service/ignore"
	"github.com/spf13/cobra"
)

var errNoPredicates = errors.New("no search predicates given")

// usageError marks errors in flag values.
type usageError struct {
	flag  string
	value string
	cause error
}

func (e *usageError) Error() string {
	return fmt.Sprintf("--%s %q: %v", e.flag, e.value, e.cause)
}

func (e *usageError) Unwrap() error { return e.cause }

func (e *usageError) InvalidInput() bool { return true }

// queryFlags are the predicate and scope flags shared by search, watch and
// expr.
type queryFlags struct {
	nameLike    []string
	name        []string
	types       []string
	contentType string
	dirs        bool
	files       bool
	size        string
	modified    string
	created     string
	used        string
	raw         string
	any         bool
	from        string

	scopes  []string
	max     int
	exclude []string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringArrayVar(&f.nameLike, "name-like", nil, "display name contains (repeatable)")
	fs.StringArrayVar(&f.name, "name", nil, "display name equals (repeatable)")
	fs.StringSliceVarP(&f.types, "type", "t", nil, "file extension (repeatable)")
	fs.StringVar(&f.contentType, "content-type", "", "uniform type identifier, e.g. com.adobe.pdf")
	fs.BoolVar(&f.dirs, "dir", false, "only directories")
	fs.BoolVar(&f.files, "files", false, "only files")
	fs.StringVar(&f.size, "size", "", "size in bytes, e.g. '>1000'")
	fs.StringVar(&f.modified, "modified", "", "modification time, e.g. '>=1700000000'")
	fs.StringVar(&f.created, "created", "", "creation time in epoch seconds")
	fs.StringVar(&f.used, "used", "", "last used time in epoch seconds")
	fs.StringVar(&f.raw, "raw", "", "raw query fragment")
	fs.BoolVar(&f.any, "any", false, "match any predicate instead of all")
	fs.StringVar(&f.from, "from", "", "saved search document (JSON)")

	fs.StringSliceVar(&f.scopes, "scope", nil, "home, computer, all-indexed or an absolute path (repeatable)")
	fs.IntVar(&f.max, "max", -1, "maximum number of results (0 = no limit)")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "gitignore-style pattern to drop from results (repeatable)")
}

// build assembles the runner and run options from the flags. Predicates
// from --from are conjoined with the flag predicates.
func (f *queryFlags) build(deps *Dependencies) (*runner.Runner, *runner.RunOptions, error) {
	opts := []runner.Option{runner.WithEngine(deps.Engine), runner.WithLogger(deps.Logger)}

	preds, err := f.predicates()
	if err != nil {
		return nil, nil, err
	}

	r := runner.New(opts...)
	if f.any && len(preds) > 1 {
		alternatives := make([]*runner.Runner, 0, len(preds))
		for _, apply := range preds {
			alt := runner.New(opts...)
			apply(alt)
			alternatives = append(alternatives, alt)
		}
		r = runner.Merge(alternatives, false)
	} else {
		for _, apply := range preds {
			apply(r)
		}
	}

	runOpts := &runner.RunOptions{
		Scopes:         resolveScopes(deps.Config.Query.DefaultScopes),
		MaxResultCount: deps.Config.Query.DefaultMaxResults,
	}

	if f.from != "" {
		doc, err := readDocument(f.from)
		if err != nil {
			return nil, nil, err
		}
		fromRunner, err := doc.Build(opts...)
		if err != nil {
			return nil, nil, err
		}
		r.And(fromRunner)
		if len(doc.Scopes) > 0 {
			runOpts.Scopes = doc.RunOptions().Scopes
		}
		if doc.MaxResults > 0 {
			runOpts.MaxResultCount = doc.MaxResults
		}
	}

	if len(f.scopes) > 0 {
		runOpts.Scopes = resolveScopes(f.scopes)
	}
	if f.max >= 0 {
		runOpts.MaxResultCount = f.max
	}

	if r.Expression() == "" {
		return nil, nil, errNoPredicates
	}
	return r, runOpts, nil
}

// predicate appends one fragment to a runner.
type predicate func(r *runner.Runner)

// predicates returns one predicate per set flag value, in a fixed order.
func (f *queryFlags) predicates() ([]predicate, error) {
	var preds []predicate
	add := func(p predicate) { preds = append(preds, p) }

	for _, s := range f.nameLike {
		add(func(r *runner.Runner) { r.NameLike(s) })
	}
	for _, s := range f.name {
		add(func(r *runner.Runner) { r.NameIs(s) })
	}
	switch len(f.types) {
	case 0:
	case 1:
		add(func(r *runner.Runner) { r.IsType(f.types[0]) })
	default:
		add(func(r *runner.Runner) { r.InType(f.types) })
	}
	if f.contentType != "" {
		add(func(r *runner.Runner) { r.ContentTypeIs(f.contentType) })
	}
	switch {
	case f.dirs && f.files:
		either := runner.Merge([]*runner.Runner{
			runner.New().IsDir(true),
			runner.New().IsDir(false),
		}, false)
		add(func(r *runner.Runner) { r.Raw(either.Fragments()[0]) })
	case f.dirs:
		add(func(r *runner.Runner) { r.IsDir(true) })
	case f.files:
		add(func(r *runner.Runner) { r.IsDir(false) })
	}
	if f.size != "" {
		cmp, value, err := savedsearch.ParseComparison(f.size)
		if err != nil {
			return nil, &usageError{flag: "size", value: f.size, cause: err}
		}
		add(func(r *runner.Runner) { r.Size(cmp, value) })
	}

	times := []struct {
		flag  string
		value string
		key   runner.ItemKey
	}{
		{"modified", f.modified, runner.ModificationDate},
		{"created", f.created, runner.CreationDate},
		{"used", f.used, runner.LastUsedDate},
	}
	for _, tf := range times {
		if tf.value == "" {
			continue
		}
		cmp, value, err := savedsearch.ParseComparison(tf.value)
		if err != nil {
			return nil, &usageError{flag: tf.flag, value: tf.value, cause: err}
		}
		key := tf.key
		add(func(r *runner.Runner) { r.Time(key, cmp, value) })
	}

	if f.raw != "" {
		add(func(r *runner.Runner) { r.Raw(f.raw) })
	}
	return preds, nil
}

// matcher builds the result filter from the ignore file, the configured
// patterns and --exclude.
func (f *queryFlags) matcher(deps *Dependencies) (*ignore.Matcher, error) {
	patterns := append(append([]string(nil), deps.Config.Query.ExcludePatterns...), f.exclude...)
	return ignore.LoadMatcher(deps.IgnoreFile, deps.IgnoreFS, patterns)
}

func resolveScopes(names []string) []string {
	scopes := make([]string, 0, len(names))
	for _, name := range names {
		scopes = append(scopes, mdquery.ParseScope(name))
	}
	if len(scopes) == 0 {
		return []string{mdquery.ScopeHome}
	}
	return scopes
}

func readDocument(path string) (*savedsearch.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := savedsearch.Parse(data)
	if err != nil {
		var decodeErr *savedsearch.DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Source = path
		}
		return nil, err
	}
	return doc, nil
}
