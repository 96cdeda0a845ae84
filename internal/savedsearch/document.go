// Package savedsearch decodes declarative search documents into runners.
//
// A document is a JSON object whose keys map onto runner predicates:
//
//	{
//	  "types": ["pdf", "key"],
//	  "size": {"op": ">", "value": 1000},
//	  "any": [{"name_like": "invoice"}, {"name_like": "receipt"}],
//	  "scopes": ["home"]
//	}
//
// Top-level predicates are conjoined. Documents listed under "all" are merged
// with And and those under "any" with Or; both merged groups are then
// conjoined with the top-level predicates.
package savedsearch

import (
	"encoding/json"
	"fmt"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/runner"
	"github.com/mitchellh/mapstructure"
)

// Comparison is an operator and an integer operand.
type Comparison struct {
	Op    string `mapstructure:"op"`
	Value int64  `mapstructure:"value"`
}

// TimeFilter compares one of the date attributes against an epoch timestamp
// in seconds.
type TimeFilter struct {
	Key   string `mapstructure:"key"` // modified, created, used or a full attribute key
	Op    string `mapstructure:"op"`
	Value int64  `mapstructure:"value"`
}

// Range restricts an attribute to [Min, Max].
type Range struct {
	Key string `mapstructure:"key"`
	Min int64  `mapstructure:"min"`
	Max int64  `mapstructure:"max"`
}

// Document is a decoded search document.
type Document struct {
	NameLike    string       `mapstructure:"name_like"`
	Name        string       `mapstructure:"name"`
	Types       []string     `mapstructure:"types"`
	ContentType string       `mapstructure:"content_type"`
	IsDir       *bool        `mapstructure:"is_dir"`
	Size        *Comparison  `mapstructure:"size"`
	Time        []TimeFilter `mapstructure:"time"`
	Range       []Range      `mapstructure:"range"`
	Raw         string       `mapstructure:"raw"`

	All []Document `mapstructure:"all"`
	Any []Document `mapstructure:"any"`

	// Only read from the top-level document
	Scopes     []string `mapstructure:"scopes"`
	MaxResults int      `mapstructure:"max_results"`
}

var timeKeyAliases = map[string]runner.ItemKey{
	"modified": runner.ModificationDate,
	"created":  runner.CreationDate,
	"used":     runner.LastUsedDate,
}

// Parse decodes a JSON document.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return Decode(raw)
}

// Decode converts a generic map, as produced by encoding/json, into a
// Document. Unknown keys are rejected.
func Decode(raw map[string]any) (*Document, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return &doc, nil
}

// Build turns the document into a runner configured with opts. It fails
// with ErrEmptyDocument when the document yields no expression.
func (d *Document) Build(opts ...runner.Option) (*runner.Runner, error) {
	r, err := d.build(opts)
	if err != nil {
		return nil, err
	}
	if r.Expression() == "" {
		return nil, ErrEmptyDocument
	}
	return r, nil
}

func (d *Document) build(opts []runner.Option) (*runner.Runner, error) {
	r := runner.New(opts...)

	if d.NameLike != "" {
		r.NameLike(d.NameLike)
	}
	if d.Name != "" {
		r.NameIs(d.Name)
	}
	if len(d.Types) == 1 {
		r.IsType(d.Types[0])
	} else {
		r.InType(d.Types)
	}
	if d.ContentType != "" {
		r.ContentTypeIs(d.ContentType)
	}
	if d.IsDir != nil {
		r.IsDir(*d.IsDir)
	}
	if d.Size != nil {
		cmp, err := runner.ParseComparator(d.Size.Op)
		if err != nil {
			return nil, &FieldError{Field: "size.op", Value: d.Size.Op, Cause: err}
		}
		r.Size(cmp, d.Size.Value)
	}
	for i, tf := range d.Time {
		key, err := ParseTimeKey(tf.Key)
		if err != nil {
			return nil, &FieldError{Field: fmt.Sprintf("time[%d].key", i), Value: tf.Key, Cause: err}
		}
		cmp, err := runner.ParseComparator(tf.Op)
		if err != nil {
			return nil, &FieldError{Field: fmt.Sprintf("time[%d].op", i), Value: tf.Op, Cause: err}
		}
		r.Time(key, cmp, tf.Value)
	}
	for _, rg := range d.Range {
		r.InRange(resolveKey(rg.Key), rg.Min, rg.Max)
	}
	r.Raw(d.Raw)

	if len(d.All) > 0 {
		children, err := buildAll(d.All, opts)
		if err != nil {
			return nil, err
		}
		r.And(runner.Merge(children, true))
	}
	if len(d.Any) > 0 {
		children, err := buildAll(d.Any, opts)
		if err != nil {
			return nil, err
		}
		r.And(runner.Merge(children, false))
	}
	return r, nil
}

func buildAll(docs []Document, opts []runner.Option) ([]*runner.Runner, error) {
	runners := make([]*runner.Runner, 0, len(docs))
	for i := range docs {
		r, err := docs[i].build(opts)
		if err != nil {
			return nil, err
		}
		runners = append(runners, r)
	}
	return runners, nil
}

// RunOptions returns the scopes and result limit the document asks for.
// Scope aliases such as "home" are resolved. Without scopes the runner
// default applies.
func (d *Document) RunOptions() *runner.RunOptions {
	opts := runner.DefaultRunOptions()
	if len(d.Scopes) > 0 {
		opts.Scopes = make([]string, len(d.Scopes))
		for i, s := range d.Scopes {
			opts.Scopes[i] = mdquery.ParseScope(s)
		}
	}
	opts.MaxResultCount = d.MaxResults
	return opts
}

// ParseTimeKey resolves "modified", "created" and "used", or a full date
// attribute key.
func ParseTimeKey(s string) (runner.ItemKey, error) {
	key := resolveKey(s)
	if !runner.IsTimeKey(key) {
		return "", ErrUnknownTimeKey
	}
	return key, nil
}

func resolveKey(s string) runner.ItemKey {
	if key, ok := timeKeyAliases[s]; ok {
		return key
	}
	if s == "size" {
		return runner.Size
	}
	return runner.ItemKey(s)
}
