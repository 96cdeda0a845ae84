package runner

import (
	"fmt"
	"time"
)

// ItemKey is a Spotlight metadata attribute key.
// The complete list of keys lives in Apple's Metadata Attributes Reference;
// only the commonly used ones are named here.
type ItemKey string

const (
	DisplayName      ItemKey = "kMDItemDisplayName"
	FSName           ItemKey = "kMDItemFSName"
	ModificationDate ItemKey = "kMDItemContentModificationDate"
	CreationDate     ItemKey = "kMDItemContentCreationDate"
	LastUsedDate     ItemKey = "kMDItemLastUsedDate"
	Size             ItemKey = "kMDItemFSSize"
	ContentType      ItemKey = "kMDItemContentType"
)

// FolderContentType is the content type Spotlight assigns to directories.
const FolderContentType = "public.folder"

// Comparator selects the comparison operator of a predicate.
type Comparator string

const (
	GreaterThan    Comparator = "greaterThan"
	LessThan       Comparator = "lessThan"
	Equal          Comparator = "equal"
	GreaterOrEqual Comparator = "greaterOrEqual"
	LessOrEqual    Comparator = "lessOrEqual"
)

var comparatorOperators = map[Comparator]string{
	GreaterThan:    ">",
	LessThan:       "<",
	Equal:          "==",
	GreaterOrEqual: ">=",
	LessOrEqual:    "<=",
}

// comparatorAliases covers legacy spellings and bare operator symbols.
var comparatorAliases = map[string]Comparator{
	"greaterThen": GreaterThan,
	"lessThen":    LessThan,
	">":           GreaterThan,
	"<":           LessThan,
	"=":           Equal,
	"==":          Equal,
	">=":          GreaterOrEqual,
	"<=":          LessOrEqual,
}

var timeKeys = map[ItemKey]bool{
	ModificationDate: true,
	CreationDate:     true,
	LastUsedDate:     true,
}

// Operator returns the query-language operator for c.
// It panics if c is not a known comparator.
func (c Comparator) Operator() string {
	op, ok := comparatorOperators[c]
	if !ok {
		panic(&CatalogError{Kind: "comparator", Key: string(c)})
	}
	return op
}

// ParseComparator resolves user input to a Comparator. It accepts the
// canonical names, the legacy "greaterThen"/"lessThen" spellings and the
// operator symbols themselves.
func ParseComparator(s string) (Comparator, error) {
	if _, ok := comparatorOperators[Comparator(s)]; ok {
		return Comparator(s), nil
	}
	if c, ok := comparatorAliases[s]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownComparator, s)
}

// IsTimeKey reports whether key can be used with Runner.Time.
func IsTimeKey(key ItemKey) bool {
	return timeKeys[key]
}

// TimestampToMDDate converts a timestamp in seconds to a date literal that can
// be used directly in query expressions. The result is always in UTC.
func TimestampToMDDate(epochSeconds int64) string {
	iso := time.Unix(epochSeconds, 0).UTC().Format("2006-01-02T15:04:05.000Z")
	return "$time.iso(" + iso + ")"
}

// RangeExpression describes a value of key within [min, max].
func RangeExpression(key ItemKey, min, max int64) string {
	return fmt.Sprintf("InRange(%s, %d, %d)", key, min, max)
}
