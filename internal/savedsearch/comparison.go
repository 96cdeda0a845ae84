package savedsearch

import (
	"strconv"
	"strings"

	"github.com/Cyclone1070/mdq/internal/runner"
)

// comparisonPrefixes are checked in order; two-character operators first.
var comparisonPrefixes = []string{">=", "<=", "==", ">", "<", "="}

// ParseComparison parses compact comparisons such as ">1000", "<=0" or
// "==1700000000" as used on the command line. A bare number means equality.
func ParseComparison(s string) (runner.Comparator, int64, error) {
	s = strings.TrimSpace(s)
	op := "=="
	for _, prefix := range comparisonPrefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			op, s = prefix, strings.TrimSpace(rest)
			break
		}
	}

	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", 0, ErrBadComparison
	}
	cmp, err := runner.ParseComparator(op)
	if err != nil {
		return "", 0, err
	}
	return cmp, value, nil
}
