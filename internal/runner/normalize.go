package runner

import (
	"strings"

	"github.com/Cyclone1070/mdq/internal/mdquery"
)

// DataVolumePrefix is the firmlink prefix under which the platform exposes
// the writable data volume.
const DataVolumePrefix = "/System/Volumes/Data"

// NormalizePath strips DataVolumePrefix from the front of path, leaving the
// logical path. The prefix only matches whole path segments.
func NormalizePath(path string) string {
	rest, ok := strings.CutPrefix(path, DataVolumePrefix)
	if !ok {
		return path
	}
	if rest == "" {
		return "/"
	}
	if rest[0] != '/' {
		return path
	}
	return rest
}

// NormalizeItems rewrites the path of every item in place. No other field is
// touched.
func NormalizeItems(items []mdquery.Item) {
	for i := range items {
		items[i].Path = NormalizePath(items[i].Path)
	}
}
