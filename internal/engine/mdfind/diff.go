package mdfind

import (
	"sort"

	"github.com/Cyclone1070/mdq/internal/mdquery"
)

// changeSet is the difference between two result snapshots.
type changeSet struct {
	added   []mdquery.Item
	changed []mdquery.Item
	removed []mdquery.Item
}

// diffSnapshots compares the previous snapshot with a fresh result list and
// returns the changes plus the snapshot to keep. An item counts as changed
// when its modification time moved. Removed items carry their last known
// metadata and are sorted by path.
func diffSnapshots(prev map[string]mdquery.Item, current []mdquery.Item) (changeSet, map[string]mdquery.Item) {
	var cs changeSet
	next := make(map[string]mdquery.Item, len(current))

	for _, item := range current {
		next[item.Path] = item
		old, ok := prev[item.Path]
		switch {
		case !ok:
			cs.added = append(cs.added, item)
		case old.LastModifyTime != item.LastModifyTime:
			cs.changed = append(cs.changed, item)
		}
	}

	for path, item := range prev {
		if _, ok := next[path]; !ok {
			cs.removed = append(cs.removed, item)
		}
	}
	sort.Slice(cs.removed, func(i, j int) bool {
		return cs.removed[i].Path < cs.removed[j].Path
	})

	return cs, next
}

func snapshotOf(items []mdquery.Item) map[string]mdquery.Item {
	snapshot := make(map[string]mdquery.Item, len(items))
	for _, item := range items {
		snapshot[item.Path] = item
	}
	return snapshot
}
