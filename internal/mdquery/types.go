// Package mdquery defines the contract between the query runner and a
// Spotlight-style metadata search engine.
package mdquery

import "fmt"

// Item represents a single file returned by the search engine.
// All timestamps are in seconds since the Unix epoch.
type Item struct {
	IsDir     bool   `json:"isDir"`
	Path      string `json:"path"`
	Extension string `json:"extension"`

	CreateTime     int64  `json:"createTime"`
	LastModifyTime int64  `json:"lastModifyTime"`
	LastUsedTime   *int64 `json:"lastUsedTime,omitempty"`

	BundleIdentifier string `json:"bundleIdentifier,omitempty"`
	Version          string `json:"version,omitempty"`
}

// Scope is a well-known root location the engine limits a search to.
// Engines may additionally accept absolute directory paths as scopes.
type Scope = string

const (
	ScopeHome            Scope = "kMDQueryScopeHome"
	ScopeComputer        Scope = "kMDQueryScopeComputer"
	ScopeNetwork         Scope = "kMDQueryScopeNetwork"
	ScopeAllIndexed      Scope = "kMDQueryScopeAllIndexed"
	ScopeComputerIndexed Scope = "kMDQueryScopeComputerIndexed"
	ScopeNetworkIndexed  Scope = "kMDQueryScopeNetworkIndexed"
)

// ResultCountNoLimit passed as a max result count means the number of
// returned results is not limited.
const ResultCountNoLimit = 0

// scopeAliases maps short CLI/config names to scope identifiers.
var scopeAliases = map[string]Scope{
	"home":             ScopeHome,
	"computer":         ScopeComputer,
	"network":          ScopeNetwork,
	"all-indexed":      ScopeAllIndexed,
	"computer-indexed": ScopeComputerIndexed,
	"network-indexed":  ScopeNetworkIndexed,
}

// ParseScope resolves a short scope name ("home", "all-indexed", ...) to its
// identifier. Full identifiers and absolute paths are returned unchanged.
func ParseScope(s string) Scope {
	if scope, ok := scopeAliases[s]; ok {
		return scope
	}
	return s
}

// UpdateType classifies a live update delivered to a watch listener.
type UpdateType int

const (
	UpdateAdd UpdateType = iota
	UpdateChange
	UpdateRemove
)

func (t UpdateType) String() string {
	switch t {
	case UpdateAdd:
		return "add"
	case UpdateChange:
		return "change"
	case UpdateRemove:
		return "remove"
	default:
		return fmt.Sprintf("UpdateType(%d)", int(t))
	}
}

// UpdateListener receives live updates for a watched query.
// It is invoked on the engine's own goroutine and must not block.
type UpdateListener func(updateType UpdateType, items []Item)

// StartCallback receives the single result batch of a one-shot query.
// err is non-nil when the engine could not produce results.
type StartCallback func(items []Item, err error)
