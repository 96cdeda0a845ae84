package mdfind

import (
	"path/filepath"

	"github.com/Cyclone1070/mdq/internal/mdquery"
)

// onlyInArgs translates query scopes into mdfind -onlyin flags. Scopes that
// cover the whole local index produce no flag at all, which also absorbs any
// narrower scope listed alongside them.
func (e *Engine) onlyInArgs(scopes []string) ([]string, error) {
	if len(scopes) == 0 {
		scopes = []string{mdquery.ScopeHome}
	}

	var dirs []string
	seen := make(map[string]bool)
	whole := false

	for _, scope := range scopes {
		var dir string
		switch scope {
		case mdquery.ScopeHome:
			if e.homeDir == "" {
				return nil, ErrHomeUnknown
			}
			dir = e.homeDir
		case mdquery.ScopeComputer, mdquery.ScopeAllIndexed, mdquery.ScopeComputerIndexed:
			whole = true
			continue
		case mdquery.ScopeNetwork, mdquery.ScopeNetworkIndexed:
			return nil, &UnsupportedScopeError{Scope: scope}
		default:
			if !filepath.IsAbs(scope) {
				return nil, &UnsupportedScopeError{Scope: scope}
			}
			dir = filepath.Clean(scope)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	if whole {
		return nil, nil
	}

	args := make([]string, 0, len(dirs)*2)
	for _, dir := range dirs {
		args = append(args, "-onlyin", dir)
	}
	return args, nil
}
