// Package models holds the state rendered by the watch UI.
package models

import (
	"sort"
	"time"

	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/charmbracelet/bubbles/spinner"
)

// Status phases shown in the status bar.
const (
	PhaseRunning  = "running"
	PhaseWatching = "watching"
	PhaseError    = "error"
)

// Event is one entry of the update log.
type Event struct {
	Type  mdquery.UpdateType
	Paths []string
	At    time.Time
}

// State is the complete UI state.
type State struct {
	Expression string
	Items      []mdquery.Item // Sorted by path
	Events     []Event        // Newest last

	StatusPhase   string
	StatusMessage string
	Spinner       spinner.Model

	Width  int
	Height int

	MaxVisibleItems int
	MaxEvents       int
}

// SetItems replaces the result set.
func (s *State) SetItems(items []mdquery.Item) {
	s.Items = append([]mdquery.Item(nil), items...)
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].Path < s.Items[j].Path })
}

// Apply merges a live update into the result set and records it in the
// event log.
func (s *State) Apply(updateType mdquery.UpdateType, items []mdquery.Item, at time.Time) {
	byPath := make(map[string]mdquery.Item, len(s.Items))
	for _, item := range s.Items {
		byPath[item.Path] = item
	}

	paths := make([]string, 0, len(items))
	for _, item := range items {
		paths = append(paths, item.Path)
		switch updateType {
		case mdquery.UpdateRemove:
			delete(byPath, item.Path)
		default:
			byPath[item.Path] = item
		}
	}

	next := make([]mdquery.Item, 0, len(byPath))
	for _, item := range byPath {
		next = append(next, item)
	}
	s.SetItems(next)

	s.Events = append(s.Events, Event{Type: updateType, Paths: paths, At: at})
	if s.MaxEvents > 0 && len(s.Events) > s.MaxEvents {
		s.Events = s.Events[len(s.Events)-s.MaxEvents:]
	}
}
