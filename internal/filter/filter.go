// Package filter keeps a grid's full item order and its filtered view in step
// while the view is edited, so clearing the filter loses nothing.
package filter

import (
	"slices"

	"github.com/evanschultz/flowgrid/internal/domain"
)

// Predicate reports whether an item stays visible.
type Predicate func(domain.Item) bool

// State is an installed filter.
type State struct {
	backing   []domain.Item
	view      []domain.Item
	predicate Predicate
}

// Install filters items. It returns the visible subsequence and the state to
// keep, or the items unchanged and a nil state when the predicate keeps
// everything.
func Install(items []domain.Item, predicate Predicate) ([]domain.Item, *State) {
	if predicate == nil {
		return items, nil
	}
	visible := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if predicate(item) {
			visible = append(visible, item)
		}
	}
	if len(visible) == len(items) {
		return items, nil
	}
	return visible, &State{
		backing:   slices.Clone(items),
		view:      slices.Clone(visible),
		predicate: predicate,
	}
}

// Predicate returns the installed predicate.
func (s *State) Predicate() Predicate {
	if s == nil {
		return nil
	}
	return s.predicate
}

// Backing returns a copy of the unfiltered order.
func (s *State) Backing() []domain.Item {
	if s == nil {
		return nil
	}
	return slices.Clone(s.backing)
}

// View returns a copy of the visible order recorded at the last reconcile.
func (s *State) View() []domain.Item {
	if s == nil {
		return nil
	}
	return slices.Clone(s.view)
}

// Restore returns the unfiltered order. Every edit has already been folded in
// by Reconcile, so no further work is needed.
func (s *State) Restore() []domain.Item {
	if s == nil {
		return nil
	}
	return slices.Clone(s.backing)
}

// Reconcile folds the edited visible items back into the unfiltered order.
//
// Each hidden run stays anchored before the visible item that followed it.
// When that item is gone the run joins the next surviving one. New items land
// after the hidden run that precedes their successor, and items appended past
// the last visible entry follow the trailing hidden run.
func (s *State) Reconcile(items []domain.Item) {
	if s == nil {
		return
	}
	positions := s.locate()
	gaps := make([][]domain.Item, len(s.view)+1)
	prev := 0
	for k, pos := range positions {
		if pos < 0 {
			continue
		}
		gaps[k] = s.backing[prev:pos]
		prev = pos + 1
	}
	gaps[len(s.view)] = s.backing[prev:]

	matches := survivors(s.view, items)
	rebuilt := make([]domain.Item, 0, len(s.backing)-len(s.view)+len(items))
	var inserted []domain.Item
	flushed := 0
	for j, item := range items {
		k := matches[j]
		if k < 0 {
			inserted = append(inserted, item)
			continue
		}
		for ; flushed <= k; flushed++ {
			rebuilt = append(rebuilt, gaps[flushed]...)
		}
		rebuilt = append(rebuilt, inserted...)
		inserted = inserted[:0]
		rebuilt = append(rebuilt, item)
	}
	for ; flushed < len(gaps); flushed++ {
		rebuilt = append(rebuilt, gaps[flushed]...)
	}
	rebuilt = append(rebuilt, inserted...)

	s.backing = rebuilt
	s.view = slices.Clone(items)
}

// locate finds the backing position of every view entry by identity. A
// per-item cursor matches repeated handles to successive positions, and the
// search never moves backwards so positions stay increasing.
func (s *State) locate() []int {
	positions := make([]int, len(s.view))
	from := map[domain.Item]int{}
	last := -1
	for k, item := range s.view {
		start := max(from[item], last+1)
		idx := -1
		if start < len(s.backing) {
			if found := slices.Index(s.backing[start:], item); found >= 0 {
				idx = start + found
			}
		}
		positions[k] = idx
		if idx >= 0 {
			from[item] = idx + 1
			last = idx
		}
	}
	return positions
}

// survivors matches items against the previous view with an identity longest
// common subsequence. The result holds, for every item, the view index it
// continues or -1 when it is new.
func survivors(view, items []domain.Item) []int {
	n, m := len(view), len(items)
	lengths := make([][]int, n+1)
	for i := range lengths {
		lengths[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if view[i] == items[j] {
				lengths[i][j] = lengths[i+1][j+1] + 1
			} else {
				lengths[i][j] = max(lengths[i+1][j], lengths[i][j+1])
			}
		}
	}

	matches := make([]int, m)
	for j := range matches {
		matches[j] = -1
	}
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case view[i] == items[j]:
			matches[j] = i
			i++
			j++
		case lengths[i+1][j] >= lengths[i][j+1]:
			i++
		default:
			j++
		}
	}
	return matches
}
