package grid

import (
	"slices"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/filter"
	"github.com/evanschultz/flowgrid/internal/supervisor"
)

// Lock disables capabilities and immediately unwinds any state they
// invalidate: hover highlight, pending press and rubber band, outgoing drag,
// and insertion preview.
func (g *Grid) Lock(caps domain.Capability) {
	if g.locked == domain.CapabilityAll {
		return
	}
	g.locked |= caps
	if caps.Has(domain.CapabilityHover) && g.hover != nil {
		index := *g.hover
		g.hover = nil
		g.drawCell(index, 0, nil)
	}
	if caps.Has(domain.CapabilitySelect) {
		if g.down != nil {
			index := g.down.index
			g.down = nil
			g.drawCell(index, 0, nil)
		}
		g.supervisor.EndSelection(g)
	}
	if caps.Has(domain.CapabilityDrag) {
		g.reclaimDragged()
	}
	if caps.Has(domain.CapabilityDrop) && len(g.displacements) > 0 {
		start, additional := g.displacements[0], len(g.displacements)
		g.displacements = nil
		g.drawSlotsFrom(start, additional)
	}
	g.notify(Event{Name: EventGridLock, Index: -1, Capabilities: caps})
}

// Unlock re-enables capabilities.
func (g *Grid) Unlock(caps domain.Capability) {
	if g.locked == domain.CapabilityNone {
		return
	}
	g.locked &^= caps
	g.notify(Event{Name: EventGridUnlock, Index: -1, Capabilities: caps})
}

// reclaimDragged cancels this grid's outgoing drag by appending its own
// in-flight cells back to the end.
func (g *Grid) reclaimDragged() {
	own := slices.DeleteFunc(g.supervisor.DraggedCells(), func(cell supervisor.DraggedCell) bool {
		return cell.Source != supervisor.Source(g)
	})
	if len(own) == 0 {
		return
	}
	claimed := g.supervisor.ClaimDraggedCells(g, own)
	if len(claimed) == 0 {
		return
	}
	start := len(g.items)
	if len(g.displacements) > 0 {
		start = min(start, g.displacements[0])
	}
	g.displacements = nil
	g.items = append(g.items, itemsOf(claimed)...)
	g.reconcile()
	g.drawSlotsFrom(start, 0)
}

// Filter installs predicate, replacing any active filter. A nil predicate
// clears filtering and restores every item, including edits made while
// filtered. Swapping the item list drops selection and hover, since their
// indices address the old list.
func (g *Grid) Filter(predicate filter.Predicate) {
	g.predicate = predicate
	swapped := false
	if g.filtered != nil {
		g.items = g.filtered.Restore()
		g.filtered = nil
		swapped = true
	}
	if predicate != nil {
		visible, state := filter.Install(g.items, predicate)
		if state != nil {
			g.items = visible
			g.filtered = state
			swapped = true
		}
	}
	if !swapped {
		return
	}
	g.selected = nil
	g.hover = nil
	if !g.lockScrollToBounds() {
		g.Draw()
	}
}

// RefreshDataFromSource re-applies the installed predicate to the backing
// items, so cards whose data changed move in or out of the view, and repaints.
func (g *Grid) RefreshDataFromSource() {
	if g.predicate != nil {
		g.Filter(g.predicate)
	}
	if !g.lockScrollToBounds() {
		g.Draw()
	}
}

// ReplaceDataFromSource swaps in a new backing collection, keeping any
// installed predicate over it, and repaints.
func (g *Grid) ReplaceDataFromSource(items []domain.Item) {
	g.filtered = nil
	g.items = slices.Clone(items)
	g.selected = nil
	g.hover = nil
	g.displacements = nil
	if g.predicate != nil {
		g.Filter(g.predicate)
	}
	if !g.lockScrollToBounds() {
		g.Draw()
	}
}
