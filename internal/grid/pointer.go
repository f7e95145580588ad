package grid

import (
	"slices"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
	"github.com/evanschultz/flowgrid/internal/supervisor"
)

// PointerDown handles a primary press at a content point. A press on an item
// arms a pending drag and applies the selection policy; a press on the
// background clears the selection and may start a rubber band.
func (g *Grid) PointerDown(p geometry.Point, shift bool) {
	if !g.inside(p) {
		return
	}
	if index, ok := g.dataIndexAt(p, false); ok {
		g.down = &anchor{point: p, index: index}
		if !g.locked.Has(domain.CapabilitySelect) && g.selectionMode.Selectable() {
			g.applySelection(index, shift)
			g.drawCell(index, StateHover, nil)
		}
		return
	}
	if !g.locked.Has(domain.CapabilitySelect) {
		g.DeselectAll()
	}
	if g.clickAttachment(p) {
		return
	}
	g.notify(Event{Name: EventBackgroundClick, Index: -1, Point: p})
	if !g.locked.Has(domain.CapabilitySelect) && g.selectionMode == domain.SelectionMultiple {
		g.supervisor.StartSelection(g)
	}
}

// applySelection applies the single/multiple selection policy to a press.
func (g *Grid) applySelection(index int, shift bool) {
	if i := slices.Index(g.selected, index); i >= 0 {
		if g.selectionMode == domain.SelectionMultiple && shift {
			g.selected = slices.Delete(g.selected, i, i+1)
		}
		return
	}
	if g.selectionMode == domain.SelectionSingle || !shift {
		g.DeselectAll()
	}
	g.selected = append(g.selected, index)
	g.notify(Event{Name: EventCellSelect, Index: index, Item: g.items[index]})
}

// clickAttachment offers a background press to the attachment under it.
func (g *Grid) clickAttachment(p geometry.Point) bool {
	view := geometry.Point{X: p.X, Y: p.Y - g.scroll}
	for _, attachment := range g.attachments {
		if !attachment.contains(view) || attachment.OnClick == nil {
			continue
		}
		if attachment.OnClick(view) {
			if attachment.Draw != nil {
				attachment.Draw(attachment.Position, attachment.Size)
			}
			return true
		}
	}
	return false
}

// ContextMenu handles a secondary press at a content point.
func (g *Grid) ContextMenu(p geometry.Point) {
	if !g.inside(p) {
		return
	}
	if index, ok := g.dataIndexAt(p, false); ok {
		g.notify(Event{Name: EventCellContextMenu, Index: index, Item: g.items[index], Point: p})
	}
}

// PointerMove handles motion at a content point. Every grid on the surface
// receives every move so each can track drags started elsewhere.
func (g *Grid) PointerMove(p geometry.Point) {
	if g.supervisor.IsSelecting() {
		if r, ok := g.supervisor.Selection(g); ok {
			g.selectWithin(r)
		}
		return
	}
	previous := slices.Clone(g.displacements)
	if !g.locked.Has(domain.CapabilityDrop) {
		g.displacements = nil
	}
	if g.inside(p) {
		if g.hover != nil {
			index := *g.hover
			g.hover = nil
			g.drawCell(index, 0, nil)
		}
		switch {
		case g.down != nil && !g.locked.Has(domain.CapabilityDrag):
			if g.pickUp() {
				g.displacements = previous
				return
			}
		case !g.locked.Has(domain.CapabilityHover):
			g.hoverAt(p)
		}
	}
	g.trackFocus()
	g.redrawDisplacements(previous)
}

// selectWithin replaces the selection with the cells under a surface
// rubber band.
func (g *Grid) selectWithin(r geometry.Rect) {
	g.DeselectAll()
	local := geometry.Rect{Origin: g.LocalPoint(r.Origin), Size: r.Size}
	for _, index := range g.layout.SelectionCells(local, len(g.items)) {
		g.selected = append(g.selected, index)
		g.drawCell(index, 0, nil)
	}
}

// pickUp promotes the pending anchor into a drag. It reports whether a
// cell:drag listener vetoed the drag, in which case items and selection are
// left exactly as they were.
func (g *Grid) pickUp() bool {
	a := *g.down
	g.down = nil
	if a.index >= len(g.items) {
		return false
	}
	itemsBefore := slices.Clone(g.items)
	selectedBefore := slices.Clone(g.selected)

	picked := make([]int, 0, len(g.selected)+1)
	for _, index := range g.selected {
		if index >= 0 && index < len(g.items) {
			picked = append(picked, index)
		}
	}
	if !slices.Contains(picked, a.index) &&
		(g.selectionMode == domain.SelectionNone || g.locked.Has(domain.CapabilitySelect) || len(picked) == 0) {
		picked = append(picked, a.index)
	}
	slices.Sort(picked)
	picked = slices.Compact(picked)

	anchorSlot, _ := geometry.Slot(a.index, len(g.items), g.displacements)
	offset := a.point.Sub(g.layout.SlotOrigin(anchorSlot, 0))

	cells := make([]supervisor.Cell, 0, len(picked))
	for i, index := range picked {
		cells = append(cells, supervisor.Cell{Item: g.items[index-i], Index: index})
		g.items = slices.Delete(g.items, index-i, index-i+1)
	}

	if g.notify(Event{Name: EventCellDrag, Index: a.index, Item: itemsBefore[a.index], Cells: cells}) {
		g.items = itemsBefore
		g.selected = selectedBefore
		g.drawSlotsFrom(picked[0], 0)
		if !g.locked.Has(domain.CapabilityHover) {
			g.drawCell(a.index, StateHover, nil)
		}
		return true
	}

	g.selected = nil
	g.reconcile()
	var bounds *geometry.Rect
	if g.constrain {
		b := g.layout.OccupiedBounds(len(itemsBefore))
		b.Origin.Y -= g.scroll
		bounds = &b
	}
	g.supervisor.PickUp(g, g.template, cells, offset, bounds)

	before := 0
	for _, index := range picked {
		if index < a.index {
			before++
		}
	}
	if vacated := geometry.InsertionSlot(a.index-before, len(g.items), g.displacements); vacated < g.slotCount() {
		g.addDisplacement(vacated)
	}
	g.drawSlotsFrom(picked[0], len(cells))
	return false
}

// hoverAt highlights the item under p, or previews an interaction with it
// when a compatible drag is in flight.
func (g *Grid) hoverAt(p geometry.Point) {
	index, ok := g.dataIndexAt(p, false)
	if !ok {
		return
	}
	if !g.supervisor.IsDragging() {
		g.hover = &index
		g.drawCell(index, StateHover, nil)
		g.notify(Event{Name: EventCellHover, Index: index, Item: g.items[index]})
		return
	}
	if !g.supervisor.DraggedCellsAreHomogeneous(nil) {
		return
	}
	g.hover = &index
	if in, ok := g.interaction(); ok {
		g.drawCell(index, StateInteract, interacting(in, g.supervisor.DraggedCells()))
	}
}

// interaction returns the template interaction accepting the current payload.
func (g *Grid) interaction() (domain.Interaction, bool) {
	return g.template.InteractionFor(g.supervisor.NumberOfDraggedCells(), g.supervisor.DraggedCellsAreHomogeneous)
}

// interacting returns the dragged items an interaction receives.
func interacting(in domain.Interaction, cells []supervisor.DraggedCell) []domain.Item {
	items := itemsOf(cells)
	if in.Cardinality != domain.CardinalityMultiple && len(items) > 1 {
		return items[:1]
	}
	return items
}

// itemsOf extracts the item handles of dragged cells.
func itemsOf(cells []supervisor.DraggedCell) []domain.Item {
	items := make([]domain.Item, 0, len(cells))
	for _, cell := range cells {
		items = append(items, cell.Item)
	}
	return items
}

// trackFocus reserves a gap under the supervisor's focus while a drag of this
// grid's template is in flight.
func (g *Grid) trackFocus() {
	if !g.supervisor.IsDragging() || g.locked.Has(domain.CapabilityDrop) ||
		!g.supervisor.DraggedCellsAreHomogeneous(g.template) {
		return
	}
	focus := g.LocalPoint(g.supervisor.CentreOfFocus())
	if !g.inside(focus) {
		return
	}
	if slot, ok := g.layout.SlotAt(focus, true); ok && slot < g.slotCount() {
		g.addDisplacement(slot)
	}
}

// redrawDisplacements repaints from the first slot whose gap changed.
func (g *Grid) redrawDisplacements(previous []int) {
	if slices.Equal(previous, g.displacements) {
		return
	}
	var start int
	switch {
	case len(previous) == 0:
		start = g.displacements[0]
	case len(g.displacements) == 0:
		start = previous[0]
	default:
		start = min(previous[0], g.displacements[0])
	}
	g.drawSlotsFrom(start, max(1, len(previous)-len(g.displacements)))
}

// PointerUp handles a primary release at a content point. Every grid
// receives every release; the supervisor returns unclaimed cells afterwards.
func (g *Grid) PointerUp(p geometry.Point) {
	if g.down != nil {
		a := *g.down
		g.down = nil
		if !g.inside(p) {
			return
		}
		if index, ok := g.dataIndexAt(p, false); ok && index == a.index {
			if !g.locked.Has(domain.CapabilityHover) {
				g.drawCell(index, StateHover, nil)
			}
			g.notify(Event{Name: EventCellClick, Index: index, Item: g.items[index], Point: p})
		}
		return
	}
	if !g.supervisor.IsDragging() {
		return
	}
	focus := g.LocalPoint(g.supervisor.CentreOfFocus())
	if !g.inside(focus) {
		return
	}
	dragged := g.supervisor.DraggedCells()
	acceptable := slices.DeleteFunc(slices.Clone(dragged), func(cell supervisor.DraggedCell) bool {
		return cell.Template != g.template
	})
	if len(acceptable) > 0 && !g.locked.Has(domain.CapabilityDrop) {
		g.drop(focus, acceptable)
		return
	}
	if g.hover != nil {
		g.interact(*g.hover, dragged)
	}
}

// drop claims acceptable cells and splices them in at the focus slot.
func (g *Grid) drop(focus geometry.Point, acceptable []supervisor.DraggedCell) {
	claimed := g.supervisor.ClaimDraggedCells(g, acceptable)
	if len(claimed) == 0 {
		return
	}
	index := len(g.items)
	if slot, ok := g.layout.SlotAt(focus, true); ok && slot < index {
		index = slot
	}
	start := index
	if len(g.displacements) > 0 {
		start = min(start, g.displacements[0])
	}
	additional := len(g.displacements)
	g.displacements = nil

	items := itemsOf(claimed)
	g.items = slices.Insert(g.items, index, items...)
	g.reconcile()
	if !g.lockScrollToBounds() {
		g.drawSlotsFrom(start, additional)
	}
	cells := make([]supervisor.Cell, 0, len(claimed))
	for _, cell := range claimed {
		cells = append(cells, cell.Cell)
	}
	g.notify(Event{Name: EventCellsDrop, Index: index, Items: items, Cells: cells})
}

// interact offers the payload to the hovered item. An accepting listener
// consumes the payload.
func (g *Grid) interact(index int, dragged []supervisor.DraggedCell) {
	if index < 0 || index >= len(g.items) {
		return
	}
	in, ok := g.interaction()
	if !ok {
		return
	}
	ev := Event{
		Name:        EventCellInteract,
		Index:       index,
		Item:        g.items[index],
		Interacting: interacting(in, dragged),
	}
	if g.notify(ev) {
		g.supervisor.ClaimDraggedCells(g, dragged)
	}
	g.drawCell(index, 0, nil)
}

// PointerLeave drops the insertion preview and the hover highlight.
func (g *Grid) PointerLeave() {
	if len(g.displacements) > 0 && !g.locked.Has(domain.CapabilityDrop) {
		start, additional := g.displacements[0], len(g.displacements)
		g.displacements = nil
		g.drawSlotsFrom(start, additional)
	}
	if g.hover != nil {
		index := *g.hover
		g.hover = nil
		g.drawCell(index, 0, nil)
	}
}

// Wheel scrolls the content by dy and clamps the offset.
func (g *Grid) Wheel(dy float64) {
	g.scroll += dy
	if !g.lockScrollToBounds() {
		g.Draw()
	}
}

// lockScrollToBounds clamps the scroll offset to the content height and
// repaints when it changed.
func (g *Grid) lockScrollToBounds() bool {
	limit := g.layout.ContentHeight(g.slotCount()) - g.layout.Size().Height
	clamped := max(0, min(g.scroll, limit))
	if clamped == g.scroll {
		return false
	}
	g.scroll = clamped
	g.Draw()
	return true
}

// ReceiveReturnedCells takes back items released without a claimant and
// inserts them at the earliest gap, or at the end.
func (g *Grid) ReceiveReturnedCells(items []domain.Item) {
	at := min(g.clearDisplacements(), len(g.items))
	g.items = slices.Insert(g.items, at, items...)
	g.reconcile()
	g.drawSlotsFrom(at, 0)
	g.notify(Event{Name: EventCellsReturn, Index: at, Items: slices.Clone(items)})
}

// CellsTransferred cleans up after another grid claimed items from this one.
func (g *Grid) CellsTransferred(items []domain.Item) {
	g.clearDisplacements()
	g.lockScrollToBounds()
	g.notify(Event{Name: EventCellsTransferred, Index: -1, Items: slices.Clone(items)})
}
