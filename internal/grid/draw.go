package grid

import (
	"slices"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
)

// VisualState is a bit-set of highlight states passed to the renderer.
type VisualState uint8

// Visual states.
const (
	StateHover VisualState = 1 << iota
	StateSelect
	StateInteract
	StateDrag
)

// Has reports whether every bit of other is set.
func (s VisualState) Has(other VisualState) bool {
	return s&other == other
}

// Cell is one cell handed to the renderer. Position is relative to the grid
// viewport with scrolling already applied.
type Cell struct {
	Item        domain.Item
	Index       int
	Position    geometry.Point
	Size        geometry.Size
	States      VisualState
	Interacting []domain.Item
}

// Renderer paints a grid.
type Renderer interface {
	// DrawCell paints one item.
	DrawCell(cell Cell)
	// DrawRegion fills region with the background of a grid of size total.
	DrawRegion(total geometry.Size, region geometry.Rect)
}

// Attachment is a fixed decoration drawn in viewport coordinates. OnClick
// reports whether a background click at p was absorbed.
type Attachment struct {
	Position geometry.Point
	Size     geometry.Size
	Draw     func(position geometry.Point, size geometry.Size)
	OnClick  func(p geometry.Point) bool
}

// contains reports whether a viewport point lies on the attachment.
func (a Attachment) contains(p geometry.Point) bool {
	return geometry.Rect{Origin: a.Position, Size: a.Size}.Contains(p)
}

// nopRenderer discards drawing.
type nopRenderer struct{}

// DrawCell discards the cell.
func (nopRenderer) DrawCell(Cell) {}

// DrawRegion discards the region.
func (nopRenderer) DrawRegion(geometry.Size, geometry.Rect) {}

// Draw repaints the whole grid.
func (g *Grid) Draw() {
	size := g.layout.Size()
	g.renderer.DrawRegion(size, geometry.Rect{Size: size})
	for _, attachment := range g.attachments {
		if attachment.Draw != nil {
			attachment.Draw(attachment.Position, attachment.Size)
		}
	}
	g.drawSlotsFrom(0, 0)
}

// RedrawCellAtIndex repaints the item at a data index.
func (g *Grid) RedrawCellAtIndex(index int) {
	g.drawCell(index, 0, nil)
}

// RedrawCell repaints the first visible occurrence of item.
func (g *Grid) RedrawCell(item domain.Item) {
	if index := slices.Index(g.items, item); index >= 0 {
		g.RedrawCellAtIndex(index)
	}
}

// drawSlot paints one display slot, filling gaps and empty slots with the
// background.
func (g *Grid) drawSlot(slot int, states VisualState, interacting []domain.Item) {
	index, ok := geometry.DataIndex(slot, len(g.items), g.displacements)
	position := g.layout.SlotOrigin(slot, g.scroll)
	if !ok {
		g.renderer.DrawRegion(g.layout.Size(), geometry.Rect{Origin: position, Size: g.layout.Cell})
		return
	}
	if slices.Contains(g.selected, index) {
		states |= StateSelect
	}
	g.renderer.DrawCell(Cell{
		Item:        g.items[index],
		Index:       index,
		Position:    position,
		Size:        g.layout.Cell,
		States:      states,
		Interacting: interacting,
	})
}

// drawSlotsFrom paints every slot from start to the end of the content plus
// additional trailing slots that may have just been vacated.
func (g *Grid) drawSlotsFrom(start, additional int) {
	end := len(g.items) + len(g.displacements) + additional
	for slot := max(start, 0); slot < end; slot++ {
		g.drawSlot(slot, 0, nil)
	}
}

// drawCell paints the item at a data index.
func (g *Grid) drawCell(index int, states VisualState, interacting []domain.Item) {
	if index < 0 {
		return
	}
	slot, ok := geometry.Slot(index, len(g.items), g.displacements)
	if !ok {
		slot = index + len(g.displacements)
	}
	g.drawSlot(slot, states, interacting)
}
