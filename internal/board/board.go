// Package board routes surface-global pointer input to a supervisor and the
// grids laid out on one shared surface.
package board

import (
	"github.com/evanschultz/flowgrid/internal/geometry"
	"github.com/evanschultz/flowgrid/internal/grid"
	"github.com/evanschultz/flowgrid/internal/supervisor"
)

// Button identifies a pointer button.
type Button int

// Pointer buttons.
const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Board owns the input routing for a set of grids.
type Board struct {
	sup     *supervisor.Supervisor
	grids   []*grid.Grid
	hovered *grid.Grid
}

// New constructs a board over grids sharing sup.
func New(sup *supervisor.Supervisor, grids ...*grid.Grid) *Board {
	return &Board{sup: sup, grids: grids}
}

// Supervisor returns the shared supervisor.
func (b *Board) Supervisor() *supervisor.Supervisor {
	return b.sup
}

// Add appends a grid.
func (b *Board) Add(g *grid.Grid) {
	b.grids = append(b.grids, g)
}

// GridAt returns the topmost grid whose viewport contains p.
func (b *Board) GridAt(p geometry.Point) (*grid.Grid, bool) {
	for i := len(b.grids) - 1; i >= 0; i-- {
		if b.grids[i].Bounds().Contains(p) {
			return b.grids[i], true
		}
	}
	return nil, false
}

// PointerDown routes a press to the grid under p.
func (b *Board) PointerDown(p geometry.Point, button Button, shift bool) {
	b.sup.PointerMoved(p)
	g, ok := b.GridAt(p)
	if !ok {
		return
	}
	switch button {
	case ButtonPrimary:
		g.PointerDown(g.LocalPoint(p), shift)
	case ButtonSecondary:
		g.ContextMenu(g.LocalPoint(p))
	}
}

// PointerMove updates the supervisor first, then lets every grid react, then
// repaints the overlay.
func (b *Board) PointerMove(p geometry.Point) {
	b.sup.PointerMoved(p)
	under, _ := b.GridAt(p)
	if b.hovered != nil && b.hovered != under {
		b.hovered.PointerLeave()
	}
	b.hovered = under
	for _, g := range b.grids {
		g.PointerMove(g.LocalPoint(p))
	}
	b.sup.Draw()
}

// PointerUp lets every grid try to claim the payload before the supervisor
// returns what is left.
func (b *Board) PointerUp(p geometry.Point, button Button) {
	if button != ButtonPrimary {
		return
	}
	b.sup.PointerMoved(p)
	for _, g := range b.grids {
		g.PointerUp(g.LocalPoint(p))
	}
	b.sup.PointerReleased()
}

// PointerLeave reports that the pointer left the surface.
func (b *Board) PointerLeave() {
	if b.hovered != nil {
		b.hovered.PointerLeave()
		b.hovered = nil
	}
}

// Wheel scrolls the grid under p.
func (b *Board) Wheel(p geometry.Point, dy float64) {
	if g, ok := b.GridAt(p); ok {
		g.Wheel(dy)
	}
}

// Resize repaints everything after the surface changed size.
func (b *Board) Resize() {
	for _, g := range b.grids {
		g.Draw()
	}
	b.sup.Resize()
}

// Draw repaints every grid and the overlay.
func (b *Board) Draw() {
	for _, g := range b.grids {
		g.Draw()
	}
	b.sup.Draw()
}
