// Package supervisor coordinates drag payloads and rubber-band selection
// across every grid sharing one drawing surface.
package supervisor

import (
	"math"
	"slices"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
)

// stackOffset is the per-cell offset applied when drawing a multi-cell drag.
const stackOffset = 8

// Source is a grid that can hand cells to the supervisor and take them back.
type Source interface {
	// ReceiveReturnedCells takes back items released without a claimant.
	ReceiveReturnedCells(items []domain.Item)
	// CellsTransferred reports that another grid claimed items from this one.
	CellsTransferred(items []domain.Item)
	// Bounds returns the on-surface rectangle of the grid viewport.
	Bounds() geometry.Rect
}

// Overlay paints the supervisor layer above every grid.
type Overlay interface {
	Clear()
	DrawSelection(r geometry.Rect)
	DrawDragged(cell DraggedCell, position geometry.Point)
}

// Cell is one item picked up from a grid together with its data index at the
// time of pickup.
type Cell struct {
	Item  domain.Item
	Index int
}

// DraggedCell is one in-flight cell.
type DraggedCell struct {
	Source   Source
	Template *domain.Template
	Cell
	Offset geometry.Point
	// Bounds confines where the cell is drawn, relative to the source origin.
	Bounds *geometry.Rect

	id uint64
}

// selection is the single active rubber band.
type selection struct {
	owner Source
	start geometry.Point
	end   geometry.Point
}

// Supervisor owns the drag payload, the rubber band, and the pointer.
type Supervisor struct {
	cells     []DraggedCell
	selection *selection
	pointer   geometry.Point
	overlay   Overlay
	nextID    uint64
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithOverlay sets the overlay painter.
func WithOverlay(overlay Overlay) Option {
	return func(s *Supervisor) {
		s.overlay = overlay
	}
}

// New constructs a supervisor.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PickUp appends cells to the in-flight payload.
func (s *Supervisor) PickUp(source Source, template *domain.Template, cells []Cell, offset geometry.Point, bounds *geometry.Rect) {
	for _, cell := range cells {
		s.nextID++
		var confined *geometry.Rect
		if bounds != nil {
			b := *bounds
			confined = &b
		}
		s.cells = append(s.cells, DraggedCell{
			Source:   source,
			Template: template,
			Cell:     cell,
			Offset:   offset,
			Bounds:   confined,
			id:       s.nextID,
		})
	}
}

// DraggedCells returns a snapshot of the in-flight payload.
func (s *Supervisor) DraggedCells() []DraggedCell {
	return slices.Clone(s.cells)
}

// ClaimDraggedCells removes the named cells from the payload and returns the
// ones still present. Sources that lose cells to a different requester are
// notified once with their transferred items.
func (s *Supervisor) ClaimDraggedCells(requester Source, subset []DraggedCell) []DraggedCell {
	var claimed []DraggedCell
	for _, want := range subset {
		i := slices.IndexFunc(s.cells, func(c DraggedCell) bool { return c.id == want.id })
		if i < 0 {
			continue
		}
		claimed = append(claimed, s.cells[i])
		s.cells = slices.Delete(s.cells, i, i+1)
	}
	if len(claimed) == 0 {
		return nil
	}
	for _, group := range groupBySource(claimed) {
		if group.source != requester {
			group.source.CellsTransferred(group.items)
		}
	}
	s.Draw()
	return claimed
}

// IsDragging reports whether any cell is in flight.
func (s *Supervisor) IsDragging() bool {
	return len(s.cells) > 0
}

// NumberOfDraggedCells returns the payload size.
func (s *Supervisor) NumberOfDraggedCells() int {
	return len(s.cells)
}

// DraggedCellsAreHomogeneous reports whether every in-flight cell shares one
// template and, when template is non-nil, whether that template is it.
func (s *Supervisor) DraggedCellsAreHomogeneous(template *domain.Template) bool {
	if len(s.cells) == 0 {
		return true
	}
	first := s.cells[0].Template
	if template != nil && first != template {
		return false
	}
	for _, cell := range s.cells[1:] {
		if cell.Template != first {
			return false
		}
	}
	return true
}

// CentreOfFocus returns the point grids use for drop and interaction
// targeting: the centre of the first dragged cell, or the raw pointer when
// nothing is in flight.
func (s *Supervisor) CentreOfFocus() geometry.Point {
	if len(s.cells) == 0 {
		return s.pointer
	}
	cell := s.cells[0]
	position := s.confined(cell, s.pointer.Sub(cell.Offset))
	if cell.Template != nil {
		position.X += cell.Template.Size.Width / 2
		position.Y += cell.Template.Size.Height / 2
	}
	return position
}

// confined limits a dragged cell's drawn position to its bounds.
func (s *Supervisor) confined(cell DraggedCell, position geometry.Point) geometry.Point {
	if cell.Bounds == nil || cell.Source == nil {
		return position
	}
	origin := cell.Source.Bounds().Origin.Add(cell.Bounds.Origin)
	var size geometry.Size
	if cell.Template != nil {
		size = cell.Template.Size
	}
	return geometry.Point{
		X: math.Max(origin.X, math.Min(position.X, origin.X+cell.Bounds.Size.Width-size.Width)),
		Y: math.Max(origin.Y, math.Min(position.Y, origin.Y+cell.Bounds.Size.Height-size.Height)),
	}
}

// PointerMoved records the surface pointer and drags the rubber-band end,
// clamped to the owning grid.
func (s *Supervisor) PointerMoved(p geometry.Point) {
	s.pointer = p
	if s.selection == nil {
		return
	}
	end := s.selection.owner.Bounds().Clamp(p)
	s.selection.end = geometry.Point{X: math.Round(end.X), Y: math.Round(end.Y)}
}

// PointerReleased returns every unclaimed cell to its source and ends any
// rubber band. Cells from one source are returned together in payload order.
func (s *Supervisor) PointerReleased() {
	redraw := false
	if len(s.cells) > 0 {
		groups := groupBySource(s.cells)
		s.cells = nil
		for _, group := range groups {
			if group.source != nil {
				group.source.ReceiveReturnedCells(group.items)
			}
		}
		redraw = true
	}
	if s.selection != nil {
		s.selection = nil
		redraw = true
	}
	if redraw {
		s.Draw()
	}
}

// StartSelection anchors a rubber band for owner at the current pointer.
func (s *Supervisor) StartSelection(owner Source) {
	s.selection = &selection{owner: owner, start: s.pointer, end: s.pointer}
}

// EndSelection ends the rubber band if owner holds it.
func (s *Supervisor) EndSelection(owner Source) bool {
	if s.selection == nil || s.selection.owner != owner {
		return false
	}
	s.selection = nil
	s.Draw()
	return true
}

// IsSelecting reports whether any rubber band is active.
func (s *Supervisor) IsSelecting() bool {
	return s.selection != nil
}

// Selection returns owner's rubber band normalized to a non-negative size in
// surface coordinates.
func (s *Supervisor) Selection(owner Source) (geometry.Rect, bool) {
	if s.selection == nil || s.selection.owner != owner {
		return geometry.Rect{}, false
	}
	return geometry.RectFromCorners(s.selection.start, s.selection.end), true
}

// Draw repaints the overlay: the rubber band first, then the dragged cells
// from last to first with a small stacking offset.
func (s *Supervisor) Draw() {
	if s.overlay == nil {
		return
	}
	s.overlay.Clear()
	if s.selection != nil {
		r := geometry.RectFromCorners(s.selection.start, s.selection.end)
		if r.Size.Width > 0 && r.Size.Height > 0 {
			s.overlay.DrawSelection(r)
		}
	}
	for i := len(s.cells) - 1; i >= 0; i-- {
		cell := s.cells[i]
		stack := float64(stackOffset * min(i, 2))
		position := s.pointer.Sub(cell.Offset).Add(geometry.Point{X: stack, Y: stack})
		s.overlay.DrawDragged(cell, s.confined(cell, position))
	}
}

// Resize repaints the overlay after the surface changed size.
func (s *Supervisor) Resize() {
	s.Draw()
}

// sourceGroup collects the items of one source in payload order.
type sourceGroup struct {
	source Source
	items  []domain.Item
}

func groupBySource(cells []DraggedCell) []sourceGroup {
	var groups []sourceGroup
	for _, cell := range cells {
		i := slices.IndexFunc(groups, func(g sourceGroup) bool { return g.source == cell.Source })
		if i < 0 {
			groups = append(groups, sourceGroup{source: cell.Source})
			i = len(groups) - 1
		}
		groups[i].items = append(groups[i].items, cell.Item)
	}
	return groups
}
