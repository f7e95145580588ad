// Package grid implements one scrollable grid of same-template items that
// supports selection, drag and drop between grids, and filtering.
package grid

import (
	"errors"
	"slices"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/filter"
	"github.com/evanschultz/flowgrid/internal/geometry"
	"github.com/evanschultz/flowgrid/internal/supervisor"
)

// Construction errors.
var (
	ErrNilTemplate   = errors.New("grid template is required")
	ErrInvalidLayout = errors.New("grid layout is invalid")
	ErrNilSupervisor = errors.New("grid supervisor is required")
)

// Config holds the construction parameters of a grid.
type Config struct {
	Template          *domain.Template
	Items             []domain.Item
	Rows              int
	Columns           int
	Margin            geometry.Insets
	Spacing           geometry.Spacing
	Selection         domain.SelectionMode
	ConstrainToBounds bool
}

// Option configures a Grid.
type Option func(*Grid)

// WithRenderer sets the renderer used for every repaint.
func WithRenderer(renderer Renderer) Option {
	return func(g *Grid) {
		if renderer != nil {
			g.renderer = renderer
		}
	}
}

// WithListener registers a listener for one notification.
func WithListener(name EventName, listener Listener) Option {
	return func(g *Grid) {
		g.On(name, listener)
	}
}

// WithAttachments adds fixed decorations.
func WithAttachments(attachments ...Attachment) Option {
	return func(g *Grid) {
		g.attachments = append(g.attachments, attachments...)
	}
}

// WithOrigin places the grid viewport on the shared surface.
func WithOrigin(origin geometry.Point) Option {
	return func(g *Grid) {
		g.origin = origin
	}
}

// anchor is a pending drag recorded on pointer-down over an item.
type anchor struct {
	point geometry.Point
	index int
}

// Grid is one interactive grid.
type Grid struct {
	template      *domain.Template
	items         []domain.Item
	selected      []int
	layout        geometry.Layout
	selectionMode domain.SelectionMode
	constrain     bool
	scroll        float64
	locked        domain.Capability
	filtered      *filter.State
	predicate     filter.Predicate
	displacements []int
	attachments   []Attachment
	listeners     map[EventName]Listener
	supervisor    *supervisor.Supervisor
	renderer      Renderer
	origin        geometry.Point
	down          *anchor
	hover         *int
}

// New constructs a grid and paints it once.
func New(sup *supervisor.Supervisor, cfg Config, opts ...Option) (*Grid, error) {
	if sup == nil {
		return nil, ErrNilSupervisor
	}
	if cfg.Template == nil {
		return nil, ErrNilTemplate
	}
	layout := geometry.Layout{
		Rows:    cfg.Rows,
		Columns: cfg.Columns,
		Margin:  cfg.Margin,
		Spacing: cfg.Spacing,
		Cell:    cfg.Template.Size,
	}
	if !layout.Valid() {
		return nil, ErrInvalidLayout
	}
	g := &Grid{
		template:      cfg.Template,
		items:         slices.Clone(cfg.Items),
		layout:        layout,
		selectionMode: cfg.Selection,
		constrain:     cfg.ConstrainToBounds,
		listeners:     map[EventName]Listener{},
		supervisor:    sup,
		renderer:      nopRenderer{},
	}
	if g.selectionMode == "" {
		g.selectionMode = domain.SelectionNone
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.Draw()
	return g, nil
}

// Template returns the grid's item template.
func (g *Grid) Template() *domain.Template {
	return g.template
}

// Layout returns the grid layout.
func (g *Grid) Layout() geometry.Layout {
	return g.layout
}

// Items returns a copy of the current, possibly filtered, items.
func (g *Grid) Items() []domain.Item {
	return slices.Clone(g.items)
}

// SourceItems returns every item including those hidden by an active filter,
// in source order.
func (g *Grid) SourceItems() []domain.Item {
	if backing := g.filtered.Backing(); backing != nil {
		return backing
	}
	return slices.Clone(g.items)
}

// Selected returns the selected data indices in ascending order.
func (g *Grid) Selected() []int {
	out := slices.Clone(g.selected)
	slices.Sort(out)
	return out
}

// Displacements returns the display slots currently reserved as gaps.
func (g *Grid) Displacements() []int {
	return slices.Clone(g.displacements)
}

// Locked returns the locked capabilities.
func (g *Grid) Locked() domain.Capability {
	return g.locked
}

// Hovered returns the hovered data index.
func (g *Grid) Hovered() (int, bool) {
	if g.hover == nil {
		return -1, false
	}
	return *g.hover, true
}

// Filtered reports whether a filter is installed.
func (g *Grid) Filtered() bool {
	return g.filtered != nil
}

// Scroll returns the vertical scroll offset.
func (g *Grid) Scroll() float64 {
	return g.scroll
}

// Origin returns the on-surface origin of the viewport.
func (g *Grid) Origin() geometry.Point {
	return g.origin
}

// Bounds returns the on-surface rectangle of the viewport.
func (g *Grid) Bounds() geometry.Rect {
	return geometry.Rect{Origin: g.origin, Size: g.layout.Size()}
}

// LocalPoint converts a surface point into grid content coordinates.
func (g *Grid) LocalPoint(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X - g.origin.X, Y: p.Y - g.origin.Y + g.scroll}
}

// inside reports whether a content point lies in the visible viewport.
func (g *Grid) inside(p geometry.Point) bool {
	size := g.layout.Size()
	y := p.Y - g.scroll
	return p.X >= 0 && y >= 0 && p.X < size.Width && y < size.Height
}

// dataIndexAt resolves a content point to a data index.
func (g *Grid) dataIndexAt(p geometry.Point, overflow bool) (int, bool) {
	slot, ok := g.layout.SlotAt(p, overflow)
	if !ok {
		return -1, false
	}
	return geometry.DataIndex(slot, len(g.items), g.displacements)
}

// slotCount returns the number of display slots in use.
func (g *Grid) slotCount() int {
	return len(g.items) + len(g.displacements)
}

// addDisplacement reserves slot as a gap, keeping the set sorted and unique.
func (g *Grid) addDisplacement(slot int) {
	i, found := slices.BinarySearch(g.displacements, slot)
	if !found {
		g.displacements = slices.Insert(g.displacements, i, slot)
	}
}

// clearDisplacements drops every gap and returns the earliest affected data
// position, or the item count when there were none.
func (g *Grid) clearDisplacements() int {
	minimum := len(g.items)
	additional := len(g.displacements)
	if additional > 0 && g.displacements[0] < minimum {
		minimum = g.displacements[0]
	}
	g.displacements = nil
	g.drawSlotsFrom(minimum, additional)
	return minimum
}

// reconcile folds structural edits back through an installed filter.
func (g *Grid) reconcile() {
	g.filtered.Reconcile(g.items)
}

// DeselectAll clears the selection and repaints the previously selected cells.
func (g *Grid) DeselectAll() {
	previous := g.selected
	g.selected = nil
	for _, index := range previous {
		g.drawCell(index, 0, nil)
	}
}
